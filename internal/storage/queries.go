package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Row types mirror the archive tables.
type (
	TransactionRow struct {
		ID          string
		Position    int64
		Type        string
		Amount      int64
		Category    string
		Description string
		Date        string
		Icon        string
	}

	CategoryRow struct {
		ID        string
		Position  int64
		Name      string
		Icon      string
		Color     string
		Type      string
		IsDefault bool
	}

	BudgetRow struct {
		ID          string
		Position    int64
		Category    string
		Icon        string
		Color       string
		LimitAmount int64
		SpentAmount int64
	}

	SavingsGoalRow struct {
		ID            string
		Position      int64
		Title         string
		TargetAmount  int64
		CurrentAmount int64
		Deadline      string
		Icon          string
		Color         string
		Category      string
	}

	TontineRow struct {
		ID          string
		Position    int64
		Name        string
		Icon        string
		Amount      int64
		Turns       int64
		CurrentTurn int64
		Cycle       string
		Created     string
	}

	TontineMemberRow struct {
		ID        string
		TontineID string
		Position  int64
		Name      string
		Amount    int64
		HasPaid   bool
	}

	TontineHistoryRow struct {
		TontineID string
		Position  int64
		Turn      int64
		Date      string
		Amounts   string
	}

	ArchiveMeta struct {
		SavedAt      string
		Transactions int64
		Tontines     int64
	}
)

// archiveTables lists the data tables children first.
var archiveTables = []string{
	"tontine_history",
	"tontine_members",
	"tontines",
	"savings_goals",
	"budgets",
	"categories",
	"transactions",
}

func (q *Queries) ClearArchive(ctx context.Context) error {
	for _, table := range archiveTables {
		if _, err := q.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

const insertTransaction = `INSERT INTO transactions (id, position, type, amount, category, description, date, icon)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, r TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		r.ID, r.Position, r.Type, r.Amount, r.Category, r.Description, r.Date, r.Icon)
	return err
}

const listTransactions = `SELECT id, position, type, amount, category, description, date, icon
FROM transactions ORDER BY position`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Type, &i.Amount, &i.Category, &i.Description, &i.Date, &i.Icon); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertCategory = `INSERT INTO categories (id, position, name, icon, color, type, is_default)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertCategory(ctx context.Context, r CategoryRow) error {
	_, err := q.db.ExecContext(ctx, insertCategory,
		r.ID, r.Position, r.Name, r.Icon, r.Color, r.Type, r.IsDefault)
	return err
}

const listCategories = `SELECT id, position, name, icon, color, type, is_default
FROM categories ORDER BY position`

func (q *Queries) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryRow
	for rows.Next() {
		var i CategoryRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Name, &i.Icon, &i.Color, &i.Type, &i.IsDefault); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertBudget = `INSERT INTO budgets (id, position, category, icon, color, limit_amount, spent_amount)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertBudget(ctx context.Context, r BudgetRow) error {
	_, err := q.db.ExecContext(ctx, insertBudget,
		r.ID, r.Position, r.Category, r.Icon, r.Color, r.LimitAmount, r.SpentAmount)
	return err
}

const listBudgets = `SELECT id, position, category, icon, color, limit_amount, spent_amount
FROM budgets ORDER BY position`

func (q *Queries) ListBudgets(ctx context.Context) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BudgetRow
	for rows.Next() {
		var i BudgetRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Category, &i.Icon, &i.Color, &i.LimitAmount, &i.SpentAmount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertSavingsGoal = `INSERT INTO savings_goals (id, position, title, target_amount, current_amount, deadline, icon, color, category)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertSavingsGoal(ctx context.Context, r SavingsGoalRow) error {
	_, err := q.db.ExecContext(ctx, insertSavingsGoal,
		r.ID, r.Position, r.Title, r.TargetAmount, r.CurrentAmount, r.Deadline, r.Icon, r.Color, r.Category)
	return err
}

const listSavingsGoals = `SELECT id, position, title, target_amount, current_amount, deadline, icon, color, category
FROM savings_goals ORDER BY position`

func (q *Queries) ListSavingsGoals(ctx context.Context) ([]SavingsGoalRow, error) {
	rows, err := q.db.QueryContext(ctx, listSavingsGoals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SavingsGoalRow
	for rows.Next() {
		var i SavingsGoalRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Title, &i.TargetAmount, &i.CurrentAmount, &i.Deadline, &i.Icon, &i.Color, &i.Category); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertTontine = `INSERT INTO tontines (id, position, name, icon, amount, turns, current_turn, cycle, created)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTontine(ctx context.Context, r TontineRow) error {
	_, err := q.db.ExecContext(ctx, insertTontine,
		r.ID, r.Position, r.Name, r.Icon, r.Amount, r.Turns, r.CurrentTurn, r.Cycle, r.Created)
	return err
}

const listTontines = `SELECT id, position, name, icon, amount, turns, current_turn, cycle, created
FROM tontines ORDER BY position`

func (q *Queries) ListTontines(ctx context.Context) ([]TontineRow, error) {
	rows, err := q.db.QueryContext(ctx, listTontines)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TontineRow
	for rows.Next() {
		var i TontineRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Name, &i.Icon, &i.Amount, &i.Turns, &i.CurrentTurn, &i.Cycle, &i.Created); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertTontineMember = `INSERT INTO tontine_members (id, tontine_id, position, name, amount, has_paid)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTontineMember(ctx context.Context, r TontineMemberRow) error {
	_, err := q.db.ExecContext(ctx, insertTontineMember,
		r.ID, r.TontineID, r.Position, r.Name, r.Amount, r.HasPaid)
	return err
}

const listTontineMembers = `SELECT id, tontine_id, position, name, amount, has_paid
FROM tontine_members ORDER BY tontine_id, position`

func (q *Queries) ListTontineMembers(ctx context.Context) ([]TontineMemberRow, error) {
	rows, err := q.db.QueryContext(ctx, listTontineMembers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TontineMemberRow
	for rows.Next() {
		var i TontineMemberRow
		if err := rows.Scan(&i.ID, &i.TontineID, &i.Position, &i.Name, &i.Amount, &i.HasPaid); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertTontineHistory = `INSERT INTO tontine_history (tontine_id, position, turn, date, amounts)
VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertTontineHistory(ctx context.Context, r TontineHistoryRow) error {
	_, err := q.db.ExecContext(ctx, insertTontineHistory,
		r.TontineID, r.Position, r.Turn, r.Date, r.Amounts)
	return err
}

const listTontineHistory = `SELECT tontine_id, position, turn, date, amounts
FROM tontine_history ORDER BY tontine_id, position`

func (q *Queries) ListTontineHistory(ctx context.Context) ([]TontineHistoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listTontineHistory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TontineHistoryRow
	for rows.Next() {
		var i TontineHistoryRow
		if err := rows.Scan(&i.TontineID, &i.Position, &i.Turn, &i.Date, &i.Amounts); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertArchiveMeta = `INSERT INTO archive_meta (id, saved_at, transactions, tontines)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at,
    transactions = excluded.transactions,
    tontines = excluded.tontines`

func (q *Queries) UpsertArchiveMeta(ctx context.Context, m ArchiveMeta) error {
	_, err := q.db.ExecContext(ctx, upsertArchiveMeta, m.SavedAt, m.Transactions, m.Tontines)
	return err
}

const getArchiveMeta = `SELECT saved_at, transactions, tontines FROM archive_meta WHERE id = 1`

func (q *Queries) GetArchiveMeta(ctx context.Context) (ArchiveMeta, error) {
	row := q.db.QueryRowContext(ctx, getArchiveMeta)
	var m ArchiveMeta
	err := row.Scan(&m.SavedAt, &m.Transactions, &m.Tontines)
	return m, err
}
