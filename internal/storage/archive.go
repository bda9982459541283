// Package storage keeps an explicit SQLite archive of the session state.
// The archive is written on request (usually at shutdown) and read back at
// startup; the store never depends on it for consistency.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteArchive struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
	now     func() time.Time
}

// NewSQLiteArchive opens (creating if needed) the archive at dbPath and
// applies pending schema migrations.
func NewSQLiteArchive(dbPath string, logger *log.Logger) (*SQLiteArchive, error) {
	if logger == nil {
		logger = log.FromSlog(nil, log.ComponentStorage)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteArchive{
		db:      db,
		queries: New(db),
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (a *SQLiteArchive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SaveSnapshot replaces the archived state with snap in a single transaction.
func (a *SQLiteArchive) SaveSnapshot(ctx context.Context, snap core.Snapshot) (err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				a.logger.ErrorContext(ctx, "Failed to roll back archive", log.FieldError, rbErr)
			}
		}
	}()

	q := a.queries.WithTx(tx)
	if err = q.ClearArchive(ctx); err != nil {
		return fmt.Errorf("clear archive: %w", err)
	}
	if err = writeSnapshot(ctx, q, snap); err != nil {
		return err
	}
	err = q.UpsertArchiveMeta(ctx, ArchiveMeta{
		SavedAt:      a.now().UTC().Format(time.RFC3339),
		Transactions: int64(len(snap.Transactions)),
		Tontines:     int64(len(snap.Tontines)),
	})
	if err != nil {
		return fmt.Errorf("update archive meta: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit archive: %w", err)
	}

	a.logger.InfoContext(ctx, "State archived",
		log.FieldOperation, log.OpExport,
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"budgets", len(snap.Budgets),
		"savings_goals", len(snap.SavingsGoals),
		"tontines", len(snap.Tontines))
	return nil
}

func writeSnapshot(ctx context.Context, q *Queries, snap core.Snapshot) error {
	for i, t := range snap.Transactions {
		err := q.InsertTransaction(ctx, TransactionRow{
			ID:          t.ID.String(),
			Position:    int64(i),
			Type:        string(t.Type),
			Amount:      t.Amount.Francs,
			Category:    t.Category,
			Description: t.Description,
			Date:        t.Date.String(),
			Icon:        t.Icon,
		})
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	for i, c := range snap.Categories {
		err := q.InsertCategory(ctx, CategoryRow{
			ID:        c.ID.String(),
			Position:  int64(i),
			Name:      c.Name,
			Icon:      c.Icon,
			Color:     c.Color,
			Type:      string(c.Type),
			IsDefault: c.IsDefault,
		})
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}
	for i, b := range snap.Budgets {
		err := q.InsertBudget(ctx, BudgetRow{
			ID:          b.ID.String(),
			Position:    int64(i),
			Category:    b.Category,
			Icon:        b.Icon,
			Color:       b.Color,
			LimitAmount: b.Limit.Francs,
			SpentAmount: b.Spent.Francs,
		})
		if err != nil {
			return fmt.Errorf("insert budget %s: %w", b.ID, err)
		}
	}
	for i, g := range snap.SavingsGoals {
		err := q.InsertSavingsGoal(ctx, SavingsGoalRow{
			ID:            g.ID.String(),
			Position:      int64(i),
			Title:         g.Title,
			TargetAmount:  g.Target.Francs,
			CurrentAmount: g.Current.Francs,
			Deadline:      g.Deadline.String(),
			Icon:          g.Icon,
			Color:         g.Color,
			Category:      g.Category,
		})
		if err != nil {
			return fmt.Errorf("insert savings goal %s: %w", g.ID, err)
		}
	}
	for i, t := range snap.Tontines {
		if err := writeTontine(ctx, q, int64(i), t); err != nil {
			return err
		}
	}
	return nil
}

func writeTontine(ctx context.Context, q *Queries, position int64, t core.Tontine) error {
	err := q.InsertTontine(ctx, TontineRow{
		ID:          t.ID.String(),
		Position:    position,
		Name:        t.Name,
		Icon:        t.Icon,
		Amount:      t.Amount.Francs,
		Turns:       int64(t.Turns),
		CurrentTurn: int64(t.CurrentTurn),
		Cycle:       string(t.Cycle),
		Created:     t.Created.String(),
	})
	if err != nil {
		return fmt.Errorf("insert tontine %s: %w", t.ID, err)
	}
	for i, m := range t.Members {
		err := q.InsertTontineMember(ctx, TontineMemberRow{
			ID:        m.ID.String(),
			TontineID: t.ID.String(),
			Position:  int64(i),
			Name:      m.Name,
			Amount:    m.Amount.Francs,
			HasPaid:   m.HasPaid,
		})
		if err != nil {
			return fmt.Errorf("insert member %s of tontine %s: %w", m.ID, t.ID, err)
		}
	}
	for i, h := range t.History {
		amounts, err := json.Marshal(h.Amounts)
		if err != nil {
			return fmt.Errorf("encode history turn %d: %w", h.Turn, err)
		}
		err = q.InsertTontineHistory(ctx, TontineHistoryRow{
			TontineID: t.ID.String(),
			Position:  int64(i),
			Turn:      int64(h.Turn),
			Date:      h.Date.String(),
			Amounts:   string(amounts),
		})
		if err != nil {
			return fmt.Errorf("insert history turn %d of tontine %s: %w", h.Turn, t.ID, err)
		}
	}
	return nil
}

// LoadSnapshot reads the archived state. The boolean is false when nothing
// was ever archived.
func (a *SQLiteArchive) LoadSnapshot(ctx context.Context) (core.Snapshot, bool, error) {
	meta, err := a.queries.GetArchiveMeta(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("get archive meta: %w", err)
	}

	snap, err := readSnapshot(ctx, a.queries)
	if err != nil {
		return core.Snapshot{}, false, err
	}

	a.logger.InfoContext(ctx, "State loaded from archive",
		log.FieldOperation, log.OpRestore,
		"saved_at", meta.SavedAt,
		"transactions", len(snap.Transactions),
		"tontines", len(snap.Tontines))
	return snap, true, nil
}

// SavedAt returns when the archive was last written.
func (a *SQLiteArchive) SavedAt(ctx context.Context) (time.Time, bool, error) {
	meta, err := a.queries.GetArchiveMeta(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get archive meta: %w", err)
	}
	t, err := time.Parse(time.RFC3339, meta.SavedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse saved_at %q: %w", meta.SavedAt, err)
	}
	return t, true, nil
}

func readSnapshot(ctx context.Context, q *Queries) (core.Snapshot, error) {
	var snap core.Snapshot

	txRows, err := q.ListTransactions(ctx)
	if err != nil {
		return snap, fmt.Errorf("list transactions: %w", err)
	}
	for _, r := range txRows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return snap, fmt.Errorf("parse transaction id %q: %w", r.ID, err)
		}
		date, err := parseOptionalDate(r.Date)
		if err != nil {
			return snap, fmt.Errorf("transaction %s: %w", r.ID, err)
		}
		snap.Transactions = append(snap.Transactions, core.Transaction{
			ID:          id,
			Type:        core.Direction(r.Type),
			Amount:      core.FCFA(r.Amount),
			Category:    r.Category,
			Description: r.Description,
			Date:        date,
			Icon:        r.Icon,
		})
	}

	catRows, err := q.ListCategories(ctx)
	if err != nil {
		return snap, fmt.Errorf("list categories: %w", err)
	}
	for _, r := range catRows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return snap, fmt.Errorf("parse category id %q: %w", r.ID, err)
		}
		snap.Categories = append(snap.Categories, core.Category{
			ID:        id,
			Name:      r.Name,
			Icon:      r.Icon,
			Color:     r.Color,
			Type:      core.Direction(r.Type),
			IsDefault: r.IsDefault,
		})
	}

	budgetRows, err := q.ListBudgets(ctx)
	if err != nil {
		return snap, fmt.Errorf("list budgets: %w", err)
	}
	for _, r := range budgetRows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return snap, fmt.Errorf("parse budget id %q: %w", r.ID, err)
		}
		snap.Budgets = append(snap.Budgets, core.Budget{
			ID:       id,
			Category: r.Category,
			Icon:     r.Icon,
			Color:    r.Color,
			Limit:    core.FCFA(r.LimitAmount),
			Spent:    core.FCFA(r.SpentAmount),
		})
	}

	goalRows, err := q.ListSavingsGoals(ctx)
	if err != nil {
		return snap, fmt.Errorf("list savings goals: %w", err)
	}
	for _, r := range goalRows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return snap, fmt.Errorf("parse savings goal id %q: %w", r.ID, err)
		}
		deadline, err := parseOptionalDate(r.Deadline)
		if err != nil {
			return snap, fmt.Errorf("savings goal %s: %w", r.ID, err)
		}
		snap.SavingsGoals = append(snap.SavingsGoals, core.SavingsGoal{
			ID:       id,
			Title:    r.Title,
			Target:   core.FCFA(r.TargetAmount),
			Current:  core.FCFA(r.CurrentAmount),
			Deadline: deadline,
			Icon:     r.Icon,
			Color:    r.Color,
			Category: r.Category,
		})
	}

	tontines, err := readTontines(ctx, q)
	if err != nil {
		return snap, err
	}
	snap.Tontines = tontines
	return snap, nil
}

func readTontines(ctx context.Context, q *Queries) ([]core.Tontine, error) {
	rows, err := q.ListTontines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tontines: %w", err)
	}
	var out []core.Tontine
	byID := make(map[string]int, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parse tontine id %q: %w", r.ID, err)
		}
		created, err := parseOptionalDate(r.Created)
		if err != nil {
			return nil, fmt.Errorf("tontine %s: %w", r.ID, err)
		}
		byID[r.ID] = len(out)
		out = append(out, core.Tontine{
			ID:          id,
			Name:        r.Name,
			Icon:        r.Icon,
			Amount:      core.FCFA(r.Amount),
			Members:     []core.TontineMember{},
			Turns:       int(r.Turns),
			CurrentTurn: int(r.CurrentTurn),
			Cycle:       core.Cycle(r.Cycle),
			History:     []core.TontineHistoryEntry{},
			Created:     created,
		})
	}

	members, err := q.ListTontineMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tontine members: %w", err)
	}
	for _, r := range members {
		i, ok := byID[r.TontineID]
		if !ok {
			continue
		}
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parse member id %q: %w", r.ID, err)
		}
		out[i].Members = append(out[i].Members, core.TontineMember{
			ID:      id,
			Name:    r.Name,
			Amount:  core.FCFA(r.Amount),
			HasPaid: r.HasPaid,
		})
	}

	history, err := q.ListTontineHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tontine history: %w", err)
	}
	for _, r := range history {
		i, ok := byID[r.TontineID]
		if !ok {
			continue
		}
		date, err := parseOptionalDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("history of tontine %s: %w", r.TontineID, err)
		}
		var amounts []core.MemberSnapshot
		if err := json.Unmarshal([]byte(r.Amounts), &amounts); err != nil {
			return nil, fmt.Errorf("decode history turn %d of tontine %s: %w", r.Turn, r.TontineID, err)
		}
		out[i].History = append(out[i].History, core.TontineHistoryEntry{
			Turn:    int(r.Turn),
			Date:    date,
			Amounts: amounts,
		})
	}
	return out, nil
}

func parseOptionalDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}
