package sheets

import (
	"xaalis/internal/core"
)

// Column headers of the exported sheets.
var (
	TransactionHeader = []any{"Date", "Type", "Catégorie", "Description", "Montant (FCFA)", "ID"}
	TurnHeader        = []any{"Tontine", "Cycle", "Tour", "Date", "Membre", "Montant (FCFA)", "Statut"}
)

// TransactionRow lays out one ledger entry as a sheet row.
func TransactionRow(t core.Transaction) []any {
	return []any{
		t.Date.String(),
		directionLabel(t.Type),
		t.Category,
		t.Description,
		t.Amount.Francs,
		t.ID.String(),
	}
}

// TurnRows lays out a closed turn, one row per member snapshot.
func TurnRows(turn ClosedTurn) [][]any {
	rows := make([][]any, 0, len(turn.Entry.Amounts))
	for _, a := range turn.Entry.Amounts {
		status := "Non payé"
		if a.Paid {
			status = "Payé"
		}
		rows = append(rows, []any{
			turn.TontineName,
			string(turn.Cycle),
			turn.Entry.Turn,
			turn.Entry.Date.String(),
			a.Name,
			a.Amount.Francs,
			status,
		})
	}
	return rows
}

func directionLabel(d core.Direction) string {
	switch d {
	case core.Income:
		return "Revenu"
	case core.Expense:
		return "Dépense"
	default:
		return string(d)
	}
}
