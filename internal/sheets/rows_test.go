package sheets

import (
	"testing"

	"github.com/google/uuid"

	"xaalis/internal/core"
)

func TestTransactionRow(t *testing.T) {
	id := uuid.New()
	row := TransactionRow(core.Transaction{
		ID:          id,
		Type:        core.Expense,
		Amount:      core.FCFA(2500),
		Category:    "Transport",
		Description: "Car rapide Dakar-Pikine",
		Date:        core.NewDate(2025, 1, 25),
	})

	want := []any{"2025-01-25", "Dépense", "Transport", "Car rapide Dakar-Pikine", int64(2500), id.String()}
	if len(row) != len(want) || len(row) != len(TransactionHeader) {
		t.Fatalf("unexpected row length %d", len(row))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestTurnRows(t *testing.T) {
	rows := TurnRows(ClosedTurn{
		TontineName: "Tontine du quartier",
		Cycle:       core.Monthly,
		Entry: core.TontineHistoryEntry{
			Turn: 2,
			Date: core.NewDate(2025, 2, 1),
			Amounts: []core.MemberSnapshot{
				{Name: "Awa", Amount: core.FCFA(10000), Paid: true},
				{Name: "Moussa", Amount: core.FCFA(10000), Paid: false},
			},
		},
	})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][4] != "Awa" || rows[0][6] != "Payé" || rows[1][6] != "Non payé" {
		t.Errorf("unexpected rows %v", rows)
	}
	if rows[1][2] != 2 || rows[1][3] != "2025-02-01" || len(rows[1]) != len(TurnHeader) {
		t.Errorf("unexpected turn columns %v", rows[1])
	}
}

func TestDirectionLabel(t *testing.T) {
	if directionLabel(core.Income) != "Revenu" || directionLabel("transfer") != "transfer" {
		t.Error("unexpected direction labels")
	}
}
