package core

import (
	"github.com/google/uuid"
)

// Cycle labels offered by the tontine form. Any other label is accepted and
// simply never reported as due.
const (
	Daily   Cycle = "Quotidien"
	Weekly  Cycle = "Hebdomadaire"
	Monthly Cycle = "Mensuel"
	Yearly  Cycle = "Annuel"
)

type (
	Cycle string

	// Tontine is a rotating savings group. Members carry a payment flag for
	// the current turn only; closed turns live in History.
	Tontine struct {
		ID          uuid.UUID
		Name        string
		Icon        string
		Amount      Money // Default contribution per turn
		Members     []TontineMember
		Turns       int
		CurrentTurn int
		Cycle       Cycle
		History     []TontineHistoryEntry
		Created     Date // Anchor for dueness until the first turn closes
	}

	TontineMember struct {
		ID      uuid.UUID
		Name    string
		Amount  Money
		HasPaid bool
	}

	// TontineHistoryEntry records one closed turn. Entries are never modified.
	TontineHistoryEntry struct {
		Turn    int              `json:"turn"`
		Date    Date             `json:"date"`
		Amounts []MemberSnapshot `json:"amounts"`
	}

	MemberSnapshot struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
		Paid   bool   `json:"paid"`
	}

	NewTontine struct {
		Name    string
		Icon    string
		Amount  Money
		Members []NewTontineMember
		Cycle   Cycle
	}

	NewTontineMember struct {
		Name    string
		Amount  Money
		HasPaid bool
	}
)

// Clone returns a deep copy so callers cannot reach the store's slices.
func (t Tontine) Clone() Tontine {
	out := t
	out.Members = append([]TontineMember(nil), t.Members...)
	out.History = make([]TontineHistoryEntry, len(t.History))
	for i, h := range t.History {
		out.History[i] = h.Clone()
	}
	return out
}

func (h TontineHistoryEntry) Clone() TontineHistoryEntry {
	out := h
	out.Amounts = append([]MemberSnapshot(nil), h.Amounts...)
	return out
}

// Snapshot captures every member's current contribution state.
func (t Tontine) Snapshot() []MemberSnapshot {
	out := make([]MemberSnapshot, len(t.Members))
	for i, m := range t.Members {
		out[i] = MemberSnapshot{Name: m.Name, Amount: m.Amount, Paid: m.HasPaid}
	}
	return out
}

// NextTurn is the number the turn in progress will get once closed.
func (t Tontine) NextTurn() int {
	return t.CurrentTurn + 1
}

func (t Tontine) PaidCount() int {
	n := 0
	for _, m := range t.Members {
		if m.HasPaid {
			n++
		}
	}
	return n
}

// Collected sums the contributions of members who paid this turn.
func (t Tontine) Collected() Money {
	var total Money
	for _, m := range t.Members {
		if m.HasPaid {
			total = total.Add(m.Amount)
		}
	}
	return total
}

// Expected sums every member's contribution for a turn.
func (t Tontine) Expected() Money {
	var total Money
	for _, m := range t.Members {
		total = total.Add(m.Amount)
	}
	return total
}

// LastTurnDate is the date the latest turn was closed, zero if none was.
func (t Tontine) LastTurnDate() Date {
	if len(t.History) == 0 {
		return Date{}
	}
	return t.History[len(t.History)-1].Date
}

// Collected sums paid contributions recorded for the closed turn.
func (h TontineHistoryEntry) Collected() Money {
	var total Money
	for _, a := range h.Amounts {
		if a.Paid {
			total = total.Add(a.Amount)
		}
	}
	return total
}
