package memory

import (
	"context"
	"fmt"
	"sync"

	"xaalis/internal/core"
	"xaalis/internal/sheets"
)

// Sink keeps exported rows in memory. It backs EXPORT_BACKEND=memory and tests.
type Sink struct {
	mu           sync.Mutex
	transactions []core.Transaction
	turns        []sheets.ClosedTurn
}

var _ sheets.Exporter = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

// AppendTransaction stores the row and returns a synthetic row reference.
func (s *Sink) AppendTransaction(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return fmt.Sprintf("mem:ledger:%d", len(s.transactions)), nil
}

func (s *Sink) AppendTurn(_ context.Context, turn sheets.ClosedTurn) (string, error) {
	turn.Entry = turn.Entry.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return fmt.Sprintf("mem:tontine:%d", len(s.turns)), nil
}

func (s *Sink) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

func (s *Sink) Turns() []sheets.ClosedTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.ClosedTurn(nil), s.turns...)
}

// Rows renders everything exported so far the way the sheet sink would.
func (s *Sink) Rows() (ledger [][]any, tontine [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		ledger = append(ledger, sheets.TransactionRow(t))
	}
	for _, turn := range s.turns {
		tontine = append(tontine, sheets.TurnRows(turn)...)
	}
	return ledger, tontine
}
