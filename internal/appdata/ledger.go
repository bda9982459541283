package appdata

import (
	"context"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
	"xaalis/internal/log"
)

func transactionID(t core.Transaction) uuid.UUID { return t.ID }

// AddTransaction stores in at the head of the ledger under a fresh id.
// The ledger does not validate; forms call NewTransaction.Validate first.
func (s *Store) AddTransaction(ctx context.Context, in core.NewTransaction) core.Transaction {
	tx := core.Transaction{
		ID:          s.newID(),
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		Icon:        in.Icon,
	}

	s.mu.Lock()
	s.transactions = prepend(s.transactions, tx)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentLedger, log.OpCreate, core.Applied,
		log.NewFields().WithID(tx.ID.String()).WithAmount(tx.Amount.Francs).With(log.FieldCategory, tx.Category))
	s.emit(ctx, events.TransactionAdded, tx.ID, events.TransactionPayload{Transaction: tx})
	return tx
}

// UpdateTransaction merges the set fields of patch into the transaction.
func (s *Store) UpdateTransaction(ctx context.Context, id uuid.UUID, patch core.TransactionPatch) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.transactions, id, transactionID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentLedger, log.OpUpdate, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	patch.Apply(&s.transactions[i])
	tx := s.transactions[i]
	s.mu.Unlock()

	s.trace(ctx, log.ComponentLedger, log.OpUpdate, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.TransactionUpdated, id, events.TransactionPayload{Transaction: tx})
	return core.Applied
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.transactions, id, transactionID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentLedger, log.OpDelete, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	tx := s.transactions[i]
	s.transactions = remove(s.transactions, i)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentLedger, log.OpDelete, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.TransactionDeleted, id, events.TransactionPayload{Transaction: tx})
	return core.Applied
}

// Transactions returns the ledger, newest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

func (s *Store) Transaction(id uuid.UUID) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.transactions, id, transactionID); i >= 0 {
		return s.transactions[i], true
	}
	return core.Transaction{}, false
}

// TransactionTotals sums income and expenses over the whole ledger.
func (s *Store) TransactionTotals() core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.SumTransactions(s.transactions)
}
