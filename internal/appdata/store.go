// Package appdata holds the shared financial state of a session: the ledger,
// categories, budgets, savings goals and tontines, together with the
// operations that keep them consistent.
//
// Every mutation runs inside one critical section, so a category delete and
// its ledger cascade, or a tontine turn advance and its payment reset, are
// never observed half-applied. Readers always receive copies.
package appdata

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
	"xaalis/internal/log"
)

// Store is the single state container handed to presentation code.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction // newest first
	categories   []core.Category
	budgets      []core.Budget
	goals        []core.SavingsGoal
	tontines     []core.Tontine

	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher sends change-feed events to p after each applied mutation.
// p runs on the mutating goroutine; network publishers should be wrapped in
// events.NewAsync.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for history dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides id allocation.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		publisher: events.Nop{},
		logger:    log.FromSlog(nil, log.ComponentApp),
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromSnapshot returns a store holding a copy of snap.
func NewFromSnapshot(snap core.Snapshot, opts ...Option) *Store {
	s := New(opts...)
	s.Restore(snap)
	return s
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Snapshot{
		Transactions: append([]core.Transaction(nil), s.transactions...),
		Categories:   append([]core.Category(nil), s.categories...),
		Budgets:      append([]core.Budget(nil), s.budgets...),
		SavingsGoals: append([]core.SavingsGoal(nil), s.goals...),
		Tontines:     cloneTontines(s.tontines),
	}
}

// Restore replaces the whole state with a copy of snap.
func (s *Store) Restore(snap core.Snapshot) {
	s.mu.Lock()
	s.transactions = append([]core.Transaction(nil), snap.Transactions...)
	s.categories = append([]core.Category(nil), snap.Categories...)
	s.budgets = append([]core.Budget(nil), snap.Budgets...)
	s.goals = append([]core.SavingsGoal(nil), snap.SavingsGoals...)
	s.tontines = cloneTontines(snap.Tontines)
	s.mu.Unlock()

	s.logger.Info("State restored",
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"budgets", len(snap.Budgets),
		"savings_goals", len(snap.SavingsGoals),
		"tontines", len(snap.Tontines))
}

// emit publishes after the lock has been released. Feed failures never undo
// or fail the mutation that produced them.
func (s *Store) emit(ctx context.Context, t events.Type, id uuid.UUID, payload any) {
	ev, err := events.New(t, id, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build event", log.FieldEventType, string(t), log.FieldError, err)
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event", log.FieldEventType, string(t), log.FieldError, err)
	}
}

func (s *Store) trace(ctx context.Context, component, op string, outcome core.Outcome, fields log.LogFields) {
	if fields == nil {
		fields = log.NewFields()
	}
	s.logger.WithComponent(component).Operation(ctx, op, fields.WithOutcome(outcome.String()))
}

func cloneTontines(in []core.Tontine) []core.Tontine {
	if in == nil {
		return nil
	}
	out := make([]core.Tontine, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

func indexOf[T any](items []T, id uuid.UUID, idOf func(T) uuid.UUID) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func remove[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
