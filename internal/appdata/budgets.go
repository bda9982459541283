package appdata

import (
	"context"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
	"xaalis/internal/log"
)

func budgetID(b core.Budget) uuid.UUID { return b.ID }

// CreateBudget adds a budget with nothing spent yet.
func (s *Store) CreateBudget(ctx context.Context, in core.NewBudget) core.Budget {
	b := core.Budget{
		ID:       s.newID(),
		Category: in.Category,
		Icon:     in.Icon,
		Color:    in.Color,
		Limit:    in.Limit,
	}

	s.mu.Lock()
	s.budgets = append(s.budgets, b)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentBudgets, log.OpCreate, core.Applied,
		log.NewFields().WithID(b.ID.String()).With(log.FieldCategory, b.Category))
	s.emit(ctx, events.BudgetCreated, b.ID, events.BudgetPayload{Budget: b, Status: b.Status()})
	return b
}

// AdjustSpent adds amount to, or removes it from, the spent value of a budget.
// Removal clamps at zero. Invalid amounts are rejected before any lookup.
func (s *Store) AdjustSpent(ctx context.Context, id uuid.UUID, amount core.Money, dir core.AdjustDirection) (core.Outcome, error) {
	if err := amount.Validate(); err != nil {
		return core.NotFound, err
	}
	if !dir.Valid() {
		return core.NotFound, core.ErrInvalidDirection
	}

	s.mu.Lock()
	i := indexOf(s.budgets, id, budgetID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentBudgets, log.OpAdjust, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound, nil
	}
	s.budgets[i].Adjust(amount, dir)
	b := s.budgets[i]
	s.mu.Unlock()

	s.trace(ctx, log.ComponentBudgets, log.OpAdjust, core.Applied,
		log.NewFields().WithID(id.String()).WithAmount(amount.Francs).
			With(log.FieldDirection, string(dir)).With(log.FieldStatus, string(b.Status())))
	s.emit(ctx, events.BudgetAdjusted, id, events.BudgetPayload{Budget: b, Status: b.Status()})
	return core.Applied, nil
}

// EditBudget merges patch into the budget. Spent is never touched.
func (s *Store) EditBudget(ctx context.Context, id uuid.UUID, patch core.BudgetPatch) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.budgets, id, budgetID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentBudgets, log.OpUpdate, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	patch.Apply(&s.budgets[i])
	b := s.budgets[i]
	s.mu.Unlock()

	s.trace(ctx, log.ComponentBudgets, log.OpUpdate, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.BudgetUpdated, id, events.BudgetPayload{Budget: b, Status: b.Status()})
	return core.Applied
}

func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.budgets, id, budgetID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentBudgets, log.OpDelete, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	b := s.budgets[i]
	s.budgets = remove(s.budgets, i)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentBudgets, log.OpDelete, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.BudgetDeleted, id, events.BudgetPayload{Budget: b, Status: b.Status()})
	return core.Applied
}

func (s *Store) Budgets() []core.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget(nil), s.budgets...)
}

func (s *Store) Budget(id uuid.UUID) (core.Budget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.budgets, id, budgetID); i >= 0 {
		return s.budgets[i], true
	}
	return core.Budget{}, false
}

// BudgetSummary totals every budget.
func (s *Store) BudgetSummary() core.BudgetSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.SummarizeBudgets(s.budgets)
}
