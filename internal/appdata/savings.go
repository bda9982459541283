package appdata

import (
	"context"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
	"xaalis/internal/log"
)

func goalID(g core.SavingsGoal) uuid.UUID { return g.ID }

// CreateSavingsGoal validates in and stores a goal with nothing saved.
func (s *Store) CreateSavingsGoal(ctx context.Context, in core.NewSavingsGoal) (core.SavingsGoal, error) {
	if err := in.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g := core.SavingsGoal{
		ID:       s.newID(),
		Title:    in.Title,
		Target:   in.Target,
		Deadline: in.Deadline,
		Icon:     in.Icon,
		Color:    in.Color,
		Category: in.Category,
	}

	s.mu.Lock()
	s.goals = prepend(s.goals, g)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentSavings, log.OpCreate, core.Applied,
		log.NewFields().WithID(g.ID.String()).WithAmount(g.Target.Francs))
	s.emit(ctx, events.SavingsGoalCreated, g.ID, events.SavingsGoalPayload{Goal: g, Completed: g.Completed()})
	return g, nil
}

// Deposit adds amount to the goal's saved value. Deposits keep working after
// the target is reached.
func (s *Store) Deposit(ctx context.Context, id uuid.UUID, amount core.Money) (core.Outcome, error) {
	return s.moveSavings(ctx, id, amount, log.OpDeposit, events.SavingsDeposited, core.Money.Add)
}

// Withdraw removes amount from the goal's saved value, clamping at zero.
func (s *Store) Withdraw(ctx context.Context, id uuid.UUID, amount core.Money) (core.Outcome, error) {
	return s.moveSavings(ctx, id, amount, log.OpWithdraw, events.SavingsWithdrawn, core.Money.SubClamped)
}

func (s *Store) moveSavings(ctx context.Context, id uuid.UUID, amount core.Money, op string, et events.Type, apply func(core.Money, core.Money) core.Money) (core.Outcome, error) {
	if err := amount.Validate(); err != nil {
		return core.NotFound, err
	}

	s.mu.Lock()
	i := indexOf(s.goals, id, goalID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentSavings, op, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound, nil
	}
	s.goals[i].Current = apply(s.goals[i].Current, amount)
	g := s.goals[i]
	s.mu.Unlock()

	s.trace(ctx, log.ComponentSavings, op, core.Applied,
		log.NewFields().WithID(id.String()).WithAmount(amount.Francs))
	s.emit(ctx, et, id, events.SavingsGoalPayload{Goal: g, Completed: g.Completed()})
	return core.Applied, nil
}

// EditSavingsGoal merges patch into the goal. Current is never touched.
func (s *Store) EditSavingsGoal(ctx context.Context, id uuid.UUID, patch core.SavingsGoalPatch) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.goals, id, goalID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentSavings, log.OpUpdate, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	patch.Apply(&s.goals[i])
	g := s.goals[i]
	s.mu.Unlock()

	s.trace(ctx, log.ComponentSavings, log.OpUpdate, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.SavingsGoalUpdated, id, events.SavingsGoalPayload{Goal: g, Completed: g.Completed()})
	return core.Applied
}

func (s *Store) DeleteSavingsGoal(ctx context.Context, id uuid.UUID) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.goals, id, goalID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentSavings, log.OpDelete, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	g := s.goals[i]
	s.goals = remove(s.goals, i)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentSavings, log.OpDelete, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.SavingsGoalDeleted, id, events.SavingsGoalPayload{Goal: g, Completed: g.Completed()})
	return core.Applied
}

func (s *Store) SavingsGoals() []core.SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SavingsGoal(nil), s.goals...)
}

func (s *Store) SavingsGoal(id uuid.UUID) (core.SavingsGoal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.goals, id, goalID); i >= 0 {
		return s.goals[i], true
	}
	return core.SavingsGoal{}, false
}

func (s *Store) SavingsSummary() core.SavingsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.SummarizeSavings(s.goals)
}
