package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewSavingsGoalValidate(t *testing.T) {
	good := NewSavingsGoal{Title: "Nouveau téléphone", Target: FCFA(150000), Deadline: NewDate(2025, 6, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name string
		goal NewSavingsGoal
		want error
	}{
		{"blank title", NewSavingsGoal{Title: "  ", Target: FCFA(1), Deadline: NewDate(2025, 6, 1)}, ErrEmptyTitle},
		{"zero target", NewSavingsGoal{Title: "x", Deadline: NewDate(2025, 6, 1)}, ErrInvalidTarget},
		{"no deadline", NewSavingsGoal{Title: "x", Target: FCFA(1)}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.goal.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSavingsGoalDerived(t *testing.T) {
	g := SavingsGoal{Target: FCFA(150000), Current: FCFA(85000)}
	if g.Completed() {
		t.Fatal("goal should not be completed")
	}
	if g.Remaining() != 65000 {
		t.Fatalf("expected 65000 remaining, got %d", g.Remaining())
	}
	g.Current = FCFA(150000)
	if !g.Completed() {
		t.Fatal("goal should be completed at target")
	}
	if g.Progress() != 100 {
		t.Fatalf("expected 100%%, got %v", g.Progress())
	}
}

func TestSavingsGoalDaysRemaining(t *testing.T) {
	g := SavingsGoal{Deadline: NewDate(2025, 6, 1)}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 0},
		{"morning before", time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC), 1},
		{"ten days before", time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC), 10},
		{"overdue", time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.DaysRemaining(tt.now); got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarizeSavings(t *testing.T) {
	s := SummarizeSavings([]SavingsGoal{
		{Target: FCFA(150000), Current: FCFA(85000)},
		{Target: FCFA(50000), Current: FCFA(50000)},
	})
	if s.Goals != 2 || s.Completed != 1 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.TotalSaved.Francs != 135000 || s.TotalTarget.Francs != 200000 {
		t.Fatalf("unexpected totals %+v", s)
	}
}
