package appdata

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
)

func newPhoneGoal(t *testing.T, s *Store) core.SavingsGoal {
	t.Helper()
	g, err := s.CreateSavingsGoal(context.Background(), core.NewSavingsGoal{
		Title:    "Nouveau téléphone",
		Target:   core.FCFA(150000),
		Deadline: core.NewDate(2025, 6, 1),
		Category: "Technologie",
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return g
}

func TestCreateSavingsGoal(t *testing.T) {
	s, rec := newTestStore(t)
	g := newPhoneGoal(t, s)
	if g.Current.Francs != 0 {
		t.Errorf("new goal should start at 0, got %d", g.Current.Francs)
	}
	if n := len(rec.OfType(events.SavingsGoalCreated)); n != 1 {
		t.Errorf("expected 1 creation event, got %d", n)
	}

	tests := []struct {
		name string
		in   core.NewSavingsGoal
		want error
	}{
		{"blank title", core.NewSavingsGoal{Title: "  ", Target: core.FCFA(1000), Deadline: core.NewDate(2025, 1, 1)}, core.ErrEmptyTitle},
		{"zero target", core.NewSavingsGoal{Title: "Moto", Deadline: core.NewDate(2025, 1, 1)}, core.ErrInvalidTarget},
		{"no deadline", core.NewSavingsGoal{Title: "Moto", Target: core.FCFA(1000)}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateSavingsGoal(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if n := len(s.SavingsGoals()); n != 1 {
		t.Errorf("rejected goals were stored: %d goals", n)
	}

	moto, err := s.CreateSavingsGoal(context.Background(), core.NewSavingsGoal{
		Title: "Moto", Target: core.FCFA(400000), Deadline: core.NewDate(2025, 12, 31),
	})
	if err != nil {
		t.Fatal(err)
	}
	goals := s.SavingsGoals()
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].ID != moto.ID || goals[1].ID != g.ID {
		t.Errorf("newest goal should come first, got %v then %v", goals[0].Title, goals[1].Title)
	}
}

func TestWithdrawClampsAtZero(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	g := newPhoneGoal(t, s)
	if _, err := s.Deposit(ctx, g.ID, core.FCFA(85000)); err != nil {
		t.Fatal(err)
	}

	out, err := s.Withdraw(ctx, g.ID, core.FCFA(100000))
	if err != nil || out != core.Applied {
		t.Fatalf("withdraw: %s, %v", out, err)
	}
	got, _ := s.SavingsGoal(g.ID)
	if got.Current.Francs != 0 {
		t.Fatalf("current = %d, want 0", got.Current.Francs)
	}
}

func TestDepositPastTarget(t *testing.T) {
	s, rec := newTestStore(t)
	ctx := context.Background()
	g := newPhoneGoal(t, s)

	for _, amount := range []int64{100000, 50000, 20000} {
		if _, err := s.Deposit(ctx, g.ID, core.FCFA(amount)); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := s.SavingsGoal(g.ID)
	if got.Current.Francs != 170000 || !got.Completed() {
		t.Fatalf("unexpected goal %+v", got)
	}
	if got.Remaining() != -20000 {
		t.Errorf("remaining = %d, want -20000", got.Remaining())
	}

	deposits := rec.OfType(events.SavingsDeposited)
	var last events.SavingsGoalPayload
	if err := deposits[len(deposits)-1].Decode(&last); err != nil {
		t.Fatal(err)
	}
	if !last.Completed {
		t.Error("last deposit event should report completion")
	}
}

func TestSavingsRejectsInvalidAmount(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	g := newPhoneGoal(t, s)

	if _, err := s.Deposit(ctx, g.ID, core.FCFA(0)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("deposit 0: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := s.Withdraw(ctx, g.ID, core.FCFA(-1)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("withdraw -1: expected ErrInvalidAmount, got %v", err)
	}
	if out, err := s.Deposit(ctx, uuid.New(), core.FCFA(10)); err != nil || out != core.NotFound {
		t.Errorf("unknown goal: got %s, %v", out, err)
	}
}

func TestEditSavingsGoalKeepsCurrent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	g := newPhoneGoal(t, s)
	if _, err := s.Deposit(ctx, g.ID, core.FCFA(85000)); err != nil {
		t.Fatal(err)
	}

	out := s.EditSavingsGoal(ctx, g.ID, core.SavingsGoalPatch{Target: core.Ptr(core.FCFA(80000))})
	if out != core.Applied {
		t.Fatalf("expected Applied, got %s", out)
	}
	got, _ := s.SavingsGoal(g.ID)
	if got.Current.Francs != 85000 || !got.Completed() {
		t.Errorf("unexpected goal after edit %+v", got)
	}

	if out := s.DeleteSavingsGoal(ctx, g.ID); out != core.Applied {
		t.Fatalf("expected Applied, got %s", out)
	}
	if out := s.DeleteSavingsGoal(ctx, g.ID); out != core.NotFound {
		t.Fatalf("expected NotFound, got %s", out)
	}
}

func TestSavingsSummary(t *testing.T) {
	s := NewFromSnapshot(DemoSnapshot())
	sum := s.SavingsSummary()
	if sum.Goals != 1 || sum.Completed != 0 || sum.TotalSaved.Francs != 85000 || sum.TotalTarget.Francs != 150000 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}
