package core

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	SavingsGoal struct {
		ID       uuid.UUID
		Title    string
		Target   Money
		Current  Money
		Deadline Date
		Icon     string
		Color    string
		Category string // Informational label
	}

	NewSavingsGoal struct {
		Title    string
		Target   Money
		Deadline Date
		Icon     string
		Color    string
		Category string
	}

	SavingsGoalPatch struct {
		Title    *string
		Target   *Money
		Deadline *Date
		Icon     *string
		Color    *string
		Category *string
	}

	SavingsSummary struct {
		Goals       int
		Completed   int
		TotalTarget Money
		TotalSaved  Money
	}
)

// Validate mirrors the guard the goal form applies before creating a goal.
func (g NewSavingsGoal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if g.Target.Francs <= 0 {
		return ErrInvalidTarget
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (p SavingsGoalPatch) Apply(g *SavingsGoal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Icon != nil {
		g.Icon = *p.Icon
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
}

// Completed reports whether the saved amount reached the target.
func (g SavingsGoal) Completed() bool {
	return g.Current.Francs >= g.Target.Francs
}

// Progress is current/target*100, unclamped.
func (g SavingsGoal) Progress() float64 {
	return percentOf(g.Current, g.Target)
}

// Remaining is what is left to save; negative once the goal is overshot.
func (g SavingsGoal) Remaining() int64 {
	return g.Target.Francs - g.Current.Francs
}

// DaysRemaining counts calendar days from now to the deadline, rounding up.
// Overdue goals return a negative count.
func (g SavingsGoal) DaysRemaining(now time.Time) int {
	diff := g.Deadline.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

func SummarizeSavings(goals []SavingsGoal) SavingsSummary {
	s := SavingsSummary{Goals: len(goals)}
	for _, g := range goals {
		s.TotalTarget = s.TotalTarget.Add(g.Target)
		s.TotalSaved = s.TotalSaved.Add(g.Current)
		if g.Completed() {
			s.Completed++
		}
	}
	return s
}

func (s SavingsSummary) Progress() float64 {
	return percentOf(s.TotalSaved, s.TotalTarget)
}
