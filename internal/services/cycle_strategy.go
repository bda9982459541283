// Package services holds the background logic that runs beside the store.
//
// This file maps each tontine cycle label to a strategy that decides whether
// a new turn is due. Dueness is always derived from the tontine's history and
// creation date; it is never stored.
package services

import (
	"fmt"
	"time"

	"xaalis/internal/core"
)

// CycleChecker decides whether a new turn is due.
type CycleChecker interface {
	// IsDue reports whether enough time passed since the last closed turn.
	// anchor is the date the tontine started and fixes the day of month or year.
	IsDue(lastTurn, now time.Time, anchor core.Date) bool
}

// DailyChecker is due once the calendar day changes.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastTurn, now time.Time, _ core.Date) bool {
	if lastTurn.IsZero() {
		return true
	}
	return core.DateOf(lastTurn) != core.DateOf(now)
}

// WeeklyChecker is due 7 days after the last turn.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastTurn, now time.Time, _ core.Date) bool {
	if lastTurn.IsZero() {
		return true
	}
	daysSince := now.Sub(lastTurn).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker is due in a later month once the anchor day is reached.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastTurn, now time.Time, anchor core.Date) bool {
	if lastTurn.IsZero() {
		return true
	}

	if lastTurn.Year() == now.Year() && lastTurn.Month() == now.Month() {
		return false
	}

	return now.Day() >= clampDay(anchor.Day(), now.Year(), now.Month())
}

// YearlyChecker is due in a later year once the anchor month and day are reached.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastTurn, now time.Time, anchor core.Date) bool {
	if lastTurn.IsZero() {
		return true
	}

	if lastTurn.Year() >= now.Year() {
		return false
	}

	targetMonth := anchor.Month()
	switch {
	case int(now.Month()) < targetMonth:
		return false
	case int(now.Month()) == targetMonth:
		return now.Day() >= clampDay(anchor.Day(), now.Year(), now.Month())
	default:
		return true
	}
}

// clampDay moves day 29-31 anchors to the last day of shorter months.
func clampDay(day, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

var cycleStrategies = map[core.Cycle]CycleChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetCycleChecker returns the checker for a cycle label.
// Free-text labels nobody registered return an error.
func GetCycleChecker(cycle core.Cycle) (CycleChecker, error) {
	checker, ok := cycleStrategies[cycle]
	if !ok {
		return nil, fmt.Errorf("unknown tontine cycle: %s", cycle)
	}
	return checker, nil
}

// RegisterCycleChecker adds or replaces the checker for a cycle label.
// Not safe for use concurrently with GetCycleChecker.
func RegisterCycleChecker(cycle core.Cycle, checker CycleChecker) {
	cycleStrategies[cycle] = checker
}

// IsTurnDue reports whether t's cycle says a new turn should be closed.
// The last closed turn is the reference; a tontine without history counts
// from its creation date. Unknown cycles and undated tontines are never due.
func IsTurnDue(t core.Tontine, now time.Time) bool {
	checker, err := GetCycleChecker(t.Cycle)
	if err != nil {
		return false
	}
	last := t.LastTurnDate()
	if last.IsZero() {
		last = t.Created
	}
	if last.IsZero() {
		return false
	}
	anchor := t.Created
	if anchor.IsZero() {
		anchor = last
	}
	return checker.IsDue(last.Time, now, anchor)
}

// DueTontines filters tontines down to those with a turn due at now.
func DueTontines(tontines []core.Tontine, now time.Time) []core.Tontine {
	var due []core.Tontine
	for _, t := range tontines {
		if IsTurnDue(t, now) {
			due = append(due, t)
		}
	}
	return due
}
