package core

import (
	"math"

	"github.com/google/uuid"
)

const (
	BudgetOK       BudgetStatus = "ok"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

const (
	AdjustAdd    AdjustDirection = "add"
	AdjustRemove AdjustDirection = "remove"
)

// Thresholds in percent of the monthly limit.
const (
	WarningPercent  = 80
	ExceededPercent = 100
)

type (
	BudgetStatus string

	// AdjustDirection selects whether AdjustSpent adds to or removes from the spent amount.
	AdjustDirection string

	// Budget is a monthly spending envelope for one category. Spent is adjusted
	// by hand and is not derived from the ledger.
	Budget struct {
		ID       uuid.UUID
		Category string
		Icon     string
		Color    string
		Limit    Money
		Spent    Money
	}

	NewBudget struct {
		Category string
		Icon     string
		Color    string
		Limit    Money
	}

	BudgetPatch struct {
		Category *string
		Icon     *string
		Color    *string
		Limit    *Money
	}

	// BudgetSummary aggregates all budgets.
	BudgetSummary struct {
		TotalLimit Money
		TotalSpent Money
	}
)

func (d AdjustDirection) Valid() bool {
	return d == AdjustAdd || d == AdjustRemove
}

func (p BudgetPatch) Apply(b *Budget) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Icon != nil {
		b.Icon = *p.Icon
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.Limit != nil {
		b.Limit = *p.Limit
	}
}

// Adjust applies amount in direction d, clamping the result at zero.
func (b *Budget) Adjust(amount Money, d AdjustDirection) {
	if d == AdjustRemove {
		b.Spent = b.Spent.SubClamped(amount)
		return
	}
	b.Spent = b.Spent.Add(amount)
}

// Percentage returns spent/limit*100. A zero limit yields +Inf when something
// was spent and 0 otherwise.
func (b Budget) Percentage() float64 {
	return percentOf(b.Spent, b.Limit)
}

// Status classifies the budget from its percentage.
func (b Budget) Status() BudgetStatus {
	return StatusForPercentage(b.Percentage())
}

// Remaining is limit minus spent; negative when the budget is exceeded.
func (b Budget) Remaining() int64 {
	return b.Limit.Francs - b.Spent.Francs
}

// StatusForPercentage maps a spend percentage to a status badge.
func StatusForPercentage(p float64) BudgetStatus {
	switch {
	case p >= ExceededPercent:
		return BudgetExceeded
	case p >= WarningPercent:
		return BudgetWarning
	default:
		return BudgetOK
	}
}

func (s BudgetSummary) Percentage() float64 {
	return percentOf(s.TotalSpent, s.TotalLimit)
}

func (s BudgetSummary) Status() BudgetStatus {
	return StatusForPercentage(s.Percentage())
}

// SummarizeBudgets totals limits and spend across budgets.
func SummarizeBudgets(budgets []Budget) BudgetSummary {
	var s BudgetSummary
	for _, b := range budgets {
		s.TotalLimit = s.TotalLimit.Add(b.Limit)
		s.TotalSpent = s.TotalSpent.Add(b.Spent)
	}
	return s
}

// percentOf multiplies before dividing so exact thresholds stay exact.
func percentOf(part, whole Money) float64 {
	if whole.Francs == 0 {
		if part.Francs > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(part.Francs*100) / float64(whole.Francs)
}
