package core

// Outcome reports whether a structural operation found its target.
// Ignoring it gives the silent no-op behavior the session UI relies on.
type Outcome int

const (
	NotFound Outcome = iota
	Applied
)

func (o Outcome) OK() bool {
	return o == Applied
}

func (o Outcome) String() string {
	if o == Applied {
		return "applied"
	}
	return "not_found"
}

// Snapshot is a point-in-time copy of every entity the store owns.
type Snapshot struct {
	Transactions []Transaction
	Categories   []Category
	Budgets      []Budget
	SavingsGoals []SavingsGoal
	Tontines     []Tontine
}
