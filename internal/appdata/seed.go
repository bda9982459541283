package appdata

import (
	"github.com/google/uuid"

	"xaalis/internal/core"
)

// DemoSnapshot returns the sample data a fresh session starts with when no
// archive is available.
func DemoSnapshot() core.Snapshot {
	member := func(name string, paid bool) core.TontineMember {
		return core.TontineMember{ID: uuid.New(), Name: name, Amount: core.FCFA(10000), HasPaid: paid}
	}
	members := []core.TontineMember{
		member("Awa", true),
		member("Moussa", false),
		member("Fatou", true),
	}
	opened := core.NewDate(2025, 1, 1)

	return core.Snapshot{
		Transactions: []core.Transaction{
			{
				ID:          uuid.New(),
				Type:        core.Expense,
				Amount:      core.FCFA(2500),
				Category:    "transport",
				Description: "Car rapide Dakar-Pikine",
				Date:        core.NewDate(2025, 1, 25),
				Icon:        "🚌",
			},
			{
				ID:          uuid.New(),
				Type:        core.Income,
				Amount:      core.FCFA(50000),
				Category:    "salary",
				Description: "Salaire janvier",
				Date:        core.NewDate(2025, 1, 25),
				Icon:        "💰",
			},
		},
		Categories: []core.Category{
			{ID: uuid.New(), Name: "Transport", Icon: "🚌", Color: "bg-blue-100", Type: core.Expense, IsDefault: true},
			{ID: uuid.New(), Name: "Salaire", Icon: "💰", Color: "bg-green-100", Type: core.Income, IsDefault: true},
		},
		Budgets: []core.Budget{
			{ID: uuid.New(), Category: "Ndogou", Icon: "🍽️", Color: "bg-orange-100", Limit: core.FCFA(40000), Spent: core.FCFA(35000)},
			{ID: uuid.New(), Category: "Transport", Icon: "🚌", Color: "bg-blue-100", Limit: core.FCFA(30000), Spent: core.FCFA(25000)},
			{ID: uuid.New(), Category: "Marché", Icon: "🛒", Color: "bg-green-100", Limit: core.FCFA(25000), Spent: core.FCFA(20000)},
			{ID: uuid.New(), Category: "Orange Money", Icon: "📱", Color: "bg-orange-100", Limit: core.FCFA(15000), Spent: core.FCFA(9500)},
			{ID: uuid.New(), Category: "Loisirs", Icon: "🎮", Color: "bg-pink-100", Limit: core.FCFA(20000), Spent: core.FCFA(22000)},
		},
		SavingsGoals: []core.SavingsGoal{
			{
				ID:       uuid.New(),
				Title:    "Nouveau téléphone",
				Target:   core.FCFA(150000),
				Current:  core.FCFA(85000),
				Deadline: core.NewDate(2025, 6, 1),
				Icon:     "📱",
				Color:    "bg-blue-100",
				Category: "Technologie",
			},
		},
		Tontines: []core.Tontine{
			{
				ID:          uuid.New(),
				Name:        "Tontine du quartier",
				Icon:        "🤝",
				Amount:      core.FCFA(10000),
				Members:     members,
				Turns:       3,
				CurrentTurn: 1,
				Cycle:       core.Monthly,
				Created:     opened,
				History: []core.TontineHistoryEntry{
					{
						Turn: 1,
						Date: opened,
						Amounts: []core.MemberSnapshot{
							{Name: "Awa", Amount: core.FCFA(10000), Paid: true},
							{Name: "Moussa", Amount: core.FCFA(10000), Paid: false},
							{Name: "Fatou", Amount: core.FCFA(10000), Paid: true},
						},
					},
				},
			},
		},
	}
}
