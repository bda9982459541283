package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Expense Direction = "expense"
	Income  Direction = "income"
)

// Uncategorized is the label transactions fall back to when their category is deleted.
const Uncategorized = "Sans catégorie"

const dateLayout = "2006-01-02"

type (
	// Direction tells whether money leaves (expense) or enters (income) the wallet.
	Direction string

	Date struct {
		time.Time
	}

	// Money is a whole amount of CFA francs. FCFA has no minor unit.
	Money struct {
		Francs int64
	}

	Transaction struct {
		ID          uuid.UUID
		Type        Direction
		Amount      Money
		Category    string // Category name, not a foreign key
		Description string
		Date        Date
		Icon        string
	}

	// NewTransaction carries the caller-supplied fields of a transaction.
	NewTransaction struct {
		Type        Direction
		Amount      Money
		Category    string
		Description string
		Date        Date
		Icon        string
	}

	// TransactionPatch holds the fields to merge into an existing transaction.
	// Nil fields are left untouched.
	TransactionPatch struct {
		Type        *Direction
		Amount      *Money
		Category    *string
		Description *string
		Date        *Date
		Icon        *string
	}

	Category struct {
		ID        uuid.UUID
		Name      string
		Icon      string
		Color     string
		Type      Direction
		IsDefault bool // Seed category
	}

	NewCategory struct {
		Name  string
		Icon  string
		Color string
		Type  Direction
	}

	CategoryPatch struct {
		Name  *string
		Icon  *string
		Color *string
		Type  *Direction
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("Montant invalide")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrEmptyTitle       = errors.New("empty title")
	ErrInvalidTarget    = errors.New("target amount must be positive")
)

func (d Direction) Validate() error {
	switch d {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidDirection
	}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	// Check basic ranges
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's wall-clock date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD; the zero date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON overrides the promoted time.Time encoding so dates travel as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Validate rejects amounts that cannot be used for an adjustment: only
// strictly positive values are accepted.
func (m Money) Validate() error {
	if m.Francs <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m+o.
func (m Money) Add(o Money) Money {
	return Money{Francs: m.Francs + o.Francs}
}

// SubClamped returns m-o, never going below zero.
func (m Money) SubClamped(o Money) Money {
	if o.Francs >= m.Francs {
		return Money{}
	}
	return Money{Francs: m.Francs - o.Francs}
}

// FCFA builds a Money value from a whole franc amount.
func FCFA(francs int64) Money {
	return Money{Francs: francs}
}

// Validate checks the fields the session UI guards before submitting a transaction.
// The ledger itself stores whatever it is given.
func (t NewTransaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return errors.New("empty category")
	}
	return nil
}

// Apply merges the set fields of p into t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Icon != nil {
		t.Icon = *p.Icon
	}
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
}

// Totals summarizes the ledger.
type Totals struct {
	Income  Money
	Expense Money
}

// Balance is income minus expenses; it may be negative.
func (t Totals) Balance() int64 {
	return t.Income.Francs - t.Expense.Francs
}

// SumTransactions aggregates amounts per direction.
func SumTransactions(txs []Transaction) Totals {
	var out Totals
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			out.Income = out.Income.Add(tx.Amount)
		case Expense:
			out.Expense = out.Expense.Add(tx.Amount)
		}
	}
	return out
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
