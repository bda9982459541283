// Package events defines the change feed the store emits after each applied
// mutation. Events are self-contained so consumers outside the process never
// need to read the store back.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"xaalis/internal/core"
)

type Type string

const (
	TransactionAdded   Type = "transaction.added"
	TransactionUpdated Type = "transaction.updated"
	TransactionDeleted Type = "transaction.deleted"

	CategoryAdded   Type = "category.added"
	CategoryUpdated Type = "category.updated"
	CategoryDeleted Type = "category.deleted"

	BudgetCreated  Type = "budget.created"
	BudgetUpdated  Type = "budget.updated"
	BudgetDeleted  Type = "budget.deleted"
	BudgetAdjusted Type = "budget.adjusted"

	SavingsGoalCreated Type = "savings_goal.created"
	SavingsGoalUpdated Type = "savings_goal.updated"
	SavingsGoalDeleted Type = "savings_goal.deleted"
	SavingsDeposited   Type = "savings_goal.deposited"
	SavingsWithdrawn   Type = "savings_goal.withdrawn"

	TontineCreated       Type = "tontine.created"
	TontineDeleted       Type = "tontine.deleted"
	TontineMemberChanged Type = "tontine.member_changed"
	TontineTurnAdvanced  Type = "tontine.turn_advanced"
	TontineTurnDue       Type = "tontine.turn_due"
)

// Event is the envelope published on the change feed.
type Event struct {
	Type      Type            `json:"type"`
	EntityID  uuid.UUID       `json:"entity_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Payloads
type (
	TransactionPayload struct {
		Transaction core.Transaction `json:"transaction"`
	}

	CategoryPayload struct {
		Category core.Category `json:"category"`
	}

	// CategoryDeletedPayload reports the cascade applied to the ledger.
	CategoryDeletedPayload struct {
		Name      string `json:"name"`
		Rewritten int    `json:"rewritten"`
	}

	BudgetPayload struct {
		Budget core.Budget       `json:"budget"`
		Status core.BudgetStatus `json:"status"`
	}

	SavingsGoalPayload struct {
		Goal      core.SavingsGoal `json:"goal"`
		Completed bool             `json:"completed"`
	}

	TontinePayload struct {
		TontineID uuid.UUID `json:"tontine_id"`
		Name      string    `json:"name"`
		Members   int       `json:"members"`
	}

	MemberChangedPayload struct {
		TontineID uuid.UUID          `json:"tontine_id"`
		Operation string             `json:"operation"`
		Member    core.TontineMember `json:"member"`
	}

	// TurnAdvancedPayload carries the history entry appended for the closed turn.
	TurnAdvancedPayload struct {
		TontineID   uuid.UUID                `json:"tontine_id"`
		TontineName string                   `json:"tontine_name"`
		Cycle       core.Cycle               `json:"cycle"`
		Entry       core.TontineHistoryEntry `json:"entry"`
	}

	TurnDuePayload struct {
		TontineID    uuid.UUID  `json:"tontine_id"`
		TontineName  string     `json:"tontine_name"`
		Cycle        core.Cycle `json:"cycle"`
		NextTurn     int        `json:"next_turn"`
		Unpaid       []string   `json:"unpaid"`
		LastTurnDate core.Date  `json:"last_turn_date"`
	}
)

// New builds an event stamped with the current time.
func New(t Type, entityID uuid.UUID, payload any) (Event, error) {
	ev := Event{Type: t, EntityID: entityID, Timestamp: time.Now().UTC()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", t, err)
		}
		ev.Payload = raw
	}
	return ev, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON creates an event from JSON bytes
func FromJSON(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("event without type")
	}
	return ev, nil
}

// Publisher delivers events to the change feed.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType filters recorded events by type.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
