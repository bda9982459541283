package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldOutcome     = "outcome"
	FieldID          = "id"
	FieldTontineID   = "tontine_id"
	FieldMemberID    = "member_id"
	FieldMemberName  = "member_name"
	FieldTurn        = "turn"
	FieldCategory    = "category"
	FieldAmount      = "amount_fcfa"
	FieldDirection   = "direction"
	FieldRewritten   = "rewritten"
	FieldStatus      = "status"
	FieldEventType   = "event_type"
	FieldPath        = "path"
	FieldSpreadsheet = "spreadsheet_id"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentLedger     = "ledger"
	ComponentCategories = "categories"
	ComponentBudgets    = "budgets"
	ComponentSavings    = "savings"
	ComponentTontine    = "tontine"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentSheets     = "sheets"
	ComponentScanner    = "scanner"
	ComponentBackend    = "backend"
	ComponentEvents     = "events"
)

// Operations defines standard operation names
const (
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpAdjust       = "adjust"
	OpDeposit      = "deposit"
	OpWithdraw     = "withdraw"
	OpAddMember    = "add_member"
	OpEditMember   = "edit_member"
	OpRemoveMember = "remove_member"
	OpSetAmount    = "set_member_amount"
	OpMarkPaid     = "mark_paid"
	OpMarkUnpaid   = "mark_unpaid"
	OpAdvanceTurn  = "advance_turn"
	OpExport       = "export"
	OpRestore      = "restore"
	OpPublish      = "publish"
	OpShutdown     = "shutdown"
	OpStartup      = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// With sets an arbitrary field.
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOutcome records whether the operation found its target.
func (f LogFields) WithOutcome(outcome string) LogFields {
	f[FieldOutcome] = outcome
	return f
}

// WithID adds the target entity id.
func (f LogFields) WithID(id string) LogFields {
	f[FieldID] = id
	return f
}

// WithAmount adds an amount in francs.
func (f LogFields) WithAmount(francs int64) LogFields {
	f[FieldAmount] = francs
	return f
}

// ToSlice converts LogFields to a slice for slog, ordered by key so output is stable.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
