// Package worker mirrors change-feed events into an export sink.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"xaalis/internal/events"
	"xaalis/internal/log"
	"xaalis/internal/sheets"
)

// ExportWorker appends new ledger rows and closed tontine turns to an exporter.
// Other event types are acknowledged and ignored.
type ExportWorker struct {
	exporter sheets.Exporter
	logger   *log.Logger

	exported atomic.Int64
	skipped  atomic.Int64
}

func NewExportWorker(exporter sheets.Exporter, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.FromSlog(nil, log.ComponentWorker)
	}
	return &ExportWorker{exporter: exporter, logger: logger}
}

// HandleEvent processes a single change-feed event. A returned error asks the
// consumer to redeliver the message.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev events.Event) error {
	switch ev.Type {
	case events.TransactionAdded:
		return w.handleTransaction(ctx, ev)
	case events.TontineTurnAdvanced:
		return w.handleTurn(ctx, ev)
	default:
		w.skipped.Add(1)
		w.logger.DebugContext(ctx, "Ignoring event", log.FieldEventType, string(ev.Type))
		return nil
	}
}

func (w *ExportWorker) handleTransaction(ctx context.Context, ev events.Event) error {
	var p events.TransactionPayload
	if err := ev.Decode(&p); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Processing transaction export", log.FieldID, p.Transaction.ID.String())

	ref, err := w.exporter.AppendTransaction(ctx, p.Transaction)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to export transaction",
			log.FieldID, p.Transaction.ID.String(),
			log.FieldError, err)
		return fmt.Errorf("export transaction: %w", err)
	}

	w.exported.Add(1)
	w.logger.InfoContext(ctx, "Successfully exported transaction",
		log.FieldID, p.Transaction.ID.String(),
		log.FieldAmount, p.Transaction.Amount.Francs,
		"ref", ref)
	return nil
}

func (w *ExportWorker) handleTurn(ctx context.Context, ev events.Event) error {
	var p events.TurnAdvancedPayload
	if err := ev.Decode(&p); err != nil {
		return err
	}

	turn := sheets.ClosedTurn{TontineName: p.TontineName, Cycle: p.Cycle, Entry: p.Entry}
	ref, err := w.exporter.AppendTurn(ctx, turn)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to export tontine turn",
			log.FieldTontineID, p.TontineID.String(),
			log.FieldTurn, p.Entry.Turn,
			log.FieldError, err)
		return fmt.Errorf("export turn %d: %w", p.Entry.Turn, err)
	}

	w.exported.Add(1)
	w.logger.InfoContext(ctx, "Successfully exported tontine turn",
		log.FieldTontineID, p.TontineID.String(),
		log.FieldTurn, p.Entry.Turn,
		"ref", ref)
	return nil
}

// Stats returns how many events were exported and how many were ignored.
func (w *ExportWorker) Stats() (exported, skipped int64) {
	return w.exported.Load(), w.skipped.Load()
}
