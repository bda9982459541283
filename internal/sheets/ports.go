package sheets

import (
	"context"

	"xaalis/internal/core"
)

// Ports for outbound export adapters.
type (
	// TransactionExporter mirrors ledger rows into an external sink.
	TransactionExporter interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// TurnExporter records a closed tontine turn, one row per member.
	TurnExporter interface {
		AppendTurn(ctx context.Context, turn ClosedTurn) (rowRef string, err error)
	}

	Exporter interface {
		TransactionExporter
		TurnExporter
	}
)

// ClosedTurn is what gets exported when a tontine turn is closed.
type ClosedTurn struct {
	TontineName string
	Cycle       core.Cycle
	Entry       core.TontineHistoryEntry
}
