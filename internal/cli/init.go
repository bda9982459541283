// Package cli provides common CLI initialization utilities shared by
// cmd/xaalis and cmd/xaalis-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"xaalis/internal/config"
	"xaalis/internal/core"
	"xaalis/internal/log"
	"xaalis/internal/storage"
)

// SetupLogger initializes structured logging at the given level and makes it
// the process default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SnapshotSource is the archive side the session host reads at startup.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context) (core.Snapshot, bool, error)
}

// InitialSnapshot picks the state a session starts from: the archived one when
// present, otherwise the demo data when seed is set, otherwise an empty store.
func InitialSnapshot(ctx context.Context, logger *log.Logger, src SnapshotSource, seed bool, demo func() core.Snapshot) (core.Snapshot, error) {
	if src != nil {
		snap, ok, err := src.LoadSnapshot(ctx)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("load archive: %w", err)
		}
		if ok {
			logger.InfoContext(ctx, "Restored state from archive")
			return snap, nil
		}
	}
	if seed && demo != nil {
		logger.InfoContext(ctx, "Seeding demo data")
		return demo(), nil
	}
	logger.InfoContext(ctx, "Starting with empty state")
	return core.Snapshot{}, nil
}

// OpenArchive opens the SQLite archive when a path is configured. A nil
// archive with a nil error means archiving is disabled.
func OpenArchive(logger *log.Logger, path string) (*storage.SQLiteArchive, error) {
	if path == "" {
		logger.Info("Archive disabled")
		return nil, nil
	}
	archive, err := storage.NewSQLiteArchive(path, logger.WithComponent(log.ComponentStorage))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	logger.Info("Archive opened", log.FieldPath, path)
	return archive, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
