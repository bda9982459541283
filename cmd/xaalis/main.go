package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"xaalis/internal/amqp"
	"xaalis/internal/appdata"
	"xaalis/internal/cli"
	"xaalis/internal/config"
	"xaalis/internal/events"
	"xaalis/internal/log"
	"xaalis/internal/services"
	"xaalis/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger("info").Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("xaalis stopped with error", log.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	logger.Info("Starting xaalis", log.FieldOperation, log.OpStartup)

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change feed", log.FieldError, err)
		} else {
			defer client.Close()
			feed := events.NewAsync(client, events.DefaultBufferSize, logger.WithComponent(log.ComponentEvents))
			defer closeFeed(logger, feed, cfg.ShutdownTimeout)
			publisher = feed
			logger.Info("Change feed enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	archive, err := cli.OpenArchive(logger, cfg.ArchivePath)
	if err != nil {
		return err
	}
	var src cli.SnapshotSource
	if archive != nil {
		defer archive.Close()
		src = archive
	}

	snap, err := cli.InitialSnapshot(ctx, logger, src, cfg.SeedDemo, appdata.DemoSnapshot)
	if err != nil {
		return err
	}
	store := appdata.NewFromSnapshot(snap,
		appdata.WithPublisher(publisher),
		appdata.WithLogger(logger.WithComponent(log.ComponentApp)))
	logState(logger, store)

	scanner := services.NewTurnScanner(store, publisher, logger.WithComponent(log.ComponentScanner),
		services.TurnScannerConfig{Interval: cfg.ScanInterval, Clock: time.Now})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := scanner.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer stopCancel()
		return scanner.Stop(stopCtx)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Background work failed", log.FieldError, err)
	}

	logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
	return saveArchive(logger, archive, store, cfg.ShutdownTimeout)
}

// closeFeed flushes queued events before the AMQP client closes.
func closeFeed(logger *log.Logger, feed *events.Async, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := feed.Close(ctx); err != nil {
		logger.Warn("Change feed not fully flushed", log.FieldError, err)
	}
	if dropped, failed := feed.Stats(); dropped > 0 || failed > 0 {
		logger.Warn("Change feed lost events", "dropped", dropped, "failed", failed)
	}
}

func saveArchive(logger *log.Logger, archive *storage.SQLiteArchive, store *appdata.Store, timeout time.Duration) error {
	if archive == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := archive.SaveSnapshot(ctx, store.Snapshot()); err != nil {
		return err
	}
	logger.Info("State archived")
	return nil
}

func logState(logger *log.Logger, store *appdata.Store) {
	totals := store.TransactionTotals()
	budgets := store.BudgetSummary()
	savings := store.SavingsSummary()
	logger.Info("Session state",
		"income", totals.Income.String(),
		"expense", totals.Expense.String(),
		"balance", totals.Balance(),
		"budget_spent", budgets.TotalSpent.String(),
		"budget_status", string(budgets.Status()),
		"savings_goals", savings.Goals,
		"savings_completed", savings.Completed,
		"tontines", len(store.Tontines()))
}
