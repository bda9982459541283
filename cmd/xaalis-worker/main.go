package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"xaalis/internal/amqp"
	"xaalis/internal/backend"
	"xaalis/internal/cli"
	"xaalis/internal/config"
	"xaalis/internal/log"
	"xaalis/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger("info").Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentWorker)

	if err := run(cfg, logger); err != nil {
		logger.Error("xaalis-worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	logger.Info("Starting xaalis-worker", log.FieldOperation, log.OpStartup)

	if !cfg.AMQPEnabled() {
		return fmt.Errorf("AMQP_URL is required for the export worker")
	}

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	exportWorker := worker.NewExportWorker(result.Backend, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, exportWorker.HandleEvent)
	})

	err = g.Wait()
	exported, skipped := exportWorker.Stats()
	logger.Info("xaalis-worker stopped", log.FieldOperation, log.OpShutdown, "exported", exported, "skipped", skipped)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
