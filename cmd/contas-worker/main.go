package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"contas/internal/amqp"
	"contas/internal/config"
	"contas/internal/log"
	"contas/internal/observability"
	"contas/internal/report"
	gsheet "contas/internal/report/google"
	mem "contas/internal/report/memory"
	"contas/internal/resilience"
	"contas/internal/storage"
	"contas/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	handler := log.NewHandler(cfg.LogFormat, log.ParseLevel(cfg.LogLevel))
	logger := log.New(log.Config{Handler: handler, Component: "contas-worker"})
	log.SetDefault(logger)

	logger.Info("Starting contas-worker", "report_backend", cfg.ReportBackend)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var sink report.Writer
	switch cfg.ReportBackend {
	case "sheets":
		cli, err := gsheet.NewFromConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sink = cli
		logger.Info("Initialized Google Sheets report sink", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		sink = mem.New()
		logger.Info("Initialized in-memory report sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	metrics := observability.NewMetrics()
	retry := resilience.Config{
		MaxRetries:     cfg.ReportRetryAttempts,
		InitialBackoff: cfg.ReportRetryBackoff,
	}
	reportWorker := worker.NewReportWorker(repo, sink, metrics, retry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeMonthClosed(ctx, func(msg *amqp.MonthClosedMessage) error {
			return reportWorker.HandleMonthClosed(ctx, msg)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
