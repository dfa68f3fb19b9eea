package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/portfolio-ledger/internal/api_gateway"
	"github.com/portfolio-ledger/internal/api_gateway/service"
	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/data/memory"
	"github.com/portfolio-ledger/internal/data/mongo"
	"github.com/portfolio-ledger/internal/data/postgres"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/portfolio-ledger/internal/platform/persistence"
	"github.com/portfolio-ledger/internal/reconciliation/components"
	"github.com/portfolio-ledger/internal/reconciliation/mirror"
	rsvc "github.com/portfolio-ledger/internal/reconciliation/service"
	"github.com/portfolio-ledger/internal/seed"
)

// mirrorStack holds the optional Postgres and Mongo connections
type mirrorStack struct {
	postgres *persistence.PostgresDB
	mongo    *persistence.MongoDB
	recorder *mirror.PoolRecorder
	reports  service.ReportService
}

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg, "api_gateway")
	log.Info("Starting API gateway", "app_name", cfg.Application.Name, "env", cfg.Application.Env, "mirror_enabled", cfg.Mirror.Enabled)

	store := memory.NewLedgerStore()
	if cfg.Engine.SeedDemoData {
		if err := seed.Load(store, seed.Transactions(cfg.Engine.UserID)); err != nil {
			log.Error("Failed to seed demo ledger", "error", err)
			os.Exit(1)
		}
		log.Info("Seeded demo ledger", "entries", store.Len())
	}
	users := memory.NewUserStore(seed.User(cfg.Engine))

	var stack *mirrorStack
	var recorder rsvc.EventRecorder
	if cfg.Mirror.Enabled {
		stack, err = openMirror(appCtx, log, cfg)
		if err != nil {
			log.Error("Failed to initialize mirror", "error", err)
			os.Exit(1)
		}
		recorder = stack.recorder
	}

	engine := components.CreateReconciliationService(cfg, store, seed.Budget(cfg.Engine), recorder, log)

	services := api_gateway.Services{
		Transactions: service.NewTransactionService(engine),
		Users:        service.NewUserService(cfg.Engine.UserID, users, engine),
	}
	if stack != nil {
		services.Reports = stack.reports
	}
	server, err := api_gateway.NewServer(log, cfg, services)
	if err != nil {
		log.Error("Failed to create HTTP server", "error", err)
		os.Exit(1)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before draining the mirror pool
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		serverErr = err
	}

	if stack != nil {
		log.Info("Draining mirror workers", "running_workers", stack.recorder.Running())
		stack.recorder.Shutdown(cfg.Server.ShutdownTimeout)
		stack.postgres.Close()
		if err := stack.mongo.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	if serverErr != nil {
		log.Error("API gateway shutdown completed with errors", "error", serverErr)
		os.Exit(1)
	}
	log.Info("API gateway shutdown completed successfully")
}

func openMirror(ctx context.Context, log *slog.Logger, cfg *config.Config) (*mirrorStack, error) {
	if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		return nil, err
	}
	log.Info("Applied PostgreSQL migrations", "path", cfg.Postgres.MigrationsPath)

	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
	if err != nil {
		postgresDB.Close()
		return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}

	snapshots := postgres.NewBudgetSnapshotRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	projections := mongo.NewLedgerProjectionRepository(log, mongoDB.Database())

	base := mirror.NewOutboxRecorder(postgresDB, snapshots, outboxRepo, log)
	recorder, err := mirror.NewPoolRecorder(base, mirror.PoolConfig{
		Size:    cfg.Mirror.WorkerPoolSize,
		Timeout: cfg.Mirror.SubmitTimeout,
	}, log)
	if err != nil {
		postgresDB.Close()
		_ = mongoDB.Close(ctx)
		return nil, fmt.Errorf("failed to create mirror worker pool: %w", err)
	}

	return &mirrorStack{
		postgres: postgresDB,
		mongo:    mongoDB,
		recorder: recorder,
		reports:  service.NewReportService(cfg.Engine.UserID, projections, snapshots),
	}, nil
}
