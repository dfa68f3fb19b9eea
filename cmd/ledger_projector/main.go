package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/data/mongo"
	"github.com/portfolio-ledger/internal/data/postgres"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/portfolio-ledger/internal/platform/messaging/consumers"
	"github.com/portfolio-ledger/internal/platform/messaging/producers"
	"github.com/portfolio-ledger/internal/platform/persistence"
	"github.com/portfolio-ledger/internal/projector/consumer"
	"github.com/portfolio-ledger/internal/projector/outbox_poller"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_projector")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg, "ledger_projector")
	log.Info("Starting ledger projector", "app_name", cfg.Application.Name, "env", cfg.Application.Env)

	if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("Failed to apply PostgreSQL migrations", "error", err)
		os.Exit(1)
	}

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	projections := mongo.NewLedgerProjectionRepository(log, mongoDB.Database())
	if err := projections.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create ledger projection indexes", "error", err)
		os.Exit(1)
	}
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

	if err := producers.EnsureTopics(cfg.Kafka.Brokers, cfg.Kafka.NumPartitions, cfg.Kafka.ReplicationFactor, log,
		cfg.Kafka.EventsTopic, cfg.Kafka.DLQTopic); err != nil {
		log.Error("Failed to ensure Kafka topics", "error", err)
		os.Exit(1)
	}

	eventProducer, err := producers.NewLedgerEventProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize ledger event producer", "error", err)
		os.Exit(1)
	}
	dlqProducer, err := producers.NewDLQProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ producer", "error", err)
		os.Exit(1)
	}
	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		postgresDB,
		outboxRepo,
		outbox_poller.NewKafkaEventPublisher(eventProducer, log),
		log.With("component", "outbox_poller"),
	)
	handler := consumer.NewLedgerEventHandler(
		log.With("component", "ledger_event_handler"),
		projections,
		dlqProducer,
		cfg.Kafka.MaxRetries,
	)

	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := kafkaConsumer.Run(appCtx, handler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Waiting for consumer and poller to stop...")
	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
		log.Info("All workers stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}
	if err := eventProducer.Close(); err != nil {
		log.Error("Error closing ledger event producer", "error", err)
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ producer", "error", err)
	}
	postgresDB.Close()
	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Ledger projector shutdown completed with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Ledger projector shutdown completed successfully")
}
