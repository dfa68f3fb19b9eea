// Package config provides configuration structures and validation for the
// API gateway and the ledger projector.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration. Sections that a binary
// does not use still carry valid defaults.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Engine      EngineConfig
	Mirror      MirrorConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// EngineConfig describes the single user's starting state
type EngineConfig struct {
	UserID                 string
	UserName               string
	UserEmail              string
	SeedDemoData           bool
	InitialCash            decimal.Decimal
	InitialInvestments     decimal.Decimal
	InitialActivePositions int
	MaxAmount              decimal.Decimal
	Currency               string // ISO 4217 code used for display formatting
}

// MirrorConfig controls mirroring of committed changes to Postgres and the read model
type MirrorConfig struct {
	Enabled        bool
	WorkerPoolSize int
	SubmitTimeout  time.Duration
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	EventsTopic       string
	DLQTopic          string
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	MaxRetries        int // Handler attempts before a message is sent to the DLQ
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// OutboxConfig contains outbox poller configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int
}

// validate collects every configuration problem into a single error
func (c *Config) validate() error {
	var problems []string
	require := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	require(c.Server.Port > 0, "SERVER_PORT must be greater than 0")
	require(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	require(c.Server.ReadTimeout > 0, "SERVER_READ_TIMEOUT must be greater than 0")
	require(c.Server.WriteTimeout > 0, "SERVER_WRITE_TIMEOUT must be greater than 0")
	require(c.Server.IdleTimeout > 0, "SERVER_IDLE_TIMEOUT must be greater than 0")

	require(strings.TrimSpace(c.Engine.UserID) != "", "ENGINE_USER_ID is required")
	require(!c.Engine.InitialCash.IsNegative(), "ENGINE_INITIAL_CASH must not be negative")
	require(c.Engine.InitialActivePositions >= 0, "ENGINE_INITIAL_ACTIVE_POSITIONS must not be negative")
	require(c.Engine.MaxAmount.IsPositive(), "ENGINE_MAX_AMOUNT must be greater than 0")
	require(len(c.Engine.Currency) == 3, "ENGINE_CURRENCY must be a 3-letter code")

	require(c.Mirror.WorkerPoolSize > 0, "MIRROR_WORKER_POOL_SIZE must be greater than 0")
	require(c.Mirror.SubmitTimeout > 0, "MIRROR_SUBMIT_TIMEOUT must be greater than 0")

	require(c.Kafka.Brokers != "", "KAFKA_BROKERS is required")
	require(c.Kafka.EventsTopic != "", "KAFKA_EVENTS_TOPIC is required")
	require(c.Kafka.DLQTopic != "", "KAFKA_DLQ_TOPIC is required")
	require(c.Kafka.ConsumerGroup != "", "KAFKA_CONSUMER_GROUP is required")
	require(c.Kafka.MinBytes > 0, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	require(c.Kafka.MaxBytes > 0, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	require(c.Kafka.MaxWait > 0, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	require(c.Kafka.MaxRetries > 0, "KAFKA_MAX_RETRIES must be greater than 0")

	require(c.Postgres.URL != "", "POSTGRES_URL is required")
	require(c.Postgres.MaxConns > 0, "POSTGRES_MAX_CONNS must be greater than 0")
	require(c.Postgres.MinConns > 0, "POSTGRES_MIN_CONNS must be greater than 0")
	require(c.Postgres.ConnMaxLifetime > 0, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	require(c.Postgres.ConnMaxIdleTime > 0, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")

	require(c.MongoDB.URI != "", "MONGO_URI is required")
	require(c.MongoDB.Database != "", "MONGO_DATABASE is required")
	require(c.MongoDB.Timeout > 0, "MONGO_TIMEOUT must be greater than 0")
	require(c.MongoDB.MaxPoolSize > 0, "MONGO_MAX_POOL_SIZE must be greater than 0")

	require(c.Outbox.PollingInterval > 0, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	require(c.Outbox.BatchSize > 0, "OUTBOX_BATCH_SIZE must be greater than 0")
	require(c.Outbox.MaxRetryAttempts > 0, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}
