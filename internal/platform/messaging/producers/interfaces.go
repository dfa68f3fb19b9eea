package producers

import (
	"context"

	"github.com/portfolio-ledger/internal/domain/outbox"
	"github.com/segmentio/kafka-go"
)

// Header keys set on every ledger event message
const (
	HeaderEventType     = "event-type"
	HeaderSequence      = "sequence"
	HeaderCorrelationID = "correlation-id"
	HeaderDLQReason     = "dlq-reason"
)

// EventPublisher publishes outbox messages to the ledger events topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, original kafka.Message, reason string, attempts int) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TopicAdmin is the part of *kafka.Conn used to inspect and create topics
type TopicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

var _ TopicAdmin = (*kafka.Conn)(nil)
