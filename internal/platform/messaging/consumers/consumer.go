package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/portfolio-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one fetched message. A nil return commits the offset.
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// KafkaReader wraps kafka.Reader methods for testing
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads a topic with manual offset commits
type KafkaConsumer struct {
	reader     KafkaReader
	topic      string
	groupID    string
	fetchPause time.Duration
	logger     *slog.Logger
}

func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	startOffset := kafka.FirstOffset
	if cfg.StartOffset == kafka.LastOffset {
		startOffset = kafka.LastOffset
	}

	return &KafkaConsumer{
		topic:      cfg.EventsTopic,
		groupID:    cfg.ConsumerGroup,
		fetchPause: time.Second,
		logger:     logger,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.EventsTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: startOffset,
		}),
	}
}

// Run fetches and handles messages until ctx is cancelled. Offsets of
// messages the handler fails are left uncommitted.
func (c *KafkaConsumer) Run(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Consuming Kafka topic", "topic", c.topic, "group_id", c.groupID)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("Context canceled, stopping consumer", "topic", c.topic)
				return nil
			}
			c.logger.Error("Failed to fetch message from Kafka", "topic", c.topic, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.fetchPause):
			}
			continue
		}

		log := c.logger.With("partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key))
		log.Debug("Received message from Kafka")

		if err := handler(ctx, msg); err != nil {
			log.Error("Failed to process message, will not commit offset", "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("Failed to commit message after successful processing", "error", err)
			continue
		}
		log.Debug("Message committed")
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader == nil {
		return nil
	}
	return c.reader.Close()
}
