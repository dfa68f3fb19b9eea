package producers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/domain/outbox"
	"github.com/segmentio/kafka-go"
)

// LedgerEventProducer writes outbox messages to the events topic. Writes are
// synchronous so the poller only marks a message processed once Kafka has it.
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

func NewLedgerEventProducer(logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEventProducer, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("kafka events topic is not configured")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers),
		Topic:                  cfg.EventsTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           cfg.MaxWait,
		AllowAutoTopicCreation: false,
	}

	return &LedgerEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EventsTopic,
	}, nil
}

// PublishEvent keys the message by transaction id so every event of one
// transaction lands on the same partition.
func (p *LedgerEventProducer) PublishEvent(ctx context.Context, message *outbox.Message) error {
	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(message.EventType)},
		{Key: HeaderSequence, Value: []byte(strconv.FormatInt(message.Sequence, 10))},
	}
	if message.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(message.CorrelationID)})
	}

	msg := kafka.Message{
		Key:     []byte(message.TransactionID),
		Value:   message.Payload,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"topic", p.topic,
			"transaction_id", message.TransactionID,
			"sequence", message.Sequence,
			"error", err,
		)
		return fmt.Errorf("failed to publish ledger event %d to %s: %w", message.Sequence, p.topic, err)
	}

	p.logger.Debug("Published ledger event", "topic", p.topic, "transaction_id", message.TransactionID, "sequence", message.Sequence)
	return nil
}

func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
