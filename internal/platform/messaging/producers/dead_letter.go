package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/portfolio-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
}

// deadLetter is the DLQ message body. The original value is kept verbatim.
type deadLetter struct {
	OriginalTopic     string          `json:"original_topic"`
	OriginalPartition int             `json:"original_partition"`
	OriginalOffset    int64           `json:"original_offset"`
	OriginalKey       string          `json:"original_key"`
	OriginalValue     json.RawMessage `json:"original_value,omitempty"`
	RawValue          string          `json:"raw_value,omitempty"`
	Reason            string          `json:"dlq_reason"`
	Attempts          int             `json:"attempts"`
	Timestamp         string          `json:"timestamp"`
}

func NewDLQProducer(logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		return nil, fmt.Errorf("kafka DLQ topic is not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &DLQProducer{
		logger:   logger,
		writer:   writer,
		dlqTopic: cfg.DLQTopic,
	}, nil
}

func (p *DLQProducer) PublishToDLQ(ctx context.Context, original kafka.Message, reason string, attempts int) error {
	letter := deadLetter{
		OriginalTopic:     original.Topic,
		OriginalPartition: original.Partition,
		OriginalOffset:    original.Offset,
		OriginalKey:       string(original.Key),
		Reason:            reason,
		Attempts:          attempts,
		Timestamp:         time.Now().UTC().Format(time.RFC3339Nano),
	}
	if json.Valid(original.Value) {
		letter.OriginalValue = original.Value
	} else {
		letter.RawValue = string(original.Value)
	}

	value, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message: %w", err)
	}

	headers := append([]kafka.Header{{Key: HeaderDLQReason, Value: []byte(reason)}}, original.Headers...)
	msg := kafka.Message{
		Key:     original.Key,
		Value:   value,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message to DLQ",
			"topic", p.dlqTopic,
			"key", string(original.Key),
			"error", err,
		)
		return fmt.Errorf("failed to publish message to DLQ %s: %w", p.dlqTopic, err)
	}

	p.logger.Info("Published message to DLQ",
		"topic", p.dlqTopic,
		"key", string(original.Key),
		"reason", reason,
		"attempts", attempts,
	)
	return nil
}

func (p *DLQProducer) Close() error {
	p.logger.Info("Closing DLQ producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq kafka writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
