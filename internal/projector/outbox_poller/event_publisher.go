package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/portfolio-ledger/internal/domain/outbox"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/platform/messaging/producers"
)

// EventPublisher publishes one outbox message and records the outcome through repo
type EventPublisher interface {
	Publish(ctx context.Context, repo outbox.Repository, message *outbox.Message) error
}

// ErrUndecodablePayload marks a message that can never be published
type ErrUndecodablePayload struct {
	OutboxID int64
	Err      error
}

func (e ErrUndecodablePayload) Error() string {
	return fmt.Sprintf("outbox message %d has an undecodable payload: %v", e.OutboxID, e.Err)
}

func (e ErrUndecodablePayload) Unwrap() error {
	return e.Err
}

// KafkaEventPublisher implements EventPublisher on top of the ledger event producer
type KafkaEventPublisher struct {
	producer producers.EventPublisher
	logger   *slog.Logger
}

func NewKafkaEventPublisher(producer producers.EventPublisher, logger *slog.Logger) EventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		logger:   logger,
	}
}

// Publish checks that the payload is a ledger event, sends it and marks the
// message processed. A payload that does not decode is marked failed at once.
func (p *KafkaEventPublisher) Publish(ctx context.Context, repo outbox.Repository, message *outbox.Message) error {
	logger := p.logger
	if message.CorrelationID != "" {
		logger = p.logger.With("correlation_id", message.CorrelationID)
	}

	if _, err := message.Event(); err != nil {
		logger.Error("Failed to decode ledger event from outbox payload", "outbox_id", message.ID, "error", err)
		if updateErr := repo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			logger.Error("Also failed to mark undecodable outbox message as FAILED_TO_PUBLISH", "outbox_id", message.ID, "update_error", updateErr)
		}
		return ErrUndecodablePayload{OutboxID: message.ID, Err: err}
	}

	if err := p.producer.PublishEvent(ctx, message); err != nil {
		return err
	}

	if err := repo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to mark outbox message as PROCESSED", "outbox_id", message.ID, "error", err)
		return fmt.Errorf("event %d published, but failed to mark outbox %d as PROCESSED: %w", message.Sequence, message.ID, err)
	}

	logger.Info("Published ledger event", "outbox_id", message.ID, "transaction_id", message.TransactionID, "sequence", message.Sequence)
	return nil
}
