package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/portfolio-ledger/internal/platform/messaging/producers"
	"github.com/segmentio/kafka-go"
)

// LedgerEventHandler projects ledger events from Kafka into the read model
type LedgerEventHandler struct {
	projections ledger.ProjectionRepository
	dlq         producers.DeadLetterPublisher
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

func NewLedgerEventHandler(
	logger *slog.Logger,
	projections ledger.ProjectionRepository,
	dlq producers.DeadLetterPublisher,
	maxAttempts int,
) *LedgerEventHandler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &LedgerEventHandler{
		projections: projections,
		dlq:         dlq,
		maxAttempts: maxAttempts,
		retryDelay:  200 * time.Millisecond,
		logger:      logger,
	}
}

// HandleMessage applies one event. Messages that cannot be decoded or keep
// failing are dead-lettered so the partition keeps moving; an error is
// returned only when the dead letter itself could not be written.
func (h *LedgerEventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	log := h.logger.With("partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key))
	if correlationID := header(msg, producers.HeaderCorrelationID); correlationID != "" {
		log = log.With("correlation_id", correlationID)
		ctx = logger.WithCorrelationID(ctx, correlationID)
	}

	var evt ledger.Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		log.Error("Failed to unmarshal ledger event from Kafka message", "error", err)
		return h.deadLetter(ctx, log, msg, fmt.Sprintf("failed to unmarshal ledger event: %v", err), 0)
	}

	log = log.With("sequence", evt.Sequence, "event_type", string(evt.Type), "transaction_id", evt.Transaction.ID)

	var lastErr error
	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		lastErr = h.projections.Apply(ctx, evt)
		if lastErr == nil {
			log.Info("Projected ledger event", "attempt", attempt)
			return nil
		}
		log.Warn("Failed to project ledger event", "attempt", attempt, "max_attempts", h.maxAttempts, "error", lastErr)

		if attempt < h.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.retryDelay * time.Duration(attempt)):
			}
		}
	}

	return h.deadLetter(ctx, log, msg, fmt.Sprintf("projection failed: %v", lastErr), h.maxAttempts)
}

func (h *LedgerEventHandler) deadLetter(ctx context.Context, log *slog.Logger, msg kafka.Message, reason string, attempts int) error {
	if h.dlq == nil {
		return fmt.Errorf("no dead letter publisher configured: %s", reason)
	}
	if err := h.dlq.PublishToDLQ(ctx, msg, reason, attempts); err != nil {
		log.Error("Failed to publish message to DLQ", "reason", reason, "dlq_error", err)
		return fmt.Errorf("failed to dead-letter message at offset %d: %w", msg.Offset, err)
	}
	log.Warn("Published message to DLQ", "reason", reason, "attempts", attempts)
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
