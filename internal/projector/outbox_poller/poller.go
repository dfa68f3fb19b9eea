package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/domain/outbox"
	"github.com/portfolio-ledger/internal/domain/shared"
)

// Transactor runs fn inside a database transaction
type Transactor interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Poller publishes pending outbox messages in sequence order
type Poller struct {
	db               Transactor
	outboxRepo       outbox.Repository
	publisher        EventPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	db Transactor,
	outboxRepo outbox.Repository,
	publisher EventPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		db:               db,
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start polls until ctx is cancelled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping")
			return
		case <-ticker.C:
			if _, err := p.PollOnce(ctx); err != nil {
				p.logger.Error("Outbox poll failed", "error", err)
			}
		}
	}
}

// PollOnce handles one batch inside a single transaction and returns how many
// messages were published. Rows stay locked until the batch is done.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	published := 0

	err := p.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := p.outboxRepo.WithTx(tx)

		messages, err := repo.GetPending(ctx, p.batchSize)
		if err != nil {
			return fmt.Errorf("failed to get pending outbox messages: %w", err)
		}
		if len(messages) == 0 {
			p.logger.Debug("No pending outbox messages")
			return nil
		}
		p.logger.Info("Fetched pending outbox messages", "count", len(messages))

		for _, msg := range messages {
			if err := p.publisher.Publish(ctx, repo, msg); err != nil {
				p.recordFailure(ctx, repo, msg, err)
				continue
			}
			published++
		}
		return nil
	})
	return published, err
}

func (p *Poller) recordFailure(ctx context.Context, repo outbox.Repository, msg *outbox.Message, cause error) {
	logger := p.logger.With("outbox_id", msg.ID, "transaction_id", msg.TransactionID, "sequence", msg.Sequence)
	logger.Error("Failed to publish outbox message", "attempts", msg.Attempts, "error", cause)

	var undecodable ErrUndecodablePayload
	if errors.As(cause, &undecodable) {
		return
	}

	if err := repo.IncrementAttempts(ctx, msg.ID); err != nil {
		logger.Error("Failed to increment attempts for outbox message", "error", err)
		return
	}

	if msg.ExhaustedAfterFailure(p.maxRetryAttempts) {
		logger.Warn("Max retry attempts reached, marking outbox message as FAILED_TO_PUBLISH", "attempts", msg.Attempts+1)
		if err := repo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); err != nil {
			logger.Error("Failed to mark outbox message as FAILED_TO_PUBLISH", "error", err)
		}
	}
}
