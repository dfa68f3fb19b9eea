package mirror

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/outbox"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/portfolio-ledger/internal/reconciliation/service"
)

// Transactor runs fn inside a database transaction
type Transactor interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// OutboxRecorder mirrors ledger events to Postgres. The budget snapshot and the
// outbox message are written in one transaction.
type OutboxRecorder struct {
	db        Transactor
	snapshots budget.SnapshotRepository
	outbox    outbox.Repository
	logger    *slog.Logger
}

func NewOutboxRecorder(db Transactor, snapshots budget.SnapshotRepository, outboxRepo outbox.Repository, logger *slog.Logger) *OutboxRecorder {
	return &OutboxRecorder{
		db:        db,
		snapshots: snapshots,
		outbox:    outboxRepo,
		logger:    logger,
	}
}

var _ service.EventRecorder = (*OutboxRecorder)(nil)

func (r *OutboxRecorder) Record(ctx context.Context, evt ledger.Event) error {
	log := logger.FromContext(ctx, r.logger)

	message, err := outbox.NewMessage(evt, logger.CorrelationID(ctx))
	if err != nil {
		log.Error("Failed to create new outbox message (marshal payload)", "transaction_id", evt.Transaction.ID, "error", err)
		return fmt.Errorf("failed to create outbox message payload for tx %s: %w", evt.Transaction.ID, err)
	}

	err = r.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := r.snapshots.WithTx(tx).Save(ctx, evt.Budget, evt.Sequence); err != nil {
			return err
		}
		return r.outbox.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		log.Error("Failed to mirror ledger event",
			"transaction_id", evt.Transaction.ID,
			"sequence", evt.Sequence,
			"error", err,
		)
		return fmt.Errorf("failed to mirror event %d: %w", evt.Sequence, err)
	}

	log.Info("Ledger event mirrored",
		"transaction_id", evt.Transaction.ID,
		"event_type", string(evt.Type),
		"sequence", evt.Sequence,
		"outbox_id", message.ID,
	)
	return nil
}
