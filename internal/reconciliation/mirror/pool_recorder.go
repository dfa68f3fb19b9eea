package mirror

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/portfolio-ledger/internal/reconciliation/service"
)

// PoolRecorder hands events to a base recorder on an ants worker pool so the
// engine never waits for the mirror.
type PoolRecorder struct {
	base    service.EventRecorder
	pool    *ants.Pool
	timeout time.Duration
	logger  *slog.Logger
}

type PoolConfig struct {
	Size    int
	Timeout time.Duration // Bounds each mirrored write
}

func NewPoolRecorder(base service.EventRecorder, config PoolConfig, logger *slog.Logger) (*PoolRecorder, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &PoolRecorder{
		base:    base,
		pool:    pool,
		timeout: config.Timeout,
		logger:  logger,
	}, nil
}

var _ service.EventRecorder = (*PoolRecorder)(nil)

// Record submits evt and returns once it is queued. The task keeps the values
// of ctx but not its cancellation.
func (r *PoolRecorder) Record(ctx context.Context, evt ledger.Event) error {
	taskCtx := context.WithoutCancel(ctx)

	err := r.pool.Submit(func() {
		runCtx, cancel := r.withTimeout(taskCtx)
		defer cancel()
		if err := r.base.Record(runCtx, evt); err != nil {
			logger.FromContext(taskCtx, r.logger).Error("Mirror task failed", "sequence", evt.Sequence, "error", err)
		}
	})
	if err != nil {
		logger.FromContext(ctx, r.logger).Error("Failed to submit event to worker pool",
			"transaction_id", evt.Transaction.ID,
			"sequence", evt.Sequence,
			"error", err,
		)
		return err
	}
	return nil
}

func (r *PoolRecorder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Shutdown waits up to timeout for queued events, then releases the pool.
func (r *PoolRecorder) Shutdown(timeout time.Duration) {
	r.logger.Info("Shutting down mirror worker pool", "running_workers", r.pool.Running())
	if err := r.pool.ReleaseTimeout(timeout); err != nil {
		r.logger.Warn("Mirror worker pool did not drain in time", "error", err)
	}
}

// Running returns the number of running workers in the pool.
func (r *PoolRecorder) Running() int {
	return r.pool.Running()
}
