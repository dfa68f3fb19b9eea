package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/logger"
)

// Engine is the ReconciliationService over an in-process ledger and budget.
// Writers hold the lock for the whole validate-mutate-append step, so readers
// always observe a transaction together with the budget it produced.
type Engine struct {
	mu        sync.RWMutex
	store     ledger.Store
	budget    budget.Budget
	sequence  int64
	validator RequestValidator
	budgets   BudgetManager
	positions PositionTracker
	builder   TransactionBuilder
	recorder  EventRecorder
	now       func() time.Time
	logger    *slog.Logger
}

func NewEngine(
	store ledger.Store,
	initial budget.Budget,
	validator RequestValidator,
	budgets BudgetManager,
	positions PositionTracker,
	builder TransactionBuilder,
	recorder EventRecorder,
	logger *slog.Logger,
) *Engine {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Engine{
		store:     store,
		budget:    initial,
		sequence:  time.Now().UnixMicro(),
		validator: validator,
		budgets:   budgets,
		positions: positions,
		builder:   builder,
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

var _ ReconciliationService = (*Engine)(nil)

// Process validates request, applies it to the budget and appends the new
// transaction. A rejected request leaves the budget and ledger untouched.
func (e *Engine) Process(ctx context.Context, request shared.Request) (Result, error) {
	log := logger.FromContext(ctx, e.logger)

	if request == nil {
		return Result{}, shared.ValidationError{Field: "type", Reason: "is required"}
	}
	if err := e.validator.Validate(ctx, request); err != nil {
		log.Warn("Transaction rejected", "type", string(request.Kind()), "asset", request.AssetSymbol(), "error", err)
		return Result{}, err
	}

	e.mu.Lock()
	tx := e.builder.Build(request)

	next := e.budget
	if err := e.budgets.Apply(ctx, &next, tx, e.positions); err != nil {
		e.mu.Unlock()
		log.Warn("Transaction rejected", "type", string(tx.Type), "asset", tx.Asset, "value", tx.Value.String(), "error", err)
		return Result{}, err
	}
	next.Stamp(tx.Date)

	if err := e.store.Append(tx); err != nil {
		e.mu.Unlock()
		log.Error("Failed to append transaction", "transaction_id", tx.ID, "error", err)
		return Result{}, fmt.Errorf("failed to append transaction %s: %w", tx.ID, err)
	}
	e.positions.Record(tx)
	e.budget = next
	e.sequence++
	evt := ledger.NewCommittedEvent(e.sequence, tx, next)
	e.mu.Unlock()

	log.Info("Transaction committed",
		"transaction_id", tx.ID,
		"type", string(tx.Type),
		"asset", tx.Asset,
		"value", tx.Value.String(),
		"cash", next.Cash.String(),
		"active_positions", next.ActivePositions,
	)
	e.record(ctx, log, evt)

	return Result{Transaction: tx, Budget: next}, nil
}

// Delete removes a transaction and applies the compensating budget mutation
// for it. Entries that are not completed are removed without budget effect.
func (e *Engine) Delete(ctx context.Context, id string) (Result, error) {
	log := logger.FromContext(ctx, e.logger)

	e.mu.Lock()
	tx, err := e.store.Get(id)
	if err != nil {
		e.mu.Unlock()
		log.Warn("Transaction not found for deletion", "transaction_id", id)
		return Result{}, err
	}

	next := e.budget
	if tx.IsCompleted() {
		if err := e.budgets.Reverse(ctx, &next, tx, e.positions); err != nil {
			e.mu.Unlock()
			log.Warn("Transaction deletion rejected", "transaction_id", id, "error", err)
			return Result{}, err
		}
		next.Stamp(e.now())
	}

	if _, err := e.store.Remove(id); err != nil {
		e.mu.Unlock()
		log.Error("Failed to remove transaction", "transaction_id", id, "error", err)
		return Result{}, fmt.Errorf("failed to remove transaction %s: %w", id, err)
	}
	e.positions.Forget(tx)
	e.budget = next
	e.sequence++
	evt := ledger.NewDeletedEvent(e.sequence, tx, next)
	e.mu.Unlock()

	log.Info("Transaction deleted", "transaction_id", id, "compensated", tx.IsCompleted(), "cash", next.Cash.String())
	e.record(ctx, log, evt)

	return Result{Transaction: tx, Budget: next}, nil
}

func (e *Engine) record(ctx context.Context, log *slog.Logger, evt ledger.Event) {
	if err := e.recorder.Record(ctx, evt); err != nil {
		log.Error("Failed to record ledger event", "sequence", evt.Sequence, "transaction_id", evt.Transaction.ID, "error", err)
	}
}

func (e *Engine) Budget(_ context.Context) budget.Budget {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.budget
}

func (e *Engine) Transaction(_ context.Context, id string) (ledger.Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Get(id)
}

func (e *Engine) Transactions(_ context.Context, query ledger.Query) []ledger.Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Find(query)
}

func (e *Engine) Summary(_ context.Context, filter ledger.Filter) ledger.Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ledger.Summarize(e.store.Query(filter))
}
