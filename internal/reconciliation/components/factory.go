package components

import (
	"log/slog"

	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/reconciliation/service"
)

// CreateReconciliationService creates the engine with all its dependencies.
// The position index is built from the entries already in store.
func CreateReconciliationService(
	cfg *config.Config,
	store ledger.Store,
	initial budget.Budget,
	recorder service.EventRecorder,
	logger *slog.Logger,
) service.ReconciliationService {
	validator := NewRequestValidator(cfg.Engine.MaxAmount, logger)
	budgetManager := NewBudgetManager(logger)
	positions := NewPositionIndex(store.All())
	builder := NewTransactionBuilder(cfg.Engine.UserID)

	engine := service.NewEngine(
		store,
		initial,
		validator,
		budgetManager,
		positions,
		builder,
		recorder,
		logger.With("component", "reconciliation_engine"),
	)

	logger.Info("Created reconciliation engine",
		"user_id", cfg.Engine.UserID,
		"ledger_entries", store.Len(),
		"cash", initial.Cash.String(),
		"active_positions", initial.ActivePositions,
	)
	return engine
}
