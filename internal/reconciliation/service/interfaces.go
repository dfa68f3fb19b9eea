package service

import (
	"context"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReconciliationService turns transaction requests into ledger entries and
// budget mutations. It is the only writer of the ledger and the budget.
type ReconciliationService interface {
	Process(ctx context.Context, request shared.Request) (Result, error)
	Delete(ctx context.Context, id string) (Result, error)
	Budget(ctx context.Context) budget.Budget
	Transaction(ctx context.Context, id string) (ledger.Transaction, error)
	Transactions(ctx context.Context, query ledger.Query) []ledger.Transaction
	Summary(ctx context.Context, filter ledger.Filter) ledger.Summary
}

// Result pairs a transaction with the budget it produced
type Result struct {
	Transaction ledger.Transaction `json:"transaction"`
	Budget      budget.Budget      `json:"budget"`
}

// RequestValidator validates requests before any state is touched
type RequestValidator interface {
	Validate(ctx context.Context, request shared.Request) error
}

// PositionTracker keeps the held quantity per asset derived from the ledger
type PositionTracker interface {
	HasBought(asset string) bool
	NetQuantity(asset string) decimal.Decimal
	Record(tx ledger.Transaction)
	Forget(tx ledger.Transaction)
}

// BudgetManager applies and reverses the budget effect of a transaction.
// Implementations mutate b only when they return nil.
type BudgetManager interface {
	Apply(ctx context.Context, b *budget.Budget, tx ledger.Transaction, positions PositionTracker) error
	Reverse(ctx context.Context, b *budget.Budget, tx ledger.Transaction, positions PositionTracker) error
}

// TransactionBuilder creates the ledger record for an accepted request
type TransactionBuilder interface {
	Build(request shared.Request) ledger.Transaction
}

// EventRecorder receives every committed change after the engine has released its lock
type EventRecorder interface {
	Record(ctx context.Context, evt ledger.Event) error
}

// NopRecorder discards events
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, ledger.Event) error { return nil }
