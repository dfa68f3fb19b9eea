package service

import (
	"context"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/domain/user"
	rsvc "github.com/portfolio-ledger/internal/reconciliation/service"
)

// TransactionService defines the transaction operations exposed over HTTP
type TransactionService interface {
	// CreateTransaction parses the wire request and submits it to the engine.
	// Returns a shared.ValidationError or budget.InsufficientFundsError on rejection.
	CreateTransaction(ctx context.Context, request shared.TransactionRequest) (rsvc.Result, error)

	// DeleteTransaction removes a transaction and compensates the budget.
	// Returns ledger.ErrNotFound if the transaction doesn't exist.
	DeleteTransaction(ctx context.Context, id string) (rsvc.Result, error)

	GetTransactionByID(ctx context.Context, id string) (ledger.Transaction, error)
	ListTransactions(ctx context.Context, query ledger.Query) []ledger.Transaction
	Summarize(ctx context.Context, filter ledger.Filter) ledger.Summary
}

// Profile is the user profile together with the current budget
type Profile struct {
	User   user.User
	Budget budget.Budget
}

// UserService defines profile and budget operations
type UserService interface {
	GetProfile(ctx context.Context) (Profile, error)

	// UpdateProfile changes only name, email and image URL. The budget is never touched.
	UpdateProfile(ctx context.Context, update user.ProfileUpdate) (Profile, error)

	GetBudget(ctx context.Context) budget.Budget
}

// ReportService reads the mirrored read models
type ReportService interface {
	// ListTransactions returns one page of the projected ledger and the total match count
	ListTransactions(ctx context.Context, filter ledger.Filter, includeDeleted bool, page, perPage int) ([]*ledger.Projection, int64, error)

	// LatestSnapshot returns the last budget persisted to Postgres.
	// Returns budget.ErrSnapshotNotFound if nothing has been mirrored yet.
	LatestSnapshot(ctx context.Context) (*budget.Budget, error)
}
