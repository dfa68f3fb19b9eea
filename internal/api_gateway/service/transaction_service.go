package service

import (
	"context"

	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	rsvc "github.com/portfolio-ledger/internal/reconciliation/service"
)

// TransactionServiceImpl adapts the reconciliation engine to the HTTP layer
type TransactionServiceImpl struct {
	engine rsvc.ReconciliationService
}

func NewTransactionService(engine rsvc.ReconciliationService) TransactionService {
	return &TransactionServiceImpl{engine: engine}
}

func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, request shared.TransactionRequest) (rsvc.Result, error) {
	parsed, err := shared.ParseRequest(request)
	if err != nil {
		return rsvc.Result{}, err
	}
	return s.engine.Process(ctx, parsed)
}

func (s *TransactionServiceImpl) DeleteTransaction(ctx context.Context, id string) (rsvc.Result, error) {
	return s.engine.Delete(ctx, id)
}

func (s *TransactionServiceImpl) GetTransactionByID(ctx context.Context, id string) (ledger.Transaction, error) {
	return s.engine.Transaction(ctx, id)
}

func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, query ledger.Query) []ledger.Transaction {
	return s.engine.Transactions(ctx, query)
}

func (s *TransactionServiceImpl) Summarize(ctx context.Context, filter ledger.Filter) ledger.Summary {
	return s.engine.Summary(ctx, filter)
}
