package components

import (
	"context"
	"log/slog"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/portfolio-ledger/internal/reconciliation/service"
)

// BudgetManagerImpl implements the BudgetManager interface
type BudgetManagerImpl struct {
	logger *slog.Logger
}

func NewBudgetManager(logger *slog.Logger) service.BudgetManager {
	return &BudgetManagerImpl{logger: logger}
}

// Apply performs the affordability check and the budget mutation of a new
// transaction. positions must not yet include tx.
//
//	buy:      cash -= value, investments += value, +1 position on the first completed buy
//	sell:     cash += value, investments -= value, -1 position once net quantity is <= 0
//	send:     cash -= amount
//	receive:  cash += amount
func (m *BudgetManagerImpl) Apply(ctx context.Context, b *budget.Budget, tx ledger.Transaction, positions service.PositionTracker) error {
	next := *b

	switch tx.Type {
	case shared.TransactionTypeBuy:
		if err := next.RequireFunds(tx.Value); err != nil {
			return err
		}
		next.Invest(tx.Value)
		if !positions.HasBought(tx.Asset) {
			next.OpenPosition()
		}
	case shared.TransactionTypeSell:
		next.Divest(tx.Value)
		if !positions.NetQuantity(tx.Asset).Sub(tx.Amount).IsPositive() {
			next.ClosePosition()
		}
	case shared.TransactionTypeTransfer:
		if tx.Direction() == shared.TransferDirectionReceive {
			next.Deposit(tx.Amount)
		} else {
			if err := next.RequireFunds(tx.Amount); err != nil {
				return err
			}
			next.Withdraw(tx.Amount)
		}
	default:
		return shared.ValidationError{Field: "type", Reason: shared.ErrUnknownTransactionType.Error()}
	}

	logger.FromContext(ctx, m.logger).Debug("Budget mutation applied",
		"transaction_id", tx.ID,
		"cash", next.Cash.String(),
		"investments", next.Investments.String(),
		"active_positions", next.ActivePositions,
	)
	*b = next
	return nil
}

// Reverse applies the inverse mutation of a committed transaction that is
// about to be removed. positions must still include tx. Reversals that take
// money out of cash go through the affordability check.
func (m *BudgetManagerImpl) Reverse(ctx context.Context, b *budget.Budget, tx ledger.Transaction, positions service.PositionTracker) error {
	next := *b
	before := positions.NetQuantity(tx.Asset)
	after := before.Sub(tx.SignedQuantity())

	switch tx.Type {
	case shared.TransactionTypeBuy:
		next.Divest(tx.Value)
		if before.IsPositive() && !after.IsPositive() {
			next.ClosePosition()
		}
	case shared.TransactionTypeSell:
		if err := next.RequireFunds(tx.Value); err != nil {
			return err
		}
		next.Invest(tx.Value)
		if !before.IsPositive() && after.IsPositive() {
			next.OpenPosition()
		}
	case shared.TransactionTypeTransfer:
		if tx.Direction() == shared.TransferDirectionReceive {
			if err := next.RequireFunds(tx.Amount); err != nil {
				return err
			}
			next.Withdraw(tx.Amount)
		} else {
			next.Deposit(tx.Amount)
		}
	default:
		return shared.ValidationError{Field: "type", Reason: shared.ErrUnknownTransactionType.Error()}
	}

	logger.FromContext(ctx, m.logger).Debug("Budget mutation reversed",
		"transaction_id", tx.ID,
		"cash", next.Cash.String(),
		"investments", next.Investments.String(),
		"active_positions", next.ActivePositions,
	)
	*b = next
	return nil
}
