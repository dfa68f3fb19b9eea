package components

import (
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/reconciliation/service"
)

// TransactionBuilderImpl implements the TransactionBuilder interface
type TransactionBuilderImpl struct {
	userID string
	now    func() time.Time
	newID  func() string
}

func NewTransactionBuilder(userID string) service.TransactionBuilder {
	return &TransactionBuilderImpl{
		userID: userID,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Build creates a completed transaction. Value is always amount * unit price,
// with the unit price of a transfer fixed at 1.
func (b *TransactionBuilderImpl) Build(request shared.Request) ledger.Transaction {
	notes := shared.AnnotationsOf(request)
	tx := ledger.Transaction{
		ID:     b.newID(),
		Type:   request.Kind(),
		Asset:  request.AssetSymbol(),
		Amount: request.Quantity(),
		Price:  request.UnitPrice(),
		Date:   b.now().UTC(),
		Status: shared.TransactionStatusCompleted,
		UserID: b.userID,
		Notes:  notes.Notes,
		Fee:    notes.Fee,
	}
	tx.Value = tx.Amount.Mul(tx.Price)
	if transfer, ok := request.(shared.TransferRequest); ok {
		tx.TransferDirection = transfer.EffectiveDirection()
	}
	return tx
}
