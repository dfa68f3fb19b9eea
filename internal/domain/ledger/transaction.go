package ledger

import (
	"time"

	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger record of a buy, sell or transfer
type Transaction struct {
	ID                string                   `json:"id"`
	Type              shared.TransactionType   `json:"type"`
	Asset             string                   `json:"asset"`
	Amount            decimal.Decimal          `json:"amount"`
	Price             decimal.Decimal          `json:"price"`
	Value             decimal.Decimal          `json:"value"`
	Date              time.Time                `json:"date"`
	Status            shared.TransactionStatus `json:"status"`
	TransferDirection shared.TransferDirection `json:"transferDirection,omitempty"`
	UserID            string                   `json:"userId"`
	Notes             string                   `json:"notes,omitempty"`
	Fee               decimal.NullDecimal      `json:"fee"`
}

func (t Transaction) IsCompleted() bool {
	return t.Status == shared.TransactionStatusCompleted
}

// Direction returns the transfer direction with the send default applied.
// It is empty for buys and sells.
func (t Transaction) Direction() shared.TransferDirection {
	if t.Type != shared.TransactionTypeTransfer {
		return ""
	}
	if t.TransferDirection == "" {
		return shared.TransferDirectionSend
	}
	return t.TransferDirection
}

// SignedQuantity is the change in held quantity of the asset: +amount for a buy,
// -amount for a sell and zero for a transfer.
func (t Transaction) SignedQuantity() decimal.Decimal {
	switch t.Type {
	case shared.TransactionTypeBuy:
		return t.Amount
	case shared.TransactionTypeSell:
		return t.Amount.Neg()
	}
	return decimal.Zero
}
