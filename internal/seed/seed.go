// Package seed holds the demo data the gateway starts with.
package seed

import (
	"fmt"
	"time"

	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/domain/user"
	"github.com/shopspring/decimal"
)

type entry struct {
	id     string
	kind   shared.TransactionType
	asset  string
	amount string
	price  string
	date   string
}

// newest first
var demo = []entry{
	{"t1", shared.TransactionTypeBuy, "AAPL", "5", "178.72", "2023-12-01T10:30:00Z"},
	{"t2", shared.TransactionTypeSell, "TSLA", "2", "235.45", "2023-11-28T14:15:00Z"},
	{"t3", shared.TransactionTypeBuy, "MSFT", "3", "378.33", "2023-11-25T09:45:00Z"},
	{"t4", shared.TransactionTypeTransfer, "USD", "1000", "1", "2023-11-20T16:20:00Z"},
	{"t5", shared.TransactionTypeBuy, "NVDA", "2", "487.21", "2023-11-15T11:10:00Z"},
	{"t6", shared.TransactionTypeSell, "AMZN", "4", "146.88", "2023-11-10T13:25:00Z"},
	{"t7", shared.TransactionTypeBuy, "GOOGL", "3", "134.99", "2023-11-05T15:30:00Z"},
}

// Transactions returns the demo ledger newest first
func Transactions(userID string) []ledger.Transaction {
	txs := make([]ledger.Transaction, 0, len(demo))
	for _, e := range demo {
		date, err := time.Parse(time.RFC3339, e.date)
		if err != nil {
			panic(fmt.Sprintf("seed: bad date %q: %v", e.date, err))
		}
		tx := ledger.Transaction{
			ID:     e.id,
			Type:   e.kind,
			Asset:  e.asset,
			Amount: decimal.RequireFromString(e.amount),
			Price:  decimal.RequireFromString(e.price),
			Date:   date,
			Status: shared.TransactionStatusCompleted,
			UserID: userID,
		}
		tx.Value = tx.Amount.Mul(tx.Price)
		if tx.Type == shared.TransactionTypeTransfer {
			tx.TransferDirection = shared.TransferDirectionSend
		}
		txs = append(txs, tx)
	}
	return txs
}

// Load appends txs, given newest first, so that the store presents them in
// the same order.
func Load(store ledger.Store, txs []ledger.Transaction) error {
	for i := len(txs) - 1; i >= 0; i-- {
		if err := store.Append(txs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Budget returns the configured starting budget
func Budget(cfg config.EngineConfig) budget.Budget {
	return budget.New(cfg.UserID, cfg.InitialCash, cfg.InitialInvestments, cfg.InitialActivePositions)
}

// User returns the configured profile
func User(cfg config.EngineConfig) user.User {
	return user.User{
		ID:    cfg.UserID,
		Name:  cfg.UserName,
		Email: cfg.UserEmail,
	}
}
