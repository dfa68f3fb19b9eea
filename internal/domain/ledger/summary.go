package ledger

import (
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Summary aggregates the value of a set of transactions. Only completed
// transactions contribute to the totals; Count includes every entry.
type Summary struct {
	TotalBuy      decimal.Decimal `json:"totalBuy"`
	TotalSell     decimal.Decimal `json:"totalSell"`
	TotalTransfer decimal.Decimal `json:"totalTransfer"`
	NetValue      decimal.Decimal `json:"netValue"`
	Count         int             `json:"count"`
}

// Summarize computes totals where NetValue is the net cash flow:
// sells and received transfers minus buys and sent transfers.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		TotalBuy:      decimal.Zero,
		TotalSell:     decimal.Zero,
		TotalTransfer: decimal.Zero,
		NetValue:      decimal.Zero,
		Count:         len(txs),
	}
	for _, tx := range txs {
		if !tx.IsCompleted() {
			continue
		}
		switch tx.Type {
		case shared.TransactionTypeBuy:
			s.TotalBuy = s.TotalBuy.Add(tx.Value)
			s.NetValue = s.NetValue.Sub(tx.Value)
		case shared.TransactionTypeSell:
			s.TotalSell = s.TotalSell.Add(tx.Value)
			s.NetValue = s.NetValue.Add(tx.Value)
		case shared.TransactionTypeTransfer:
			s.TotalTransfer = s.TotalTransfer.Add(tx.Value)
			if tx.Direction() == shared.TransferDirectionReceive {
				s.NetValue = s.NetValue.Add(tx.Value)
			} else {
				s.NetValue = s.NetValue.Sub(tx.Value)
			}
		}
	}
	return s
}

// NetQuantity recomputes the held quantity of asset from every buy and sell in txs,
// whatever their status.
func NetQuantity(txs []Transaction, asset string) decimal.Decimal {
	net := decimal.Zero
	for _, tx := range txs {
		if tx.Asset == asset {
			net = net.Add(tx.SignedQuantity())
		}
	}
	return net
}

// HasCompletedBuy reports whether txs contains a completed buy of asset.
func HasCompletedBuy(txs []Transaction, asset string) bool {
	for _, tx := range txs {
		if tx.Asset == asset && tx.Type == shared.TransactionTypeBuy && tx.IsCompleted() {
			return true
		}
	}
	return false
}
