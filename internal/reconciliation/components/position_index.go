package components

import (
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/reconciliation/service"
	"github.com/shopspring/decimal"
)

// PositionIndex tracks net quantity and completed buys per asset. It yields the
// same answers as ledger.NetQuantity and ledger.HasCompletedBuy over the ledger
// it was fed. The engine lock serializes access.
type PositionIndex struct {
	net    map[string]decimal.Decimal
	bought map[string]int
}

// NewPositionIndex builds the index from existing ledger entries
func NewPositionIndex(txs []ledger.Transaction) *PositionIndex {
	idx := &PositionIndex{
		net:    make(map[string]decimal.Decimal),
		bought: make(map[string]int),
	}
	for _, tx := range txs {
		idx.Record(tx)
	}
	return idx
}

var _ service.PositionTracker = (*PositionIndex)(nil)

func (p *PositionIndex) HasBought(asset string) bool {
	return p.bought[asset] > 0
}

func (p *PositionIndex) NetQuantity(asset string) decimal.Decimal {
	if q, ok := p.net[asset]; ok {
		return q
	}
	return decimal.Zero
}

func (p *PositionIndex) Record(tx ledger.Transaction) {
	p.adjust(tx, 1)
}

func (p *PositionIndex) Forget(tx ledger.Transaction) {
	p.adjust(tx, -1)
}

func (p *PositionIndex) adjust(tx ledger.Transaction, sign int) {
	if tx.Type == shared.TransactionTypeTransfer {
		return
	}
	delta := tx.SignedQuantity()
	if sign < 0 {
		delta = delta.Neg()
	}
	p.net[tx.Asset] = p.NetQuantity(tx.Asset).Add(delta)

	if tx.Type == shared.TransactionTypeBuy && tx.IsCompleted() {
		p.bought[tx.Asset] += sign
		if p.bought[tx.Asset] <= 0 {
			delete(p.bought, tx.Asset)
		}
	}
}
