package components

import (
	"testing"

	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestPositionIndex_AgreesWithLedger(t *testing.T) {
	pending := buyTx("b3", "MSFT", "4", "10")
	pending.Status = shared.TransactionStatusPending

	txs := []ledger.Transaction{
		buyTx("b1", "AAPL", "5", "100"),
		sellTx("s1", "AAPL", "2", "100"),
		buyTx("b2", "AAPL", "1.5", "100"),
		sellTx("s2", "TSLA", "3", "200"),
		pending,
		transferTx("t1", "1000", shared.TransferDirectionReceive),
	}
	idx := NewPositionIndex(txs)

	assertAgrees := func(t *testing.T, idx *PositionIndex, txs []ledger.Transaction) {
		t.Helper()
		for _, asset := range []string{"AAPL", "TSLA", "MSFT", "USD", "NVDA"} {
			assert.True(t, ledger.NetQuantity(txs, asset).Equal(idx.NetQuantity(asset)), asset)
			assert.Equal(t, ledger.HasCompletedBuy(txs, asset), idx.HasBought(asset), asset)
		}
	}

	assertAgrees(t, idx, txs)
	assertDecimal(t, "4.5", idx.NetQuantity("AAPL"))
	assertDecimal(t, "-3", idx.NetQuantity("TSLA"))
	assert.False(t, idx.HasBought("MSFT"))

	idx.Forget(txs[0])
	remaining := txs[1:]
	assertAgrees(t, idx, remaining)
	assert.True(t, idx.HasBought("AAPL"), "b2 is still a completed buy")

	idx.Forget(txs[2])
	remaining = []ledger.Transaction{txs[1], txs[3], txs[4], txs[5]}
	assertAgrees(t, idx, remaining)
	assert.False(t, idx.HasBought("AAPL"))
}
