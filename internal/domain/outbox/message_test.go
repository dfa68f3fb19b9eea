package outbox

import (
	"testing"
	"time"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	tx := ledger.Transaction{
		ID:     "tx-1",
		Type:   shared.TransactionTypeBuy,
		Asset:  "AAPL",
		Amount: decimal.NewFromInt(5),
		Price:  decimal.RequireFromString("178.72"),
		Value:  decimal.RequireFromString("893.60"),
		Date:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Status: shared.TransactionStatusCompleted,
		UserID: "user1",
	}
	b := budget.New("user1", decimal.RequireFromString("4338.29"), decimal.RequireFromString("13127.60"), 1)
	evt := ledger.NewCommittedEvent(7, tx, b)

	before := time.Now().UTC()
	msg, err := NewMessage(evt, "corr-1")
	require.NoError(t, err)

	assert.Equal(t, "tx-1", msg.TransactionID)
	assert.Equal(t, shared.EventTypeTransactionCommitted, msg.EventType)
	assert.Equal(t, int64(7), msg.Sequence)
	assert.Equal(t, "corr-1", msg.CorrelationID)
	assert.Equal(t, shared.OutboxStatusPending, msg.Status)
	assert.Equal(t, 0, msg.Attempts)
	assert.Nil(t, msg.LastAttemptAt)
	assert.WithinDuration(t, before, msg.CreatedAt, time.Second)

	decoded, err := msg.Event()
	require.NoError(t, err)
	assert.Equal(t, evt.Sequence, decoded.Sequence)
	assert.Equal(t, tx.ID, decoded.Transaction.ID)
	assert.True(t, tx.Value.Equal(decoded.Transaction.Value))
	assert.True(t, b.TotalBalance.Equal(decoded.Budget.TotalBalance))
	assert.True(t, tx.Date.Equal(decoded.Transaction.Date))
}

func TestMessage_EventInvalidPayload(t *testing.T) {
	msg := &Message{Payload: []byte("{not json")}
	_, err := msg.Event()
	assert.Error(t, err)
}

func TestMessage_ExhaustedAfterFailure(t *testing.T) {
	msg := &Message{Attempts: 3}
	assert.False(t, msg.ExhaustedAfterFailure(5))
	assert.True(t, msg.ExhaustedAfterFailure(4))
}
