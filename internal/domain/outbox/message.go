package outbox

import (
	"encoding/json"
	"time"

	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
)

// Message stores a ledger event for reliable publishing
type Message struct {
	ID            int64               `json:"id"`
	TransactionID string              `json:"transaction_id"`
	EventType     shared.EventType    `json:"event_type"`
	Sequence      int64               `json:"sequence"`
	CorrelationID string              `json:"correlation_id,omitempty"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

// NewMessage serializes evt into a pending outbox message
func NewMessage(evt ledger.Event, correlationID string) (*Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: evt.Transaction.ID,
		EventType:     evt.Type,
		Sequence:      evt.Sequence,
		CorrelationID: correlationID,
		Payload:       payload,
		Status:        shared.OutboxStatusPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Event decodes the ledger event carried in the payload
func (m *Message) Event() (ledger.Event, error) {
	var evt ledger.Event
	if err := json.Unmarshal(m.Payload, &evt); err != nil {
		return ledger.Event{}, err
	}
	return evt, nil
}

// ExhaustedAfterFailure reports whether one more failed attempt reaches maxAttempts
func (m *Message) ExhaustedAfterFailure(maxAttempts int) bool {
	return m.Attempts+1 >= maxAttempts
}
