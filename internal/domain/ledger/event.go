package ledger

import (
	"time"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/shared"
)

// Event is a committed ledger change together with the budget it produced.
// Sequence increases by one for every change the engine commits.
type Event struct {
	Type        shared.EventType `json:"type"`
	Sequence    int64            `json:"sequence"`
	Transaction Transaction      `json:"transaction"`
	Budget      budget.Budget    `json:"budget"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

func NewCommittedEvent(seq int64, tx Transaction, b budget.Budget) Event {
	return Event{
		Type:        shared.EventTypeTransactionCommitted,
		Sequence:    seq,
		Transaction: tx,
		Budget:      b,
		OccurredAt:  time.Now().UTC(),
	}
}

func NewDeletedEvent(seq int64, tx Transaction, b budget.Budget) Event {
	return Event{
		Type:        shared.EventTypeTransactionDeleted,
		Sequence:    seq,
		Transaction: tx,
		Budget:      b,
		OccurredAt:  time.Now().UTC(),
	}
}
