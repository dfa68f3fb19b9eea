package shared

// TransactionType defines possible transaction operations
type TransactionType string

const (
	TransactionTypeBuy      TransactionType = "buy"
	TransactionTypeSell     TransactionType = "sell"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the recognized kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeTransfer:
		return true
	}
	return false
}

// TransactionStatus defines transaction settlement states
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusPending, TransactionStatusFailed:
		return true
	}
	return false
}

// TransferDirection says whether a transfer moves cash out of or into the budget
type TransferDirection string

const (
	TransferDirectionSend    TransferDirection = "send"
	TransferDirectionReceive TransferDirection = "receive"
)

func (d TransferDirection) Valid() bool {
	return d == TransferDirectionSend || d == TransferDirectionReceive
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// EventType names the ledger changes published to the event bus
type EventType string

const (
	EventTypeTransactionCommitted EventType = "transaction.committed"
	EventTypeTransactionDeleted   EventType = "transaction.deleted"
)
