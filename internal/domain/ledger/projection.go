package ledger

import (
	"context"
	"time"
)

// Projection is the read-model view of a transaction built from published events
type Projection struct {
	Transaction
	Deleted      bool       `json:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	LastSequence int64      `json:"lastSequence"`
}

// ProjectionRepository maintains the ledger read model. Apply must be
// idempotent: events with a sequence at or below the stored one are ignored.
type ProjectionRepository interface {
	Apply(ctx context.Context, evt Event) error
	GetByID(ctx context.Context, id string) (*Projection, error)
	Find(ctx context.Context, filter Filter, includeDeleted bool, limit, offset int) ([]*Projection, error)
	Count(ctx context.Context, filter Filter, includeDeleted bool) (int64, error)
}
