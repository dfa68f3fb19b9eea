package budget

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SnapshotRepository persists the latest budget version per user
type SnapshotRepository interface {
	// Save stores b unless a snapshot with the same or a higher sequence exists.
	Save(ctx context.Context, b Budget, sequence int64) error
	GetByUserID(ctx context.Context, userID string) (*Budget, error)
	WithTx(tx pgx.Tx) SnapshotRepository
}

// ErrSnapshotNotFound indicates no snapshot was stored for the user
type ErrSnapshotNotFound struct {
	UserID string
}

func (e ErrSnapshotNotFound) Error() string {
	return "budget snapshot not found for user: " + e.UserID
}
