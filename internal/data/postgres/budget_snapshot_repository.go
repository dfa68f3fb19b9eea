package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// BudgetSnapshotRepository implements budget.SnapshotRepository for PostgreSQL
type BudgetSnapshotRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewBudgetSnapshotRepository(logger *slog.Logger, db *persistence.PostgresDB) budget.SnapshotRepository {
	return &BudgetSnapshotRepository{
		querier: db.Querier(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *BudgetSnapshotRepository) WithTx(tx pgx.Tx) budget.SnapshotRepository {
	return &BudgetSnapshotRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Save upserts the snapshot. Rows written by a later event are left untouched,
// so out-of-order saves converge on the newest budget.
func (r *BudgetSnapshotRepository) Save(ctx context.Context, b budget.Budget, sequence int64) error {
	query := `
		INSERT INTO budget_snapshots (user_id, cash, investments, total_balance, active_positions, version, sequence, updated_at)
		VALUES ($1, $2::numeric, $3::numeric, $4::numeric, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET cash = EXCLUDED.cash,
			investments = EXCLUDED.investments,
			total_balance = EXCLUDED.total_balance,
			active_positions = EXCLUDED.active_positions,
			version = EXCLUDED.version,
			sequence = EXCLUDED.sequence,
			updated_at = EXCLUDED.updated_at
		WHERE budget_snapshots.sequence < EXCLUDED.sequence
	`

	result, err := r.querier.Exec(ctx, query,
		b.UserID,
		b.Cash.String(),
		b.Investments.String(),
		b.TotalBalance.String(),
		b.ActivePositions,
		b.Version,
		sequence,
		b.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save budget snapshot", "user_id", b.UserID, "sequence", sequence, "error", err)
		return fmt.Errorf("failed to save budget snapshot: %w", err)
	}

	if result.RowsAffected() == 0 {
		r.logger.Debug("Skipped stale budget snapshot", "user_id", b.UserID, "sequence", sequence)
	}
	return nil
}

func (r *BudgetSnapshotRepository) GetByUserID(ctx context.Context, userID string) (*budget.Budget, error) {
	query := `
		SELECT user_id, cash::text, investments::text, total_balance::text, active_positions, version, updated_at
		FROM budget_snapshots
		WHERE user_id = $1
	`

	var (
		b                               budget.Budget
		cash, investments, totalBalance string
	)
	err := r.querier.QueryRow(ctx, query, userID).Scan(
		&b.UserID,
		&cash,
		&investments,
		&totalBalance,
		&b.ActivePositions,
		&b.Version,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, budget.ErrSnapshotNotFound{UserID: userID}
		}
		r.logger.Error("Failed to get budget snapshot", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get budget snapshot: %w", err)
	}

	if b.Cash, err = decimal.NewFromString(cash); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot cash: %w", err)
	}
	if b.Investments, err = decimal.NewFromString(investments); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot investments: %w", err)
	}
	if b.TotalBalance, err = decimal.NewFromString(totalBalance); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot total balance: %w", err)
	}

	return &b, nil
}
