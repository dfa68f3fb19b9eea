package service

import (
	"context"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
)

// ReportServiceImpl implements ReportService over the Mongo and Postgres mirrors
type ReportServiceImpl struct {
	userID      string
	projections ledger.ProjectionRepository
	snapshots   budget.SnapshotRepository
}

func NewReportService(userID string, projections ledger.ProjectionRepository, snapshots budget.SnapshotRepository) ReportService {
	return &ReportServiceImpl{
		userID:      userID,
		projections: projections,
		snapshots:   snapshots,
	}
}

func (s *ReportServiceImpl) ListTransactions(ctx context.Context, filter ledger.Filter, includeDeleted bool, page, perPage int) ([]*ledger.Projection, int64, error) {
	total, err := s.projections.Count(ctx, filter, includeDeleted)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*ledger.Projection{}, 0, nil
	}

	offset := (page - 1) * perPage
	items, err := s.projections.Find(ctx, filter, includeDeleted, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *ReportServiceImpl) LatestSnapshot(ctx context.Context) (*budget.Budget, error) {
	return s.snapshots.GetByUserID(ctx, s.userID)
}
