package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
)

const (
	// LedgerCollectionName is the name of the ledger read-model collection in MongoDB
	LedgerCollectionName = "ledger_transactions"
)

// transactionDocument is the stored form of a projection. Money values are Decimal128.
type transactionDocument struct {
	ID                string                `bson:"_id"`
	Type              string                `bson:"type"`
	Asset             string                `bson:"asset"`
	Amount            primitive.Decimal128  `bson:"amount"`
	Price             primitive.Decimal128  `bson:"price"`
	Value             primitive.Decimal128  `bson:"value"`
	Date              time.Time             `bson:"date"`
	Status            string                `bson:"status"`
	TransferDirection string                `bson:"transfer_direction,omitempty"`
	UserID            string                `bson:"user_id"`
	Notes             string                `bson:"notes,omitempty"`
	Fee               *primitive.Decimal128 `bson:"fee,omitempty"`
	Deleted           bool                  `bson:"deleted"`
	DeletedAt         *time.Time            `bson:"deleted_at,omitempty"`
	LastSequence      int64                 `bson:"last_sequence"`
}

// LedgerProjectionRepository implements the ledger.ProjectionRepository interface for MongoDB
type LedgerProjectionRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewLedgerProjectionRepository(logger *slog.Logger, db *mongo.Database) *LedgerProjectionRepository {
	return &LedgerProjectionRepository{
		collection: db.Collection(LedgerCollectionName),
		logger:     logger,
	}
}

var _ ledger.ProjectionRepository = (*LedgerProjectionRepository)(nil)

// EnsureIndexes creates the indexes used by report queries
func (r *LedgerProjectionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "asset", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "type", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create ledger projection indexes: %w", err)
	}
	return nil
}

// Apply upserts the projection for evt. The write only matches documents with an
// older sequence; when a newer one exists the upsert hits the unique _id and the
// event is dropped as stale.
func (r *LedgerProjectionRepository) Apply(ctx context.Context, evt ledger.Event) error {
	doc, err := toDocument(evt.Transaction)
	if err != nil {
		return err
	}
	doc.LastSequence = evt.Sequence
	if evt.Type == shared.EventTypeTransactionDeleted {
		deletedAt := evt.OccurredAt.UTC()
		doc.Deleted = true
		doc.DeletedAt = &deletedAt
	}

	filter := bson.M{
		"_id":           doc.ID,
		"last_sequence": bson.M{"$lt": evt.Sequence},
	}
	fields := bson.M{
		"type":          doc.Type,
		"asset":         doc.Asset,
		"amount":        doc.Amount,
		"price":         doc.Price,
		"value":         doc.Value,
		"date":          doc.Date,
		"status":        doc.Status,
		"user_id":       doc.UserID,
		"deleted":       doc.Deleted,
		"last_sequence": doc.LastSequence,
	}
	if doc.TransferDirection != "" {
		fields["transfer_direction"] = doc.TransferDirection
	}
	if doc.Notes != "" {
		fields["notes"] = doc.Notes
	}
	if doc.Fee != nil {
		fields["fee"] = *doc.Fee
	}
	if doc.DeletedAt != nil {
		fields["deleted_at"] = *doc.DeletedAt
	}

	_, err = r.collection.UpdateOne(ctx, filter, bson.M{"$set": fields}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Info("Skipped stale ledger event", "transaction_id", doc.ID, "sequence", evt.Sequence)
			return nil
		}
		r.logger.Error("Failed to apply ledger event",
			"transaction_id", doc.ID,
			"sequence", evt.Sequence,
			"error", err)
		return fmt.Errorf("failed to apply ledger event %d: %w", evt.Sequence, err)
	}
	return nil
}

// GetByID returns ledger.ErrNotFound when no projection exists for id
func (r *LedgerProjectionRepository) GetByID(ctx context.Context, id string) (*ledger.Projection, error) {
	var doc transactionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrNotFound{ID: id}
		}
		r.logger.Error("Failed to get ledger projection", "transaction_id", id, "error", err)
		return nil, fmt.Errorf("failed to get ledger projection: %w", err)
	}
	return doc.toProjection()
}

// Find returns matching projections newest first
func (r *LedgerProjectionRepository) Find(ctx context.Context, filter ledger.Filter, includeDeleted bool, limit, offset int) ([]*ledger.Projection, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "last_sequence", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, buildFilter(filter, includeDeleted), opts)
	if err != nil {
		r.logger.Error("Failed to find ledger projections", "error", err)
		return nil, fmt.Errorf("failed to find ledger projections: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode ledger projections", "error", err)
		return nil, fmt.Errorf("failed to decode ledger projections: %w", err)
	}

	projections := make([]*ledger.Projection, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toProjection()
		if err != nil {
			return nil, err
		}
		projections = append(projections, p)
	}
	return projections, nil
}

func (r *LedgerProjectionRepository) Count(ctx context.Context, filter ledger.Filter, includeDeleted bool) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildFilter(filter, includeDeleted))
	if err != nil {
		r.logger.Error("Failed to count ledger projections", "error", err)
		return 0, fmt.Errorf("failed to count ledger projections: %w", err)
	}
	return count, nil
}

func buildFilter(f ledger.Filter, includeDeleted bool) bson.M {
	filter := bson.M{}
	if !includeDeleted {
		filter["deleted"] = false
	}
	if f.Type != "" && f.Type != ledger.FilterAll {
		filter["type"] = string(f.Type)
	}
	if f.Asset != "" {
		filter["asset"] = f.Asset
	}
	if f.Status != "" && f.Status != ledger.FilterAll {
		filter["status"] = string(f.Status)
	}
	if f.DateFrom != nil || f.DateTo != nil {
		dates := bson.M{}
		if f.DateFrom != nil {
			dates["$gte"] = f.DateFrom.UTC()
		}
		if f.DateTo != nil {
			dates["$lte"] = f.DateTo.UTC()
		}
		filter["date"] = dates
	}
	return filter
}

func toDocument(tx ledger.Transaction) (transactionDocument, error) {
	doc := transactionDocument{
		ID:                tx.ID,
		Type:              string(tx.Type),
		Asset:             tx.Asset,
		Date:              tx.Date.UTC(),
		Status:            string(tx.Status),
		TransferDirection: string(tx.TransferDirection),
		UserID:            tx.UserID,
		Notes:             tx.Notes,
	}

	var err error
	if doc.Amount, err = toDecimal128(tx.Amount); err != nil {
		return doc, err
	}
	if doc.Price, err = toDecimal128(tx.Price); err != nil {
		return doc, err
	}
	if doc.Value, err = toDecimal128(tx.Value); err != nil {
		return doc, err
	}
	if tx.Fee.Valid {
		fee, err := toDecimal128(tx.Fee.Decimal)
		if err != nil {
			return doc, err
		}
		doc.Fee = &fee
	}
	return doc, nil
}

func (d transactionDocument) toProjection() (*ledger.Projection, error) {
	p := &ledger.Projection{
		Transaction: ledger.Transaction{
			ID:                d.ID,
			Type:              shared.TransactionType(d.Type),
			Asset:             d.Asset,
			Date:              d.Date,
			Status:            shared.TransactionStatus(d.Status),
			TransferDirection: shared.TransferDirection(d.TransferDirection),
			UserID:            d.UserID,
			Notes:             d.Notes,
		},
		Deleted:      d.Deleted,
		DeletedAt:    d.DeletedAt,
		LastSequence: d.LastSequence,
	}

	var err error
	if p.Amount, err = fromDecimal128(d.Amount); err != nil {
		return nil, err
	}
	if p.Price, err = fromDecimal128(d.Price); err != nil {
		return nil, err
	}
	if p.Value, err = fromDecimal128(d.Value); err != nil {
		return nil, err
	}
	if d.Fee != nil {
		fee, err := fromDecimal128(*d.Fee)
		if err != nil {
			return nil, err
		}
		p.Fee = decimal.NewNullDecimal(fee)
	}
	return p, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to Decimal128: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse Decimal128 %s: %w", v.String(), err)
	}
	return d, nil
}
