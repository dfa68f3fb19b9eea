package ledger

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/portfolio-ledger/internal/domain/shared"
)

// FilterAll disables a type or status filter.
const FilterAll = "all"

// Filter selects transactions. Zero-valued fields are passed through.
type Filter struct {
	Type     shared.TransactionType
	Asset    string
	Status   shared.TransactionStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// Matches reports whether tx passes every set field. Date bounds are inclusive.
func (f Filter) Matches(tx Transaction) bool {
	if f.Type != "" && f.Type != FilterAll && tx.Type != f.Type {
		return false
	}
	if f.Asset != "" && tx.Asset != f.Asset {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && tx.Status != f.Status {
		return false
	}
	if f.DateFrom != nil && tx.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && tx.Date.After(*f.DateTo) {
		return false
	}
	return true
}

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

type SortField string

const (
	SortByDate   SortField = "date"
	SortByAsset  SortField = "asset"
	SortByType   SortField = "type"
	SortByAmount SortField = "amount"
	SortByPrice  SortField = "price"
	SortByValue  SortField = "value"
	SortByStatus SortField = "status"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByDate, SortByAsset, SortByType, SortByAmount, SortByPrice, SortByValue, SortByStatus:
		return true
	}
	return false
}

// Query is a filter plus ordering and an optional result limit
type Query struct {
	Filter
	SortBy    SortField
	Direction SortDirection
	Limit     int
}

// Sort orders txs in place by field. The sort is stable, so ties keep the
// order they had in txs. Unknown fields sort by date; unknown directions are descending.
func Sort(txs []Transaction, field SortField, dir SortDirection) {
	compare := comparator(field)
	if dir == SortAscending {
		slices.SortStableFunc(txs, compare)
		return
	}
	slices.SortStableFunc(txs, func(a, b Transaction) int { return compare(b, a) })
}

func comparator(field SortField) func(a, b Transaction) int {
	switch field {
	case SortByAsset:
		return func(a, b Transaction) int { return strings.Compare(a.Asset, b.Asset) }
	case SortByType:
		return func(a, b Transaction) int { return cmp.Compare(a.Type, b.Type) }
	case SortByStatus:
		return func(a, b Transaction) int { return cmp.Compare(a.Status, b.Status) }
	case SortByAmount:
		return func(a, b Transaction) int { return a.Amount.Cmp(b.Amount) }
	case SortByPrice:
		return func(a, b Transaction) int { return a.Price.Cmp(b.Price) }
	case SortByValue:
		return func(a, b Transaction) int { return a.Value.Cmp(b.Value) }
	default:
		return func(a, b Transaction) int { return a.Date.Compare(b.Date) }
	}
}
