package memory

import (
	"sync"

	"github.com/portfolio-ledger/internal/domain/ledger"
)

// LedgerStore is an in-memory ledger.Store. Entries are kept in insertion
// order and presented newest-first.
type LedgerStore struct {
	mu      sync.RWMutex
	entries []ledger.Transaction
	index   map[string]int
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{index: make(map[string]int)}
}

var _ ledger.Store = (*LedgerStore)(nil)

func (s *LedgerStore) Append(tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[tx.ID]; ok {
		return ledger.ErrDuplicateID{ID: tx.ID}
	}
	s.index[tx.ID] = len(s.entries)
	s.entries = append(s.entries, tx)
	return nil
}

func (s *LedgerStore) Remove(id string) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.index[id]
	if !ok {
		return ledger.Transaction{}, ledger.ErrNotFound{ID: id}
	}
	removed := s.entries[pos]
	s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].ID] = i
	}
	return removed, nil
}

func (s *LedgerStore) Get(id string) (ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return ledger.Transaction{}, ledger.ErrNotFound{ID: id}
	}
	return s.entries[pos], nil
}

func (s *LedgerStore) Query(filter ledger.Filter) []ledger.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Transaction, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		if filter.Matches(s.entries[i]) {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// SortedByDate returns every entry ordered by date. Entries with equal dates
// keep their newest-first order.
func (s *LedgerStore) SortedByDate(dir ledger.SortDirection) []ledger.Transaction {
	out := s.All()
	ledger.Sort(out, ledger.SortByDate, dir)
	return out
}

// Find filters, sorts and truncates. The default order is date descending.
func (s *LedgerStore) Find(q ledger.Query) []ledger.Transaction {
	out := s.Query(q.Filter)

	field := q.SortBy
	if !field.Valid() {
		field = ledger.SortByDate
	}
	dir := q.Direction
	if dir != ledger.SortAscending {
		dir = ledger.SortDescending
	}
	ledger.Sort(out, field, dir)

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (s *LedgerStore) All() []ledger.Transaction {
	return s.Query(ledger.Filter{})
}

func (s *LedgerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
