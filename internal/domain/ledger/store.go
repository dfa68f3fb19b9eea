package ledger

// Store is the ordered collection of committed transactions. The observed
// order is newest-first: the most recently appended entry comes first.
type Store interface {
	// Append fails with ErrDuplicateID if the id is already present.
	Append(tx Transaction) error
	// Remove fails with ErrNotFound if no entry has the id.
	Remove(id string) (Transaction, error)
	Get(id string) (Transaction, error)
	Query(filter Filter) []Transaction
	SortedByDate(dir SortDirection) []Transaction
	Find(q Query) []Transaction
	All() []Transaction
	Len() int
}

// ErrNotFound indicates a missing ledger entry
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return "transaction not found: " + e.ID
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	// An empty target ID matches any ErrNotFound
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}

// ErrDuplicateID indicates transaction id uniqueness violation
type ErrDuplicateID struct {
	ID string
}

func (e ErrDuplicateID) Error() string {
	return "duplicate transaction id: " + e.ID
}

// Is implements the errors.Is interface for ErrDuplicateID
func (e ErrDuplicateID) Is(target error) bool {
	t, ok := target.(ErrDuplicateID)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}
