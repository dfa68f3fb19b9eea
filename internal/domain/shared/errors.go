package shared

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrUnknownDirection       = errors.New("unknown transfer direction")
)

// ValidationError reports a malformed or out-of-range request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError when the target has no field set.
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	if t.Field == "" {
		return true
	}
	return e.Field == t.Field
}
