package repository

import (
	"errors"
	"fmt"
)

// ErrContactNotFound is returned when a contact id does not exist.
var ErrContactNotFound = errors.New("contact not found")

// StoreError wraps any failure talking to the persistence layer. Callers
// treat it as transient: log it and carry on with the next tick.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err came from the persistence layer.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
