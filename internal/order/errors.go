package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrEmptyCart   = errors.New("cannot place an order from an empty cart")
	ErrUndecodable = errors.New("persisted orders are undecodable")
)

// PersistenceError reports that an order could not be written. The cart and
// history are left untouched when it is returned.
type PersistenceError struct {
	OrderID string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist order %s: %v", e.OrderID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
