package order

import "context"

// Store persists placed orders. Orders handed to Append are never mutated
// afterwards.
type Store interface {
	Append(ctx context.Context, o Order) error
	LoadAll(ctx context.Context) ([]Order, error)
}
