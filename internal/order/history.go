package order

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// History is a read-only projection of every persisted order, newest first.
type History struct {
	store Store
	log   *zap.Logger

	mu     sync.RWMutex
	orders []Order
}

func NewHistory(store Store, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{store: store, log: log}
}

// Refresh reloads the whole store and replaces the projection. A store that
// cannot be read yields an empty history rather than an error.
func (h *History) Refresh(ctx context.Context) {
	orders, err := h.store.LoadAll(ctx)
	if err != nil {
		h.log.Warn("order history unreadable, showing none", zap.Error(err))
		orders = nil
	}
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b Order) int {
		return b.PlacedAt.Compare(a.PlacedAt)
	})

	h.mu.Lock()
	h.orders = sorted
	h.mu.Unlock()
}

func (h *History) Orders() []Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.orders)
}

func (h *History) Get(id string) (Order, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}
