package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/cart"
)

// Publisher announces placed orders to other systems.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o Order) error
}

type Placer struct {
	store     Store
	publisher Publisher
	log       *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewPlacer builds a placer; publisher may be nil.
func NewPlacer(store Store, publisher Publisher, log *zap.Logger) *Placer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Placer{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// PlaceOrder snapshots c into a new Order and persists it. It does not touch
// the cart: clearing it and refreshing history are up to the caller once this
// returns without error.
func (p *Placer) PlaceOrder(ctx context.Context, c cart.State) (Order, error) {
	if c.IsEmpty() {
		return Order{}, ErrEmptyCart
	}

	o := Order{
		ID:       p.newID(),
		Subtotal: c.Subtotal,
		CGST:     c.CGST,
		SGST:     c.SGST,
		Total:    c.Total,
		PlacedAt: p.now().UTC(),
	}
	for _, l := range c.OrderedLines() {
		o.Lines = append(o.Lines, Line{
			DishID:    l.Dish.ID,
			Name:      l.Dish.Name,
			UnitPrice: l.Dish.PriceMinorUnits,
			Quantity:  l.Quantity,
			ImageURL:  l.Dish.ImageURL,
		})
	}

	if err := p.store.Append(ctx, o); err != nil {
		p.log.Error("order persistence failed", zap.String("order_id", o.ID), zap.Error(err))
		return Order{}, &PersistenceError{OrderID: o.ID, Err: err}
	}
	p.log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("lines", len(o.Lines)),
		zap.Int64("total", o.Total),
	)

	if p.publisher != nil {
		if err := p.publisher.PublishOrderPlaced(ctx, o); err != nil {
			p.log.Warn("order event not published", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}
