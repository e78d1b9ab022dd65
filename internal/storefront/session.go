// Package storefront wires the catalog, cart and order components into one
// session-scoped controller.
package storefront

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/catalog"
	"github.com/MikeMC777/storefront/internal/order"
)

type Options struct {
	Fetcher   catalog.PageFetcher
	PageSize  int
	Store     order.Store
	Publisher order.Publisher
	Tax       *cart.TaxPolicy
	Logger    *zap.Logger
}

// Session owns one user's catalog view, cart and order history.
//
// Cart mutations and order placement share one lock, so an order always
// clears exactly the cart it was built from. Callers that mutate the cart
// must go through the Session methods rather than Cart directly.
type Session struct {
	Catalog *catalog.Loader
	Lookup  *catalog.Lookup
	Cart    *cart.Engine
	Placer  *order.Placer
	History *order.History

	log *zap.Logger

	mu sync.Mutex // serialises cart mutations and placement
}

func NewSession(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tax := cart.DefaultTax
	if opts.Tax != nil {
		tax = *opts.Tax
	}
	loader := catalog.NewLoader(opts.Fetcher, opts.PageSize, log.Named("catalog"))
	return &Session{
		Catalog: loader,
		Lookup:  catalog.NewLookup(opts.Fetcher, loader, opts.PageSize, log.Named("lookup")),
		Cart:    cart.NewEngine(tax, log.Named("cart")),
		Placer:  order.NewPlacer(opts.Store, opts.Publisher, log.Named("orders")),
		History: order.NewHistory(opts.Store, log.Named("history")),
		log:     log,
	}
}

// Start loads the first catalog page and the persisted history.
func (s *Session) Start(ctx context.Context) {
	s.History.Refresh(ctx)
	s.Catalog.LoadNextPage(ctx)
}

// OnScrolled requests the next page when the view's last visible entry is
// within three positions of the end.
func (s *Session) OnScrolled(ctx context.Context, lastVisible int) bool {
	if !s.Catalog.NearEnd(lastVisible) {
		return false
	}
	return s.Catalog.LoadNextPage(ctx)
}

// AddItem, RemoveItem, SetQuantity and ClearCart return the cart as it was
// right after the mutation, along with whether it applied.
func (s *Session) AddItem(d catalog.Dish) (cart.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.Cart.AddItem(d)
	return s.Cart.State(), ok
}

func (s *Session) RemoveItem(dishID string) (cart.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.Cart.RemoveItem(dishID)
	return s.Cart.State(), ok
}

func (s *Session) SetQuantity(dishID string, n int) (cart.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.Cart.SetQuantity(dishID, n)
	return s.Cart.State(), ok
}

func (s *Session) ClearCart() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cart.Clear()
	return s.Cart.State()
}

// PlaceOrder places the current cart. Only after the order is persisted is
// the cart cleared and the history reloaded; on failure neither happens.
// A concurrent second placement sees the cleared cart and gets
// order.ErrEmptyCart.
func (s *Session) PlaceOrder(ctx context.Context) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.Placer.PlaceOrder(ctx, s.Cart.State())
	if err != nil {
		return order.Order{}, err
	}
	s.Cart.Clear()
	s.History.Refresh(ctx)
	return o, nil
}
