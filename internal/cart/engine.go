// Package cart holds the shopping cart and its derived pricing.
package cart

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/catalog"
)

type Subscriber interface {
	OnStateChanged(State)
}

type SubscriberFunc func(State)

func (f SubscriberFunc) OnStateChanged(s State) { f(s) }

// Engine is a mutable map of lines keyed by dish id. Every accepted mutation
// recomputes the totals before the lock is released, so no caller or
// subscriber can observe a stale total.
//
// Invalid mutations (negative quantities, touching absent lines) are ignored
// and reported as false.
type Engine struct {
	tax TaxPolicy
	log *zap.Logger

	mu    sync.Mutex
	lines map[string]Line
	seq   []string
	state State
	subs  []Subscriber
}

func NewEngine(tax TaxPolicy, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{tax: tax, log: log, lines: make(map[string]Line)}
	e.recompute()
	return e
}

func (e *Engine) Subscribe(s Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, s)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Quantity returns the quantity of a dish, 0 when it is not in the cart.
func (e *Engine) Quantity(dishID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines[dishID].Quantity
}

// AddItem increments the dish quantity by one, inserting it at 1 if absent.
func (e *Engine) AddItem(d catalog.Dish) bool {
	e.mu.Lock()
	l, ok := e.lines[d.ID]
	if !ok {
		l = Line{Dish: d}
		e.seq = append(e.seq, d.ID)
	}
	l.Quantity++
	e.lines[d.ID] = l
	e.commitLocked()
	return true
}

// RemoveItem decrements the dish quantity by one and drops the line at zero.
func (e *Engine) RemoveItem(dishID string) bool {
	e.mu.Lock()
	l, ok := e.lines[dishID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	l.Quantity--
	if l.Quantity <= 0 {
		e.dropLocked(dishID)
	} else {
		e.lines[dishID] = l
	}
	e.commitLocked()
	return true
}

// SetQuantity sets an existing line's quantity; 0 removes the line.
func (e *Engine) SetQuantity(dishID string, n int) bool {
	e.mu.Lock()
	l, ok := e.lines[dishID]
	if n < 0 || !ok {
		e.mu.Unlock()
		e.log.Debug("ignored cart mutation", zap.String("dish_id", dishID), zap.Int("quantity", n))
		return false
	}
	if n == 0 {
		e.dropLocked(dishID)
	} else {
		l.Quantity = n
		e.lines[dishID] = l
	}
	e.commitLocked()
	return true
}

func (e *Engine) Clear() {
	e.mu.Lock()
	e.lines = make(map[string]Line)
	e.seq = nil
	e.commitLocked()
}

func (e *Engine) dropLocked(dishID string) {
	delete(e.lines, dishID)
	if i := slices.Index(e.seq, dishID); i >= 0 {
		e.seq = slices.Delete(e.seq, i, i+1)
	}
}

// recompute rebuilds the published snapshot from lines in one step.
func (e *Engine) recompute() {
	lines := make(map[string]Line, len(e.lines))
	var subtotal int64
	for id, l := range e.lines {
		lines[id] = l
		subtotal += l.Amount()
	}
	cgst, sgst := e.tax.Apply(subtotal)
	e.state = State{
		Lines:    lines,
		Sequence: slices.Clone(e.seq),
		Subtotal: subtotal,
		CGST:     cgst,
		SGST:     sgst,
		Total:    subtotal + cgst + sgst,
	}
}

func (e *Engine) commitLocked() {
	e.recompute()
	snap := e.state
	subs := slices.Clone(e.subs)
	e.mu.Unlock()
	for _, s := range subs {
		s.OnStateChanged(snap.clone())
	}
}
