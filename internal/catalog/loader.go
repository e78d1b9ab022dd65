package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const DefaultPageSize = 10

// Subscriber is notified with a fresh snapshot after every state change.
type Subscriber interface {
	OnStateChanged(State)
}

type SubscriberFunc func(State)

func (f SubscriberFunc) OnStateChanged(s State) { f(s) }

// Loader drives sequential page fetches and deduplicates entries by id.
//
// At most one fetch is outstanding at a time: LoadNextPage while a fetch is
// in flight is dropped, not queued. Pages are requested strictly in
// increasing order.
type Loader struct {
	fetcher  PageFetcher
	pageSize int
	log      *zap.Logger

	mu    sync.Mutex
	state State
	seen  map[string]struct{}
	subs  []Subscriber
}

func NewLoader(fetcher PageFetcher, pageSize int, log *zap.Logger) *Loader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		fetcher:  fetcher,
		pageSize: pageSize,
		log:      log,
		state:    State{Page: 1, TotalPages: 1, HasMore: true},
		seen:     make(map[string]struct{}),
	}
}

func (l *Loader) Subscribe(s Subscriber) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, s)
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

// Entry returns an already loaded entry.
func (l *Loader) Entry(id string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[id]; !ok {
		return Entry{}, false
	}
	for _, e := range l.state.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// LoadNextPage fetches the next page unless a fetch is already running or the
// catalog is exhausted. It reports whether a fetch was issued. Failures are
// recorded in State.Error and leave Page and Entries untouched.
func (l *Loader) LoadNextPage(ctx context.Context) bool {
	l.mu.Lock()
	if l.state.IsLoading || !l.state.HasMore {
		l.mu.Unlock()
		return false
	}
	l.state.IsLoading = true
	l.state.Error = ""
	page := l.state.Page
	l.emitLocked()

	res, err := fetchRecovering(ctx, l.fetcher, page, l.pageSize)

	l.mu.Lock()
	if err != nil {
		fe := &FetchError{Page: page, Err: err}
		l.state.IsLoading = false
		l.state.Error = fe.Error()
		l.log.Warn("catalog page fetch failed", zap.Int("page", page), zap.Error(err))
		l.emitLocked()
		return true
	}

	added := 0
	for _, e := range res.Entries {
		if _, dup := l.seen[e.ID]; dup {
			continue
		}
		l.seen[e.ID] = struct{}{}
		l.state.Entries = append(l.state.Entries, e)
		added++
	}
	l.state.Page = page + 1
	l.state.TotalPages = max(res.TotalPages, 1)
	l.state.HasMore = l.state.Page <= l.state.TotalPages
	l.state.IsLoading = false
	l.log.Debug("catalog page loaded",
		zap.Int("page", page),
		zap.Int("received", len(res.Entries)),
		zap.Int("added", added),
		zap.Int("total_pages", l.state.TotalPages),
	)
	l.emitLocked()
	return true
}

// Retry clears a recorded error and fetches the failed page again.
func (l *Loader) Retry(ctx context.Context) bool {
	l.mu.Lock()
	if l.state.Error == "" {
		l.mu.Unlock()
		return false
	}
	l.state.Error = ""
	l.mu.Unlock()
	return l.LoadNextPage(ctx)
}

// NearEnd reports whether a view showing lastVisible (0-based) is within
// three positions of the end and another page may be requested.
func (l *Loader) NearEnd(lastVisible int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.HasMore && !l.state.IsLoading && lastVisible >= len(l.state.Entries)-3
}

// emitLocked snapshots the state, releases mu and notifies subscribers.
func (l *Loader) emitLocked() {
	snap := l.state.clone()
	subs := append([]Subscriber(nil), l.subs...)
	l.mu.Unlock()
	for _, s := range subs {
		s.OnStateChanged(snap)
	}
}
