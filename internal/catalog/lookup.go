package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrLookupBusy = errors.New("catalog lookup already in progress")

// LookupState describes the scan for one target entry id.
type LookupState struct {
	Target     string `json:"target"`
	Searching  bool   `json:"searching"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	NotFound   bool   `json:"not_found"`
}

// Lookup finds a single entry by id by scanning catalog pages in order,
// bypassing the browse loader's scroll trigger. A session is bound to one
// target: pages already scanned for it are never fetched again, and once
// every page is exhausted the target stays not-found until Reset.
type Lookup struct {
	fetcher  PageFetcher
	loaded   *Loader
	pageSize int
	log      *zap.Logger

	mu    sync.Mutex
	state LookupState
	found *Entry
}

// NewLookup builds a lookup; loaded may be nil, otherwise entries it already
// holds are returned without any fetch.
func NewLookup(fetcher PageFetcher, loaded *Loader, pageSize int, log *zap.Logger) *Lookup {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Lookup{
		fetcher:  fetcher,
		loaded:   loaded,
		pageSize: pageSize,
		log:      log,
		state:    LookupState{Page: 1, TotalPages: 1},
	}
}

func (lk *Lookup) State() LookupState {
	lk.mu.Lock()
	defer lk.mu.Unlock()
	return lk.state
}

// Reset restarts the scan for the current target from page 1.
func (lk *Lookup) Reset() {
	lk.mu.Lock()
	defer lk.mu.Unlock()
	if lk.state.Searching {
		return
	}
	lk.state = LookupState{Target: lk.state.Target, Page: 1, TotalPages: 1}
	lk.found = nil
}

// Find returns the entry with the given id. Asking for a different id than
// the current target starts a new session.
func (lk *Lookup) Find(ctx context.Context, id string) (Entry, error) {
	if lk.loaded != nil {
		if e, ok := lk.loaded.Entry(id); ok {
			return e, nil
		}
	}

	lk.mu.Lock()
	defer lk.mu.Unlock()
	if lk.state.Searching {
		return Entry{}, ErrLookupBusy
	}
	if lk.state.Target != id {
		lk.state = LookupState{Target: id, Page: 1, TotalPages: 1}
		lk.found = nil
	}
	if lk.found != nil {
		return *lk.found, nil
	}
	if lk.state.NotFound {
		return Entry{}, ErrLookupNotFound
	}

	lk.state.Searching = true
	defer func() { lk.state.Searching = false }()

	for lk.state.Page <= lk.state.TotalPages {
		page := lk.state.Page
		lk.mu.Unlock()
		res, err := fetchRecovering(ctx, lk.fetcher, page, lk.pageSize)
		lk.mu.Lock()
		if err != nil {
			lk.log.Warn("catalog lookup fetch failed", zap.String("target", id), zap.Int("page", page), zap.Error(err))
			return Entry{}, &FetchError{Page: page, Err: err}
		}
		lk.state.Page = page + 1
		lk.state.TotalPages = max(res.TotalPages, 1)
		for _, e := range res.Entries {
			if e.ID == id {
				found := e
				lk.found = &found
				return e, nil
			}
		}
	}

	lk.state.NotFound = true
	lk.log.Info("catalog lookup exhausted", zap.String("target", id), zap.Int("total_pages", lk.state.TotalPages))
	return Entry{}, ErrLookupNotFound
}
