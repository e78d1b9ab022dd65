package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeCatalog serves numbered entries split into fixed-size pages.
type fakeCatalog struct {
	mu         sync.Mutex
	pages      map[int][]Entry
	totalPages int
	calls      []int
	failures   map[int]int // page -> remaining failures
}

func newFakeCatalog(total, pageSize int) *fakeCatalog {
	f := &fakeCatalog{pages: map[int][]Entry{}, failures: map[int]int{}}
	for i := 0; i < total; i++ {
		page := i/pageSize + 1
		f.pages[page] = append(f.pages[page], Entry{
			ID:   fmt.Sprintf("c%02d", i+1),
			Name: fmt.Sprintf("Cuisine %d", i+1),
		})
	}
	f.totalPages = (total + pageSize - 1) / pageSize
	return f
}

func (f *fakeCatalog) failOnce(page int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[page]++
}

func (f *fakeCatalog) FetchPage(_ context.Context, page, _ int) (PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if f.failures[page] > 0 {
		f.failures[page]--
		return PageResult{}, errors.New("connection reset")
	}
	return PageResult{Entries: append([]Entry(nil), f.pages[page]...), TotalPages: f.totalPages}, nil
}

func (f *fakeCatalog) Calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
