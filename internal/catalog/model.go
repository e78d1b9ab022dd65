// Package catalog pages through the remote cuisine catalog and keeps a
// deduplicated, insertion-ordered view of every entry seen so far.
package catalog

// Dish is one purchasable item inside a catalog entry.
// PriceMinorUnits is in the smallest currency unit.
type Dish struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ImageURL        string `json:"image_url"`
	PriceMinorUnits int64  `json:"price"`
	Rating          string `json:"rating"`
}

// Entry is one catalog category (a cuisine) and its dishes. Identity is ID.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Dishes   []Dish `json:"dishes"`
}

// PageResult is what a single page fetch yields.
type PageResult struct {
	Entries    []Entry `json:"entries"`
	TotalPages int     `json:"total_pages"`
}

// State is a read-only snapshot of the loader.
// Page is the next page to fetch (1-indexed); HasMore reports Page <= TotalPages.
type State struct {
	Entries    []Entry `json:"entries"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	IsLoading  bool    `json:"is_loading"`
	HasMore    bool    `json:"has_more"`
	Error      string  `json:"error,omitempty"`
}

func (s State) clone() State {
	out := s
	out.Entries = append([]Entry(nil), s.Entries...)
	return out
}
