package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PageFetcher wraps one network call returning a page of entries.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, pageSize int) (PageResult, error)
}

// PageFetcherFunc adapts a plain function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, page, pageSize int) (PageResult, error)

func (f PageFetcherFunc) FetchPage(ctx context.Context, page, pageSize int) (PageResult, error) {
	return f(ctx, page, pageSize)
}

// fetchRecovering calls f and turns a panic into an error, so a faulty fetcher
// cannot leave the caller's in-flight state set.
func fetchRecovering(ctx context.Context, f PageFetcher, page, pageSize int) (res PageResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = PageResult{}, fmt.Errorf("fetcher panic: %v", r)
		}
	}()
	return f.FetchPage(ctx, page, pageSize)
}

const itemListPath = "/emulator/interview/get_item_list"

type dishDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Price    string `json:"price"`
	Rating   string `json:"rating"`
}

type cuisineDTO struct {
	CuisineID       string    `json:"cuisine_id"`
	CuisineName     string    `json:"cuisine_name"`
	CuisineImageURL string    `json:"cuisine_image_url"`
	Items           []dishDTO `json:"items"`
}

type itemListResponse struct {
	ResponseCode    int          `json:"response_code"`
	OutcomeCode     int          `json:"outcome_code"`
	ResponseMessage string       `json:"response_message"`
	Page            int          `json:"page"`
	Count           int          `json:"count"`
	TotalPages      int          `json:"total_pages"`
	TotalItems      int          `json:"total_items"`
	Cuisines        []cuisineDTO `json:"cuisines"`
}

// HTTPFetcher talks to the partner item-list endpoint.
type HTTPFetcher struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewHTTPFetcher(baseURL, apiKey string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, page, pageSize int) (PageResult, error) {
	body, _ := json.Marshal(map[string]int{"page": page, "count": pageSize})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+itemListPath, bytes.NewReader(body))
	if err != nil {
		return PageResult{}, err
	}
	req.Header.Set("X-Partner-API-Key", f.APIKey)
	req.Header.Set("X-Forward-Proxy-Action", "get_item_list")
	req.Header.Set("Content-Type", "application/json")

	res, err := f.HTTP.Do(req)
	if err != nil {
		return PageResult{}, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return PageResult{}, fmt.Errorf("item list: %s", res.Status)
	}

	var out itemListResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return PageResult{}, fmt.Errorf("decode item list: %w", err)
	}
	return out.toPageResult()
}

func (r itemListResponse) toPageResult() (PageResult, error) {
	entries := make([]Entry, 0, len(r.Cuisines))
	for _, c := range r.Cuisines {
		dishes := make([]Dish, 0, len(c.Items))
		for _, it := range c.Items {
			price, err := parsePrice(it.Price)
			if err != nil {
				return PageResult{}, fmt.Errorf("dish %s: %w", it.ID, err)
			}
			dishes = append(dishes, Dish{
				ID:              it.ID,
				Name:            it.Name,
				ImageURL:        it.ImageURL,
				PriceMinorUnits: price,
				Rating:          it.Rating,
			})
		}
		entries = append(entries, Entry{
			ID:       c.CuisineID,
			Name:     c.CuisineName,
			ImageURL: c.CuisineImageURL,
			Dishes:   dishes,
		})
	}
	return PageResult{Entries: entries, TotalPages: r.TotalPages}, nil
}

// parsePrice accepts "120", "120.00"; rejects fractional and negative amounts.
func parsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	return d.IntPart(), nil
}
