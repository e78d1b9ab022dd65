package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MikeMC777/storefront/docs"
	"github.com/MikeMC777/storefront/internal/catalog"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/storefront"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
}

//
// ---------- STUBS ----------
//

// memStore keeps orders in memory; failAppend simulates a read-only disk.
type memStore struct {
	mu         sync.Mutex
	orders     []order.Order
	failAppend bool
}

func (m *memStore) Append(_ context.Context, o order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend {
		return errors.New("disk full")
	}
	m.orders = append(m.orders, o)
	return nil
}

func (m *memStore) LoadAll(context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]order.Order(nil), m.orders...), nil
}

// stubCatalog serves 12 entries in pages; failPage makes that page fail once.
type stubCatalog struct {
	mu       sync.Mutex
	failPage int
}

func (s *stubCatalog) FetchPage(_ context.Context, page, pageSize int) (catalog.PageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page == s.failPage {
		s.failPage = 0
		return catalog.PageResult{}, errors.New("upstream 503")
	}
	const total = 12
	var entries []catalog.Entry
	for i := (page - 1) * pageSize; i < page*pageSize && i < total; i++ {
		entries = append(entries, catalog.Entry{
			ID:     fmt.Sprintf("%d", i+1),
			Name:   fmt.Sprintf("Cuisine %d", i+1),
			Dishes: []catalog.Dish{{ID: fmt.Sprintf("d%d", i+1), Name: "Dish", PriceMinorUnits: 100}},
		})
	}
	return catalog.PageResult{Entries: entries, TotalPages: (total + pageSize - 1) / pageSize}, nil
}

func newTestRouter(t *testing.T, fetcher catalog.PageFetcher, store order.Store) (*gin.Engine, *storefront.Session) {
	t.Helper()
	s := storefront.NewSession(storefront.Options{Fetcher: fetcher, PageSize: 5, Store: store})
	r := gin.New()
	registerRoutes(r, s)
	return r, s
}

func do(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

//
// ---------- TESTS ----------
//

func TestCatalogPaging(t *testing.T) {
	r, _ := newTestRouter(t, &stubCatalog{}, &memStore{})

	for i := 0; i < 3; i++ {
		w := do(r, http.MethodPost, "/catalog/next", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}

	w := do(r, http.MethodGet, "/catalog", "")
	var st catalog.State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(st.Entries) != 12 || st.HasMore || st.TotalPages != 3 || st.Page != 4 {
		t.Fatalf("unexpected state: entries=%d has_more=%v total=%d page=%d", len(st.Entries), st.HasMore, st.TotalPages, st.Page)
	}
}

func TestCatalogFailureThenRetry(t *testing.T) {
	r, _ := newTestRouter(t, &stubCatalog{failPage: 1}, &memStore{})

	w := do(r, http.MethodPost, "/catalog/next", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/catalog/retry", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var st catalog.State
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if len(st.Entries) != 5 || st.Error != "" || st.Page != 2 {
		t.Fatalf("retry did not recover: %+v", st)
	}
}

func TestCatalogScrolled(t *testing.T) {
	r, s := newTestRouter(t, &stubCatalog{}, &memStore{})
	s.Start(context.Background())

	if w := do(r, http.MethodPost, "/catalog/scrolled", `{"last_visible":-1}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w := do(r, http.MethodPost, "/catalog/scrolled", `{"last_visible":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if n := len(s.Catalog.State().Entries); n != 5 {
		t.Fatalf("far from the end must not load, entries=%d", n)
	}

	do(r, http.MethodPost, "/catalog/scrolled", `{"last_visible":3}`)
	if n := len(s.Catalog.State().Entries); n != 10 {
		t.Fatalf("near the end must load the next page, entries=%d", n)
	}
}

func TestCatalogLookup_FoundAndNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &stubCatalog{}, &memStore{})

	w := do(r, http.MethodGet, "/catalog/entries/11", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var e catalog.Entry
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.ID != "11" {
		t.Fatalf("wrong entry: %+v", e)
	}

	w = do(r, http.MethodGet, "/catalog/entries/999", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/catalog/lookup/reset", "")
	var ls catalog.LookupState
	_ = json.Unmarshal(w.Body.Bytes(), &ls)
	if w.Code != http.StatusOK || ls.NotFound || ls.Page != 1 {
		t.Fatalf("reset failed: status=%d state=%+v", w.Code, ls)
	}
}

func TestCartMutations(t *testing.T) {
	r, _ := newTestRouter(t, &stubCatalog{}, &memStore{})

	add := `{"dish":{"id":"a","name":"Paneer","price":100}}`
	do(r, http.MethodPost, "/cart/items", add)
	do(r, http.MethodPost, "/cart/items", add)
	w := do(r, http.MethodPost, "/cart/items", `{"dish":{"id":"b","name":"Dal","price":200}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var v cartView
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	if v.Subtotal != 400 || v.CGST != 10 || v.SGST != 10 || v.Total != 420 || v.ItemCount != 3 {
		t.Fatalf("unexpected totals: %+v", v)
	}
	if len(v.Lines) != 2 || v.Lines[0].Dish.ID != "a" {
		t.Fatalf("lines out of order: %+v", v.Lines)
	}

	w = do(r, http.MethodPut, "/cart/items/a", `{"quantity":-3}`)
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	if v.Applied == nil || *v.Applied || v.Total != 420 {
		t.Fatalf("negative quantity must be ignored: %+v", v)
	}

	w = do(r, http.MethodPut, "/cart/items/a", `{"quantity":0}`)
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	if len(v.Lines) != 1 || v.Subtotal != 200 {
		t.Fatalf("quantity 0 must drop the line: %+v", v)
	}

	w = do(r, http.MethodDelete, "/cart/items/zzz", "")
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	if v.Applied == nil || *v.Applied {
		t.Fatalf("removing an absent dish must be a no-op: %+v", v)
	}

	if w := do(r, http.MethodPost, "/cart/items", `{"dish":{"name":"no id"}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodPut, "/cart/items/b", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = do(r, http.MethodDelete, "/cart", "")
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	if len(v.Lines) != 0 || v.Total != 0 {
		t.Fatalf("cart not cleared: %+v", v)
	}
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	store := &memStore{}
	r, s := newTestRouter(t, &stubCatalog{}, store)

	if w := do(r, http.MethodPost, "/orders", ""); w.Code != http.StatusConflict {
		t.Fatalf("empty cart: expected 409, got %d", w.Code)
	}

	do(r, http.MethodPost, "/cart/items", `{"dish":{"id":"a","name":"Paneer","price":100}}`)
	w := do(r, http.MethodPost, "/orders", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var placed order.Order
	if err := json.Unmarshal(w.Body.Bytes(), &placed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if placed.ID == "" || placed.Total != 104 || len(store.orders) != 1 {
		t.Fatalf("unexpected order: %+v stored=%d", placed, len(store.orders))
	}
	if !s.Cart.State().IsEmpty() {
		t.Fatalf("cart must be cleared after placement")
	}

	w = do(r, http.MethodGet, "/orders", "")
	var hist []order.Order
	_ = json.Unmarshal(w.Body.Bytes(), &hist)
	if len(hist) != 1 || hist[0].ID != placed.ID {
		t.Fatalf("history not refreshed: %+v", hist)
	}

	if w := do(r, http.MethodGet, "/orders/"+placed.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("get order: status=%d", w.Code)
	}
	if w := do(r, http.MethodGet, "/orders/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = do(r, http.MethodGet, "/orders/"+placed.ID+"/qrcode", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qrcode: status=%d type=%q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestPlaceOrder_PersistenceFailure(t *testing.T) {
	r, s := newTestRouter(t, &stubCatalog{}, &memStore{failAppend: true})

	do(r, http.MethodPost, "/cart/items", `{"dish":{"id":"a","name":"Paneer","price":100}}`)
	w := do(r, http.MethodPost, "/orders", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", w.Code, w.Body.String())
	}
	if s.Cart.State().IsEmpty() {
		t.Fatalf("cart must survive a failed placement")
	}

	w = do(r, http.MethodGet, "/orders", "")
	if w.Body.String() != "[]" {
		t.Fatalf("history should be empty, got %s", w.Body.String())
	}
}

func TestPlaceOrder_ConcurrentRequestsPlaceOnce(t *testing.T) {
	store := &memStore{}
	r, _ := newTestRouter(t, &stubCatalog{}, store)
	do(r, http.MethodPost, "/cart/items", `{"dish":{"id":"a","name":"Paneer","price":100}}`)

	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- do(r, http.MethodPost, "/orders", "").Code
		}()
	}
	wg.Wait()
	close(codes)

	created, conflicts := 0, 0
	for c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status %d", c)
		}
	}
	if created != 1 || conflicts != n-1 || len(store.orders) != 1 {
		t.Fatalf("created=%d conflicts=%d stored=%d", created, conflicts, len(store.orders))
	}
}

func TestErrorsAreLoggedWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := storefront.NewSession(storefront.Options{Fetcher: &stubCatalog{}, Store: &memStore{}})
	r := gin.New()
	r.Use(httpx.RequestID(zap.New(core)))
	registerRoutes(r, s)

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	req.Header.Set(httpx.HeaderRequestID, "rid-404")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	entries := logs.FilterMessage("request failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["rid"] != "rid-404" {
		t.Fatalf("missing request-scoped error log: %+v", entries)
	}
}

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("invalid swagger document: %v", err)
	}

	r, _ := newTestRouter(t, &stubCatalog{}, &memStore{})
	for _, rt := range r.Routes() {
		if rt.Path == "/healthz" {
			continue
		}
		parts := strings.Split(rt.Path, "/")
		for i, p := range parts {
			if strings.HasPrefix(p, ":") {
				parts[i] = "{" + p[1:] + "}"
			}
		}
		path := strings.Join(parts, "/")
		if _, ok := doc.Paths[path][strings.ToLower(rt.Method)]; !ok {
			t.Errorf("%s %s is not in the swagger document", rt.Method, path)
		}
	}
}
