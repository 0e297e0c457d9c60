package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
)

type stubRepo struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
}

func (s *stubRepo) FetchAll(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.Product(nil), s.products...), nil
}

func (s *stubRepo) FetchByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{
			ID:            "p1",
			Name:          "Wireless Headphones",
			Price:         decimal.RequireFromString("79.99"),
			OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString("99.99")),
			Category:      "Electronics",
			Rating:        4.5,
			ReviewCount:   128,
			InStock:       true,
			IsBestseller:  true,
			CreatedAt:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:       "p2",
			Name:     "Cotton T-Shirt",
			Price:    decimal.RequireFromString("24.99"),
			Category: "Clothing",
			Rating:   4.2,
			InStock:  true,
			IsNew:    true,
		},
		{
			ID:       "p3",
			Name:     "Desk Lamp",
			Price:    decimal.RequireFromString("45.00"),
			Category: "Home",
			Rating:   4.8,
			InStock:  false,
		},
	}
}

type testEnv struct {
	router *gin.Engine
	repo   *stubRepo
	carts  *cartsvc.Service
	logs   *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	repo := &stubRepo{products: sampleProducts()}
	loader := catalogsvc.NewLoader(repo, logger)
	carts := cartsvc.New(loader, logger)
	router, err := buildRouter(logger, nil, Deps{
		CatalogSvc: catalogsvc.New(loader, catalog.NewPipeline(language.English)),
		CartSvc:    carts,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{router: router, repo: repo, carts: carts, logs: logs}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestBuildRouterRequiresServices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(zap.NewNop(), nil, Deps{}); err == nil {
		t.Fatalf("expected error without services")
	}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without db, got %d", rec.Code)
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}

	rec = env.do(t, http.MethodGet, "/healthz", "")
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}

	entries := env.logs.FilterMessage("request").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 access log entries, got %d", len(entries))
	}
	if entries[0].ContextMap()[requestIDKey] != "abc-123" {
		t.Fatalf("unexpected access log fields %v", entries[0].ContextMap())
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORSConfigRestrictsOrigins(t *testing.T) {
	cfg := corsConfig([]string{"https://shop.example.com"})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 1 {
		t.Fatalf("unexpected cors config %+v", cfg)
	}
	if cfg := corsConfig([]string{"*"}); !cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 0 {
		t.Fatalf("expected allow all, got %+v", cfg)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody[errorBody](t, rec)
	if body.Error != "not_found" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &handlers{logger: zap.NewNop()}
	cases := []struct {
		err       error
		status    int
		code      string
		retryable bool
	}{
		{domain.ErrNotFound, http.StatusNotFound, "not_found", false},
		{domain.ErrOutOfStock, http.StatusConflict, "out_of_stock", false},
		{cartsvc.ErrInvalidQuantity, http.StatusBadRequest, "invalid_request", false},
		{&domain.FetchError{Op: "products", Err: errors.New("refused")}, http.StatusServiceUnavailable, "catalog_unavailable", true},
		{errors.New("boom"), http.StatusInternalServerError, "internal", false},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		h.writeError(c, tc.err)

		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		body := decodeBody[errorBody](t, rec)
		if body.Error != tc.code || body.Retryable != tc.retryable {
			t.Fatalf("%v: unexpected body %+v", tc.err, body)
		}
	}
}
