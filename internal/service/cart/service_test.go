package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"storefront/internal/cart"
	"storefront/internal/domain"
)

type stubProducts struct {
	mu       sync.Mutex
	products map[string]domain.Product
	err      error
	lastID   string
}

func (s *stubProducts) Product(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, opts ...Option) (*Service, *stubProducts) {
	t.Helper()
	products := &stubProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Headphones", Price: decimal.RequireFromString("79.99"), InStock: true},
		"p2": {ID: "p2", Name: "Shirt", Price: decimal.RequireFromString("24.99"), InStock: true},
		"p3": {ID: "p3", Name: "Lamp", Price: decimal.RequireFromString("45.00"), InStock: false},
	}}
	return New(products, nil, opts...), products
}

func mustCreate(t *testing.T, svc *Service) string {
	t.Helper()
	sess, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.ID == "" || sess.Ledger.Len() != 0 {
		t.Fatalf("unexpected new session %+v", sess)
	}
	return sess.ID
}

func TestServiceGetUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceAddValidation(t *testing.T) {
	svc, products := newTestService(t)
	id := mustCreate(t, svc)

	if _, _, err := svc.Add(context.Background(), id, "  ", 1); !errors.Is(err, ErrProductRequired) {
		t.Fatalf("expected product required, got %v", err)
	}
	if _, _, err := svc.Add(context.Background(), id, "p1", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if _, _, err := svc.Add(context.Background(), "missing", "p1", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if products.lastID != "" {
		t.Fatalf("product lookup should not run for invalid input")
	}
}

func TestServiceAddProductErrors(t *testing.T) {
	svc, products := newTestService(t)
	id := mustCreate(t, svc)

	if _, _, err := svc.Add(context.Background(), id, "nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
	if _, _, err := svc.Add(context.Background(), id, "p3", 1); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}

	products.err = &domain.FetchError{Op: "product p1", Err: errors.New("dial tcp")}
	_, _, err := svc.Add(context.Background(), id, "p1", 1)
	if !domain.IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	sess, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Ledger.Len() != 0 {
		t.Fatalf("failed adds must not change the cart")
	}
}

func TestServiceAddAndIncrease(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc)
	ctx := context.Background()

	_, notice, err := svc.Add(ctx, id, "p1", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if notice.Kind != cart.Added || notice.Message() != "Headphones has been added to your cart" {
		t.Fatalf("unexpected notice %+v", notice)
	}

	sess, notice, err := svc.Add(ctx, id, "p1", 2)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if notice.Kind != cart.QuantityIncreased || notice.Quantity != 3 {
		t.Fatalf("unexpected notice %+v", notice)
	}
	if sess.Ledger.Len() != 1 || sess.Ledger.Quantity() != 3 {
		t.Fatalf("expected one line of 3, got %d lines %d units", sess.Ledger.Len(), sess.Ledger.Quantity())
	}
}

func TestServiceAddQuantityOnNewLine(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc)

	sess, notice, err := svc.Add(context.Background(), id, "p2", 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if notice.Kind != cart.QuantityIncreased || notice.Quantity != 2 {
		t.Fatalf("unexpected notice %+v", notice)
	}
	item, ok := sess.Ledger.Find("p2")
	if !ok || item.Quantity != 2 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestServiceSetQuantityAndRemove(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, id, "p1", 1); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if _, _, err := svc.Add(ctx, id, "p2", 1); err != nil {
		t.Fatalf("add p2: %v", err)
	}

	sess, notice, err := svc.SetQuantity(ctx, id, "p2", 4)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if notice != nil {
		t.Fatalf("set quantity should not produce a notice, got %+v", notice)
	}
	if item, _ := sess.Ledger.Find("p2"); item.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", item.Quantity)
	}

	sess, _, err = svc.SetQuantity(ctx, id, "unknown", 3)
	if err != nil || sess.Ledger.Len() != 2 {
		t.Fatalf("unknown item should be a no-op, err=%v len=%d", err, sess.Ledger.Len())
	}

	sess, notice, err = svc.SetQuantity(ctx, id, "p1", 0)
	if err != nil {
		t.Fatalf("set quantity zero: %v", err)
	}
	if notice == nil || notice.Kind != cart.Removed || sess.Ledger.Len() != 1 {
		t.Fatalf("expected removal, notice=%+v len=%d", notice, sess.Ledger.Len())
	}

	sess, notice, err = svc.Remove(ctx, id, "p2")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if notice == nil || notice.Message() != "Shirt has been removed from your cart" || sess.Ledger.Len() != 0 {
		t.Fatalf("unexpected remove result notice=%+v len=%d", notice, sess.Ledger.Len())
	}

	_, notice, err = svc.Remove(ctx, id, "p2")
	if err != nil || notice != nil {
		t.Fatalf("second remove should be a silent no-op, notice=%+v err=%v", notice, err)
	}
}

func TestServiceSessionsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustCreate(t, svc)
	b := mustCreate(t, svc)

	if _, _, err := svc.Add(context.Background(), a, "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	sess, err := svc.Get(context.Background(), b)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Ledger.Len() != 0 {
		t.Fatalf("session b should be empty")
	}
}

func TestServiceDiscard(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc)

	if err := svc.Discard(context.Background(), id); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if _, err := svc.Get(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after discard, got %v", err)
	}
	if err := svc.Discard(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second discard, got %v", err)
	}
}

func TestServiceIdleExpiry(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, WithClock(clock.Now), WithIdleTimeout(30*time.Minute))
	active := mustCreate(t, svc)
	idle := mustCreate(t, svc)

	clock.Advance(20 * time.Minute)
	if _, err := svc.Get(context.Background(), active); err != nil {
		t.Fatalf("get active: %v", err)
	}

	clock.Advance(20 * time.Minute)
	if _, err := svc.Get(context.Background(), idle); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected idle session to expire, got %v", err)
	}
	if n := svc.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", svc.Len())
	}
	if _, err := svc.Get(context.Background(), active); err != nil {
		t.Fatalf("active session should survive: %v", err)
	}
}

func TestServiceConcurrentAdds(t *testing.T) {
	svc, _ := newTestService(t)
	id := mustCreate(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.Add(context.Background(), id, "p1", 1); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	sess, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Ledger.Quantity() != 20 || sess.Ledger.Len() != 1 {
		t.Fatalf("expected 20 units on one line, got %d units %d lines", sess.Ledger.Quantity(), sess.Ledger.Len())
	}
}
