package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"storefront/internal/cache"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

// DefaultStaleTime is how long a loaded snapshot is served without refetching.
const DefaultStaleTime = 5 * time.Minute

// Status is the observable state of the catalog snapshot.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusLoaded  Status = "loaded"
)

// State is a point-in-time view of the loader.
type State struct {
	Status   Status    `json:"status"`
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Loader keeps the current catalog snapshot and refreshes it from the
// product source when it goes stale.
type Loader struct {
	source    productrepo.Repository
	cache     cache.CatalogCache
	staleTime time.Duration
	now       func() time.Time
	logger    *zap.Logger

	group singleflight.Group

	mu       sync.RWMutex
	status   Status
	products []domain.Product
	loadedAt time.Time
	lastErr  error
	token    uint64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache puts a snapshot cache in front of the source.
func WithCache(c cache.CatalogCache) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

// WithStaleTime overrides DefaultStaleTime. Non-positive values are ignored.
func WithStaleTime(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.staleTime = d
		}
	}
}

// WithClock replaces time.Now for staleness checks.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader returns an idle loader over source. A nil logger discards output.
func NewLoader(source productrepo.Repository, logger *zap.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		source:    source,
		staleTime: DefaultStaleTime,
		now:       time.Now,
		logger:    logger.Named("catalog_loader"),
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns a snapshot of the loader status.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st := State{
		Status:   l.status,
		Count:    len(l.products),
		LoadedAt: l.loadedAt,
	}
	if l.lastErr != nil {
		st.Error = l.lastErr.Error()
	}
	return st
}

// Products returns the loaded catalog, refetching when the snapshot is stale
// or was invalidated. The returned slice must not be modified.
func (l *Loader) Products(ctx context.Context) ([]domain.Product, error) {
	l.mu.RLock()
	if l.status == StatusLoaded && l.now().Sub(l.loadedAt) < l.staleTime {
		products := l.products
		l.mu.RUnlock()
		return products, nil
	}
	l.mu.RUnlock()

	ch := l.group.DoChan("products", func() (interface{}, error) {
		return l.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Product), nil
	}
}

// Product resolves a single product from the source.
func (l *Loader) Product(ctx context.Context, id string) (*domain.Product, error) {
	return l.source.FetchByID(ctx, id)
}

// Invalidate marks the snapshot stale so the next read refetches it.
func (l *Loader) Invalidate(ctx context.Context) {
	l.mu.Lock()
	l.token++
	switch l.status {
	case StatusLoaded:
		l.loadedAt = time.Time{}
	case StatusLoading:
		// The fetch in flight will no longer be applied.
		l.status = StatusIdle
		if l.lastErr != nil {
			l.status = StatusError
		}
	}
	l.mu.Unlock()
	l.group.Forget("products")

	if l.cache != nil {
		if err := l.cache.Delete(ctx); err != nil {
			l.logger.Warn("cache delete failed", zap.Error(err))
		}
	}
}

func (l *Loader) refresh(ctx context.Context) ([]domain.Product, error) {
	l.mu.Lock()
	l.token++
	token := l.token
	if l.status != StatusLoaded {
		l.status = StatusLoading
	}
	l.mu.Unlock()

	products, fromCache, err := l.fetch(ctx)

	l.mu.Lock()
	if token != l.token {
		// Superseded by a later fetch or an invalidation; callers still get
		// their answer but the state is left alone.
		l.mu.Unlock()
		return products, err
	}
	if err != nil {
		l.status = StatusError
		l.lastErr = err
		l.mu.Unlock()
		l.logger.Warn("catalog fetch failed", zap.Error(err))
		return nil, err
	}
	l.status = StatusLoaded
	l.products = products
	l.loadedAt = l.now()
	l.lastErr = nil
	l.mu.Unlock()

	l.logger.Debug("catalog loaded", zap.Int("count", len(products)), zap.Bool("cache", fromCache))
	if !fromCache && l.cache != nil {
		if err := l.cache.Set(ctx, products); err != nil {
			l.logger.Warn("cache set failed", zap.Error(err))
		}
	}
	return products, nil
}

func (l *Loader) fetch(ctx context.Context) ([]domain.Product, bool, error) {
	if l.cache != nil {
		products, err := l.cache.Get(ctx)
		switch {
		case err == nil:
			return products, true, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			l.logger.Warn("cache get failed", zap.Error(err))
		}
	}

	products, err := l.source.FetchAll(ctx)
	if err != nil {
		if !domain.IsFetchError(err) {
			err = &domain.FetchError{Op: "products", Err: err}
		}
		return nil, false, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, false, nil
}
