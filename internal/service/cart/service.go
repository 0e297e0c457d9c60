package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"storefront/internal/cart"
	"storefront/internal/domain"
)

// DefaultIdleTimeout is how long an untouched cart session is kept.
const DefaultIdleTimeout = 2 * time.Hour

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrProductRequired = errors.New("productId required")
)

type productLookup interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// Session is a copy of one shopper's cart at a point in time.
type Session struct {
	ID        string
	Ledger    cart.Ledger
	UpdatedAt time.Time
}

type session struct {
	mu        sync.Mutex
	ledger    cart.Ledger
	touched   time.Time
	discarded bool
}

// Service keeps one ledger per browsing session in process memory. Mutations
// of a session are applied one at a time.
type Service struct {
	products productLookup
	idle     time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Service.
type Option func(*Service)

// WithIdleTimeout sets how long an untouched session survives.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.idle = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty session store. A nil logger discards output.
func New(products productLookup, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		products: products,
		idle:     DefaultIdleTimeout,
		now:      time.Now,
		logger:   logger.Named("cart_service"),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(_ context.Context) (*Session, error) {
	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	s.sessions[id] = &session{touched: now}
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("cart_id", id))
	return &Session{ID: id, UpdatedAt: now}, nil
}

func (s *Service) Get(_ context.Context, id string) (*Session, error) {
	var out *Session
	err := s.update(id, func(l cart.Ledger) cart.Ledger {
		return l
	}, &out)
	return out, err
}

// Add puts quantity units of productID into the cart, one at a time, and
// returns the notice of the last step.
func (s *Service) Add(ctx context.Context, id, productID string, quantity int) (*Session, *cart.Notice, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, nil, ErrProductRequired
	}
	if quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}
	if _, ok := s.lookup(id); !ok {
		return nil, nil, domain.ErrNotFound
	}

	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if !product.InStock {
		return nil, nil, domain.ErrOutOfStock
	}

	var (
		out    *Session
		notice cart.Notice
	)
	err = s.update(id, func(l cart.Ledger) cart.Ledger {
		for i := 0; i < quantity; i++ {
			l, notice = l.Add(*product)
		}
		return l
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("item added",
		zap.String("cart_id", id),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return out, &notice, nil
}

// SetQuantity replaces the quantity of itemID; zero or less removes it.
func (s *Service) SetQuantity(_ context.Context, id, itemID string, quantity int) (*Session, *cart.Notice, error) {
	var (
		out    *Session
		notice *cart.Notice
	)
	err := s.update(id, func(l cart.Ledger) cart.Ledger {
		l, notice = l.SetQuantity(itemID, quantity)
		return l
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, notice, nil
}

func (s *Service) Remove(_ context.Context, id, itemID string) (*Session, *cart.Notice, error) {
	var (
		out    *Session
		notice *cart.Notice
	)
	err := s.update(id, func(l cart.Ledger) cart.Ledger {
		l, notice = l.Remove(itemID)
		return l
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, notice, nil
}

// Discard drops the session and its cart.
func (s *Service) Discard(_ context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}

	sess.mu.Lock()
	sess.discarded = true
	sess.mu.Unlock()
	s.logger.Debug("session discarded", zap.String("cart_id", id))
	return nil
}

// Sweep drops sessions idle for longer than the idle timeout and returns how
// many were dropped.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.touched.Before(cutoff)
		if expired {
			sess.discarded = true
		}
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		s.logger.Info("idle sessions swept", zap.Int("count", n))
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len is the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Service) update(id string, fn func(cart.Ledger) cart.Ledger, out **Session) error {
	sess, ok := s.lookup(id)
	if !ok {
		return domain.ErrNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	now := s.now()
	if sess.discarded || now.Sub(sess.touched) > s.idle {
		return domain.ErrNotFound
	}
	sess.ledger = fn(sess.ledger)
	sess.touched = now
	*out = &Session{ID: id, Ledger: sess.ledger, UpdatedAt: now}
	return nil
}
