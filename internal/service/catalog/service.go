package catalog

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

// HomeSectionSize is the number of products in each landing page section.
const HomeSectionSize = 4

type productSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	State() State
	Invalidate(ctx context.Context)
}

// Service answers catalog queries from the loaded snapshot.
type Service struct {
	source   productSource
	pipeline *catalog.Pipeline
}

// New returns a Service reading through source and filtering with pipeline.
func New(source productSource, pipeline *catalog.Pipeline) *Service {
	return &Service{source: source, pipeline: pipeline}
}

// Listing is a filtered product list plus the sidebar categories of the
// whole catalog.
type Listing struct {
	catalog.Result
	Categories []string `json:"categories"`
}

// Home holds the landing page sections.
type Home struct {
	Featured    []domain.Product `json:"featured"`
	NewArrivals []domain.Product `json:"newArrivals"`
	Categories  []string         `json:"categories"`
}

func (s *Service) List(ctx context.Context, c catalog.Criteria) (*Listing, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	return &Listing{
		Result:     s.pipeline.Apply(products, c),
		Categories: catalog.Categories(products),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.source.Product(ctx, id)
}

func (s *Service) Home(ctx context.Context) (*Home, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	return &Home{
		Featured:    catalog.Featured(products, HomeSectionSize),
		NewArrivals: catalog.NewArrivals(products, HomeSectionSize),
		Categories:  catalog.Categories(products),
	}, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Categories(products), nil
}

func (s *Service) Status() State {
	return s.source.State()
}

// Refresh drops the current snapshot; the next read refetches it.
func (s *Service) Refresh(ctx context.Context) {
	s.source.Invalidate(ctx)
}
