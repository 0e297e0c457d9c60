package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

// Repository is the read side of the remote product table.
type Repository interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
	FetchByID(ctx context.Context, id string) (*domain.Product, error)
}

// Writer is used by the seed and import tools only.
type Writer interface {
	Upsert(ctx context.Context, row Row) (*Row, error)
}

// Row mirrors one record of the products table before normalization.
type Row struct {
	ID                  string
	Title               string
	Price               decimal.Decimal
	OriginalPrice       decimal.NullDecimal
	ImageURL            string
	Category            string
	CreatedAt           time.Time
	Description         string
	IsCustomizable      bool
	CustomizationFields []byte
	InStock             bool
}
