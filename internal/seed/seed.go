package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/repository/product"
)

// namespace derives stable product ids from the sample keys so repeated runs
// update rows instead of duplicating them.
var namespace = uuid.MustParse("6f1c1b8e-3f43-4a57-9a53-2f1d9b0c7d21")

type productSeed struct {
	Key           string
	Name          string
	Price         string
	OriginalPrice string
	Image         string
	Category      string
	Description   string
	ReviewCount   int
	InStock       bool
	IsNew         bool
	IsBestseller  bool
}

var samples = []productSeed{
	{
		Key:           "wireless-headphones",
		Name:          "Wireless Bluetooth Headphones",
		Price:         "79.99",
		OriginalPrice: "99.99",
		Image:         "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:      "Electronics",
		ReviewCount:   245,
		InStock:       true,
		IsNew:         true,
		IsBestseller:  true,
	},
	{
		Key:          "cotton-tshirt",
		Name:         "Premium Cotton T-Shirt",
		Price:        "24.99",
		Image:        "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:     "Clothing",
		ReviewCount:  156,
		InStock:      true,
		IsBestseller: true,
	},
	{
		Key:           "fitness-watch",
		Name:          "Smart Fitness Watch",
		Price:         "199.99",
		OriginalPrice: "249.99",
		Image:         "https://images.unsplash.com/photo-1523275335684-37898b6baf30?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:      "Electronics",
		ReviewCount:   89,
		InStock:       true,
		IsNew:         true,
	},
	{
		Key:         "plant-pot-set",
		Name:        "Ceramic Plant Pot Set",
		Price:       "34.99",
		Image:       "https://images.unsplash.com/photo-1485955900006-10f4d324d411?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:    "Home & Garden",
		ReviewCount: 78,
		InStock:     true,
	},
	{
		Key:         "camera-lens",
		Name:        "Professional Camera Lens",
		Price:       "599.99",
		Image:       "https://images.unsplash.com/photo-1606983340126-99ab4feaa64a?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:    "Electronics",
		ReviewCount: 234,
		InStock:     false,
	},
	{
		Key:           "skincare-set",
		Name:          "Organic Skincare Set",
		Price:         "49.99",
		OriginalPrice: "69.99",
		Image:         "https://images.unsplash.com/photo-1556228578-0d85b1a4d571?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:      "Beauty",
		ReviewCount:   167,
		InStock:       true,
		IsNew:         true,
	},
	{
		Key:         "denim-jacket",
		Name:        "Vintage Denim Jacket",
		Price:       "89.99",
		Image:       "https://images.unsplash.com/photo-1551028719-00167b16eac5?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:    "Clothing",
		ReviewCount: 92,
		InStock:     true,
	},
	{
		Key:          "table-lamp",
		Name:         "Modern Table Lamp",
		Price:        "79.99",
		Image:        "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:     "Home & Garden",
		ReviewCount:  45,
		InStock:      true,
		IsBestseller: true,
	},
	{
		Key:           "yoga-set",
		Name:          "Yoga Mat & Block Set",
		Price:         "39.99",
		OriginalPrice: "54.99",
		Image:         "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:      "Sports",
		ReviewCount:   128,
		InStock:       true,
		IsNew:         true,
	},
	{
		Key:          "novel-collection",
		Name:         "Bestselling Novel Collection",
		Price:        "29.99",
		Image:        "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:     "Books",
		ReviewCount:  203,
		InStock:      true,
		IsBestseller: true,
	},
}

// ProductID is the stable id of a sample product key.
func ProductID(key string) string {
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

func (p productSeed) row(now time.Time) (product.Row, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return product.Row{}, fmt.Errorf("price: %w", err)
	}
	row := product.Row{
		ID:          ProductID(p.Key),
		Title:       p.Name,
		Price:       price,
		ImageURL:    p.Image,
		Category:    p.Category,
		Description: p.Description,
		InStock:     p.InStock,
		CreatedAt:   now.Add(-90 * 24 * time.Hour),
	}
	if p.IsNew {
		row.CreatedAt = now.Add(-24 * time.Hour)
	}
	if p.OriginalPrice != "" {
		orig, err := decimal.NewFromString(p.OriginalPrice)
		if err != nil {
			return product.Row{}, fmt.Errorf("original price: %w", err)
		}
		row.OriginalPrice = decimal.NewNullDecimal(orig)
	}
	return row, nil
}

// Apply upserts the sample catalog. It is idempotent via the stable ids.
func Apply(ctx context.Context, w product.Writer, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now()
	for i, p := range samples {
		row, err := p.row(now)
		if err != nil {
			return i, fmt.Errorf("sample %s: %w", p.Key, err)
		}
		if _, err := w.Upsert(ctx, row); err != nil {
			return i, fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
		logger.Debug("seeded product", zap.String("key", p.Key), zap.String("id", row.ID))
	}
	return len(samples), nil
}

// Signals reports the sample popularity data for seeded rows and nothing for
// any other row.
type Signals struct {
	bestseller map[string]bool
	reviews    map[string]int
}

func NewSignals() *Signals {
	s := &Signals{
		bestseller: make(map[string]bool, len(samples)),
		reviews:    make(map[string]int, len(samples)),
	}
	for _, p := range samples {
		id := ProductID(p.Key)
		s.bestseller[id] = p.IsBestseller
		s.reviews[id] = p.ReviewCount
	}
	return s
}

func (s *Signals) Bestseller(row product.Row) bool { return s.bestseller[row.ID] }
func (s *Signals) ReviewCount(row product.Row) int { return s.reviews[row.ID] }
