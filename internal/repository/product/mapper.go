package product

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

const (
	// DefaultImageURL is shown for rows without an image.
	DefaultImageURL = "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"
	// DefaultRating is used until ratings are stored.
	DefaultRating = 4.5
	// NewWindow is how long after creation a product counts as new.
	NewWindow = 30 * 24 * time.Hour
)

// Category label sets for the fixed category codes of the products table.
var (
	GermanLabels = map[string]string{
		"boxes":       "Boxen",
		"pillows":     "Kissen",
		"invitations": "Einladungen",
	}
	EnglishLabels = map[string]string{
		"boxes":       "Boxes",
		"pillows":     "Pillows",
		"invitations": "Invitations",
	}
)

// LabelsFor returns the label set for a name ("de" or "en"), defaulting to German.
func LabelsFor(name string) map[string]string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "en", "english":
		return EnglishLabels
	default:
		return GermanLabels
	}
}

// Signals supplies popularity data the table does not store.
type Signals interface {
	Bestseller(row Row) bool
	ReviewCount(row Row) int
}

// NoSignals reports no bestsellers and no reviews.
type NoSignals struct{}

func (NoSignals) Bestseller(Row) bool { return false }
func (NoSignals) ReviewCount(Row) int { return 0 }

// Mapper normalizes table rows into domain products.
type Mapper struct {
	Labels       map[string]string
	DefaultImage string
	Signals      Signals
	Now          func() time.Time
}

// NewMapper returns a Mapper with German labels, the default image, no
// popularity signals and the wall clock.
func NewMapper() *Mapper {
	return &Mapper{
		Labels:       GermanLabels,
		DefaultImage: DefaultImageURL,
		Signals:      NoSignals{},
		Now:          time.Now,
	}
}

// Map converts one row.
func (m *Mapper) Map(row Row) domain.Product {
	image := strings.TrimSpace(row.ImageURL)
	if image == "" {
		image = m.DefaultImage
	}

	category := row.Category
	if label, ok := m.Labels[row.Category]; ok {
		category = label
	}

	signals := m.Signals
	if signals == nil {
		signals = NoSignals{}
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	reviews := signals.ReviewCount(row)
	if reviews < 0 {
		reviews = 0
	}

	price := row.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	return domain.Product{
		ID:                  row.ID,
		Name:                row.Title,
		Price:               price,
		OriginalPrice:       row.OriginalPrice,
		Image:               image,
		Category:            category,
		Rating:              DefaultRating,
		ReviewCount:         reviews,
		InStock:             row.InStock,
		IsNew:               !row.CreatedAt.IsZero() && row.CreatedAt.After(now().Add(-NewWindow)),
		IsBestseller:        signals.Bestseller(row),
		Description:         row.Description,
		IsCustomizable:      row.IsCustomizable,
		CustomizationFields: decodeFields(row.CustomizationFields),
		CreatedAt:           row.CreatedAt,
	}
}

// MapAll converts rows, preserving order.
func (m *Mapper) MapAll(rows []Row) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.Map(r))
	}
	return out
}

func decodeFields(raw []byte) []domain.CustomizationField {
	if len(raw) == 0 {
		return []domain.CustomizationField{}
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []domain.CustomizationField{}
	}
	out := make([]domain.CustomizationField, 0, len(items))
	for _, it := range items {
		if obj, ok := it.(map[string]interface{}); ok {
			out = append(out, domain.CustomizationField(obj))
		}
	}
	return out
}
