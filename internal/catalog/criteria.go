package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey selects the ordering of a filtered product list.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSort maps a client value to a SortKey, falling back to SortName.
func ParseSort(v string) SortKey {
	switch k := SortKey(strings.TrimSpace(strings.ToLower(v))); k {
	case SortPriceLow, SortPriceHigh, SortRating:
		return k
	default:
		return SortName
	}
}

// Criteria is the full set of filter and sort inputs for a catalog listing.
// The zero value matches every product and sorts by name.
type Criteria struct {
	// Query is matched case-insensitively against name and category.
	Query string
	// HeaderCategory is the single category picked from the header menu.
	HeaderCategory string
	// Categories is the sidebar multi-select; empty means all.
	Categories []string
	// MinPrice and MaxPrice bound the price inclusively. An invalid MaxPrice
	// leaves the range open at the top.
	MinPrice    decimal.Decimal
	MaxPrice    decimal.NullDecimal
	InStockOnly bool
	Sort        SortKey
}

// WithPriceRange returns a copy of c bounded to [min, max].
func (c Criteria) WithPriceRange(min, max decimal.Decimal) Criteria {
	c.MinPrice = min
	c.MaxPrice = decimal.NewNullDecimal(max)
	return c
}

// Active reports whether any filter narrows the listing.
func (c Criteria) Active() bool {
	return c.Query != "" ||
		c.HeaderCategory != "" ||
		len(c.Categories) > 0 ||
		c.MinPrice.IsPositive() ||
		c.MaxPrice.Valid ||
		c.InStockOnly
}
