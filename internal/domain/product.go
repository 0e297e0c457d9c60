package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the normalized, read-only catalog record shown by the storefront.
type Product struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Price               decimal.Decimal      `json:"price"`
	OriginalPrice       decimal.NullDecimal  `json:"originalPrice"`
	Image               string               `json:"image"`
	Category            string               `json:"category"`
	Rating              float64              `json:"rating"`
	ReviewCount         int                  `json:"reviewCount"`
	InStock             bool                 `json:"inStock"`
	IsNew               bool                 `json:"isNew,omitempty"`
	IsBestseller        bool                 `json:"isBestseller,omitempty"`
	Description         string               `json:"description,omitempty"`
	IsCustomizable      bool                 `json:"isCustomizable,omitempty"`
	CustomizationFields []CustomizationField `json:"customizationFields,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
}

// CustomizationField describes one input a customizable product accepts.
// The remote table stores these as free-form JSON objects.
type CustomizationField map[string]interface{}

var hundred = decimal.NewFromInt(100)

// DiscountPercent returns the rounded saving against the original price,
// or 0 when there is no original price.
func (p Product) DiscountPercent() int {
	if !p.OriginalPrice.Valid || !p.OriginalPrice.Decimal.IsPositive() {
		return 0
	}
	orig := p.OriginalPrice.Decimal
	pct := orig.Sub(p.Price).Div(orig).Mul(hundred).Round(0)
	return int(pct.IntPart())
}
