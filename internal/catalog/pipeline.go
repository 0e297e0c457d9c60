// Package catalog derives the visible product list from a catalog snapshot
// and a set of criteria. Everything here is pure and synchronous.
package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"storefront/internal/domain"
)

// Result is a filtered, sorted listing with the counts shown next to it.
type Result struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Total    int              `json:"total"`
}

// Pipeline filters and sorts products. Name ordering follows the collation
// rules of its language.
type Pipeline struct {
	lang language.Tag
}

// NewPipeline returns a Pipeline collating names for lang.
func NewPipeline(lang language.Tag) *Pipeline {
	return &Pipeline{lang: lang}
}

// Apply returns the products matching c, ordered by c.Sort. The input slice
// is not modified.
func (p *Pipeline) Apply(products []domain.Product, c Criteria) Result {
	fold := cases.Fold()
	query := fold.String(c.Query)

	var sidebar map[string]struct{}
	if len(c.Categories) > 0 {
		sidebar = make(map[string]struct{}, len(c.Categories))
		for _, cat := range c.Categories {
			sidebar[cat] = struct{}{}
		}
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, prod := range products {
		if query != "" &&
			!strings.Contains(fold.String(prod.Name), query) &&
			!strings.Contains(fold.String(prod.Category), query) {
			continue
		}
		if c.HeaderCategory != "" && prod.Category != c.HeaderCategory {
			continue
		}
		if sidebar != nil {
			if _, ok := sidebar[prod.Category]; !ok {
				continue
			}
		}
		if prod.Price.LessThan(c.MinPrice) {
			continue
		}
		if c.MaxPrice.Valid && prod.Price.GreaterThan(c.MaxPrice.Decimal) {
			continue
		}
		if c.InStockOnly && !prod.InStock {
			continue
		}
		filtered = append(filtered, prod)
	}

	p.sort(filtered, c.Sort)

	return Result{
		Products: filtered,
		Count:    len(filtered),
		Total:    len(products),
	}
}

func (p *Pipeline) sort(products []domain.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			default:
				return 0
			}
		})
	default:
		// collate.Collator keeps internal buffers; one per call.
		col := collate.New(p.lang)
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
}
