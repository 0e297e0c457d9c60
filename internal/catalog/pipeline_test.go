package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"storefront/internal/domain"
)

func prod(id, name, category, price string, rating float64, inStock bool) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Rating:   rating,
		InStock:  inStock,
	}
}

func sample() []domain.Product {
	return []domain.Product{
		prod("1", "Wireless Bluetooth Headphones", "Electronics", "79.99", 4.5, true),
		prod("2", "Premium Cotton T-Shirt", "Clothing", "24.99", 4.8, true),
		prod("3", "Smart Fitness Watch", "Electronics", "199.99", 4.3, true),
		prod("4", "Ceramic Plant Pot Set", "Home & Garden", "34.99", 4.6, true),
		prod("5", "Professional Camera Lens", "Electronics", "599.99", 4.9, false),
		prod("7", "Vintage Denim Jacket", "Clothing", "89.99", 4.4, true),
	}
}

func resultIDs(r Result) []string {
	out := make([]string, 0, len(r.Products))
	for _, p := range r.Products {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyInStockOnly(t *testing.T) {
	products := []domain.Product{
		prod("1", "A", "Electronics", "80", 4, true),
		prod("2", "B", "Clothing", "25", 4, false),
	}
	res := NewPipeline(language.English).Apply(products, Criteria{InStockOnly: true})
	assert.Equal(t, []string{"1"}, resultIDs(res))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.Total)
}

func TestApplyEmptyCriteriaReturnsAllSortedByName(t *testing.T) {
	products := sample()
	res := NewPipeline(language.English).Apply(products, Criteria{})
	require.Equal(t, len(products), res.Count)
	assert.Equal(t, []string{"4", "2", "5", "3", "7", "1"}, resultIDs(res))
	assert.Equal(t, "1", products[0].ID, "input must not be reordered")
}

func TestApplyTextMatchesNameOrCategory(t *testing.T) {
	p := NewPipeline(language.English)

	byName := p.Apply(sample(), Criteria{Query: "WATCH"})
	assert.Equal(t, []string{"3"}, resultIDs(byName))

	// Whitespace is part of the query, not trimmed away.
	spaced := p.Apply(sample(), Criteria{Query: " watch "})
	assert.Empty(t, resultIDs(spaced))
	blank := p.Apply(sample(), Criteria{Query: " "})
	assert.Equal(t, []string{"4", "2", "5", "3", "7", "1"}, resultIDs(blank))
	assert.True(t, Criteria{Query: " "}.Active())

	byCategory := p.Apply(sample(), Criteria{Query: "garden"})
	assert.Equal(t, []string{"4"}, resultIDs(byCategory))
}

func TestApplyCategories(t *testing.T) {
	p := NewPipeline(language.English)

	header := p.Apply(sample(), Criteria{HeaderCategory: "Clothing"})
	assert.Equal(t, []string{"2", "7"}, resultIDs(header))

	sidebar := p.Apply(sample(), Criteria{Categories: []string{"Clothing", "Home & Garden"}})
	assert.Equal(t, []string{"4", "2", "7"}, resultIDs(sidebar))

	both := p.Apply(sample(), Criteria{HeaderCategory: "Electronics", Categories: []string{"Clothing"}})
	assert.Empty(t, both.Products)
}

func TestApplyPriceRangeInclusive(t *testing.T) {
	c := Criteria{}.WithPriceRange(decimal.RequireFromString("34.99"), decimal.RequireFromString("89.99"))
	res := NewPipeline(language.English).Apply(sample(), c)
	assert.ElementsMatch(t, []string{"1", "4", "7"}, resultIDs(res))

	open := Criteria{MinPrice: decimal.RequireFromString("100")}
	res = NewPipeline(language.English).Apply(sample(), open)
	assert.ElementsMatch(t, []string{"3", "5"}, resultIDs(res))
}

func TestSortPriceDirectionsAreReversed(t *testing.T) {
	p := NewPipeline(language.English)
	low := resultIDs(p.Apply(sample(), Criteria{Sort: SortPriceLow}))
	high := resultIDs(p.Apply(sample(), Criteria{Sort: SortPriceHigh}))

	assert.Equal(t, []string{"2", "4", "1", "7", "3", "5"}, low)
	for i := range low {
		assert.Equal(t, low[i], high[len(high)-1-i])
	}
}

func TestSortRatingDescendingIsStable(t *testing.T) {
	products := []domain.Product{
		prod("a", "A", "X", "1", 4.5, true),
		prod("b", "B", "X", "1", 4.9, true),
		prod("c", "C", "X", "1", 4.5, true),
	}
	res := NewPipeline(language.English).Apply(products, Criteria{Sort: SortRating})
	assert.Equal(t, []string{"b", "a", "c"}, resultIDs(res))
}

func TestSortNameIsLocaleAware(t *testing.T) {
	products := []domain.Product{
		prod("1", "Zebra", "X", "1", 0, true),
		prod("2", "Äpfel", "X", "1", 0, true),
		prod("3", "apple", "X", "1", 0, true),
	}
	res := NewPipeline(language.German).Apply(products, Criteria{Sort: SortName})
	assert.Equal(t, []string{"2", "3", "1"}, resultIDs(res))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceLow, ParseSort("price-low"))
	assert.Equal(t, SortPriceHigh, ParseSort(" Price-High "))
	assert.Equal(t, SortRating, ParseSort("rating"))
	assert.Equal(t, SortName, ParseSort(""))
	assert.Equal(t, SortName, ParseSort("popularity"))
}

func TestCriteriaActive(t *testing.T) {
	assert.False(t, Criteria{}.Active())
	assert.False(t, Criteria{Sort: SortRating}.Active())
	assert.True(t, Criteria{InStockOnly: true}.Active())
	assert.True(t, Criteria{}.WithPriceRange(decimal.Zero, decimal.NewFromInt(1000)).Active())
}
