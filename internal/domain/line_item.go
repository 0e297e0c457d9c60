package domain

import "github.com/shopspring/decimal"

// LineItem is a cart entry. It copies the product fields at add time, so a
// later catalog change does not reach items already in a cart.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	InStock  bool            `json:"inStock"`
}

// NewLineItem snapshots p with quantity 1.
func NewLineItem(p Product) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
		InStock:  p.InStock,
	}
}

// LineTotal is price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
