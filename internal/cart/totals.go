package cart

import "github.com/shopspring/decimal"

var (
	// FreeShippingThreshold is the subtotal that must be exceeded for free shipping.
	FreeShippingThreshold = decimal.NewFromInt(50)
	// FlatShipping is charged when the subtotal does not exceed the threshold.
	FlatShipping = decimal.RequireFromString("9.99")
	// TaxRate is the flat sales tax applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")
)

// Totals is the order summary derived from a ledger. Values are exact;
// rounding to cents is left to presentation.
type Totals struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
	FreeShippingRemaining decimal.Decimal `json:"freeShippingRemaining"`
}

// Totals recomputes the summary from the current items.
func (l Ledger) Totals() Totals {
	subtotal := decimal.Zero
	for _, it := range l.items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	shipping := FlatShipping
	remaining := FreeShippingThreshold.Sub(subtotal)
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
		remaining = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:              subtotal,
		Shipping:              shipping,
		Tax:                   tax,
		Total:                 subtotal.Add(shipping).Add(tax),
		FreeShippingRemaining: remaining,
	}
}
