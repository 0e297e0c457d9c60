// Package cart holds the shopping cart ledger: an ordered list of line items
// with add, set-quantity and remove operations. Every operation returns a new
// Ledger and leaves the receiver untouched.
package cart

import (
	"storefront/internal/domain"
)

// Ledger is an immutable, ordered collection of line items with at most one
// item per product id. The zero value is an empty ledger.
type Ledger struct {
	items []domain.LineItem
}

// New builds a ledger from items, merging duplicate ids and dropping
// non-positive quantities.
func New(items ...domain.LineItem) Ledger {
	var l Ledger
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if idx := l.index(it.ID); idx >= 0 {
			l.items[idx].Quantity += it.Quantity
			continue
		}
		l.items = append(l.items, it)
	}
	return l
}

// Items returns a copy of the line items in insertion order.
func (l Ledger) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len is the number of distinct line items.
func (l Ledger) Len() int {
	return len(l.items)
}

// Quantity is the number of units across all line items.
func (l Ledger) Quantity() int {
	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

// Find returns the line item for id.
func (l Ledger) Find(id string) (domain.LineItem, bool) {
	if idx := l.index(id); idx >= 0 {
		return l.items[idx], true
	}
	return domain.LineItem{}, false
}

// Add merges p into the ledger: an existing line gains one unit, otherwise a
// new line with quantity 1 is appended.
func (l Ledger) Add(p domain.Product) (Ledger, Notice) {
	if idx := l.index(p.ID); idx >= 0 {
		next := l.clone()
		next.items[idx].Quantity++
		return next, Notice{
			Kind:     QuantityIncreased,
			ItemID:   p.ID,
			Name:     p.Name,
			Quantity: next.items[idx].Quantity,
		}
	}

	item := domain.NewLineItem(p)
	next := Ledger{items: make([]domain.LineItem, len(l.items), len(l.items)+1)}
	copy(next.items, l.items)
	next.items = append(next.items, item)
	return next, Notice{Kind: Added, ItemID: p.ID, Name: p.Name, Quantity: 1}
}

// SetQuantity replaces the quantity of the line for id. A quantity of zero or
// less removes the line. Unknown ids leave the ledger unchanged.
func (l Ledger) SetQuantity(id string, quantity int) (Ledger, *Notice) {
	if quantity <= 0 {
		return l.Remove(id)
	}
	idx := l.index(id)
	if idx < 0 {
		return l, nil
	}
	next := l.clone()
	next.items[idx].Quantity = quantity
	return next, nil
}

// Remove drops the line for id. The notice is nil when nothing matched.
func (l Ledger) Remove(id string) (Ledger, *Notice) {
	idx := l.index(id)
	if idx < 0 {
		return l, nil
	}
	removed := l.items[idx]
	next := Ledger{items: make([]domain.LineItem, 0, len(l.items)-1)}
	next.items = append(next.items, l.items[:idx]...)
	next.items = append(next.items, l.items[idx+1:]...)
	return next, &Notice{Kind: Removed, ItemID: removed.ID, Name: removed.Name}
}

func (l Ledger) index(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (l Ledger) clone() Ledger {
	items := make([]domain.LineItem, len(l.items))
	copy(items, l.items)
	return Ledger{items: items}
}
