package cart

import "fmt"

// NoticeKind identifies what a ledger operation did.
type NoticeKind string

const (
	Added             NoticeKind = "added"
	QuantityIncreased NoticeKind = "quantity_increased"
	Removed           NoticeKind = "removed"
)

// Notice describes a ledger change for the caller to surface to the shopper.
// The ledger only produces it; presenting it is up to the caller.
type Notice struct {
	Kind     NoticeKind `json:"kind"`
	ItemID   string     `json:"itemId"`
	Name     string     `json:"name"`
	Quantity int        `json:"quantity,omitempty"`
}

// Title is the short heading for the notice.
func (n Notice) Title() string {
	switch n.Kind {
	case Added:
		return "Added to Cart"
	case QuantityIncreased:
		return "Cart Updated"
	case Removed:
		return "Removed from Cart"
	default:
		return ""
	}
}

// Message is the human readable description of the change.
func (n Notice) Message() string {
	switch n.Kind {
	case Added:
		return fmt.Sprintf("%s has been added to your cart", n.Name)
	case QuantityIncreased:
		return fmt.Sprintf("%s quantity increased to %d", n.Name, n.Quantity)
	case Removed:
		return fmt.Sprintf("%s has been removed from your cart", n.Name)
	default:
		return ""
	}
}
