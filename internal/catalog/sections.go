package catalog

import "storefront/internal/domain"

// Categories lists the distinct categories of products in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Featured returns up to n bestsellers or new products, in catalog order.
func Featured(products []domain.Product, n int) []domain.Product {
	return firstN(products, n, func(p domain.Product) bool {
		return p.IsBestseller || p.IsNew
	})
}

// NewArrivals returns up to n new products, in catalog order.
func NewArrivals(products []domain.Product, n int) []domain.Product {
	return firstN(products, n, func(p domain.Product) bool {
		return p.IsNew
	})
}

func firstN(products []domain.Product, n int, keep func(domain.Product) bool) []domain.Product {
	if n <= 0 {
		return nil
	}
	out := make([]domain.Product, 0, n)
	for _, p := range products {
		if len(out) >= n {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
