package httpserver

import (
	"time"

	"github.com/shopspring/decimal"
	"storefront/internal/cart"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
)

type productResponse struct {
	ID                  string                      `json:"id"`
	Name                string                      `json:"name"`
	Price               string                      `json:"price"`
	OriginalPrice       *string                     `json:"originalPrice,omitempty"`
	DiscountPercent     int                         `json:"discountPercent,omitempty"`
	Image               string                      `json:"image"`
	Category            string                      `json:"category"`
	Rating              float64                     `json:"rating"`
	ReviewCount         int                         `json:"reviewCount"`
	InStock             bool                        `json:"inStock"`
	IsNew               bool                        `json:"isNew"`
	IsBestseller        bool                        `json:"isBestseller"`
	Description         string                      `json:"description,omitempty"`
	IsCustomizable      bool                        `json:"isCustomizable"`
	CustomizationFields []domain.CustomizationField `json:"customizationFields"`
	CreatedAt           *time.Time                  `json:"createdAt,omitempty"`
}

type listResponse struct {
	Products   []productResponse `json:"products"`
	Count      int               `json:"count"`
	Total      int               `json:"total"`
	Categories []string          `json:"categories"`
}

type homeResponse struct {
	Featured    []productResponse `json:"featured"`
	NewArrivals []productResponse `json:"newArrivals"`
	Categories  []string          `json:"categories"`
}

type lineItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	InStock   bool   `json:"inStock"`
	LineTotal string `json:"lineTotal"`
}

type totalsResponse struct {
	Subtotal              string `json:"subtotal"`
	Shipping              string `json:"shipping"`
	Tax                   string `json:"tax"`
	Total                 string `json:"total"`
	FreeShipping          bool   `json:"freeShipping"`
	FreeShippingRemaining string `json:"freeShippingRemaining"`
}

type cartResponse struct {
	ID            string             `json:"id"`
	Items         []lineItemResponse `json:"items"`
	ItemCount     int                `json:"itemCount"`
	TotalQuantity int                `json:"totalQuantity"`
	Totals        totalsResponse     `json:"totals"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type noticeResponse struct {
	Kind     cart.NoticeKind `json:"kind"`
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	ItemID   string          `json:"itemId"`
	Quantity int             `json:"quantity,omitempty"`
}

type cartMutationResponse struct {
	Cart   cartResponse    `json:"cart"`
	Notice *noticeResponse `json:"notice,omitempty"`
}

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toProductResponse(p domain.Product) productResponse {
	out := productResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Price:               money(p.Price),
		DiscountPercent:     p.DiscountPercent(),
		Image:               p.Image,
		Category:            p.Category,
		Rating:              p.Rating,
		ReviewCount:         p.ReviewCount,
		InStock:             p.InStock,
		IsNew:               p.IsNew,
		IsBestseller:        p.IsBestseller,
		Description:         p.Description,
		IsCustomizable:      p.IsCustomizable,
		CustomizationFields: p.CustomizationFields,
	}
	if p.OriginalPrice.Valid {
		s := money(p.OriginalPrice.Decimal)
		out.OriginalPrice = &s
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		out.CreatedAt = &created
	}
	if out.CustomizationFields == nil {
		out.CustomizationFields = []domain.CustomizationField{}
	}
	return out
}

func toProductList(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toListResponse(l *catalogsvc.Listing) listResponse {
	return listResponse{
		Products:   toProductList(l.Products),
		Count:      l.Count,
		Total:      l.Total,
		Categories: nonNil(l.Categories),
	}
}

func toHomeResponse(h *catalogsvc.Home) homeResponse {
	return homeResponse{
		Featured:    toProductList(h.Featured),
		NewArrivals: toProductList(h.NewArrivals),
		Categories:  nonNil(h.Categories),
	}
}

func toCartResponse(s *cartsvc.Session) cartResponse {
	items := s.Ledger.Items()
	lines := make([]lineItemResponse, 0, len(items))
	for _, it := range items {
		lines = append(lines, lineItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Price:     money(it.Price),
			Image:     it.Image,
			Quantity:  it.Quantity,
			InStock:   it.InStock,
			LineTotal: money(it.LineTotal()),
		})
	}

	totals := s.Ledger.Totals()
	return cartResponse{
		ID:            s.ID,
		Items:         lines,
		ItemCount:     s.Ledger.Len(),
		TotalQuantity: s.Ledger.Quantity(),
		Totals: totalsResponse{
			Subtotal:              money(totals.Subtotal),
			Shipping:              money(totals.Shipping),
			Tax:                   money(totals.Tax),
			Total:                 money(totals.Total),
			FreeShipping:          totals.Shipping.IsZero(),
			FreeShippingRemaining: money(totals.FreeShippingRemaining),
		},
		UpdatedAt: s.UpdatedAt,
	}
}

func toMutationResponse(s *cartsvc.Session, n *cart.Notice) cartMutationResponse {
	out := cartMutationResponse{Cart: toCartResponse(s)}
	if n != nil {
		out.Notice = &noticeResponse{
			Kind:     n.Kind,
			Title:    n.Title(),
			Message:  n.Message(),
			ItemID:   n.ItemID,
			Quantity: n.Quantity,
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
