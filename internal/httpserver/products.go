package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"storefront/internal/catalog"
)

type listQuery struct {
	Query      string   `form:"q" binding:"max=200"`
	Category   string   `form:"category"`
	Categories []string `form:"categories"`
	MinPrice   string   `form:"minPrice" binding:"omitempty,numeric"`
	MaxPrice   string   `form:"maxPrice" binding:"omitempty,numeric"`
	InStock    bool     `form:"inStock"`
	Sort       string   `form:"sort"`
}

func (q listQuery) criteria() (catalog.Criteria, error) {
	c := catalog.Criteria{
		Query:          q.Query,
		HeaderCategory: strings.TrimSpace(q.Category),
		InStockOnly:    q.InStock,
		Sort:           catalog.ParseSort(q.Sort),
	}

	for _, raw := range q.Categories {
		// Accept both repeated parameters and a comma separated list.
		for _, cat := range strings.Split(raw, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				c.Categories = append(c.Categories, cat)
			}
		}
	}

	if q.MinPrice != "" {
		min, err := decimal.NewFromString(q.MinPrice)
		if err != nil {
			return c, fmt.Errorf("minPrice: %w", err)
		}
		c.MinPrice = min
	}
	if q.MaxPrice != "" {
		max, err := decimal.NewFromString(q.MaxPrice)
		if err != nil {
			return c, fmt.Errorf("maxPrice: %w", err)
		}
		c.MaxPrice = decimal.NewNullDecimal(max)
	}
	if c.MinPrice.IsNegative() {
		return c, errors.New("minPrice must not be negative")
	}
	if c.MaxPrice.Valid && c.MaxPrice.Decimal.LessThan(c.MinPrice) {
		return c, errors.New("maxPrice must not be below minPrice")
	}
	return c, nil
}

func (h *handlers) home(c *gin.Context) {
	home, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHomeResponse(home))
}

func (h *handlers) listProducts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	criteria, err := q.criteria()
	if err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.catalog.List(c.Request.Context(), criteria)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(listing))
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

func (h *handlers) catalogStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Status())
}

func (h *handlers) refreshCatalog(c *gin.Context) {
	h.catalog.Refresh(c.Request.Context())
	c.JSON(http.StatusAccepted, h.catalog.Status())
}
