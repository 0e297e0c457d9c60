package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

// writeError maps service errors onto status codes.
func (h *handlers) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusConflict, errorBody{Error: "out_of_stock", Message: "product is out of stock"})
	case errors.Is(err, cartsvc.ErrInvalidQuantity), errors.Is(err, cartsvc.ErrProductRequired):
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_request", Message: err.Error()})
	case domain.IsFetchError(err):
		h.logger.Warn("catalog unavailable", zap.Error(err), zap.String(requestIDKey, c.GetString(requestIDKey)))
		c.JSON(http.StatusServiceUnavailable, errorBody{
			Error:     "catalog_unavailable",
			Message:   "failed to load products",
			Retryable: true,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "timeout", Message: err.Error(), Retryable: true})
	default:
		h.logger.Error("request failed", zap.Error(err), zap.String(requestIDKey, c.GetString(requestIDKey)))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_request", Message: err.Error()})
}
