package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1,max=99"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=99"`
}

func (h *handlers) createCart(c *gin.Context) {
	sess, err := h.carts.Create(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartResponse(sess))
}

func (h *handlers) getCart(c *gin.Context) {
	sess, err := h.carts.Get(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(sess))
}

func (h *handlers) discardCart(c *gin.Context) {
	if err := h.carts.Discard(c.Request.Context(), c.Param("cartId")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sess, notice, err := h.carts.Add(c.Request.Context(), c.Param("cartId"), req.ProductID, quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMutationResponse(sess, notice))
}

func (h *handlers) setItemQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess, notice, err := h.carts.SetQuantity(c.Request.Context(), c.Param("cartId"), c.Param("itemId"), *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMutationResponse(sess, notice))
}

func (h *handlers) removeItem(c *gin.Context) {
	sess, notice, err := h.carts.Remove(c.Request.Context(), c.Param("cartId"), c.Param("itemId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMutationResponse(sess, notice))
}
