package rest

import (
	"net/http"

	"tecnoroute-be/internal/cart"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID uint `json:"producto_id"`
	Quantity  *int `json:"cantidad"`
}

type updateCartItemRequest struct {
	ItemID   uint `json:"item_id"`
	Quantity *int `json:"cantidad"`
}

type removeCartItemRequest struct {
	ItemID uint `json:"item_id"`
}

func (h *Handler) getCart(c *gin.Context) {
	current, err := h.carts.Get(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	current, err := h.carts.AddItem(c.Request.Context(), actorID(c), req.ProductID, qty)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Quantity == nil {
		writeError(c, cart.ErrItemAndQtyRequired)
		return
	}

	current, err := h.carts.UpdateItem(c.Request.Context(), actorID(c), req.ItemID, *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

// removeCartItem takes item_id from the body, or from the query string since
// some clients cannot send a DELETE body.
func (h *Handler) removeCartItem(c *gin.Context) {
	var req removeCartItemRequest
	if id := queryUint(c, "item_id"); id != nil {
		req.ItemID = *id
	} else if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	current, err := h.carts.RemoveItem(c.Request.Context(), actorID(c), req.ItemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}
