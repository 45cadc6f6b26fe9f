package rest

import (
	"net/http"

	"tecnoroute-be/internal/order"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	ShippingAddress string `json:"direccion_envio"`
	ContactPhone    string `json:"telefono_contacto"`
	Notes           string `json:"notas"`
}

type editOrderRequest struct {
	ShippingAddress string  `json:"direccion_envio"`
	ContactPhone    string  `json:"telefono_contacto"`
	Notes           *string `json:"notas"`
}

type statusRequest struct {
	Status string `json:"estado" validate:"required"`
}

type assignDriverRequest struct {
	DriverID uint `json:"conductor_id"`
}

func (h *Handler) createOrder(c *gin.Context) {
	var req checkoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	o, err := h.orders.Checkout(c.Request.Context(), actorID(c), order.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		ContactPhone:    req.ContactPhone,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) listOrders(c *gin.Context) {
	f := order.Filter{
		Limit: queryInt(c, "limit", 0),
		Page:  queryInt(c, "page", 1),
	}
	if s := c.Query("estado"); s != "" {
		st := order.Status(s)
		f.Status = &st
	}

	list, err := h.orders.List(c.Request.Context(), actorID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) recentOrders(c *gin.Context) {
	list, err := h.orders.Recent(c.Request.Context(), actorID(c), queryInt(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) availableOrders(c *gin.Context) {
	list, err := h.orders.Available(c.Request.Context(), actorID(c), queryInt(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) orderStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	o, err := h.orders.Get(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) editOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req editOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	o, err := h.orders.Edit(c.Request.Context(), actorID(c), id, order.EditInput{
		ShippingAddress: req.ShippingAddress,
		ContactPhone:    req.ContactPhone,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pedido actualizado exitosamente",
		"pedido":  o,
	})
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pedido eliminado exitosamente",
	})
}

func (h *Handler) changeOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	o, err := h.orders.ChangeStatus(c.Request.Context(), actorID(c), id, order.Status(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) assignOrderDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req assignDriverRequest
	if !h.bindJSON(c, &req) {
		return
	}

	o, err := h.orders.AssignDriver(c.Request.Context(), actorID(c), id, req.DriverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
