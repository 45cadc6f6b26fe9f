package rest

import (
	"net/http"

	"tecnoroute-be/internal/shipment"

	"github.com/gin-gonic/gin"
)

type shipmentStatusRequest struct {
	Status      string `json:"estado"`
	Description string `json:"descripcion"`
	Location    string `json:"ubicacion"`
}

type assignShipmentRequest struct {
	VehicleID *uint `json:"vehiculo_id"`
	DriverID  *uint `json:"conductor_id"`
}

func (h *Handler) listShipments(c *gin.Context) {
	f := shipment.Filter{
		Limit: queryInt(c, "limit", 0),
		Page:  queryInt(c, "page", 1),
	}
	if s := c.Query("estado"); s != "" {
		st := shipment.Status(s)
		f.Status = &st
	}
	if p := c.Query("prioridad"); p != "" {
		pr := shipment.Priority(p)
		f.Priority = &pr
	}

	list, err := h.shipments.List(c.Request.Context(), actorID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) pendingShipments(c *gin.Context) {
	list, err := h.shipments.Pending(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) inTransitShipments(c *gin.Context) {
	list, err := h.shipments.InTransit(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) findShipmentByTrackingNumber(c *gin.Context) {
	s, err := h.shipments.FindByTrackingNumber(c.Request.Context(), c.Query("numero_guia"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) getShipment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s, err := h.shipments.Get(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) shipmentTracking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	evs, err := h.shipments.Tracking(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, evs)
}

func (h *Handler) changeShipmentStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req shipmentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	s, err := h.shipments.ChangeStatus(c.Request.Context(), actorID(c), id, shipment.StatusChange{
		Status:      shipment.Status(req.Status),
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) assignShipment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req assignShipmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	s, err := h.shipments.Assign(c.Request.Context(), actorID(c), id, req.VehicleID, req.DriverID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
