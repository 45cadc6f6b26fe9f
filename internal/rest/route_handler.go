package rest

import (
	"net/http"

	"tecnoroute-be/internal/fleet"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type routeRequest struct {
	Name           string          `json:"nombre" validate:"required"`
	Origin         string          `json:"origen" validate:"required"`
	Destination    string          `json:"destino" validate:"required"`
	DistanceKM     decimal.Decimal `json:"distancia_km"`
	EstimatedHours decimal.Decimal `json:"tiempo_estimado_horas"`
	FuelCost       decimal.Decimal `json:"costo_combustible"`
	Tolls          decimal.Decimal `json:"peajes"`
	State          string          `json:"estado"`
	Active         *bool           `json:"activa"`
}

func (r routeRequest) input() fleet.RouteInput {
	return fleet.RouteInput{
		Name:           r.Name,
		Origin:         r.Origin,
		Destination:    r.Destination,
		DistanceKM:     r.DistanceKM,
		EstimatedHours: r.EstimatedHours,
		FuelCost:       r.FuelCost,
		Tolls:          r.Tolls,
		State:          fleet.RouteState(r.State),
		Active:         r.Active,
	}
}

func (h *Handler) listRoutes(c *gin.Context) {
	f := fleet.RouteFilter{Active: queryBool(c, "activa"), Search: c.Query("search")}
	if s := c.Query("estado"); s != "" {
		st := fleet.RouteState(s)
		f.State = &st
	}

	list, err := h.fleet.ListRoutes(c.Request.Context(), actorID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) activeRoutes(c *gin.Context) {
	list, err := h.fleet.ActiveRoutes(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rt, err := h.fleet.GetRoute(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (h *Handler) createRoute(c *gin.Context) {
	var req routeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rt, err := h.fleet.CreateRoute(c.Request.Context(), actorID(c), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func (h *Handler) updateRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rt, err := h.fleet.UpdateRoute(c.Request.Context(), actorID(c), id, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (h *Handler) deleteRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeleteRoute(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
