package fleet

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

func (s *service) ListRoutes(ctx context.Context, actorID uint, f RouteFilter) ([]*Route, error) {
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	if f.State != nil && !f.State.Valid() {
		return nil, ErrInvalidState
	}
	return s.repo.ListRoutes(ctx, f)
}

func (s *service) ActiveRoutes(ctx context.Context, actorID uint) ([]*Route, error) {
	active := true
	return s.ListRoutes(ctx, actorID, RouteFilter{Active: &active})
}

func (s *service) GetRoute(ctx context.Context, actorID, id uint) (*Route, error) {
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	return s.route(ctx, id)
}

func (s *service) CreateRoute(ctx context.Context, actorID uint, in RouteInput) (*Route, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	rt, err := routeFromInput(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateRoute(ctx, rt)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("route created",
		zap.String("layer", "service"),
		zap.Uint("route_id", created.ID),
	)
	return created, nil
}

func (s *service) UpdateRoute(ctx context.Context, actorID, id uint, in RouteInput) (*Route, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	rt, err := routeFromInput(in)
	if err != nil {
		return nil, err
	}
	rt.ID = id

	if err := s.repo.UpdateRoute(ctx, rt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return s.route(ctx, id)
}

func (s *service) DeleteRoute(ctx context.Context, actorID, id uint) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	err := s.repo.DeleteRoute(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRouteNotFound
	}
	return err
}

func (s *service) route(ctx context.Context, id uint) (*Route, error) {
	rt, err := s.repo.GetRoute(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	return rt, err
}

func routeFromInput(in RouteInput) (*Route, error) {
	rt := &Route{
		Name:           strings.TrimSpace(in.Name),
		Origin:         strings.TrimSpace(in.Origin),
		Destination:    strings.TrimSpace(in.Destination),
		DistanceKM:     in.DistanceKM,
		EstimatedHours: in.EstimatedHours,
		FuelCost:       in.FuelCost,
		Tolls:          in.Tolls,
		State:          in.State,
		Active:         true,
	}
	if rt.Name == "" || rt.Origin == "" || rt.Destination == "" {
		return nil, ErrRouteFieldsRequired
	}
	if rt.DistanceKM.IsNegative() || rt.EstimatedHours.IsNegative() || rt.FuelCost.IsNegative() || rt.Tolls.IsNegative() {
		return nil, ErrInvalidRouteValues
	}
	if rt.State == "" {
		rt.State = RoutePlanned
	}
	if !rt.State.Valid() {
		return nil, ErrInvalidState
	}
	if in.Active != nil {
		rt.Active = *in.Active
	}
	return rt, nil
}
