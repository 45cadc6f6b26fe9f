package fleet

import (
	"context"
	"fmt"
	"strings"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

const selectRoute = `
	SELECT id, name, origin, destination, distance_km, estimated_hours,
		fuel_cost, tolls, state, active, created_at
	FROM routes
`

func scanRoute(row interface{ Scan(...any) error }) (*Route, error) {
	var rt Route
	err := row.Scan(
		&rt.ID, &rt.Name, &rt.Origin, &rt.Destination, &rt.DistanceKM, &rt.EstimatedHours,
		&rt.FuelCost, &rt.Tolls, &rt.State, &rt.Active, &rt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *repository) ListRoutes(ctx context.Context, f RouteFilter) ([]*Route, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListRoutes"),
	)

	query := selectRoute
	where := []string{}
	args := []interface{}{}

	if f.State != nil {
		args = append(args, *f.State)
		where = append(where, fmt.Sprintf("state = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR origin ILIKE $%d OR destination ILIKE $%d)", n, n, n))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	routes := []*Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

func (r *repository) GetRoute(ctx context.Context, id uint) (*Route, error) {
	return scanRoute(r.db.QueryRowContext(ctx, selectRoute+" WHERE id = $1", id))
}

func (r *repository) CreateRoute(ctx context.Context, rt *Route) (*Route, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO routes (
			name, origin, destination, distance_km, estimated_hours,
			fuel_cost, tolls, state, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, rt.Name, rt.Origin, rt.Destination, rt.DistanceKM, rt.EstimatedHours,
		rt.FuelCost, rt.Tolls, rt.State, rt.Active,
	).Scan(&rt.ID, &rt.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert route",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	return rt, nil
}

func (r *repository) UpdateRoute(ctx context.Context, rt *Route) error {
	return execOne(ctx, r.db, `
		UPDATE routes
		SET name = $2, origin = $3, destination = $4, distance_km = $5,
			estimated_hours = $6, fuel_cost = $7, tolls = $8, state = $9, active = $10
		WHERE id = $1
	`, rt.ID, rt.Name, rt.Origin, rt.Destination, rt.DistanceKM,
		rt.EstimatedHours, rt.FuelCost, rt.Tolls, rt.State, rt.Active)
}

func (r *repository) DeleteRoute(ctx context.Context, id uint) error {
	return execOne(ctx, r.db, "DELETE FROM routes WHERE id = $1", id)
}
