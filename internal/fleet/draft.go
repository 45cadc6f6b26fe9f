package fleet

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tecnoroute-be/internal/db"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/user"

	"go.uber.org/zap"
)

// SaveVehicleDraft stores the vehicle the acting driver declares on first
// login. An admin later registers it by plate.
func (s *service) SaveVehicleDraft(ctx context.Context, actorID uint, d VehicleDraft) (*DriverWithDraft, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SaveVehicleDraft"),
	)

	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsDriver() || actor.Driver == nil {
		return nil, ErrDriverNotFound
	}

	d = normalizeDraft(d)
	if d.Plate == "" {
		return nil, ErrPlateRequired
	}
	if !d.Type.Valid() {
		return nil, ErrInvalidType
	}
	if !d.Fuel.Valid() {
		return nil, ErrInvalidFuel
	}
	if d.CapacityKG != nil && !d.CapacityKG.IsPositive() {
		return nil, ErrInvalidCapacity
	}

	exists, err := s.repo.PlateExists(ctx, d.Plate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPlateExists
	}

	if err := s.repo.SaveVehicleDraft(ctx, actor.Driver.ID, d); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrDriverNotFound
		case db.IsUniqueViolation(err):
			return nil, ErrDraftPlateTaken
		}
		log.Error("failed to save vehicle draft", zap.Error(err))
		return nil, err
	}

	driver, err := s.driver(ctx, actor.Driver.ID)
	if err != nil {
		return nil, err
	}

	log.Info("vehicle draft saved", zap.Uint("driver_id", driver.ID), zap.String("plate", d.Plate))
	return &DriverWithDraft{Driver: *driver, PendingVehicle: d}, nil
}

func normalizeDraft(d VehicleDraft) VehicleDraft {
	d.Plate = normalizePlate(d.Plate)
	d.Brand = strings.TrimSpace(d.Brand)
	d.Model = strings.TrimSpace(d.Model)
	d.Color = strings.TrimSpace(d.Color)
	d.EngineNumber = strings.TrimSpace(d.EngineNumber)
	d.ChassisNumber = strings.TrimSpace(d.ChassisNumber)
	if d.Type == "" {
		d.Type = TypeTruck
	}
	if d.Color == "" {
		d.Color = "Blanco"
	}
	if d.Fuel == "" {
		d.Fuel = FuelGasoline
	}
	return d
}
