package fleet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

// UpdateDriver applies the non-nil fields of in to the driver record.
func (r *repository) UpdateDriver(ctx context.Context, id uint, in UpdateDriverInput) error {
	first, last := in.SplitName()
	return execOne(ctx, r.db, `
		UPDATE drivers
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			national_id = COALESCE($4, national_id),
			license_number = COALESCE($5, license_number),
			phone = COALESCE($6, phone),
			email = COALESCE($7, email),
			address = COALESCE($8, address)
		WHERE id = $1
	`, id, first, last, in.NationalID, in.LicenseNumber, in.Phone, in.Email, in.Address)
}

// UpdateVehicle applies the non-nil fields of in to the vehicle.
func (r *repository) UpdateVehicle(ctx context.Context, id uint, in UpdateVehicleInput) error {
	return execOne(ctx, r.db, `
		UPDATE vehicles
		SET plate = COALESCE($2, plate),
			brand = COALESCE($3, brand),
			model = COALESCE($4, model),
			year = COALESCE($5, year),
			type = COALESCE($6, type),
			capacity_kg = COALESCE($7, capacity_kg),
			color = COALESCE($8, color),
			fuel = COALESCE($9, fuel),
			engine_number = COALESCE($10, engine_number),
			chassis_number = COALESCE($11, chassis_number),
			mileage = COALESCE($12, mileage),
			driver_id = COALESCE($13, driver_id)
		WHERE id = $1
	`, id, in.Plate, in.Brand, in.Model, in.Year, in.Type, in.CapacityKG, in.Color, in.Fuel,
		in.EngineNumber, in.ChassisNumber, in.Mileage, in.DriverID)
}

func (r *repository) SaveVehicleDraft(ctx context.Context, driverID uint, d VehicleDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return execOne(ctx, r.db, "UPDATE drivers SET pending_vehicle = $2 WHERE id = $1", driverID, string(raw))
}

// VehicleDraftByPlate finds the driver that declared plate. found is false
// when nobody did.
func (r *repository) VehicleDraftByPlate(ctx context.Context, plate string) (uint, *VehicleDraft, bool, error) {
	var (
		driverID uint
		raw      []byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, pending_vehicle FROM drivers WHERE pending_vehicle->>'placa' = $1",
		plate,
	).Scan(&driverID, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, err
	}

	var d VehicleDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		logger.FromCtx(ctx).Error("corrupt vehicle draft",
			zap.String("layer", "repository"),
			zap.Uint("driver_id", driverID),
			zap.Error(err),
		)
		return 0, nil, false, err
	}
	return driverID, &d, true, nil
}

func (r *repository) ClearVehicleDraft(ctx context.Context, driverID uint) error {
	_, err := r.db.ExecContext(ctx, "UPDATE drivers SET pending_vehicle = NULL WHERE id = $1", driverID)
	return err
}
