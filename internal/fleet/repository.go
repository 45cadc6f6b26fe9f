package fleet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	ListDrivers(ctx context.Context, f DriverFilter) ([]*Driver, error)
	GetDriver(ctx context.Context, id uint) (*Driver, error)
	IsActiveDriver(ctx context.Context, id uint) (bool, error)
	SetDriverState(ctx context.Context, id uint, state DriverState) error
	DeactivateDriver(ctx context.Context, id uint) error
	UpdateDriver(ctx context.Context, id uint, in UpdateDriverInput) error
	SaveVehicleDraft(ctx context.Context, driverID uint, d VehicleDraft) error
	VehicleDraftByPlate(ctx context.Context, plate string) (driverID uint, d *VehicleDraft, found bool, err error)
	ClearVehicleDraft(ctx context.Context, driverID uint) error

	ListVehicles(ctx context.Context, f VehicleFilter) ([]*Vehicle, error)
	GetVehicle(ctx context.Context, id uint) (*Vehicle, error)
	VehicleByDriver(ctx context.Context, driverID uint) (*Vehicle, bool, error)
	PlateExists(ctx context.Context, plate string) (bool, error)
	CreateVehicle(ctx context.Context, v *Vehicle) (*Vehicle, error)
	SetVehicleDriver(ctx context.Context, vehicleID uint, driverID *uint) error
	SetVehicleState(ctx context.Context, id uint, state VehicleState) error
	UpdateVehicle(ctx context.Context, id uint, in UpdateVehicleInput) error

	ListRoutes(ctx context.Context, f RouteFilter) ([]*Route, error)
	GetRoute(ctx context.Context, id uint) (*Route, error)
	CreateRoute(ctx context.Context, rt *Route) (*Route, error)
	UpdateRoute(ctx context.Context, rt *Route) error
	DeleteRoute(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectDriver = `
	SELECT d.id, d.user_id, d.first_name, d.last_name, d.national_id, d.license_number,
		d.phone, d.email, d.address, d.hired_on, d.state, d.active, v.plate
	FROM drivers d
	LEFT JOIN vehicles v ON v.driver_id = d.id
`

func scanDriver(row interface{ Scan(...any) error }) (*Driver, error) {
	var (
		d      Driver
		userID sql.NullInt64
		plate  sql.NullString
	)
	err := row.Scan(
		&d.ID, &userID, &d.FirstName, &d.LastName, &d.NationalID, &d.LicenseNumber,
		&d.Phone, &d.Email, &d.Address, &d.HiredOn, &d.State, &d.Active, &plate,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		id := uint(userID.Int64)
		d.UserID = &id
	}
	if plate.Valid {
		p := plate.String
		d.VehiclePlate = &p
	}
	d.FullName = strings.TrimSpace(d.FirstName + " " + d.LastName)
	return &d, nil
}

func (r *repository) ListDrivers(ctx context.Context, f DriverFilter) ([]*Driver, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListDrivers"),
	)

	query := selectDriver
	where := []string{}
	args := []interface{}{}

	if f.State != nil {
		args = append(args, *f.State)
		where = append(where, fmt.Sprintf("d.state = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("d.active = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY d.first_name, d.last_name, d.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	drivers := []*Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *repository) GetDriver(ctx context.Context, id uint) (*Driver, error) {
	return scanDriver(r.db.QueryRowContext(ctx, selectDriver+" WHERE d.id = $1", id))
}

func (r *repository) IsActiveDriver(ctx context.Context, id uint) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1 AND active)",
		id,
	).Scan(&ok)
	return ok, err
}

func (r *repository) SetDriverState(ctx context.Context, id uint, state DriverState) error {
	return execOne(ctx, r.db, "UPDATE drivers SET state = $2 WHERE id = $1", id, state)
}

// DeactivateDriver retires the driver and the vehicle assigned to them.
func (r *repository) DeactivateDriver(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DeactivateDriver"),
		zap.Uint("driver_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = execOne(ctx, tx, "UPDATE drivers SET active = FALSE, state = $2 WHERE id = $1", id, DriverInactive)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE vehicles SET active = FALSE, state = $2 WHERE driver_id = $1",
		id, VehicleInactive,
	)
	if err != nil {
		log.Error("failed to deactivate vehicle", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	committed = true
	return nil
}

const selectVehicle = `
	SELECT v.id, v.plate, v.brand, v.model, v.year, v.type, v.capacity_kg, v.color, v.fuel,
		v.engine_number, v.chassis_number, v.driver_id, d.first_name, d.last_name,
		v.state, v.mileage, v.active, v.registered_at
	FROM vehicles v
	LEFT JOIN drivers d ON d.id = v.driver_id
`

func scanVehicle(row interface{ Scan(...any) error }) (*Vehicle, error) {
	var (
		v                   Vehicle
		driverID            sql.NullInt64
		firstName, lastName sql.NullString
	)
	err := row.Scan(
		&v.ID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.Type, &v.CapacityKG, &v.Color, &v.Fuel,
		&v.EngineNumber, &v.ChassisNumber, &driverID, &firstName, &lastName,
		&v.State, &v.Mileage, &v.Active, &v.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	if driverID.Valid {
		id := uint(driverID.Int64)
		v.DriverID = &id
		v.DriverName = strings.TrimSpace(firstName.String + " " + lastName.String)
	}
	return &v, nil
}

func (r *repository) ListVehicles(ctx context.Context, f VehicleFilter) ([]*Vehicle, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListVehicles"),
	)

	query := selectVehicle
	where := []string{}
	args := []interface{}{}

	if f.Type != nil {
		args = append(args, *f.Type)
		where = append(where, fmt.Sprintf("v.type = $%d", len(args)))
	}
	if f.State != nil {
		args = append(args, *f.State)
		where = append(where, fmt.Sprintf("v.state = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("v.active = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY v.plate"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	vehicles := []*Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *repository) GetVehicle(ctx context.Context, id uint) (*Vehicle, error) {
	return scanVehicle(r.db.QueryRowContext(ctx, selectVehicle+" WHERE v.id = $1", id))
}

func (r *repository) VehicleByDriver(ctx context.Context, driverID uint) (*Vehicle, bool, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx, selectVehicle+" WHERE v.driver_id = $1", driverID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *repository) PlateExists(ctx context.Context, plate string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM vehicles WHERE plate = $1)",
		plate,
	).Scan(&exists)
	return exists, err
}

func (r *repository) CreateVehicle(ctx context.Context, v *Vehicle) (*Vehicle, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vehicles (
			plate, brand, model, year, type, capacity_kg, color, fuel,
			engine_number, chassis_number, driver_id, state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, mileage, active, registered_at
	`, v.Plate, v.Brand, v.Model, v.Year, v.Type, v.CapacityKG, v.Color, v.Fuel,
		v.EngineNumber, v.ChassisNumber, v.DriverID, v.State,
	).Scan(&v.ID, &v.Mileage, &v.Active, &v.RegisteredAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert vehicle",
			zap.String("layer", "repository"),
			zap.String("plate", v.Plate),
			zap.Error(err),
		)
		return nil, err
	}
	return v, nil
}

func (r *repository) SetVehicleDriver(ctx context.Context, vehicleID uint, driverID *uint) error {
	return execOne(ctx, r.db, "UPDATE vehicles SET driver_id = $2 WHERE id = $1", vehicleID, driverID)
}

func (r *repository) SetVehicleState(ctx context.Context, id uint, state VehicleState) error {
	return execOne(ctx, r.db, "UPDATE vehicles SET state = $2 WHERE id = $1", id, state)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execOne runs an update that must touch exactly one row; zero rows is
// reported as sql.ErrNoRows.
func execOne(ctx context.Context, db execer, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
