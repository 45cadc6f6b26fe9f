package fleet

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"tecnoroute-be/internal/db"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Registrar creates user accounts. Drivers are regular accounts with the
// conductor role, so creation goes through the same path as sign-up.
type Registrar interface {
	Register(ctx context.Context, actorID uint, in user.RegisterInput) (string, *user.Identity, error)
	ResetPassword(ctx context.Context, email, next string) error
}

type Service interface {
	CreateDriver(ctx context.Context, actorID uint, in CreateDriverInput) (*CreatedDriver, error)
	ListDrivers(ctx context.Context, actorID uint, f DriverFilter) ([]*Driver, error)
	AvailableDrivers(ctx context.Context, actorID uint) ([]*Driver, error)
	GetDriver(ctx context.Context, actorID, id uint) (*Driver, error)
	ChangeDriverState(ctx context.Context, actorID, id uint, state DriverState) (*Driver, error)
	DeactivateDriver(ctx context.Context, actorID, id uint) error
	IsActiveDriver(ctx context.Context, id uint) (bool, error)
	UpdateDriver(ctx context.Context, actorID, id uint, in UpdateDriverInput) (*Driver, error)
	SaveVehicleDraft(ctx context.Context, actorID uint, d VehicleDraft) (*DriverWithDraft, error)

	CreateVehicle(ctx context.Context, actorID uint, in CreateVehicleInput) (*Vehicle, error)
	ListVehicles(ctx context.Context, actorID uint, f VehicleFilter) ([]*Vehicle, error)
	AvailableVehicles(ctx context.Context, actorID uint) ([]*Vehicle, error)
	GetVehicle(ctx context.Context, actorID, id uint) (*Vehicle, error)
	AssignVehicleDriver(ctx context.Context, actorID, vehicleID uint, driverID *uint) (*Vehicle, error)
	ChangeVehicleState(ctx context.Context, actorID, id uint, state VehicleState) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, actorID, id uint, in UpdateVehicleInput) (*Vehicle, error)

	ListRoutes(ctx context.Context, actorID uint, f RouteFilter) ([]*Route, error)
	ActiveRoutes(ctx context.Context, actorID uint) ([]*Route, error)
	GetRoute(ctx context.Context, actorID, id uint) (*Route, error)
	CreateRoute(ctx context.Context, actorID uint, in RouteInput) (*Route, error)
	UpdateRoute(ctx context.Context, actorID, id uint, in RouteInput) (*Route, error)
	DeleteRoute(ctx context.Context, actorID, id uint) error
}

type service struct {
	repo      Repository
	dir       user.Directory
	registrar Registrar
}

func NewService(repo Repository, dir user.Directory, registrar Registrar) Service {
	return &service{repo: repo, dir: dir, registrar: registrar}
}

func (s *service) CreateDriver(ctx context.Context, actorID uint, in CreateDriverInput) (*CreatedDriver, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateDriver"),
	)

	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(in.Email)
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	if strings.TrimSpace(in.FullName) == "" || in.Email == "" || in.NationalID == "" || in.LicenseNumber == "" {
		return nil, ErrDriverFieldsRequired
	}

	temporary := ""
	if in.Password == "" {
		pw, err := temporaryPassword()
		if err != nil {
			return nil, err
		}
		in.Password, temporary = pw, pw
	}

	first, last := in.SplitName()
	_, identity, err := s.registrar.Register(ctx, actorID, user.RegisterInput{
		Email:           in.Email,
		Password:        in.Password,
		PasswordConfirm: in.Password,
		FirstName:       first,
		LastName:        last,
		Phone:           strings.TrimSpace(in.Phone),
		Address:         strings.TrimSpace(in.Address),
		Role:            user.RoleDriver,
		NationalID:      in.NationalID,
		LicenseNumber:   in.LicenseNumber,
	})
	if err != nil {
		return nil, err
	}
	if identity.Driver == nil {
		return nil, ErrDriverNotFound
	}

	if plate := normalizePlate(in.VehiclePlate); plate != "" {
		if err := s.attachDefaultVehicle(ctx, identity.Driver.ID, plate); err != nil {
			log.Warn("driver created without vehicle", zap.String("plate", plate), zap.Error(err))
		}
	}

	d, err := s.repo.GetDriver(ctx, identity.Driver.ID)
	if err != nil {
		return nil, err
	}

	log.Info("driver created", zap.Uint("driver_id", d.ID))
	return &CreatedDriver{Driver: *d, TemporaryPassword: temporary}, nil
}

// attachDefaultVehicle registers a placeholder vehicle for the plate the
// driver declared, unless that plate is already known.
func (s *service) attachDefaultVehicle(ctx context.Context, driverID uint, plate string) error {
	exists, err := s.repo.PlateExists(ctx, plate)
	if err != nil || exists {
		return err
	}
	_, err = s.repo.CreateVehicle(ctx, &Vehicle{
		Plate:      plate,
		Brand:      "Sin especificar",
		Model:      "Sin especificar",
		Year:       time.Now().Year(),
		Type:       TypeTruck,
		CapacityKG: decimal.NewFromInt(1000),
		Color:      "Blanco",
		Fuel:       FuelGasoline,
		DriverID:   &driverID,
		State:      VehicleAvailable,
	})
	return err
}

func (s *service) ListDrivers(ctx context.Context, actorID uint, f DriverFilter) ([]*Driver, error) {
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	if f.State != nil && !f.State.Valid() {
		return nil, ErrInvalidState
	}
	return s.repo.ListDrivers(ctx, f)
}

func (s *service) AvailableDrivers(ctx context.Context, actorID uint) ([]*Driver, error) {
	state, active := DriverAvailable, true
	return s.ListDrivers(ctx, actorID, DriverFilter{State: &state, Active: &active})
}

func (s *service) GetDriver(ctx context.Context, actorID, id uint) (*Driver, error) {
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	return s.driver(ctx, id)
}

// ChangeDriverState is allowed to admins and to the driver itself.
func (s *service) ChangeDriverState(ctx context.Context, actorID, id uint, state DriverState) (*Driver, error) {
	actor, err := s.requireStaff(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.IsDriver() && (actor.Driver == nil || actor.Driver.ID != id) {
		return nil, ErrNotAuthorized
	}
	if !state.Valid() {
		return nil, ErrInvalidState
	}

	if err := s.repo.SetDriverState(ctx, id, state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return s.driver(ctx, id)
}

func (s *service) DeactivateDriver(ctx context.Context, actorID, id uint) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	err := s.repo.DeactivateDriver(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDriverNotFound
	}
	return err
}

// UpdateDriver edits the driver record and, when a password is given, the
// password of the account with the driver's email.
func (s *service) UpdateDriver(ctx context.Context, actorID, id uint, in UpdateDriverInput) (*Driver, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateDriver"),
	)

	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	current, err := s.driver(ctx, id)
	if err != nil {
		return nil, err
	}

	in.FullName = trimmed(in.FullName)
	in.NationalID = trimmed(in.NationalID)
	in.LicenseNumber = trimmed(in.LicenseNumber)
	in.Email = trimmed(in.Email)
	for _, required := range []*string{in.FullName, in.NationalID, in.LicenseNumber, in.Email} {
		if required != nil && *required == "" {
			return nil, ErrDriverFieldsRequired
		}
	}

	if err := s.repo.UpdateDriver(ctx, id, in); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrDriverNotFound
		case db.IsUniqueViolation(err):
			return nil, ErrDriverIdentityTaken
		}
		log.Error("failed to update driver", zap.Error(err))
		return nil, err
	}

	if in.Password != "" {
		err := s.registrar.ResetPassword(ctx, current.Email, in.Password)
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			log.Warn("driver has no account, password not changed", zap.Uint("driver_id", id))
		case err != nil:
			return nil, err
		}
	}

	log.Info("driver updated", zap.Uint("driver_id", id), zap.Uint("actor_id", actorID))
	return s.driver(ctx, id)
}

func (s *service) IsActiveDriver(ctx context.Context, id uint) (bool, error) {
	return s.repo.IsActiveDriver(ctx, id)
}

func (s *service) CreateVehicle(ctx context.Context, actorID uint, in CreateVehicleInput) (*Vehicle, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateVehicle"),
	)

	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	v := &Vehicle{
		Plate:         normalizePlate(in.Plate),
		Brand:         strings.TrimSpace(in.Brand),
		Model:         strings.TrimSpace(in.Model),
		Year:          in.Year,
		Type:          in.Type,
		CapacityKG:    in.CapacityKG,
		Color:         strings.TrimSpace(in.Color),
		Fuel:          in.Fuel,
		EngineNumber:  strings.TrimSpace(in.EngineNumber),
		ChassisNumber: strings.TrimSpace(in.ChassisNumber),
		DriverID:      in.DriverID,
		State:         VehicleAvailable,
	}
	if v.Plate == "" {
		return nil, ErrPlateRequired
	}

	draftDriver, draft, hasDraft, err := s.repo.VehicleDraftByPlate(ctx, v.Plate)
	if err != nil {
		return nil, err
	}
	if hasDraft {
		completeFromDraft(v, draft, draftDriver)
	}

	if v.Type == "" {
		v.Type = TypeTruck
	}
	if !v.Type.Valid() {
		return nil, ErrInvalidType
	}
	if v.Fuel == "" {
		v.Fuel = FuelGasoline
	}
	if !v.Fuel.Valid() {
		return nil, ErrInvalidFuel
	}
	if v.Color == "" {
		v.Color = "Blanco"
	}
	if !v.CapacityKG.IsPositive() {
		return nil, ErrInvalidCapacity
	}

	if v.DriverID != nil {
		if err := s.checkDriverFree(ctx, *v.DriverID, 0); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.CreateVehicle(ctx, v)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrPlateExists
		}
		return nil, err
	}

	if hasDraft {
		if err := s.repo.ClearVehicleDraft(ctx, draftDriver); err != nil {
			log.Warn("failed to clear vehicle draft", zap.Uint("driver_id", draftDriver), zap.Error(err))
		}
	}

	log.Info("vehicle created", zap.Uint("vehicle_id", created.ID), zap.String("plate", created.Plate))
	return s.repo.GetVehicle(ctx, created.ID)
}

func (s *service) ListVehicles(ctx context.Context, actorID uint, f VehicleFilter) ([]*Vehicle, error) {
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	if f.State != nil && !f.State.Valid() {
		return nil, ErrInvalidState
	}
	if f.Type != nil && !f.Type.Valid() {
		return nil, ErrInvalidType
	}
	return s.repo.ListVehicles(ctx, f)
}

func (s *service) AvailableVehicles(ctx context.Context, actorID uint) ([]*Vehicle, error) {
	state, active := VehicleAvailable, true
	return s.ListVehicles(ctx, actorID, VehicleFilter{State: &state, Active: &active})
}

func (s *service) GetVehicle(ctx context.Context, actorID, id uint) (*Vehicle, error) {
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	return s.vehicle(ctx, id)
}

// AssignVehicleDriver links a driver to a vehicle, or unlinks it when driverID
// is nil. A driver holds at most one vehicle.
func (s *service) AssignVehicleDriver(ctx context.Context, actorID, vehicleID uint, driverID *uint) (*Vehicle, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.vehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := s.checkDriverFree(ctx, *driverID, vehicleID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SetVehicleDriver(ctx, vehicleID, driverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		if db.IsUniqueViolation(err) && driverID != nil {
			// lost a race with a concurrent assignment
			if ferr := s.checkDriverFree(ctx, *driverID, vehicleID); ferr != nil {
				return nil, ferr
			}
		}
		return nil, err
	}
	return s.vehicle(ctx, vehicleID)
}

func (s *service) ChangeVehicleState(ctx context.Context, actorID, id uint, state VehicleState) (*Vehicle, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if !state.Valid() {
		return nil, ErrInvalidState
	}
	if err := s.repo.SetVehicleState(ctx, id, state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return s.vehicle(ctx, id)
}

// completeFromDraft fills the fields the admin left empty with what the
// driver declared, and assigns that driver unless another one was given.
func completeFromDraft(v *Vehicle, d *VehicleDraft, draftDriver uint) {
	if v.Brand == "" {
		v.Brand = d.Brand
	}
	if v.Model == "" {
		v.Model = d.Model
	}
	if v.Year == 0 && d.Year != nil {
		v.Year = *d.Year
	}
	if v.Type == "" {
		v.Type = d.Type
	}
	if v.CapacityKG.IsZero() && d.CapacityKG != nil {
		v.CapacityKG = *d.CapacityKG
	}
	if v.Color == "" {
		v.Color = d.Color
	}
	if v.Fuel == "" {
		v.Fuel = d.Fuel
	}
	if v.EngineNumber == "" {
		v.EngineNumber = d.EngineNumber
	}
	if v.ChassisNumber == "" {
		v.ChassisNumber = d.ChassisNumber
	}
	if v.DriverID == nil {
		v.DriverID = &draftDriver
	}

	// same placeholders as a vehicle attached at driver sign-up
	if v.Brand == "" {
		v.Brand = "Sin especificar"
	}
	if v.Model == "" {
		v.Model = "Sin especificar"
	}
	if v.Year == 0 {
		v.Year = time.Now().Year()
	}
	if v.CapacityKG.IsZero() {
		v.CapacityKG = decimal.NewFromInt(1000)
	}
}

// UpdateVehicle edits the vehicle. A new driver must not already hold
// another vehicle.
func (s *service) UpdateVehicle(ctx context.Context, actorID, id uint, in UpdateVehicleInput) (*Vehicle, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.vehicle(ctx, id); err != nil {
		return nil, err
	}

	if in.Plate != nil {
		plate := normalizePlate(*in.Plate)
		if plate == "" {
			return nil, ErrPlateRequired
		}
		in.Plate = &plate
	}
	if in.Type != nil && !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	if in.Fuel != nil && !in.Fuel.Valid() {
		return nil, ErrInvalidFuel
	}
	if in.CapacityKG != nil && !in.CapacityKG.IsPositive() {
		return nil, ErrInvalidCapacity
	}
	if in.DriverID != nil {
		if err := s.checkDriverFree(ctx, *in.DriverID, id); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateVehicle(ctx, id, in); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrVehicleNotFound
		case db.ConstraintName(err) == "vehicles_driver_id_key" && in.DriverID != nil:
			// lost a race with a concurrent assignment
			if ferr := s.checkDriverFree(ctx, *in.DriverID, id); ferr != nil {
				return nil, ferr
			}
			return nil, err
		case db.IsUniqueViolation(err):
			return nil, ErrPlateExists
		}
		return nil, err
	}
	return s.vehicle(ctx, id)
}

// checkDriverFree fails when the driver is unknown or already holds a vehicle
// other than exceptVehicle.
func (s *service) checkDriverFree(ctx context.Context, driverID, exceptVehicle uint) error {
	d, err := s.driver(ctx, driverID)
	if err != nil {
		return err
	}
	current, found, err := s.repo.VehicleByDriver(ctx, driverID)
	if err != nil {
		return err
	}
	if found && current.ID != exceptVehicle {
		return errDriverHasVehicle(d.FullName, current.Plate)
	}
	return nil
}

func (s *service) driver(ctx context.Context, id uint) (*Driver, error) {
	d, err := s.repo.GetDriver(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDriverNotFound
	}
	return d, err
}

func (s *service) vehicle(ctx context.Context, id uint) (*Vehicle, error) {
	v, err := s.repo.GetVehicle(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

func (s *service) requireAdmin(ctx context.Context, actorID uint) (user.Identity, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return user.Identity{}, err
	}
	if !actor.IsAdmin() {
		return user.Identity{}, ErrAdminOnly
	}
	return actor, nil
}

func (s *service) requireStaff(ctx context.Context, actorID uint) (user.Identity, error) {
	actor, err := user.ResolveActor(ctx, s.dir, actorID)
	if err != nil {
		return user.Identity{}, err
	}
	if !actor.IsAdmin() && !actor.IsDriver() {
		return user.Identity{}, ErrNotAuthorized
	}
	return actor, nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	return &t
}

func normalizePlate(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}

// temporaryPassword returns a random URL-safe password for admin-created drivers.
func temporaryPassword() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
