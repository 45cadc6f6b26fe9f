package fleet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DriverState string

const (
	DriverAvailable DriverState = "disponible"
	DriverOnRoute   DriverState = "en_ruta"
	DriverResting   DriverState = "descanso"
	DriverInactive  DriverState = "inactivo"
)

func (s DriverState) Valid() bool {
	switch s {
	case DriverAvailable, DriverOnRoute, DriverResting, DriverInactive:
		return true
	}
	return false
}

type VehicleState string

const (
	VehicleAvailable   VehicleState = "disponible"
	VehicleInUse       VehicleState = "en_uso"
	VehicleMaintenance VehicleState = "mantenimiento"
	VehicleInactive    VehicleState = "inactivo"
)

func (s VehicleState) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleInUse, VehicleMaintenance, VehicleInactive:
		return true
	}
	return false
}

type VehicleType string

const (
	TypeTruck      VehicleType = "camion"
	TypeVan        VehicleType = "furgon"
	TypePickup     VehicleType = "camioneta"
	TypeMotorcycle VehicleType = "motocicleta"
)

func (t VehicleType) Valid() bool {
	switch t {
	case TypeTruck, TypeVan, TypePickup, TypeMotorcycle:
		return true
	}
	return false
}

type Fuel string

const (
	FuelGasoline Fuel = "gasolina"
	FuelDiesel   Fuel = "diesel"
	FuelElectric Fuel = "electrico"
	FuelHybrid   Fuel = "hibrido"
)

func (f Fuel) Valid() bool {
	switch f {
	case FuelGasoline, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

type Driver struct {
	ID            uint        `json:"id"`
	UserID        *uint       `json:"usuario"`
	FirstName     string      `json:"-"`
	LastName      string      `json:"-"`
	FullName      string      `json:"nombre"`
	NationalID    string      `json:"cedula"`
	LicenseNumber string      `json:"licencia"`
	Phone         string      `json:"telefono"`
	Email         string      `json:"email"`
	Address       string      `json:"direccion"`
	HiredOn       time.Time   `json:"fecha_contratacion"`
	State         DriverState `json:"estado"`
	Active        bool        `json:"activo"`
	VehiclePlate  *string     `json:"vehiculo_placa"`
}

type Vehicle struct {
	ID            uint            `json:"id"`
	Plate         string          `json:"placa"`
	Brand         string          `json:"marca"`
	Model         string          `json:"modelo"`
	Year          int             `json:"año"`
	Type          VehicleType     `json:"tipo"`
	CapacityKG    decimal.Decimal `json:"capacidad_kg"`
	Color         string          `json:"color"`
	Fuel          Fuel            `json:"combustible"`
	EngineNumber  string          `json:"numero_motor"`
	ChassisNumber string          `json:"numero_chasis"`
	DriverID      *uint           `json:"conductor_asignado"`
	DriverName    string          `json:"conductor_nombre,omitempty"`
	State         VehicleState    `json:"estado"`
	Mileage       int             `json:"kilometraje"`
	Active        bool            `json:"activo"`
	RegisteredAt  time.Time       `json:"fecha_registro"`
}

type DriverFilter struct {
	State  *DriverState
	Active *bool
}

type VehicleFilter struct {
	Type   *VehicleType
	State  *VehicleState
	Active *bool
}

type CreateDriverInput struct {
	FullName      string
	NationalID    string
	LicenseNumber string
	Phone         string
	Email         string
	Address       string
	Password      string
	VehiclePlate  string
}

// SplitName splits a full name at the first space.
func (in CreateDriverInput) SplitName() (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(in.FullName), " ")
	return first, strings.TrimSpace(last)
}

// CreatedDriver carries the generated password when the admin did not set one,
// so it can be handed to the driver.
type CreatedDriver struct {
	Driver
	TemporaryPassword string `json:"password_temporal,omitempty"`
}

type CreateVehicleInput struct {
	Plate         string
	Brand         string
	Model         string
	Year          int
	Type          VehicleType
	CapacityKG    decimal.Decimal
	Color         string
	Fuel          Fuel
	EngineNumber  string
	ChassisNumber string
	DriverID      *uint
}

type UpdateDriverInput struct {
	FullName      *string
	NationalID    *string
	LicenseNumber *string
	Phone         *string
	Email         *string
	Address       *string
	// Password, when set, replaces the password of the driver's account.
	Password string
}

// SplitName splits FullName like CreateDriverInput does. Both are nil when
// FullName is nil.
func (in UpdateDriverInput) SplitName() (first, last *string) {
	if in.FullName == nil {
		return nil, nil
	}
	f, l := CreateDriverInput{FullName: *in.FullName}.SplitName()
	return &f, &l
}

type UpdateVehicleInput struct {
	Plate         *string
	Brand         *string
	Model         *string
	Year          *int
	Type          *VehicleType
	CapacityKG    *decimal.Decimal
	Color         *string
	Fuel          *Fuel
	EngineNumber  *string
	ChassisNumber *string
	Mileage       *int
	DriverID      *uint
}

// VehicleDraft holds the vehicle details a driver declares before an admin
// registers the vehicle. Creating a vehicle with the same plate fills its
// missing fields from the draft and assigns the driver.
type VehicleDraft struct {
	Plate         string           `json:"placa"`
	Brand         string           `json:"marca"`
	Model         string           `json:"modelo"`
	Year          *int             `json:"año"`
	Type          VehicleType      `json:"tipo"`
	CapacityKG    *decimal.Decimal `json:"capacidad_kg"`
	Color         string           `json:"color"`
	Fuel          Fuel             `json:"combustible"`
	EngineNumber  string           `json:"numero_motor"`
	ChassisNumber string           `json:"numero_chasis"`
}

// DriverWithDraft is a driver together with the vehicle draft just saved.
type DriverWithDraft struct {
	Driver
	PendingVehicle VehicleDraft `json:"vehiculo_pendiente"`
}

type RouteState string

const (
	RoutePlanned    RouteState = "planificada"
	RouteInProgress RouteState = "en_progreso"
	RouteCompleted  RouteState = "completada"
	RouteCancelled  RouteState = "cancelada"
)

func (s RouteState) Valid() bool {
	switch s {
	case RoutePlanned, RouteInProgress, RouteCompleted, RouteCancelled:
		return true
	}
	return false
}

type Route struct {
	ID             uint            `json:"id"`
	Name           string          `json:"nombre"`
	Origin         string          `json:"origen"`
	Destination    string          `json:"destino"`
	DistanceKM     decimal.Decimal `json:"distancia_km"`
	EstimatedHours decimal.Decimal `json:"tiempo_estimado_horas"`
	FuelCost       decimal.Decimal `json:"costo_combustible"`
	Tolls          decimal.Decimal `json:"peajes"`
	State          RouteState      `json:"estado"`
	Active         bool            `json:"activa"`
	CreatedAt      time.Time       `json:"fecha_creacion"`
}

type RouteFilter struct {
	State  *RouteState
	Active *bool
	// Search matches name, origin and destination.
	Search string
}

// RouteInput is used for both create and full update. State defaults to
// planificada and Active to true.
type RouteInput struct {
	Name           string
	Origin         string
	Destination    string
	DistanceKM     decimal.Decimal
	EstimatedHours decimal.Decimal
	FuelCost       decimal.Decimal
	Tolls          decimal.Decimal
	State          RouteState
	Active         *bool
}
