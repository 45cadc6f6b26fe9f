package shipment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pendiente"
	StatusInTransit Status = "en_transito"
	StatusDelivered Status = "entregado"
	StatusCancelled Status = "cancelado"
	StatusReturned  Status = "devuelto"
)

// EventAssigned labels the tracking event written on vehicle and driver
// assignment. It is not a shipment status.
const EventAssigned = "asignado"

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "baja"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
	PriorityUrgent Priority = "urgente"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Shipment struct {
	ID                uint             `json:"id"`
	TrackingNumber    string           `json:"numero_guia"`
	OrderID           *uint            `json:"pedido"`
	CustomerID        uint             `json:"cliente"`
	CustomerName      string           `json:"cliente_nombre"`
	CustomerEmail     string           `json:"cliente_email"`
	VehicleID         *uint            `json:"vehiculo"`
	VehiclePlate      *string          `json:"vehiculo_placa"`
	DriverID          *uint            `json:"conductor"`
	DriverName        *string          `json:"conductor_nombre"`
	CargoDescription  string           `json:"descripcion_carga"`
	WeightKG          decimal.Decimal  `json:"peso_kg"`
	VolumeM3          decimal.Decimal  `json:"volumen_m3"`
	PickupAddress     string           `json:"direccion_recogida"`
	DeliveryAddress   string           `json:"direccion_entrega"`
	PickupContact     string           `json:"contacto_recogida"`
	DeliveryContact   string           `json:"contacto_entrega"`
	PickupPhone       string           `json:"telefono_recogida"`
	DeliveryPhone     string           `json:"telefono_entrega"`
	ScheduledPickup   time.Time        `json:"fecha_recogida_programada"`
	ScheduledDelivery time.Time        `json:"fecha_entrega_programada"`
	ActualPickup      *time.Time       `json:"fecha_recogida_real"`
	ActualDelivery    *time.Time       `json:"fecha_entrega_real"`
	ShippingCost      decimal.Decimal  `json:"costo_envio"`
	DeclaredValue     decimal.Decimal  `json:"valor_declarado"`
	Status            Status           `json:"estado"`
	Priority          Priority         `json:"prioridad"`
	Notes             string           `json:"observaciones"`
	CreatedAt         time.Time        `json:"fecha_creacion"`
	UpdatedAt         time.Time        `json:"fecha_actualizacion"`
	DaysInTransit     *int             `json:"dias_transito"`
	Events            []*TrackingEvent `json:"seguimientos,omitempty"`
}

// transitDays is the whole number of days between pickup and delivery, or
// nil until both happened.
func transitDays(pickup, delivery *time.Time) *int {
	if pickup == nil || delivery == nil {
		return nil
	}
	days := int(delivery.Sub(*pickup).Hours() / 24)
	return &days
}

// TrackingEvent is append-only. Status holds a shipment status or
// EventAssigned.
type TrackingEvent struct {
	ID          uint      `json:"id"`
	ShipmentID  uint      `json:"envio"`
	Status      string    `json:"estado"`
	Description string    `json:"descripcion"`
	Location    string    `json:"ubicacion"`
	OccurredAt  time.Time `json:"fecha_hora"`
	UserID      *uint     `json:"usuario"`
}

type Filter struct {
	Status   *Status
	Priority *Priority
	Limit    int
	Page     int
}

// Visibility restricts reads the same way orders do. The zero value sees
// nothing.
type Visibility struct {
	All        bool
	CustomerID *uint
	DriverID   *uint
}

type StatusChange struct {
	Status      Status
	Description string
	Location    string
}

// Warehouse is the fixed pickup point of every shipment derived from an order.
type Warehouse struct {
	Address string
	Contact string
	Phone   string
}
