package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pendiente"
	StatusConfirmed  Status = "confirmado"
	StatusInProgress Status = "en_curso"
	StatusDelivered  Status = "entregado"
	StatusCancelled  Status = "cancelado"
)

var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusDelivered, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order total and items are snapshots taken at checkout and never recomputed.
type Order struct {
	ID              uint            `json:"id"`
	Number          string          `json:"numero_pedido"`
	UserID          uint            `json:"usuario"`
	CustomerName    string          `json:"usuario_nombre"`
	CustomerEmail   string          `json:"usuario_email"`
	Status          Status          `json:"estado"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"direccion_envio"`
	ContactPhone    string          `json:"telefono_contacto"`
	Notes           string          `json:"notas"`
	DriverID        *uint           `json:"conductor"`
	DriverName      string          `json:"conductor_nombre,omitempty"`
	AssignedAt      *time.Time      `json:"fecha_asignacion"`
	CreatedAt       time.Time       `json:"fecha_creacion"`
	UpdatedAt       time.Time       `json:"fecha_actualizacion"`
	Items           []Item          `json:"items"`
}

func (o *Order) Units() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func (o *Order) AssignedTo(driverID uint) bool {
	return o.DriverID != nil && *o.DriverID == driverID
}

type Item struct {
	ID          uint            `json:"id"`
	OrderID     uint            `json:"pedido"`
	ProductID   *uint           `json:"producto"`
	ProductName string          `json:"producto_nombre"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Quantity    int             `json:"cantidad"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CheckoutInput struct {
	ShippingAddress string
	ContactPhone    string
	Notes           string
}

type EditInput struct {
	ShippingAddress string
	ContactPhone    string
	Notes           *string
}

type Filter struct {
	Status *Status
	Limit  int
	Page   int
}

// Visibility restricts a query to what the actor may see. The zero value
// sees nothing. OpenPending widens a driver's view to pending orders nobody
// has taken yet.
type Visibility struct {
	All         bool
	UserID      *uint
	DriverID    *uint
	OpenPending bool
}

type Stats struct {
	TotalOrders  int             `json:"total_pedidos"`
	TotalRevenue decimal.Decimal `json:"total_ingresos"`
	Today        int             `json:"pedidos_hoy"`
	ThisWeek     int             `json:"pedidos_semana"`
	ThisMonth    int             `json:"pedidos_mes"`
	Pending      int             `json:"pedidos_pendientes"`
	Confirmed    int             `json:"pedidos_confirmados"`
	InProgress   int             `json:"pedidos_en_curso"`
	Delivered    int             `json:"pedidos_entregados"`
	Cancelled    int             `json:"pedidos_cancelados"`
}
