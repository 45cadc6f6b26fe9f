package shipment

import (
	"fmt"
	"strings"
	"time"

	"tecnoroute-be/internal/order"

	"github.com/shopspring/decimal"
)

var (
	weightPerUnit = decimal.NewFromInt(5)
	volumePerUnit = decimal.New(1, -1)
)

const deliveryWindow = 48 * time.Hour

// FromOrder derives the shipment of an order. Weight and volume are flat
// estimates per unit ordered.
func FromOrder(o *order.Order, w Warehouse, now time.Time, trackingNumber string) *Shipment {
	units := decimal.NewFromInt(int64(o.Units()))
	orderID := o.ID

	return &Shipment{
		TrackingNumber:    trackingNumber,
		OrderID:           &orderID,
		CustomerID:        o.UserID,
		DriverID:          o.DriverID,
		CargoDescription:  cargoDescription(o),
		WeightKG:          weightPerUnit.Mul(units),
		VolumeM3:          volumePerUnit.Mul(units),
		PickupAddress:     w.Address,
		DeliveryAddress:   o.ShippingAddress,
		PickupContact:     w.Contact,
		DeliveryContact:   o.CustomerName,
		PickupPhone:       w.Phone,
		DeliveryPhone:     o.ContactPhone,
		ScheduledPickup:   now,
		ScheduledDelivery: now.Add(deliveryWindow),
		ShippingCost:      decimal.Zero,
		DeclaredValue:     o.Total,
		Status:            StatusPending,
		Priority:          PriorityMedium,
		Notes:             o.Notes,
	}
}

func cargoDescription(o *order.Order) string {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("%s (x%d)", it.ProductName, it.Quantity))
	}
	return fmt.Sprintf("Pedido #%s: %s", o.Number, strings.Join(lines, ", "))
}
