package reconcile

import "time"

const EventType = "shipment.reconcile"

// Message asks the worker to make sure an order has its shipment.
type Message struct {
	OrderID     uint      `json:"order_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}
