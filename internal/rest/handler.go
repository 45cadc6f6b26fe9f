package rest

import (
	"tecnoroute-be/internal/cart"
	"tecnoroute-be/internal/category"
	"tecnoroute-be/internal/fleet"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/product"
	"tecnoroute-be/internal/shipment"
	"tecnoroute-be/internal/user"
	"tecnoroute-be/internal/verification"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Services groups the domain services the API is built on.
type Services struct {
	Users        user.Service
	Verification verification.Service
	Categories   category.Service
	Products     product.Service
	Carts        cart.Service
	Orders       order.Service
	Shipments    shipment.Service
	Fleet        fleet.Service
}

type Handler struct {
	users        user.Service
	verification verification.Service
	categories   category.Service
	products     product.Service
	carts        cart.Service
	orders       order.Service
	shipments    shipment.Service
	fleet        fleet.Service

	validate *validatorv10.Validate
}

func NewHandler(s Services) *Handler {
	return &Handler{
		users:        s.Users,
		verification: s.Verification,
		categories:   s.Categories,
		products:     s.Products,
		carts:        s.Carts,
		orders:       s.Orders,
		shipments:    s.Shipments,
		fleet:        s.Fleet,
		validate:     newValidator(),
	}
}
