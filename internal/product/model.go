package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uint            `json:"id"`
	CategoryID   uint            `json:"categoria"`
	CategoryName string          `json:"categoria_nombre"`
	Name         string          `json:"nombre"`
	Description  string          `json:"descripcion"`
	Price        decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	ImageURL     string          `json:"imagen_url"`
	Active       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"fecha_creacion"`
	UpdatedAt    time.Time       `json:"fecha_actualizacion"`
}

type Filter struct {
	CategoryID *uint
	Search     string
	ActiveOnly bool
	Limit      int
	Page       int
}

type CreateInput struct {
	CategoryID  uint
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

// UpdateInput applies only the non-nil fields.
type UpdateInput struct {
	CategoryID  *uint
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	Active      *bool
}
