package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"usuario"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"fecha_creacion"`
	UpdatedAt time.Time       `json:"fecha_actualizacion"`
}

// Item is a cart line priced at the product's current price.
type Item struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"producto_id"`
	ProductName string          `json:"producto_nombre"`
	ImageURL    string          `json:"imagen_url"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Quantity    int             `json:"cantidad"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	AddedAt     time.Time       `json:"fecha_agregado"`
}

// computeTotals derives every line subtotal and the cart total.
func (c *Cart) computeTotals() {
	total := decimal.Zero
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
		total = total.Add(c.Items[i].Subtotal)
	}
	c.Total = total
	if c.Items == nil {
		c.Items = []Item{}
	}
}
