package parts

import (
	"time"

	"github.com/google/uuid"
)

// Stock status values derived from current and minimum stock.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// Part represents an inventory part. UnitPrice travels as a decimal string
// to preserve precision. IsLowStock and StockStatus are derived on the way
// out and never stored.
type Part struct {
	ID             uuid.UUID      `json:"id"`
	SKU            string         `json:"sku"`
	Name           string         `json:"name"`
	Description    *string        `json:"description"`
	Category       *string        `json:"category"`
	Specifications map[string]any `json:"specifications"`
	CurrentStock   int            `json:"current_stock"`
	MinimumStock   int            `json:"minimum_stock"`
	UnitPrice      *string        `json:"unit_price"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      *time.Time     `json:"deleted_at"`
	IsLowStock     bool           `json:"is_low_stock"`
	StockStatus    string         `json:"stock_status"`
}

// derive fills the computed stock fields.
func (p *Part) derive() {
	p.IsLowStock = p.CurrentStock < p.MinimumStock
	switch {
	case p.CurrentStock == 0:
		p.StockStatus = StatusOutOfStock
	case p.IsLowStock:
		p.StockStatus = StatusLowStock
	default:
		p.StockStatus = StatusInStock
	}
}
