package parts

// CreateRequest is the creation payload. SKU and name are required; stock
// counters default to zero; unit_price is a decimal string.
type CreateRequest struct {
	SKU            string         `json:"sku" validate:"required,max=100"`
	Name           string         `json:"name" validate:"required,max=255"`
	Description    *string        `json:"description"`
	Category       *string        `json:"category" validate:"omitempty,max=100"`
	Specifications map[string]any `json:"specifications"`
	CurrentStock   *int           `json:"current_stock" validate:"omitempty,min=0"`
	MinimumStock   *int           `json:"minimum_stock" validate:"omitempty,min=0"`
	UnitPrice      *string        `json:"unit_price"`
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	SKU            *string        `json:"sku" validate:"omitempty,min=1,max=100"`
	Name           *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Description    *string        `json:"description"`
	Category       *string        `json:"category" validate:"omitempty,max=100"`
	Specifications map[string]any `json:"specifications"`
	CurrentStock   *int           `json:"current_stock" validate:"omitempty,min=0"`
	MinimumStock   *int           `json:"minimum_stock" validate:"omitempty,min=0"`
	UnitPrice      *string        `json:"unit_price"`
}

// StockAdjustment is a signed delta applied to current_stock.
type StockAdjustment struct {
	Quantity int     `json:"quantity"`
	Reason   *string `json:"reason" validate:"omitempty,max=500"`
}
