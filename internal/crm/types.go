// Package crm is the typed gateway the admin front-end uses to talk to the
// REST backend. One generic resource covers the three entity kinds; Parts
// carries two extra operations.
package crm

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Customer mirrors the backend customer record.
type Customer struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	ContactPerson *string    `json:"contact_person"`
	Email         *string    `json:"email"`
	Phone         *string    `json:"phone"`
	CompanyName   *string    `json:"company_name"`
	TaxID         *string    `json:"tax_id"`
	AddressLine1  *string    `json:"address_line1"`
	AddressLine2  *string    `json:"address_line2"`
	City          *string    `json:"city"`
	State         *string    `json:"state"`
	PostalCode    *string    `json:"postal_code"`
	Country       *string    `json:"country"`
	Website       *string    `json:"website"`
	Notes         *string    `json:"notes"`
	CustomerType  *string    `json:"customer_type"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at"`
}

// CustomerCreate is the creation payload for customers.
type CustomerCreate struct {
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	TaxID         *string `json:"tax_id,omitempty"`
	AddressLine1  *string `json:"address_line1,omitempty"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	Country       *string `json:"country,omitempty"`
	Website       *string `json:"website,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CustomerType  *string `json:"customer_type,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// CustomerUpdate is a partial update; nil fields are left unchanged.
type CustomerUpdate struct {
	Name          *string `json:"name,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	TaxID         *string `json:"tax_id,omitempty"`
	AddressLine1  *string `json:"address_line1,omitempty"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	Country       *string `json:"country,omitempty"`
	Website       *string `json:"website,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CustomerType  *string `json:"customer_type,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// Part mirrors the backend part record, including the server-derived
// is_low_stock and stock_status fields. The gateway never computes them.
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

// PartCreate is the creation payload for parts.
type PartCreate struct {
	SKU            string         `json:"sku"`
	Name           string         `json:"name"`
	Description    *string        `json:"description,omitempty"`
	Category       *string        `json:"category,omitempty"`
	Specifications map[string]any `json:"specifications,omitempty"`
	CurrentStock   *int           `json:"current_stock,omitempty"`
	MinimumStock   *int           `json:"minimum_stock,omitempty"`
	UnitPrice      *string        `json:"unit_price,omitempty"`
}

// PartUpdate is a partial update; nil fields are left unchanged.
type PartUpdate struct {
	SKU            *string        `json:"sku,omitempty"`
	Name           *string        `json:"name,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Category       *string        `json:"category,omitempty"`
	Specifications map[string]any `json:"specifications,omitempty"`
	CurrentStock   *int           `json:"current_stock,omitempty"`
	MinimumStock   *int           `json:"minimum_stock,omitempty"`
	UnitPrice      *string        `json:"unit_price,omitempty"`
}

// StockAdjustment is a signed delta applied to a part's current stock.
type StockAdjustment struct {
	Quantity int     `json:"quantity"`
	Reason   *string `json:"reason,omitempty"`
}

// Supplier mirrors the backend supplier record.
type Supplier struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	ContactPerson *string    `json:"contact_person"`
	Email         *string    `json:"email"`
	Phone         *string    `json:"phone"`
	AddressLine1  *string    `json:"address_line1"`
	AddressLine2  *string    `json:"address_line2"`
	City          *string    `json:"city"`
	State         *string    `json:"state"`
	PostalCode    *string    `json:"postal_code"`
	Country       *string    `json:"country"`
	Website       *string    `json:"website"`
	Notes         *string    `json:"notes"`
	Rating        *int       `json:"rating"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at"`
}

// SupplierCreate is the creation payload for suppliers.
type SupplierCreate struct {
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	AddressLine1  *string `json:"address_line1,omitempty"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	Country       *string `json:"country,omitempty"`
	Website       *string `json:"website,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Rating        *int    `json:"rating,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// SupplierUpdate is a partial update; nil fields are left unchanged.
type SupplierUpdate struct {
	Name          *string `json:"name,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	AddressLine1  *string `json:"address_line1,omitempty"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	Country       *string `json:"country,omitempty"`
	Website       *string `json:"website,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Rating        *int    `json:"rating,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// ListResult is the pagination envelope returned by every list operation.
type ListResult[E any] struct {
	Items      []E `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// Query is implemented by per-kind list parameter types.
type Query interface {
	Values() url.Values
}

// ListParams carries the pagination and search parameters common to all kinds.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	return v
}

// CustomerListParams filters customer listings.
type CustomerListParams struct {
	ListParams
	CustomerType string
	ActiveOnly   bool
}

func (p CustomerListParams) Values() url.Values {
	v := p.values()
	if p.CustomerType != "" {
		v.Set("customer_type", p.CustomerType)
	}
	if p.ActiveOnly {
		v.Set("active_only", "true")
	}
	return v
}

// PartListParams filters part listings.
type PartListParams struct {
	ListParams
	Category     string
	LowStockOnly bool
}

func (p PartListParams) Values() url.Values {
	v := p.values()
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.LowStockOnly {
		v.Set("low_stock_only", "true")
	}
	return v
}

// SupplierListParams filters supplier listings.
type SupplierListParams struct {
	ListParams
	ActiveOnly bool
}

func (p SupplierListParams) Values() url.Values {
	v := p.values()
	if p.ActiveOnly {
		v.Set("active_only", "true")
	}
	return v
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the backend account record returned by register and /auth/me.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register payload. Registering never logs the user in.
type Registration struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}
