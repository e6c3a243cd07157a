package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a customer entity.
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
