package suppliers

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a supplier entity.
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
