package suppliers

// CreateRequest is the creation payload; name is required, rating 1..5.
type CreateRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	AddressLine1  *string `json:"address_line1"`
	AddressLine2  *string `json:"address_line2"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	Website       *string `json:"website"`
	Notes         *string `json:"notes"`
	Rating        *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	AddressLine1  *string `json:"address_line1"`
	AddressLine2  *string `json:"address_line2"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	Website       *string `json:"website"`
	Notes         *string `json:"notes"`
	Rating        *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	IsActive      *bool   `json:"is_active"`
}
