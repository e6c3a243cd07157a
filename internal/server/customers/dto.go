package customers

// CreateRequest is the creation payload. Name is the only required field;
// customer_type stays free text on purpose (observed values are
// individual/business/reseller but the server does not enforce an enum).
type CreateRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	CompanyName   *string `json:"company_name"`
	TaxID         *string `json:"tax_id"`
	AddressLine1  *string `json:"address_line1"`
	AddressLine2  *string `json:"address_line2"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	Website       *string `json:"website"`
	Notes         *string `json:"notes"`
	CustomerType  *string `json:"customer_type"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	CompanyName   *string `json:"company_name"`
	TaxID         *string `json:"tax_id"`
	AddressLine1  *string `json:"address_line1"`
	AddressLine2  *string `json:"address_line2"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	Website       *string `json:"website"`
	Notes         *string `json:"notes"`
	CustomerType  *string `json:"customer_type"`
	IsActive      *bool   `json:"is_active"`
}
