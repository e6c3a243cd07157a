package crm

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the backend, decoded from its
// application/problem+json body when one is present.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("crm: %s (%d): %s", e.Title, e.Status, e.Detail)
	}
	return fmt.Sprintf("crm: %s (%d)", e.Title, e.Status)
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func statusIs(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == status
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool { return statusIs(err, 404) }

// IsConflict reports whether err is a 409, e.g. a duplicate SKU or email.
func IsConflict(err error) bool { return statusIs(err, 409) }

// IsValidation reports whether err is a 400 or 422 rejection of the payload.
func IsValidation(err error) bool { return statusIs(err, 400) || statusIs(err, 422) }

// IsUnauthorized reports whether err is a 401. Callers treat this as an
// expired or revoked token and force a fresh login.
func IsUnauthorized(err error) bool { return statusIs(err, 401) }
