package shared

import "errors"

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStockBelowZero indicates an adjustment that would make stock negative.
	ErrStockBelowZero = errors.New("stock cannot go below zero")
)
