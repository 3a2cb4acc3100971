package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingShop is returned when a caller omits the shop identifier.
	ErrMissingShop = errors.New("shop is required")

	// ErrMissingProduct is returned when a caller omits the product identifier.
	ErrMissingProduct = errors.New("productId is required")

	// ErrSignatureMismatch is returned when a webhook's HMAC signature does
	// not match the raw request body. No processing happens after it.
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
)

// ValidationError reports a field value outside its allowed range or enum.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageUnavailableError wraps a failure to reach the backing store. Admin
// paths surface it as a 5xx; the storefront proxy swallows it and degrades
// to an inert response.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }
