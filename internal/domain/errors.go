package domain

import "errors"

// Validation errors. Mutations report these as failed results, never as raw errors.
var (
	ErrInvalidName    = errors.New("name is required")
	ErrInvalidEmail   = errors.New("invalid email format")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrInvalidPhone   = errors.New("invalid phone format")
	ErrInvalidPrice   = errors.New("price must be positive")
	ErrInvalidStock   = errors.New("stock cannot be negative")
	ErrNoProducts     = errors.New("at least one product must be provided")
)

// Lookup errors.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
)
