package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is. The structured types below
// wrap these and carry the detail shown to the caller.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvariant         = errors.New("invariant violation")
)

// ValidationError reports bad or missing input. User-correctable.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing record.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError reports a change that would drive quantity
// below zero. The operation is refused with no partial effect.
type InsufficientStockError struct {
	MedicineID int64
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available, %d requested", e.Available, e.Requested)
}
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvariantViolation reports an internal consistency bug, such as the
// store being asked to set a negative quantity directly. A well-behaved
// caller never triggers it.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string { return e.Detail }
func (e *InvariantViolation) Unwrap() error { return ErrInvariant }
