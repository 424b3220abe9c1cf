package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrOrderNotFound     = errors.New("order not found")
	ErrTableNotFound     = errors.New("table not found or inactive")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrNumbersExhausted  = errors.New("order numbers exhausted for today")
	ErrAllocationRetries = errors.New("order number allocation failed, please try again")

	// ErrDuplicateOrderNumber is returned by the order store when the
	// order_number unique constraint rejects an insert. The lifecycle
	// service retries allocation; it is never surfaced to callers.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)

// InvalidTransitionError rejects a status change that is not in the
// allowed set for the order's current status.
type InvalidTransitionError struct {
	Current   OrderStatus
	Requested OrderStatus
	Allowed   []OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from '%s' to '%s', allowed: %v",
		e.Current, e.Requested, e.Allowed)
}
