package models

// OrderStatus is the lifecycle state of an order. Orders start as
// StatusPending; StatusServed and StatusCancelled are terminal.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCooking   OrderStatus = "cooking"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCooking, StatusCancelled},
	StatusCooking:   {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed},
	StatusServed:    {},
	StatusCancelled: {},
}

// IsValidStatus reports whether s is one of the known order statuses.
func IsValidStatus(s OrderStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// AllowedTransitions returns the statuses reachable from current.
func AllowedTransitions(current OrderStatus) []OrderStatus {
	return allowedTransitions[current]
}

// ValidateTransition checks whether an order may move from current to
// requested. On rejection the returned error carries the current
// status and the allowed set.
func ValidateTransition(current, requested OrderStatus) error {
	for _, next := range allowedTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return &InvalidTransitionError{
		Current:   current,
		Requested: requested,
		Allowed:   allowedTransitions[current],
	}
}
