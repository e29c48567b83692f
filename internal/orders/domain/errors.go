package orders

import "errors"

var (
	// ErrDraftNotVerified is returned when the draft has no verified agent.
	ErrDraftNotVerified = errors.New("orders: draft agent not verified")
	// ErrDraftContactMissing is returned when the draft lacks a contact method or value.
	ErrDraftContactMissing = errors.New("orders: draft contact missing")
	// ErrInvalidTransition is returned when a status transition is not allowed.
	ErrInvalidTransition = errors.New("orders: invalid status transition")
	// ErrDriverIncomplete is returned when approval is attempted without a complete driver record.
	ErrDriverIncomplete = errors.New("orders: driver record incomplete")
	// ErrOrderCompleted is returned when editing a completed order.
	ErrOrderCompleted = errors.New("orders: order completed")
	// ErrOrderNotFound is returned when an order id does not resolve.
	ErrOrderNotFound = errors.New("orders: not found")
	// ErrNilOrder is returned when persisting a nil order.
	ErrNilOrder = errors.New("orders: nil order")
	// ErrStaleUpdate is returned when a write carries a stale version token.
	ErrStaleUpdate = errors.New("orders: stale update")
	// ErrInsufficientCredit is returned when the estimate exceeds available credit.
	ErrInsufficientCredit = errors.New("orders: insufficient credit")
)
