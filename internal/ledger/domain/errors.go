package ledger

import "errors"

var (
	// ErrEmptyOrderID is returned when a record has no order id.
	ErrEmptyOrderID = errors.New("ledger: empty order id")
	// ErrOrderNotCompleted is returned when recording costs for an order
	// that has not completed service.
	ErrOrderNotCompleted = errors.New("ledger: order not completed")
	// ErrNotFound is returned when no ledger record exists for an order.
	ErrNotFound = errors.New("ledger: not found")
)
