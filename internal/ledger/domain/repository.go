package ledger

import "context"

// Repository persists actual-cost records, one per order, overwritten
// whole on every save.
type Repository interface {
	Save(ctx context.Context, record OrderActualCost) error
	ByOrder(ctx context.Context, orderID string) (*OrderActualCost, error)
}
