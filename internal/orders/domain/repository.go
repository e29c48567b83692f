package orders

import "context"

// Repository persists shift orders. Updates replace the whole record in
// both the agent-scoped and global indexes.
type Repository interface {
	Save(ctx context.Context, order *ShiftOrder) error
	ByID(ctx context.Context, id string) (*ShiftOrder, error)
	ByAgent(ctx context.Context, agentKey string) ([]ShiftOrder, error)
	All(ctx context.Context) ([]ShiftOrder, error)
}
