// Package kv persists actual-cost records in the key-value store, one
// record per order id.
package kv

import (
	"context"
	"encoding/json"

	"dockday/internal/kvstore"
	ledger "dockday/internal/ledger/domain"
)

// DefaultNamespace prefixes every storage key.
const DefaultNamespace = "dockday"

// ActualCostRepository stores ledger records as JSON values.
type ActualCostRepository struct {
	store     kvstore.Store
	namespace string
}

// Option configures the repository.
type Option func(*ActualCostRepository)

// WithNamespace overrides the key namespace.
func WithNamespace(namespace string) Option {
	return func(r *ActualCostRepository) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// NewActualCostRepository constructs a repository over the given store.
func NewActualCostRepository(store kvstore.Store, opts ...Option) (*ActualCostRepository, error) {
	if store == nil {
		return nil, kvstore.ErrNilStore
	}
	repo := &ActualCostRepository{store: store, namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

func (r *ActualCostRepository) keyFor(orderID string) string {
	return r.namespace + ".shiftOrderActual.v1." + orderID
}

// Save overwrites the ledger record for its order.
func (r *ActualCostRepository) Save(ctx context.Context, record ledger.OrderActualCost) error {
	if record.OrderID == "" {
		return ledger.ErrEmptyOrderID
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.keyFor(record.OrderID), raw)
}

// ByOrder returns the ledger record for an order, or nil when none exists.
// Malformed stored JSON is treated as no record.
func (r *ActualCostRepository) ByOrder(ctx context.Context, orderID string) (*ledger.OrderActualCost, error) {
	if orderID == "" {
		return nil, ledger.ErrEmptyOrderID
	}
	raw, ok, err := r.store.Get(ctx, r.keyFor(orderID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var record ledger.OrderActualCost
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, nil
	}
	return &record, nil
}
