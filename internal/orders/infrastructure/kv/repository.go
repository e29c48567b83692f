// Package kv persists shift orders in the key-value store, maintaining a
// per-agent history and a global index, both newest first and capped.
package kv

import (
	"context"
	"encoding/json"
	"errors"

	"dockday/internal/kvstore"
	orders "dockday/internal/orders/domain"
)

const (
	// DefaultNamespace prefixes every storage key.
	DefaultNamespace = "dockday"

	agentHistoryCap = 50
	globalIndexCap  = 500
)

// OrderRepository stores shift orders as JSON arrays under namespaced keys.
type OrderRepository struct {
	store     kvstore.Store
	namespace string
}

// Option configures the repository.
type Option func(*OrderRepository)

// WithNamespace overrides the key namespace.
func WithNamespace(namespace string) Option {
	return func(r *OrderRepository) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// NewOrderRepository constructs a repository over the given store.
func NewOrderRepository(store kvstore.Store, opts ...Option) (*OrderRepository, error) {
	if store == nil {
		return nil, kvstore.ErrNilStore
	}
	repo := &OrderRepository{store: store, namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

// Namespace returns the configured key namespace.
func (r *OrderRepository) Namespace() string { return r.namespace }

func (r *OrderRepository) agentKeyFor(agentKey string) string {
	return r.namespace + ".shiftOrders.v1." + agentKey
}

func (r *OrderRepository) globalKey() string {
	return r.namespace + ".shiftOrders.all.v1"
}

// Save persists the order into both indexes, replacing any entry with the
// same id and evicting the oldest entries beyond the caps. Writes carrying
// a stale version token are rejected.
func (r *OrderRepository) Save(ctx context.Context, order *orders.ShiftOrder) error {
	if order == nil {
		return orders.ErrNilOrder
	}
	if order.AgentKey == "" {
		return errors.New("order repository: empty agent key")
	}

	current, err := r.ByID(ctx, order.ID)
	if err != nil && !errors.Is(err, orders.ErrOrderNotFound) {
		return err
	}
	if current != nil && order.Version != current.Version {
		return orders.ErrStaleUpdate
	}
	order.Version++

	global, err := r.loadList(ctx, r.globalKey())
	if err != nil {
		return err
	}
	if err := r.storeList(ctx, r.globalKey(), prepend(global, order, globalIndexCap)); err != nil {
		return err
	}

	agentList, err := r.loadList(ctx, r.agentKeyFor(order.AgentKey))
	if err != nil {
		return err
	}
	return r.storeList(ctx, r.agentKeyFor(order.AgentKey), prepend(agentList, order, agentHistoryCap))
}

// ByAgent returns the agent's order history, newest first.
func (r *OrderRepository) ByAgent(ctx context.Context, agentKey string) ([]orders.ShiftOrder, error) {
	return r.loadList(ctx, r.agentKeyFor(agentKey))
}

// All returns the global order index, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]orders.ShiftOrder, error) {
	return r.loadList(ctx, r.globalKey())
}

// ByID returns the order with the given id from the global index.
func (r *OrderRepository) ByID(ctx context.Context, id string) (*orders.ShiftOrder, error) {
	if id == "" {
		return nil, orders.ErrOrderNotFound
	}
	list, err := r.loadList(ctx, r.globalKey())
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return list[i].Clone(), nil
		}
	}
	return nil, orders.ErrOrderNotFound
}

// loadList reads an order array; malformed stored JSON is treated as no
// record rather than an error.
func (r *OrderRepository) loadList(ctx context.Context, key string) ([]orders.ShiftOrder, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var list []orders.ShiftOrder
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, nil
	}
	return list, nil
}

func (r *OrderRepository) storeList(ctx context.Context, key string, list []orders.ShiftOrder) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, key, raw)
}

func prepend(list []orders.ShiftOrder, order *orders.ShiftOrder, limit int) []orders.ShiftOrder {
	next := make([]orders.ShiftOrder, 0, len(list)+1)
	next = append(next, *order.Clone())
	for _, existing := range list {
		if existing.ID == order.ID {
			continue
		}
		next = append(next, existing)
	}
	if len(next) > limit {
		next = next[:limit]
	}
	return next
}
