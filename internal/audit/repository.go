package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"dockday/internal/kvstore"
)

// DefaultNamespace prefixes every audit storage key.
const DefaultNamespace = "dockday"

// Repository appends audit entries to the key-value store. Entries are
// keyed by creation time so a prefix scan yields them in order.
type Repository struct {
	store     kvstore.Store
	namespace string
}

// NewRepository constructs an audit repository.
func NewRepository(store kvstore.Store) *Repository {
	if store == nil {
		return nil
	}
	return &Repository{store: store, namespace: DefaultNamespace}
}

// Log writes an audit entry.
func (r *Repository) Log(ctx context.Context, entry Entry) error {
	if r == nil || r.store == nil {
		return errors.New("audit repo: nil store")
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(entry.Metadata)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := r.namespace + ".auditLog.v1." + entry.CreatedAt.UTC().Format("20060102T150405.000000000") + "." + entry.ID
	return r.store.Put(ctx, key, raw)
}

// Recent returns the latest audit entries, newest first, up to limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if r == nil || r.store == nil {
		return nil, errors.New("audit repo: nil store")
	}
	keys, err := r.store.Keys(ctx, r.namespace+".auditLog.v1.")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, limit)
	for i := len(keys) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) >= limit {
			break
		}
		raw, ok, err := r.store.Get(ctx, keys[i])
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
