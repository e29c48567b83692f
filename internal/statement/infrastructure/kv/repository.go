// Package kv persists monthly statements in the key-value store, keyed by
// agency company and billing period.
package kv

import (
	"context"
	"encoding/json"
	"sort"

	"dockday/internal/kvstore"
	statement "dockday/internal/statement/domain"
)

// DefaultNamespace prefixes every storage key.
const DefaultNamespace = "dockday"

// StatementRepository stores statements as JSON values.
type StatementRepository struct {
	store     kvstore.Store
	namespace string
}

// Option configures the repository.
type Option func(*StatementRepository)

// WithNamespace overrides the key namespace.
func WithNamespace(namespace string) Option {
	return func(r *StatementRepository) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// NewStatementRepository constructs a repository over the given store.
func NewStatementRepository(store kvstore.Store, opts ...Option) (*StatementRepository, error) {
	if store == nil {
		return nil, kvstore.ErrNilStore
	}
	repo := &StatementRepository{store: store, namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

func (r *StatementRepository) keyFor(agencyCompanyID, period string) string {
	return r.namespace + ".monthlyStatement.v1." + agencyCompanyID + "." + period
}

func (r *StatementRepository) companyPrefix(agencyCompanyID string) string {
	return r.namespace + ".monthlyStatement.v1." + agencyCompanyID + "."
}

// Save persists the statement under its (company, period) key. Writes
// carrying a stale version token are rejected.
func (r *StatementRepository) Save(ctx context.Context, stmt *statement.MonthlyStatement) error {
	if stmt == nil {
		return statement.ErrNilStatement
	}
	if stmt.AgencyCompanyID == "" {
		return statement.ErrEmptyCompanyID
	}
	if !statement.ValidPeriod(stmt.Period) {
		return statement.ErrInvalidPeriod
	}

	current, err := r.Find(ctx, stmt.AgencyCompanyID, stmt.Period)
	if err != nil {
		return err
	}
	if current != nil && stmt.Version != current.Version {
		return statement.ErrStaleUpdate
	}
	stmt.Version++

	raw, err := json.Marshal(stmt)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.keyFor(stmt.AgencyCompanyID, stmt.Period), raw)
}

// Find returns the statement for (company, period), or nil when none
// exists. Malformed stored JSON is treated as no record.
func (r *StatementRepository) Find(ctx context.Context, agencyCompanyID, period string) (*statement.MonthlyStatement, error) {
	raw, ok, err := r.store.Get(ctx, r.keyFor(agencyCompanyID, period))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var stmt statement.MonthlyStatement
	if err := json.Unmarshal(raw, &stmt); err != nil {
		return nil, nil
	}
	return &stmt, nil
}

// ListByCompany returns all statements for a company, newest period first.
func (r *StatementRepository) ListByCompany(ctx context.Context, agencyCompanyID string) ([]statement.MonthlyStatement, error) {
	keys, err := r.store.Keys(ctx, r.companyPrefix(agencyCompanyID))
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	statements := make([]statement.MonthlyStatement, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var stmt statement.MonthlyStatement
		if err := json.Unmarshal(raw, &stmt); err != nil {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}
