package application

import (
	"context"
	"errors"
	"time"

	ledger "dockday/internal/ledger/domain"
	"dockday/internal/observability/metrics"
	orders "dockday/internal/orders/domain"
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// LedgerService records receipt-backed actual costs against completed
// orders.
type LedgerService struct {
	repo   ledger.Repository
	orders orders.Repository
	clock  Clock
}

// NewLedgerService constructs a service.
func NewLedgerService(repo ledger.Repository, orderRepo orders.Repository, clock Clock) (*LedgerService, error) {
	if repo == nil {
		return nil, errors.New("ledger service: nil repository")
	}
	if orderRepo == nil {
		return nil, errors.New("ledger service: nil order repository")
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &LedgerService{repo: repo, orders: orderRepo, clock: clock}, nil
}

// SaveInput is the caller-provided ledger content.
type SaveInput struct {
	Lines   []ledger.MoneyLine   `json:"lines"`
	Notes   string               `json:"notes,omitempty"`
	Details ledger.ActualDetails `json:"details"`
}

// Save normalizes and overwrites the actual-cost record for an order.
// Costs may only be recorded once the order has completed service.
func (s *LedgerService) Save(ctx context.Context, orderID string, input SaveInput) (*ledger.OrderActualCost, error) {
	start := s.clock.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveLedgerSave(result, time.Since(start))
	}()

	order, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if order.Status != orders.StatusCompleted {
		result = metrics.ResultError
		return nil, ledger.ErrOrderNotCompleted
	}

	record := ledger.New(orderID, input.Lines, input.Notes, input.Details, s.clock.Now())
	if err := s.repo.Save(ctx, record); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return &record, nil
}

// Get returns the ledger record for an order, or nil when none exists.
func (s *LedgerService) Get(ctx context.Context, orderID string) (*ledger.OrderActualCost, error) {
	return s.repo.ByOrder(ctx, orderID)
}
