package application

import (
	"context"
	"errors"
	"time"

	"dockday/internal/agency"
	"dockday/internal/identity"
	"dockday/internal/observability/metrics"
	orders "dockday/internal/orders/domain"
	"dockday/internal/pricing"
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns wall-clock time.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// LifecycleService owns shift order creation and the operational status
// machine. All mutations load the current record, apply one change and
// write the whole order back.
type LifecycleService struct {
	repo      orders.Repository
	directory *agency.Directory
	whitelist *agency.Whitelist
	clock     Clock
}

// NewLifecycleService constructs a service.
func NewLifecycleService(repo orders.Repository, directory *agency.Directory, whitelist *agency.Whitelist, clock Clock) (*LifecycleService, error) {
	if repo == nil {
		return nil, errors.New("order service: nil repository")
	}
	if directory == nil {
		return nil, errors.New("order service: nil directory")
	}
	if whitelist == nil {
		return nil, errors.New("order service: nil whitelist")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &LifecycleService{repo: repo, directory: directory, whitelist: whitelist, clock: clock}, nil
}

// Submit turns a booking draft into a persisted order. The quote is
// computed here and snapshotted onto the order; when the draft designates
// a billing account the estimate must fit within its available credit.
func (s *LifecycleService) Submit(ctx context.Context, draft orders.Draft) (*orders.ShiftOrder, error) {
	start := s.clock.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveOrderCreate(result, time.Since(start))
	}()

	// The draft's verified flag is not trusted on its own; the contact is
	// resolved against the whitelist again at submission.
	if draft.AgentVerified && !s.whitelist.IsWhitelisted(draft.AgentContactType, draft.AgentContactValue) {
		draft.AgentVerified = false
	}

	quote := pricing.Estimate(draft.Data.EstimateInput())

	if draft.BillingAccountID != "" {
		account := s.directory.Account(draft.AgencyCompanyID, draft.BillingAccountID)
		if quote.Total > agency.AvailableCredit(account) {
			result = metrics.ResultError
			return nil, orders.ErrInsufficientCredit
		}
	}

	order, err := orders.NewShiftOrder(identity.NewOrderID(), draft, quote, s.clock.Now())
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return order, nil
}

// Quote returns the estimate for a draft without creating anything.
func (s *LifecycleService) Quote(draft orders.Draft) pricing.Quote {
	return pricing.Estimate(draft.Data.EstimateInput())
}

// Get returns the order with the given id.
func (s *LifecycleService) Get(ctx context.Context, id string) (*orders.ShiftOrder, error) {
	return s.repo.ByID(ctx, id)
}

// ListByAgent returns the agent's order history, newest first.
func (s *LifecycleService) ListByAgent(ctx context.Context, agentKey string) ([]orders.ShiftOrder, error) {
	return s.repo.ByAgent(ctx, agentKey)
}

// ListAll returns the global order index, newest first.
func (s *LifecycleService) ListAll(ctx context.Context) ([]orders.ShiftOrder, error) {
	return s.repo.All(ctx)
}

// Approve moves an order from review into service, stamping the approving
// identity. Requires a complete driver record.
func (s *LifecycleService) Approve(ctx context.Context, id, approvedBy string) (*orders.ShiftOrder, error) {
	return s.mutate(ctx, id, string(orders.StatusInService), func(order *orders.ShiftOrder) error {
		return order.Approve(approvedBy, s.clock.Now())
	})
}

// Complete moves an order from in_service to completed.
func (s *LifecycleService) Complete(ctx context.Context, id string) (*orders.ShiftOrder, error) {
	return s.mutate(ctx, id, string(orders.StatusCompleted), func(order *orders.ShiftOrder) error {
		return order.MarkCompleted()
	})
}

// UpdateData replaces the order's business content.
func (s *LifecycleService) UpdateData(ctx context.Context, id string, data orders.OrderData) (*orders.ShiftOrder, error) {
	return s.mutate(ctx, id, "", func(order *orders.ShiftOrder) error {
		return order.UpdateData(data)
	})
}

// SetDriver replaces the driver assignment.
func (s *LifecycleService) SetDriver(ctx context.Context, id string, driver orders.Driver) (*orders.ShiftOrder, error) {
	return s.mutate(ctx, id, "", func(order *orders.ShiftOrder) error {
		return order.SetDriver(driver)
	})
}

// SetInsuranceFiles replaces the insurance attachment metadata.
func (s *LifecycleService) SetInsuranceFiles(ctx context.Context, id string, files []orders.Attachment) (*orders.ShiftOrder, error) {
	return s.mutate(ctx, id, "", func(order *orders.ShiftOrder) error {
		order.SetInsuranceFiles(files)
		return nil
	})
}

func (s *LifecycleService) mutate(ctx context.Context, id, transitionTo string, apply func(*orders.ShiftOrder) error) (*orders.ShiftOrder, error) {
	order, err := s.repo.ByID(ctx, id)
	if err != nil {
		if transitionTo != "" {
			metrics.IncOrderTransition(transitionTo, metrics.ResultError)
		}
		return nil, err
	}
	if err := apply(order); err != nil {
		if transitionTo != "" {
			metrics.IncOrderTransition(transitionTo, metrics.ResultError)
		}
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		if transitionTo != "" {
			metrics.IncOrderTransition(transitionTo, metrics.ResultError)
		}
		return nil, err
	}
	if transitionTo != "" {
		metrics.IncOrderTransition(transitionTo, metrics.ResultSuccess)
	}
	return order, nil
}
