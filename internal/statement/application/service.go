package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"dockday/internal/identity"
	ledger "dockday/internal/ledger/domain"
	"dockday/internal/observability/metrics"
	orders "dockday/internal/orders/domain"
	statement "dockday/internal/statement/domain"
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// GateReport is the reconciliation state of a statement scope, evaluated
// at call time. Late-arriving receipts can unblock a previously blocked
// statement.
type GateReport struct {
	Orders          int  `json:"orders"`
	MissingActual   int  `json:"missingActual"`
	MissingReceipts int  `json:"missingReceipts"`
	Ready           bool `json:"ready"`
}

// Preview is the live reconciliation view for a (company, period) before
// or beside a generated statement.
type Preview struct {
	AgencyCompanyID string              `json:"agencyCompanyId"`
	Period          string              `json:"period"`
	Totals          statement.Totals    `json:"totals"`
	Gate            GateReport          `json:"gate"`
	Orders          []orders.ShiftOrder `json:"orders"`
}

// StatementService derives monthly statements from the order and ledger
// stores and owns the statement approval workflow.
type StatementService struct {
	repo      statement.Repository
	orderRepo orders.Repository
	ledger    ledger.Repository
	clock     Clock
}

// NewStatementService constructs a service.
func NewStatementService(repo statement.Repository, orderRepo orders.Repository, ledgerRepo ledger.Repository, clock Clock) (*StatementService, error) {
	if repo == nil {
		return nil, errors.New("statement service: nil repository")
	}
	if orderRepo == nil {
		return nil, errors.New("statement service: nil order repository")
	}
	if ledgerRepo == nil {
		return nil, errors.New("statement service: nil ledger repository")
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &StatementService{repo: repo, orderRepo: orderRepo, ledger: ledgerRepo, clock: clock}, nil
}

// Generate creates the statement for (company, period), snapshotting the
// period's orders as its scope. Generation is idempotent: an existing
// statement is returned as is unless regenerate is set, which refreshes
// the scope and totals of a still-draft statement in place.
func (s *StatementService) Generate(ctx context.Context, agencyCompanyID, period string, regenerate bool) (*statement.MonthlyStatement, error) {
	start := s.clock.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveStatementGenerate(result, time.Since(start))
	}()

	if agencyCompanyID == "" {
		result = metrics.ResultError
		return nil, statement.ErrEmptyCompanyID
	}
	if !statement.ValidPeriod(period) {
		result = metrics.ResultError
		return nil, statement.ErrInvalidPeriod
	}

	existing, err := s.repo.Find(ctx, agencyCompanyID, period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if existing != nil && !regenerate {
		return existing, nil
	}
	if existing != nil && existing.Status != statement.StatusDraft {
		result = metrics.ResultError
		return nil, statement.ErrNotDraft
	}

	scope, err := s.periodOrders(ctx, agencyCompanyID, period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	totals, err := s.totalsFor(ctx, scope)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	now := s.clock.Now()
	stmt := existing
	if stmt == nil {
		stmt = &statement.MonthlyStatement{
			ID:              identity.NewStatementID(),
			AgencyCompanyID: agencyCompanyID,
			Period:          period,
			CreatedAt:       now,
			Status:          statement.StatusDraft,
		}
	}
	stmt.OrderIDs = orderIDs(scope)
	stmt.Totals = totals
	stmt.UpdatedAt = now

	if err := s.repo.Save(ctx, stmt); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return stmt, nil
}

// Advance moves a statement one step forward. The receipts-complete gate
// is re-evaluated against the current ledger state at transition time.
func (s *StatementService) Advance(ctx context.Context, agencyCompanyID, period string, next statement.Status) (*statement.MonthlyStatement, error) {
	result := metrics.ResultSuccess
	defer func() {
		metrics.IncStatementAdvance(string(next), result)
	}()

	stmt, err := s.repo.Find(ctx, agencyCompanyID, period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if stmt == nil {
		result = metrics.ResultError
		return nil, statement.ErrNotFound
	}

	gate, err := s.gateFor(ctx, stmt.OrderIDs)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if !gate.Ready {
		result = metrics.ResultError
		return nil, statement.ErrNotReconciled
	}

	if err := stmt.AdvanceTo(next, s.clock.Now()); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Save(ctx, stmt); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return stmt, nil
}

// Get returns the statement for (company, period) together with its gate
// report, or ErrNotFound.
func (s *StatementService) Get(ctx context.Context, agencyCompanyID, period string) (*statement.MonthlyStatement, GateReport, error) {
	stmt, err := s.repo.Find(ctx, agencyCompanyID, period)
	if err != nil {
		return nil, GateReport{}, err
	}
	if stmt == nil {
		return nil, GateReport{}, statement.ErrNotFound
	}
	gate, err := s.gateFor(ctx, stmt.OrderIDs)
	if err != nil {
		return nil, GateReport{}, err
	}
	return stmt, gate, nil
}

// List returns all statements for a company, newest period first.
func (s *StatementService) List(ctx context.Context, agencyCompanyID string) ([]statement.MonthlyStatement, error) {
	if agencyCompanyID == "" {
		return nil, statement.ErrEmptyCompanyID
	}
	return s.repo.ListByCompany(ctx, agencyCompanyID)
}

// PreviewPeriod reports live totals and reconciliation state for the
// orders of a (company, period), whether or not a statement exists yet.
func (s *StatementService) PreviewPeriod(ctx context.Context, agencyCompanyID, period string) (*Preview, error) {
	if agencyCompanyID == "" {
		return nil, statement.ErrEmptyCompanyID
	}
	if !statement.ValidPeriod(period) {
		return nil, statement.ErrInvalidPeriod
	}
	scope, err := s.periodOrders(ctx, agencyCompanyID, period)
	if err != nil {
		return nil, err
	}
	totals, err := s.totalsFor(ctx, scope)
	if err != nil {
		return nil, err
	}
	gate, err := s.gateFor(ctx, orderIDs(scope))
	if err != nil {
		return nil, err
	}
	return &Preview{
		AgencyCompanyID: agencyCompanyID,
		Period:          period,
		Totals:          totals,
		Gate:            gate,
		Orders:          scope,
	}, nil
}

// Scope returns the orders referenced by a statement. Ids that no longer
// resolve in the global index are skipped.
func (s *StatementService) Scope(ctx context.Context, stmt *statement.MonthlyStatement) ([]orders.ShiftOrder, error) {
	if stmt == nil {
		return nil, statement.ErrNilStatement
	}
	scope := make([]orders.ShiftOrder, 0, len(stmt.OrderIDs))
	for _, id := range stmt.OrderIDs {
		order, err := s.orderRepo.ByID(ctx, id)
		if err != nil {
			if errors.Is(err, orders.ErrOrderNotFound) {
				continue
			}
			return nil, err
		}
		scope = append(scope, *order)
	}
	return scope, nil
}

// ActualFor exposes the ledger record for an order in a statement scope.
func (s *StatementService) ActualFor(ctx context.Context, orderID string) (*ledger.OrderActualCost, error) {
	return s.ledger.ByOrder(ctx, orderID)
}

func (s *StatementService) periodOrders(ctx context.Context, agencyCompanyID, period string) ([]orders.ShiftOrder, error) {
	all, err := s.orderRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	scope := make([]orders.ShiftOrder, 0, len(all))
	for _, order := range all {
		if order.AgencyCompanyID != agencyCompanyID {
			continue
		}
		if statement.PeriodOf(order.CreatedAt) != period {
			continue
		}
		scope = append(scope, order)
	}
	sort.SliceStable(scope, func(i, j int) bool {
		return scope[i].CreatedAt.After(scope[j].CreatedAt)
	})
	return scope, nil
}

func (s *StatementService) totalsFor(ctx context.Context, scope []orders.ShiftOrder) (statement.Totals, error) {
	var totals statement.Totals
	for _, order := range scope {
		totals.Estimated += order.EstimatedAmount
		actual, err := s.ledger.ByOrder(ctx, order.ID)
		if err != nil {
			return statement.Totals{}, err
		}
		if actual != nil {
			totals.Actual += actual.Total
		}
	}
	return totals, nil
}

// gateFor evaluates the receipts-complete gate over a set of order ids.
// Ids that no longer resolve count as missing actuals: the statement can
// not be proven reconciled without the order.
func (s *StatementService) gateFor(ctx context.Context, ids []string) (GateReport, error) {
	report := GateReport{Orders: len(ids)}
	for _, id := range ids {
		if _, err := s.orderRepo.ByID(ctx, id); err != nil {
			if errors.Is(err, orders.ErrOrderNotFound) {
				report.MissingActual++
				continue
			}
			return GateReport{}, err
		}
		actual, err := s.ledger.ByOrder(ctx, id)
		if err != nil {
			return GateReport{}, err
		}
		if actual == nil {
			report.MissingActual++
			continue
		}
		if !actual.ReceiptsComplete() {
			report.MissingReceipts++
		}
	}
	report.Ready = report.MissingActual == 0 && report.MissingReceipts == 0
	return report, nil
}

func orderIDs(scope []orders.ShiftOrder) []string {
	ids := make([]string, 0, len(scope))
	for _, order := range scope {
		ids = append(ids, order.ID)
	}
	return ids
}
