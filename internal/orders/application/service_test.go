package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"dockday/internal/agency"
	"dockday/internal/kvstore"
	orders "dockday/internal/orders/domain"
	orderskv "dockday/internal/orders/infrastructure/kv"
	"dockday/internal/pricing"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func newService(t *testing.T) (*LifecycleService, orders.Repository) {
	t.Helper()
	repo, err := orderskv.NewOrderRepository(kvstore.NewMemoryStore())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	cfg := agency.DefaultConfig()
	service, err := NewLifecycleService(repo, agency.NewDirectory(cfg.Companies), agency.NewWhitelist(cfg.Agents), fixedClock{at: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, repo
}

func draft() orders.Draft {
	return orders.Draft{
		AgentVerified:     true,
		AgentContactType:  agency.ContactPhone,
		AgentContactValue: "13800138000",
		AgencyCompanyID:   "agency-demo",
		BillingAccountID:  "acct-usd-30",
		Data: orders.OrderData{
			GroupSize:    2,
			CarCount:     1,
			NeedHotel:    true,
			HotelNights:  2,
			TransferType: pricing.TransferAirport,
		},
	}
}

func TestSubmit_CreatesOrder(t *testing.T) {
	service, repo := newService(t)
	ctx := context.Background()

	order, err := service.Submit(ctx, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.HasPrefix(order.ID, "SO-") {
		t.Fatalf("order id = %q", order.ID)
	}
	if order.EstimatedAmount != 540 {
		t.Fatalf("estimated amount = %d", order.EstimatedAmount)
	}
	if order.Status != orders.StatusReview {
		t.Fatalf("status = %q", order.Status)
	}

	stored, err := repo.ByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("stored order: %v", err)
	}
	if stored.EstimatedAmount != 540 {
		t.Fatalf("stored estimate = %d", stored.EstimatedAmount)
	}
}

func TestSubmit_UnverifiedDraftWritesNothing(t *testing.T) {
	service, repo := newService(t)
	ctx := context.Background()

	d := draft()
	d.AgentVerified = false
	if _, err := service.Submit(ctx, d); err != orders.ErrDraftNotVerified {
		t.Fatalf("expected ErrDraftNotVerified, got %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no store write, got %d orders", len(all))
	}
}

func TestSubmit_RevokedWhitelistEntryRejected(t *testing.T) {
	service, _ := newService(t)
	d := draft()
	d.AgentContactValue = "13911111111" // not whitelisted
	if _, err := service.Submit(context.Background(), d); err != orders.ErrDraftNotVerified {
		t.Fatalf("expected ErrDraftNotVerified, got %v", err)
	}
}

func TestSubmit_CreditGate(t *testing.T) {
	repo, err := orderskv.NewOrderRepository(kvstore.NewMemoryStore())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	cfg := agency.DefaultConfig()
	cfg.Companies[0].Accounts[0].UsedAmount = cfg.Companies[0].Accounts[0].CreditLimit - 100
	service, err := NewLifecycleService(repo, agency.NewDirectory(cfg.Companies), agency.NewWhitelist(cfg.Agents), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	// Estimate (540) exceeds the 100 available.
	if _, err := service.Submit(context.Background(), draft()); err != orders.ErrInsufficientCredit {
		t.Fatalf("expected ErrInsufficientCredit, got %v", err)
	}
}

func TestSubmit_UnknownAccountIsZeroCredit(t *testing.T) {
	service, _ := newService(t)
	d := draft()
	d.BillingAccountID = "acct-missing"
	if _, err := service.Submit(context.Background(), d); err != orders.ErrInsufficientCredit {
		t.Fatalf("expected ErrInsufficientCredit, got %v", err)
	}
}

func TestApproveAndComplete_Flow(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	order, err := service.Submit(ctx, draft())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := service.Approve(ctx, order.ID, "ops-admin"); err != orders.ErrDriverIncomplete {
		t.Fatalf("expected ErrDriverIncomplete before driver set, got %v", err)
	}

	if _, err := service.SetDriver(ctx, order.ID, orders.Driver{Name: "Li Wei", Phone: "13900000001", Plate: "沪A12345", Seats: "7"}); err != nil {
		t.Fatalf("set driver: %v", err)
	}
	approved, err := service.Approve(ctx, order.ID, "ops-admin")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != orders.StatusInService || approved.Audit.ApprovedBy != "ops-admin" {
		t.Fatalf("approved order = %+v", approved)
	}

	completed, err := service.Complete(ctx, order.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != orders.StatusCompleted {
		t.Fatalf("status = %q", completed.Status)
	}

	// Completed orders refuse data edits but accept insurance files.
	if _, err := service.UpdateData(ctx, order.ID, completed.Data); err != orders.ErrOrderCompleted {
		t.Fatalf("expected ErrOrderCompleted, got %v", err)
	}
	withFiles, err := service.SetInsuranceFiles(ctx, order.ID, []orders.Attachment{{Name: "policy.pdf", Size: 2048, Type: "application/pdf"}})
	if err != nil {
		t.Fatalf("set insurance: %v", err)
	}
	if len(withFiles.InsuranceFiles) != 1 {
		t.Fatalf("insurance files = %+v", withFiles.InsuranceFiles)
	}
}

func TestMutate_UnknownOrder(t *testing.T) {
	service, _ := newService(t)
	if _, err := service.Complete(context.Background(), "SO-MISSING"); err != orders.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
