package orders

import (
	"testing"
	"time"

	"dockday/internal/agency"
	"dockday/internal/pricing"
)

func verifiedDraft() Draft {
	return Draft{
		AgentVerified:     true,
		AgentContactType:  agency.ContactPhone,
		AgentContactValue: "+8613800138000",
		AgencyCompanyID:   "agency-demo",
		BillingAccountID:  "acct-usd-30",
		Data: OrderData{
			GroupSize:    2,
			CarCount:     1,
			TransferType: pricing.TransferAirport,
		},
	}
}

func newTestOrder(t *testing.T) *ShiftOrder {
	t.Helper()
	draft := verifiedDraft()
	order, err := NewShiftOrder("SO-TEST1", draft, pricing.Estimate(draft.Data.EstimateInput()), time.Now())
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return order
}

func completeDriver() Driver {
	return Driver{Name: "Li Wei", Phone: "13900000001", Plate: "沪A12345", Seats: "7"}
}

func TestNewShiftOrder_RequiresVerification(t *testing.T) {
	draft := verifiedDraft()
	draft.AgentVerified = false
	if _, err := NewShiftOrder("SO-X", draft, pricing.Quote{}, time.Now()); err != ErrDraftNotVerified {
		t.Fatalf("expected ErrDraftNotVerified, got %v", err)
	}

	draft = verifiedDraft()
	draft.AgentContactValue = "  "
	if _, err := NewShiftOrder("SO-X", draft, pricing.Quote{}, time.Now()); err != ErrDraftContactMissing {
		t.Fatalf("expected ErrDraftContactMissing, got %v", err)
	}
}

func TestNewShiftOrder_SnapshotsQuote(t *testing.T) {
	order := newTestOrder(t)
	if order.Status != StatusReview {
		t.Fatalf("status = %q", order.Status)
	}
	if order.AgentKey != "phone:13800138000" {
		t.Fatalf("agent key = %q", order.AgentKey)
	}
	if order.EstimatedAmount != 540 {
		t.Fatalf("estimated amount = %d", order.EstimatedAmount)
	}
	if len(order.EstimateLines) != 3 {
		t.Fatalf("estimate lines = %+v", order.EstimateLines)
	}
}

func TestApprove_RequiresCompleteDriver(t *testing.T) {
	order := newTestOrder(t)
	driver := completeDriver()
	driver.Plate = ""
	if err := order.SetDriver(driver); err != nil {
		t.Fatalf("set driver: %v", err)
	}
	if err := order.Approve("ops-admin", time.Now()); err != ErrDriverIncomplete {
		t.Fatalf("expected ErrDriverIncomplete, got %v", err)
	}
	if order.Status != StatusReview {
		t.Fatalf("status changed on rejected approval: %q", order.Status)
	}
}

func TestApprove_StampsAudit(t *testing.T) {
	order := newTestOrder(t)
	if err := order.SetDriver(completeDriver()); err != nil {
		t.Fatalf("set driver: %v", err)
	}
	at := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
	if err := order.Approve("ops-admin", at); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if order.Status != StatusInService {
		t.Fatalf("status = %q", order.Status)
	}
	if order.Audit.ApprovedBy != "ops-admin" || !order.Audit.ApprovedAt.Equal(at) {
		t.Fatalf("audit = %+v", order.Audit)
	}
}

func TestStatusMachine_NoSkipNoBackward(t *testing.T) {
	order := newTestOrder(t)
	if err := order.MarkCompleted(); err != ErrInvalidTransition {
		t.Fatalf("review -> completed must be rejected, got %v", err)
	}

	_ = order.SetDriver(completeDriver())
	if err := order.Approve("ops-admin", time.Now()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := order.Approve("ops-admin", time.Now()); err != ErrInvalidTransition {
		t.Fatalf("double approve must be rejected, got %v", err)
	}
	if err := order.MarkCompleted(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := order.MarkCompleted(); err != ErrInvalidTransition {
		t.Fatalf("no transition leaves completed, got %v", err)
	}
}

func TestEditability_ByStatus(t *testing.T) {
	order := newTestOrder(t)

	data := order.Data
	data.Notes = "gate changed"
	if err := order.UpdateData(data); err != nil {
		t.Fatalf("update in review: %v", err)
	}

	_ = order.SetDriver(completeDriver())
	_ = order.Approve("ops-admin", time.Now())
	data.Notes = "second edit"
	if err := order.UpdateData(data); err != nil {
		t.Fatalf("update in service: %v", err)
	}

	_ = order.MarkCompleted()
	if err := order.UpdateData(data); err != ErrOrderCompleted {
		t.Fatalf("completed order must refuse edits, got %v", err)
	}
	if err := order.SetDriver(Driver{Name: "other"}); err != ErrOrderCompleted {
		t.Fatalf("completed order must freeze driver, got %v", err)
	}

	// Insurance attachments stay editable at any status.
	order.SetInsuranceFiles([]Attachment{{Name: "policy.pdf", Size: 1024, Type: "application/pdf"}})
	if len(order.InsuranceFiles) != 1 {
		t.Fatalf("insurance files = %+v", order.InsuranceFiles)
	}
}

func TestDriverComplete(t *testing.T) {
	if (Driver{Name: "a", Phone: "b", Plate: "c"}).Complete() {
		t.Fatal("driver without seats must be incomplete")
	}
	if (Driver{Name: " ", Phone: "b", Plate: "c", Seats: "4"}).Complete() {
		t.Fatal("whitespace name must be incomplete")
	}
	if !completeDriver().Complete() {
		t.Fatal("expected complete driver")
	}
}
