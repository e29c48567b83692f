// Package statement holds the monthly statement aggregate: a period-scoped
// snapshot of shift orders rolled into a single billable document with a
// forward-only approval workflow.
package statement

import (
	"time"
)

// Status is the approval state of a statement.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusInvoiced  Status = "invoiced"
	StatusPaid      Status = "paid"
)

// NormalizeStatus validates a status string.
func NormalizeStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusDraft, StatusConfirmed, StatusInvoiced, StatusPaid:
		return Status(value), true
	default:
		return "", false
	}
}

// Next returns the successor status, or false for paid (terminal).
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusDraft:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusInvoiced, true
	case StatusInvoiced:
		return StatusPaid, true
	default:
		return "", false
	}
}

// Totals are the aggregated amounts across the orders in scope.
type Totals struct {
	Estimated int64 `json:"estimated"`
	Actual    int64 `json:"actual"`
}

// MonthlyStatement is the persisted statement record, one per
// (agency company, period). The order scope is snapshotted at generation;
// orders created later in the same period join only on regeneration.
type MonthlyStatement struct {
	ID              string    `json:"id"`
	AgencyCompanyID string    `json:"agencyCompanyId"`
	Period          string    `json:"period"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Status          Status    `json:"status"`
	OrderIDs        []string  `json:"orderIds"`
	Totals          Totals    `json:"totals"`
	Notes           string    `json:"notes,omitempty"`
	Version         int       `json:"version"`
}

// AdvanceTo moves the statement one step forward. Transitions are strictly
// linear; nothing moves backward and nothing skips a step. The caller is
// responsible for the receipts-complete gate.
func (s *MonthlyStatement) AdvanceTo(next Status, now time.Time) error {
	successor, ok := s.Status.Next()
	if !ok || next != successor {
		return ErrInvalidTransition
	}
	s.Status = next
	s.UpdatedAt = now
	return nil
}

// PeriodOf derives the "YYYY-MM" billing period from an order's creation
// timestamp, in the timestamp's own location.
func PeriodOf(t time.Time) string {
	return t.Format("2006-01")
}

// ValidPeriod reports whether period is a well-formed "YYYY-MM" key.
func ValidPeriod(period string) bool {
	_, err := time.Parse("2006-01", period)
	return err == nil
}

// Clone returns a detached copy of the statement.
func (s *MonthlyStatement) Clone() *MonthlyStatement {
	if s == nil {
		return nil
	}
	clone := *s
	clone.OrderIDs = append([]string(nil), s.OrderIDs...)
	return &clone
}
