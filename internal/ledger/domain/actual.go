// Package ledger holds the post-service actual costs recorded against a
// completed shift order: receipt-backed money lines plus free-form
// execution facts. One record per order, overwritten on every save.
package ledger

import (
	"math"
	"time"

	orders "dockday/internal/orders/domain"
)

// MoneyLine is one recorded cost with its proof-of-cost attachments.
// Amounts may be negative (refunds); zero-amount lines are dropped on save.
type MoneyLine struct {
	Key         string              `json:"key"`
	Label       string              `json:"label"`
	Amount      float64             `json:"amount"`
	Attachments []orders.Attachment `json:"attachments"`
}

// VehicleDetails are execution facts about the transport leg.
type VehicleDetails struct {
	Seats      string `json:"seats,omitempty"`
	Kilometers string `json:"kilometers,omitempty"`
	Hours      string `json:"hours,omitempty"`
}

// HotelDetails are execution facts about the hotel stay.
type HotelDetails struct {
	Name            string              `json:"name,omitempty"`
	RoomType        string              `json:"roomType,omitempty"`
	Nights          string              `json:"nights,omitempty"`
	RackRate        string              `json:"rackRate,omitempty"`
	RackAttachments []orders.Attachment `json:"rackAttachments,omitempty"`
}

// MealDetails are execution facts about crew meals.
type MealDetails struct {
	Restaurant  string              `json:"restaurant,omitempty"`
	Count       string              `json:"count,omitempty"`
	Price       string              `json:"price,omitempty"`
	Attachments []orders.Attachment `json:"attachments,omitempty"`
}

// ActualDetails bundles the optional per-category execution facts. The
// ledger does not require any of them; callers validate presence where
// their workflow needs it.
type ActualDetails struct {
	Vehicle        *VehicleDetails     `json:"vehicle,omitempty"`
	Hotel          *HotelDetails       `json:"hotel,omitempty"`
	Meal           *MealDetails        `json:"meal,omitempty"`
	InsuranceFiles []orders.Attachment `json:"insuranceAttachments,omitempty"`
}

// OrderActualCost is the persisted ledger record for one order.
type OrderActualCost struct {
	OrderID   string        `json:"orderId"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Lines     []MoneyLine   `json:"lines"`
	Total     int64         `json:"total"`
	Notes     string        `json:"notes,omitempty"`
	Details   ActualDetails `json:"details"`
}

// NormalizeLines drops zero-amount lines and guarantees a non-nil
// attachment slice on each survivor.
func NormalizeLines(lines []MoneyLine) []MoneyLine {
	normalized := make([]MoneyLine, 0, len(lines))
	for _, line := range lines {
		if line.Amount == 0 {
			continue
		}
		if line.Attachments == nil {
			line.Attachments = []orders.Attachment{}
		}
		normalized = append(normalized, line)
	}
	return normalized
}

// TotalOf recomputes the record total from its lines: rounded to whole
// currency units and floored at zero. The total is never stored
// independently of the lines.
func TotalOf(lines []MoneyLine) int64 {
	var sum float64
	for _, line := range lines {
		sum += line.Amount
	}
	total := int64(math.Round(sum))
	if total < 0 {
		return 0
	}
	return total
}

// ReceiptsComplete reports whether every nonzero line carries at least one
// attachment. Zero-amount lines are exempt, consistent with being dropped
// on save. An empty line set is vacuously complete.
func ReceiptsComplete(lines []MoneyLine) bool {
	for _, line := range lines {
		if line.Amount == 0 {
			continue
		}
		if len(line.Attachments) == 0 {
			return false
		}
	}
	return true
}

// New builds a normalized ledger record for an order.
func New(orderID string, lines []MoneyLine, notes string, details ActualDetails, now time.Time) OrderActualCost {
	normalized := NormalizeLines(lines)
	return OrderActualCost{
		OrderID:   orderID,
		UpdatedAt: now,
		Lines:     normalized,
		Total:     TotalOf(normalized),
		Notes:     notes,
		Details:   details,
	}
}

// ReceiptsComplete reports the record-level receipts gate.
func (a OrderActualCost) ReceiptsComplete() bool {
	return ReceiptsComplete(a.Lines)
}
