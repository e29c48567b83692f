// Package orders holds the shift order aggregate: a transport/logistics
// request an agent submits for a crew changeover, advanced by operations
// staff through review, service and completion.
package orders

import (
	"strings"
	"time"

	"dockday/internal/agency"
	"dockday/internal/pricing"
)

// Status is the operational state of a shift order.
type Status string

const (
	StatusReview    Status = "review"
	StatusInService Status = "in_service"
	StatusCompleted Status = "completed"
)

// Attachment is file metadata only; binary content lives in an external
// blob store and is out of scope here.
type Attachment struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	LastModified int64  `json:"lastModified"`
}

// Driver is the assignment recorded before an order enters service.
type Driver struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Plate       string `json:"plate,omitempty"`
	Seats       string `json:"seats,omitempty"`
	VehicleType string `json:"vehicleType,omitempty"`
}

// Complete reports whether the driver record satisfies the approval gate:
// name, phone, plate and seat count must all be present.
func (d Driver) Complete() bool {
	return strings.TrimSpace(d.Name) != "" &&
		strings.TrimSpace(d.Phone) != "" &&
		strings.TrimSpace(d.Plate) != "" &&
		strings.TrimSpace(d.Seats) != ""
}

// Audit records who approved the transition into service and when.
type Audit struct {
	ApprovedBy string    `json:"approvedBy,omitempty"`
	ApprovedAt time.Time `json:"approvedAt"`
}

// OrderData is the business content of the order, captured from the draft
// at submission. It is immutable once the order completes.
type OrderData struct {
	GroupSize          int                  `json:"groupSize"`
	CarCount           int                  `json:"carCount"`
	TransferType       pricing.TransferType `json:"transferType,omitempty"`
	TransferDateTime   string               `json:"transferDateTime,omitempty"`
	AirportFlightNo    string               `json:"airportFlightNumber,omitempty"`
	PortVesselName     string               `json:"portVesselName,omitempty"`
	PortVesselNumber   string               `json:"portVesselNumber,omitempty"`
	CrewNationalities  []string             `json:"crewNationalities,omitempty"`
	ContactName        string               `json:"contactName,omitempty"`
	ContactPhone       string               `json:"contactPhone,omitempty"`
	PickupPoint        string               `json:"pickupPoint,omitempty"`
	PickupIdentifier   string               `json:"pickupIdentifier,omitempty"`
	PickupTerminal     string               `json:"pickupTerminal,omitempty"`
	PickupGate         string               `json:"pickupGate,omitempty"`
	Destination        string               `json:"destination,omitempty"`
	DestinationType    string               `json:"destinationType,omitempty"`
	LuggageNotes       string               `json:"luggageNotes,omitempty"`
	SpecialRequests    string               `json:"specialRequests,omitempty"`
	NeedHotel          bool                 `json:"needHotel,omitempty"`
	HotelName          string               `json:"hotelName,omitempty"`
	HotelNights        int                  `json:"hotelNights,omitempty"`
	NeedMeal           bool                 `json:"needMeal,omitempty"`
	MealPlan           pricing.MealPlan     `json:"mealPlan,omitempty"`
	MealCount          int                  `json:"mealCount,omitempty"`
	Notes              string               `json:"notes,omitempty"`
}

// EstimateInput derives the quote parameters from the order data.
func (d OrderData) EstimateInput() pricing.EstimateInput {
	return pricing.EstimateInput{
		GroupSize:    d.GroupSize,
		CarCount:     d.CarCount,
		NeedHotel:    d.NeedHotel,
		HotelNights:  d.HotelNights,
		NeedMeal:     d.NeedMeal,
		MealPlan:     d.MealPlan,
		MealCount:    d.MealCount,
		TransferType: d.TransferType,
	}
}

// Draft is the booking draft a shift order is created from. The consumer
// wizard builds it; this subsystem only consumes it.
type Draft struct {
	AgentVerified     bool                 `json:"agentVerified"`
	AgentContactType  agency.ContactMethod `json:"agentContactType"`
	AgentContactValue string               `json:"agentContactValue"`
	AgencyCompanyID   string               `json:"agencyCompanyId,omitempty"`
	BillingAccountID  string               `json:"billingAccountId,omitempty"`
	Data              OrderData            `json:"data"`
}

// ShiftOrder is the persisted order record. It is replaced whole on every
// update; the storage layer never patches fields.
type ShiftOrder struct {
	ID                string                 `json:"id"`
	CreatedAt         time.Time              `json:"createdAt"`
	AgentKey          string                 `json:"agentKey"`
	AgentContactType  agency.ContactMethod   `json:"agentContactType"`
	AgentContactValue string                 `json:"agentContactValue"`
	AgencyCompanyID   string                 `json:"agencyCompanyId,omitempty"`
	BillingAccountID  string                 `json:"billingAccountId,omitempty"`
	EstimatedAmount   int64                  `json:"estimatedAmount"`
	EstimateLines     []pricing.EstimateLine `json:"estimateLines,omitempty"`
	Status            Status                 `json:"status"`
	Driver            Driver                 `json:"driver"`
	InsuranceFiles    []Attachment           `json:"insuranceAttachments,omitempty"`
	Audit             Audit                  `json:"audit"`
	Data              OrderData              `json:"data"`
	Version           int                    `json:"version"`
}

// NewShiftOrder creates an order from a verified draft with the quote
// snapshot taken at submission. An unverified draft or a missing contact
// yields an error and no order.
func NewShiftOrder(id string, draft Draft, quote pricing.Quote, now time.Time) (*ShiftOrder, error) {
	if !draft.AgentVerified {
		return nil, ErrDraftNotVerified
	}
	if draft.AgentContactType == "" || strings.TrimSpace(draft.AgentContactValue) == "" {
		return nil, ErrDraftContactMissing
	}

	data := draft.Data
	if data.GroupSize < 1 {
		data.GroupSize = 1
	}
	if data.CarCount < 1 {
		data.CarCount = 1
	}

	return &ShiftOrder{
		ID:                id,
		CreatedAt:         now,
		AgentKey:          agency.AgentKey(draft.AgentContactType, draft.AgentContactValue),
		AgentContactType:  draft.AgentContactType,
		AgentContactValue: draft.AgentContactValue,
		AgencyCompanyID:   draft.AgencyCompanyID,
		BillingAccountID:  draft.BillingAccountID,
		EstimatedAmount:   quote.Total,
		EstimateLines:     quote.Lines,
		Status:            StatusReview,
		Data:              data,
	}, nil
}

// Approve moves the order from review into service. The driver record must
// be complete; the approving identity is stamped into the audit field.
func (o *ShiftOrder) Approve(approvedBy string, now time.Time) error {
	if o.Status != StatusReview {
		return ErrInvalidTransition
	}
	if !o.Driver.Complete() {
		return ErrDriverIncomplete
	}
	o.Status = StatusInService
	o.Audit = Audit{ApprovedBy: approvedBy, ApprovedAt: now}
	return nil
}

// MarkCompleted moves the order from in_service to completed. There is no
// path out of completed.
func (o *ShiftOrder) MarkCompleted() error {
	if o.Status != StatusInService {
		return ErrInvalidTransition
	}
	o.Status = StatusCompleted
	return nil
}

// UpdateData replaces the business content. Completed orders are immutable.
func (o *ShiftOrder) UpdateData(data OrderData) error {
	if o.Status == StatusCompleted {
		return ErrOrderCompleted
	}
	o.Data = data
	return nil
}

// SetDriver replaces the driver assignment. The driver record freezes once
// the order completes.
func (o *ShiftOrder) SetDriver(driver Driver) error {
	if o.Status == StatusCompleted {
		return ErrOrderCompleted
	}
	o.Driver = driver
	return nil
}

// SetInsuranceFiles replaces the insurance attachment metadata. Allowed at
// any status.
func (o *ShiftOrder) SetInsuranceFiles(files []Attachment) {
	o.InsuranceFiles = files
}

// Clone returns a detached copy of the order.
func (o *ShiftOrder) Clone() *ShiftOrder {
	if o == nil {
		return nil
	}
	clone := *o
	clone.EstimateLines = append([]pricing.EstimateLine(nil), o.EstimateLines...)
	clone.InsuranceFiles = append([]Attachment(nil), o.InsuranceFiles...)
	clone.Data.CrewNationalities = append([]string(nil), o.Data.CrewNationalities...)
	return &clone
}
