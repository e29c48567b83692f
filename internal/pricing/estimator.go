// Package pricing computes the pre-check cost estimate for a shift order.
// The estimate is pure: the same input always yields the same quote, which
// is snapshotted onto the order at submission and never recomputed.
package pricing

import (
	"fmt"

	"dockday/internal/agency"
)

// Per-order estimate constants, in whole USD.
const (
	baseServiceFee   = 80  // admin / handling per order
	perCarFee        = 120 // transfer / dispatch per car
	pickupFee        = 60  // pickup coordination when a transfer type is set
	hotelPerNightFee = 140 // hotel budget per night
	mealStandardFee  = 25  // meal budget per person, standard plan
	mealPremiumFee   = 45  // meal budget per person, premium plan
)

// MealPlan selects the per-person meal budget.
type MealPlan string

const (
	MealPlanStandard MealPlan = "standard"
	MealPlanPremium  MealPlan = "premium"
)

// TransferType is where the crew is picked up or dropped off.
type TransferType string

const (
	TransferAirport TransferType = "airport"
	TransferPort    TransferType = "port"
)

// EstimateInput are the draft parameters the quote is derived from.
type EstimateInput struct {
	GroupSize    int          `json:"groupSize"`
	CarCount     int          `json:"carCount"`
	NeedHotel    bool         `json:"needHotel"`
	HotelNights  int          `json:"hotelNights"`
	NeedMeal     bool         `json:"needMeal"`
	MealPlan     MealPlan     `json:"mealPlan"`
	MealCount    int          `json:"mealCount"`
	TransferType TransferType `json:"transferType"`
}

// EstimateLine is one itemized amount within a quote.
type EstimateLine struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Quote is an itemized cost estimate in a fixed currency.
type Quote struct {
	Currency agency.Currency `json:"currency"`
	Total    int64           `json:"total"`
	Lines    []EstimateLine  `json:"lines"`
}

// Estimate maps draft parameters to an itemized quote. Lines with a zero
// amount are omitted; the total is floored at zero.
func Estimate(input EstimateInput) Quote {
	carCount := input.CarCount
	if carCount < 1 {
		carCount = 1
	}

	hotelNights := 0
	if input.NeedHotel {
		hotelNights = input.HotelNights
		if hotelNights < 1 {
			hotelNights = 1
		}
	}

	mealCount := 0
	if input.NeedMeal {
		mealCount = input.MealCount
		if mealCount < 1 {
			mealCount = input.GroupSize
		}
		if mealCount < 1 {
			mealCount = 1
		}
	}

	mealPerPerson := int64(mealStandardFee)
	if input.MealPlan == MealPlanPremium {
		mealPerPerson = mealPremiumFee
	}

	lines := []EstimateLine{
		{
			Key:    "car",
			Label:  fmt.Sprintf("Transport & dispatch (incl. service) ×%d", carCount),
			Amount: baseServiceFee + perCarFee*int64(carCount),
		},
	}
	if input.TransferType != "" {
		lines = append(lines, EstimateLine{Key: "pickup", Label: "Pickup coordination", Amount: pickupFee})
	}
	if hotelNights > 0 {
		lines = append(lines, EstimateLine{
			Key:    "hotel",
			Label:  fmt.Sprintf("Hotel budget · %d night(s)", hotelNights),
			Amount: hotelPerNightFee * int64(hotelNights),
		})
	}
	if mealCount > 0 {
		lines = append(lines, EstimateLine{
			Key:    "meal",
			Label:  fmt.Sprintf("Meal budget · %d person(s)", mealCount),
			Amount: mealPerPerson * int64(mealCount),
		})
	}

	var total int64
	for _, line := range lines {
		total += line.Amount
	}
	if total < 0 {
		total = 0
	}
	return Quote{Currency: agency.CurrencyUSD, Total: total, Lines: lines}
}

// EstimateAmount returns only the quote total.
func EstimateAmount(input EstimateInput) int64 {
	return Estimate(input).Total
}
