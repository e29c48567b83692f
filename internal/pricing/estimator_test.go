package pricing

import (
	"reflect"
	"testing"
)

func TestEstimate_AirportWithHotel(t *testing.T) {
	input := EstimateInput{
		GroupSize:    2,
		CarCount:     1,
		NeedHotel:    true,
		HotelNights:  2,
		TransferType: TransferAirport,
	}
	quote := Estimate(input)

	if quote.Total != 540 {
		t.Fatalf("total = %d, want 540", quote.Total)
	}
	if len(quote.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %+v", quote.Lines)
	}
	if quote.Lines[0].Key != "car" || quote.Lines[0].Amount != 200 {
		t.Fatalf("car line = %+v", quote.Lines[0])
	}
	if quote.Lines[1].Key != "pickup" || quote.Lines[1].Amount != 60 {
		t.Fatalf("pickup line = %+v", quote.Lines[1])
	}
	if quote.Lines[2].Key != "hotel" || quote.Lines[2].Amount != 280 {
		t.Fatalf("hotel line = %+v", quote.Lines[2])
	}
	if quote.Currency != "USD" {
		t.Fatalf("currency = %q", quote.Currency)
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	input := EstimateInput{
		GroupSize:    5,
		CarCount:     2,
		NeedHotel:    true,
		HotelNights:  3,
		NeedMeal:     true,
		MealPlan:     MealPlanPremium,
		TransferType: TransferPort,
	}
	first := Estimate(input)
	for i := 0; i < 10; i++ {
		if got := Estimate(input); !reflect.DeepEqual(got, first) {
			t.Fatalf("estimate diverged on call %d: %+v vs %+v", i, got, first)
		}
	}
}

func TestEstimate_Defaults(t *testing.T) {
	// Zero-value input: one implicit car, no transfer, no hotel, no meal.
	quote := Estimate(EstimateInput{})
	if quote.Total != 200 {
		t.Fatalf("total = %d, want 200", quote.Total)
	}
	if len(quote.Lines) != 1 || quote.Lines[0].Key != "car" {
		t.Fatalf("lines = %+v", quote.Lines)
	}
}

func TestEstimate_MealCountFallsBackToGroupSize(t *testing.T) {
	quote := Estimate(EstimateInput{GroupSize: 4, NeedMeal: true})
	var meal *EstimateLine
	for i := range quote.Lines {
		if quote.Lines[i].Key == "meal" {
			meal = &quote.Lines[i]
		}
	}
	if meal == nil {
		t.Fatalf("missing meal line: %+v", quote.Lines)
	}
	if meal.Amount != 4*25 {
		t.Fatalf("meal amount = %d, want 100", meal.Amount)
	}
}

func TestEstimate_PremiumMeal(t *testing.T) {
	quote := Estimate(EstimateInput{NeedMeal: true, MealCount: 3, MealPlan: MealPlanPremium})
	// car 200 + meal 3*45
	if quote.Total != 200+135 {
		t.Fatalf("total = %d", quote.Total)
	}
}

func TestEstimate_HotelNightsIgnoredWithoutNeedHotel(t *testing.T) {
	quote := Estimate(EstimateInput{HotelNights: 5})
	for _, line := range quote.Lines {
		if line.Key == "hotel" {
			t.Fatalf("unexpected hotel line: %+v", line)
		}
	}
}
