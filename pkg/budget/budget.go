// Package budget estimates wedding service costs from event count, guest
// count and city. All monetary values are reported in lakhs (1 lakh =
// 100,000 INR).
package budget

import (
	"math"
	"strings"
)

// Base rates per guest, in INR.
const (
	decorRatePerHead       = 3000
	photographyRatePerHead = 1800
	cateringRatePerHead    = 500
)

// locationMultipliers adjusts per-head cost by city. Unknown cities get 1.0.
var locationMultipliers = map[string]float64{
	"mumbai":    1.3,
	"delhi":     1.2,
	"bangalore": 1.1,
	"hyderabad": 1.0,
	"goa":       1.1,
	"rajasthan": 1.0,
	"chennai":   1.0,
	"kolkata":   1.0,
	"pune":      1.0,
	"ahmedabad": 0.9,
}

// Breakdown is an itemized budget estimate. Values are in lakhs, rounded
// to two decimals. The inputs and multipliers that produced the estimate
// are carried along for logging and narration.
type Breakdown struct {
	DecorLakhs       float64 `json:"decor_budget_lakhs"`
	PhotographyLakhs float64 `json:"photography_budget_lakhs"`
	CateringLakhs    float64 `json:"catering_budget_lakhs"`
	TotalLakhs       float64 `json:"total_budget_lakhs"`

	Location           string  `json:"location"`
	NumberOfEvents     int     `json:"number_of_events"`
	NumberOfGuests     int     `json:"number_of_people"`
	LocationMultiplier float64 `json:"location_multiplier"`
	EventMultiplier    float64 `json:"event_multiplier"`
}

// Calculate produces a budget breakdown for the given event count, guest
// count and city. It is deterministic and side-effect free.
//
// Precondition: events >= 1 and guests >= 0. Inputs are not validated
// here; the caller owns bounds checking.
func Calculate(events, guests int, location string) Breakdown {
	multiplier := 1.0
	if m, ok := locationMultipliers[strings.ToLower(strings.TrimSpace(location))]; ok {
		multiplier = m
	}

	decor := float64(decorRatePerHead) * float64(guests) * multiplier
	photography := float64(photographyRatePerHead) * float64(guests) * multiplier
	catering := float64(cateringRatePerHead) * float64(guests) * multiplier

	// Each event beyond the first adds 25%, capped at +50%.
	eventMultiplier := math.Min(1.5, 1.0+0.25*float64(events-1))

	decor *= eventMultiplier
	photography *= eventMultiplier
	catering *= eventMultiplier

	return Breakdown{
		DecorLakhs:       toLakhs(decor),
		PhotographyLakhs: toLakhs(photography),
		CateringLakhs:    toLakhs(catering),
		TotalLakhs:       toLakhs(decor + photography + catering),

		Location:           location,
		NumberOfEvents:     events,
		NumberOfGuests:     guests,
		LocationMultiplier: multiplier,
		EventMultiplier:    eventMultiplier,
	}
}

func toLakhs(inr float64) float64 {
	return math.Round(inr/100000*100) / 100
}
