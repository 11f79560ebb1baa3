package domain

import "github.com/shopspring/decimal"

// RefuelEvent records a committed purchase at a fuel stop.
// Price and gallons are captured at decision time and never change.
type RefuelEvent struct {
	StopID   int64
	StopName string
	Price    decimal.Decimal
	Location Coordinates
	Gallons  decimal.Decimal
}

// Cost is the amount paid at this stop, unrounded.
func (e RefuelEvent) Cost() decimal.Decimal { return e.Gallons.Mul(e.Price) }

// FuelPlan is the output of one simulation run.
// Events are in travel order. TotalCost is the exact sum of event costs;
// rounding to cents happens only when the plan is presented.
type FuelPlan struct {
	Events    []RefuelEvent
	TotalCost decimal.Decimal
}

// RoundedTotal returns the total cost rounded half-up to two fractional digits.
func (p FuelPlan) RoundedTotal() decimal.Decimal { return p.TotalCost.Round(2) }
