package domain

import "github.com/shopspring/decimal"

// FuelStop is a read-only catalog record: a truck stop, its location and
// the retail price per gallon (three fractional digits).
type FuelStop struct {
	ID       int64
	Name     string
	Address  string
	City     string
	State    string
	RackID   int64
	Price    decimal.Decimal
	Location Coordinates
}
