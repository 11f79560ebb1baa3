package domain

import "fmt"

// MetersPerMile is the conversion used for every mile-denominated input.
const MetersPerMile = 1609.34

// SearchRadiusMeters bounds the refuel candidate search around the current position.
const SearchRadiusMeters = 100 * MetersPerMile

// Vehicle describes the range and fuel economy used by a simulation run.
// Both values are distance-based in meters so that
// RangeMeters / MetersPerGallon is the tank size in gallons.
type Vehicle struct {
	RangeMeters     float64
	MetersPerGallon float64
}

// NewVehicle builds a Vehicle from a range in miles and an economy in miles per gallon.
func NewVehicle(rangeMiles, mpg float64) Vehicle {
	return Vehicle{
		RangeMeters:     rangeMiles * MetersPerMile,
		MetersPerGallon: mpg * MetersPerMile,
	}
}

func (v Vehicle) Validate() error {
	if !(v.RangeMeters > 0) {
		return fmt.Errorf("%w: vehicle range must be > 0, got %v", ErrInvalidParameters, v.RangeMeters)
	}
	if !(v.MetersPerGallon > 0) {
		return fmt.Errorf("%w: fuel economy must be > 0, got %v", ErrInvalidParameters, v.MetersPerGallon)
	}
	return nil
}
