package domain

import "encoding/json"

// RouteLeg is one segment of a route, measured in meters.
type RouteLeg struct {
	DistanceMeters  float64
	DurationSeconds float64
	Instruction     string
}

// Represents a driving route between two points as returned by a routing provider.
// Legs are ordered in travel order. Geometry is the provider's GeoJSON
// geometry and is passed through untouched for map rendering.
type Route struct {
	Legs                 []RouteLeg
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	Geometry             json.RawMessage
}
