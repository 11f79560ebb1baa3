package services

import (
	"encoding/json"
	"fuel-route-service/internal/domain"
)

// GeoJSON types for the map overlay returned with a fuel plan.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type pointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// BuildMapGeoJSON returns a FeatureCollection holding the route line (when
// the provider supplied one) followed by one Point per refuel stop, in
// travel order.
func BuildMapGeoJSON(route *domain.Route, plan *domain.FuelPlan) (FeatureCollection, error) {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}

	if route != nil && len(route.Geometry) > 0 {
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: route.Geometry,
			Properties: map[string]any{
				"kind":             "route",
				"distance_meters":  route.TotalDistanceMeters,
				"duration_seconds": route.TotalDurationSeconds,
			},
		})
	}

	if plan == nil {
		return fc, nil
	}

	for i, ev := range plan.Events {
		g, err := json.Marshal(pointGeometry{Type: "Point", Coordinates: ev.Location.CoordsToList()})
		if err != nil {
			return FeatureCollection{}, err
		}
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: g,
			Properties: map[string]any{
				"kind":           "fuel_stop",
				"sequence":       i + 1,
				"truckstop_id":   ev.StopID,
				"truckstop_name": ev.StopName,
				"retail_price":   ev.Price.StringFixed(3),
				"gallons_bought": ev.Gallons.StringFixed(3),
			},
		})
	}

	return fc, nil
}
