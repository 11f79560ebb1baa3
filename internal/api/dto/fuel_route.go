package dto

import "encoding/json"

// Coordinates are pointers so a missing field can be told apart from 0.
type FuelRouteRequest struct {
	StartLat *float64 `json:"start_lat"`
	StartLon *float64 `json:"start_lon"`
	EndLat   *float64 `json:"end_lat"`
	EndLon   *float64 `json:"end_lon"`
}

// Decimal amounts are encoded as fixed-digit strings.
type FuelStopResponse struct {
	TruckstopID   int64   `json:"truckstop_id"`
	TruckstopName string  `json:"truckstop_name"`
	RetailPrice   string  `json:"retail_price"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	GallonsBought string  `json:"gallons_bought"`
}

type FuelRouteResponse struct {
	TotalCost            string             `json:"total_cost"`
	TotalDistanceMeters  float64            `json:"total_distance_meters"`
	TotalDurationSeconds float64            `json:"total_duration_seconds"`
	FuelStops            []FuelStopResponse `json:"fuel_stops"`
	MapData              json.RawMessage    `json:"map_data"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
