// Package geo holds great-circle helpers used by the fuel stop stores.
package geo

import (
	"math"

	"fuel-route-service/internal/domain"
)

// EarthRadiusMeters is the IUGG mean earth radius.
const EarthRadiusMeters = 6371008.8

// Haversine returns the great-circle distance in meters between two points.
func Haversine(from, to domain.Coordinates) float64 {
	deltaLat := radians(to.Lat - from.Lat)
	deltaLon := radians(to.Lon - from.Lon)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radians(from.Lat))*math.Cos(radians(to.Lat))*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Bounds is a lat/lon rectangle.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether c lies inside the rectangle (edges included).
func (b Bounds) Contains(c domain.Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// BoundingBox returns a rectangle that contains every point within radiusMeters
// of center. It over-approximates the circle so it can be used as an index
// prefilter; callers still apply Haversine for the exact test.
// Near the poles or the antimeridian the longitude span widens to the full range.
func BoundingBox(center domain.Coordinates, radiusMeters float64) Bounds {
	angular := radiusMeters / EarthRadiusMeters
	dLat := angular * 180 / math.Pi

	b := Bounds{
		MinLat: math.Max(center.Lat-dLat, -90),
		MaxLat: math.Min(center.Lat+dLat, 90),
		MinLon: -180,
		MaxLon: 180,
	}

	if b.MinLat == -90 || b.MaxLat == 90 {
		return b
	}

	// asin(sin(r)/cos(lat)) is the widest longitude offset on the circle.
	s := math.Sin(angular) / math.Cos(radians(center.Lat))
	if s >= 1 {
		return b
	}
	dLon := math.Asin(s) * 180 / math.Pi

	minLon, maxLon := center.Lon-dLon, center.Lon+dLon
	if minLon < -180 || maxLon > 180 {
		return b
	}
	b.MinLon, b.MaxLon = minLon, maxLon
	return b
}
