package repositories

import (
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/geo"
)

// candidate is a fuel stop together with its distance from the query point.
type candidate struct {
	stop     domain.FuelStop
	distance float64
}

// cheaper orders candidates by price, then distance, then ID so that every
// store returns the same stop for the same catalog.
func cheaper(a, b candidate) bool {
	if c := a.stop.Price.Cmp(b.stop.Price); c != 0 {
		return c < 0
	}
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.stop.ID < b.stop.ID
}

// pickCheapest returns the best stop within radius of position, or nil.
func pickCheapest(stops []domain.FuelStop, position domain.Coordinates, radiusMeters float64) *domain.FuelStop {
	var best *candidate
	for _, s := range stops {
		d := geo.Haversine(position, s.Location)
		if d > radiusMeters {
			continue
		}
		c := candidate{stop: s, distance: d}
		if best == nil || cheaper(c, *best) {
			best = &c
		}
	}

	if best == nil {
		return nil
	}
	stop := best.stop
	return &stop
}
