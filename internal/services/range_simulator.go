package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"math"

	"github.com/shopspring/decimal"
)

// RangeSimulator walks a route leg by leg, tracking remaining range, and
// commits a refuel at the cheapest nearby stop whenever the next leg cannot
// be covered.
//
// The decision is greedy: it only looks at the immediate next leg, always
// fills back to full range, and never revisits an earlier stop.
// A RangeSimulator holds no per-run state and is safe for concurrent use.
type RangeSimulator struct {
	Finder       ports.FuelStopFinder
	RadiusMeters float64

	// OnLeg, when set, is called after each leg with the remaining range.
	OnLeg func(legIndex int, remainingMeters float64)
}

func NewRangeSimulator(finder ports.FuelStopFinder) *RangeSimulator {
	return &RangeSimulator{
		Finder:       finder,
		RadiusMeters: domain.SearchRadiusMeters,
	}
}

// simulationState is owned by a single Run call.
type simulationState struct {
	position  domain.Coordinates
	remaining float64
	totalCost decimal.Decimal
	events    []domain.RefuelEvent
}

// Run simulates the trip from start over legs and returns the refuel plan.
// On any failure no partial plan is returned.
func (s *RangeSimulator) Run(
	ctx context.Context,
	start domain.Coordinates,
	legs []domain.RouteLeg,
	vehicle domain.Vehicle,
) (_ *domain.FuelPlan, err error) {
	defer obs.Time(ctx, "simulator.Run")(&err)

	if s.Finder == nil {
		return nil, errors.New("simulate range: finder is nil")
	}
	if err := vehicle.Validate(); err != nil {
		return nil, fmt.Errorf("simulate range: %w", err)
	}
	radius := s.RadiusMeters
	if !(radius > 0) {
		return nil, fmt.Errorf("simulate range: %w: search radius must be > 0", domain.ErrInvalidParameters)
	}
	for i, leg := range legs {
		if leg.DistanceMeters < 0 || math.IsNaN(leg.DistanceMeters) {
			return nil, fmt.Errorf("simulate range: %w: leg %d has distance %v", domain.ErrInvalidParameters, i, leg.DistanceMeters)
		}
	}

	st := simulationState{
		position:  start,
		remaining: vehicle.RangeMeters,
		totalCost: decimal.Zero,
		events:    []domain.RefuelEvent{},
	}

	for i, leg := range legs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulate range: leg %d: %w", i, err)
		}

		if st.remaining < leg.DistanceMeters {
			if err := s.refuel(ctx, &st, vehicle); err != nil {
				return nil, fmt.Errorf("simulate range: leg %d: %w", i, err)
			}
		}

		st.remaining -= leg.DistanceMeters
		// A single leg longer than a full tank is still driven; the range
		// bottoms out at empty instead of going negative.
		if st.remaining < 0 {
			st.remaining = 0
		}

		if s.OnLeg != nil {
			s.OnLeg(i, st.remaining)
		}
	}

	return &domain.FuelPlan{
		Events:    st.events,
		TotalCost: st.totalCost,
	}, nil
}

// refuel buys fuel at the cheapest stop around the current position
// and resets the range to full.
func (s *RangeSimulator) refuel(ctx context.Context, st *simulationState, vehicle domain.Vehicle) error {
	stop, err := s.Finder.FindCheapest(ctx, st.position, s.RadiusMeters)
	if err != nil {
		return fmt.Errorf("find cheapest stop near (%f, %f): %w",
			st.position.Lon, st.position.Lat, domain.Upstream("fuel stop store", err))
	}
	if stop == nil {
		return fmt.Errorf("near (%f, %f): %w", st.position.Lon, st.position.Lat, domain.ErrUnreachableStop)
	}

	gallons := GallonsFor(st.remaining, vehicle.MetersPerGallon)

	event := domain.RefuelEvent{
		StopID:   stop.ID,
		StopName: stop.Name,
		Price:    stop.Price,
		Location: stop.Location,
		Gallons:  gallons,
	}
	st.totalCost = st.totalCost.Add(event.Cost())
	st.events = append(st.events, event)

	st.remaining = vehicle.RangeMeters
	st.position = stop.Location

	return nil
}

// GallonsFor converts a distance into fuel quantity, rounded half-up to
// three fractional digits.
func GallonsFor(meters, metersPerGallon float64) decimal.Decimal {
	return decimal.NewFromFloat(meters / metersPerGallon).Round(3)
}
