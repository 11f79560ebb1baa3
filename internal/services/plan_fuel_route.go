package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"log"
)

type PlanFuelRouteRequest struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	Vehicle     domain.Vehicle
}

// FuelRoutePlan is the presented result: the exact plan plus the route it
// was computed over and the map overlay.
type FuelRoutePlan struct {
	Plan  *domain.FuelPlan
	Route *domain.Route
	Map   FeatureCollection
}

// PlanFuelRoute fetches the driving route between the request endpoints and
// simulates refuelling along it. Routing failures surface as
// *domain.UpstreamError.
func PlanFuelRoute(
	ctx context.Context,
	req PlanFuelRouteRequest,
	provider ports.RouteProvider,
	finder ports.FuelStopFinder,
) (_ *FuelRoutePlan, err error) {
	defer obs.Time(ctx, "services.PlanFuelRoute")(&err)

	if provider == nil || finder == nil {
		return nil, errors.New("plan fuel route: provider and finder are required")
	}
	if err := req.Origin.Validate(); err != nil {
		return nil, fmt.Errorf("plan fuel route: origin: %w: %v", domain.ErrInvalidParameters, err)
	}
	if err := req.Destination.Validate(); err != nil {
		return nil, fmt.Errorf("plan fuel route: destination: %w: %v", domain.ErrInvalidParameters, err)
	}

	route, err := provider.GetRoute(ctx, req.Origin, req.Destination)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("plan fuel route: %w", ctx.Err())
	}
	if err != nil {
		return nil, fmt.Errorf("plan fuel route: %w", domain.Upstream("routing provider", err))
	}
	if route == nil {
		return nil, fmt.Errorf("plan fuel route: %w", domain.Upstream("routing provider", errors.New("empty route")))
	}

	plan, err := NewRangeSimulator(finder).Run(ctx, req.Origin, route.Legs, req.Vehicle)
	if err != nil {
		return nil, fmt.Errorf("plan fuel route: %w", err)
	}

	fc, err := BuildMapGeoJSON(route, plan)
	if err != nil {
		return nil, fmt.Errorf("plan fuel route: build map: %w", err)
	}

	log.Printf("plan fuel route legs=%d distance_m=%.0f stops=%d total_cost=%s",
		len(route.Legs), route.TotalDistanceMeters, len(plan.Events), plan.RoundedTotal().StringFixed(2))

	return &FuelRoutePlan{Plan: plan, Route: route, Map: fc}, nil
}
