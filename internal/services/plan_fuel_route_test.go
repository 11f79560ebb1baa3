package services

import (
	"context"
	"encoding/json"
	"errors"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var destination = domain.Coordinates{Lon: -96.7970, Lat: 32.7767}

type routeFunc func(ctx context.Context, origin, dest domain.Coordinates) (*domain.Route, error)

func (f routeFunc) GetRoute(ctx context.Context, origin, dest domain.Coordinates) (*domain.Route, error) {
	return f(ctx, origin, dest)
}

func TestPlanFuelRoute(t *testing.T) {
	provider := routing.NewStaticRouteProvider().Add(start, destination, miles(300), miles(300))
	store := repositories.NewMemoryFuelStopStore(
		fuelStop(1, "3.500", domain.Coordinates{Lon: -97.5, Lat: 30.5}),
		fuelStop(2, "3.100", domain.Coordinates{Lon: -97.0, Lat: 31.0}),
	)

	res, err := PlanFuelRoute(context.Background(), PlanFuelRouteRequest{
		Origin:      start,
		Destination: destination,
		Vehicle:     domain.NewVehicle(500, 10),
	}, provider, store)
	require.NoError(t, err)

	// 300 mi driven, 200 mi left: 20 gal at the cheaper of the two nearby stops.
	require.Len(t, res.Plan.Events, 1)
	assert.Equal(t, int64(2), res.Plan.Events[0].StopID)
	assert.Equal(t, "20.000", res.Plan.Events[0].Gallons.StringFixed(3))
	assert.Equal(t, "62.00", res.Plan.RoundedTotal().StringFixed(2))

	// Static routes carry no geometry, so the map holds only the stop.
	require.Len(t, res.Map.Features, 1)
	assert.Equal(t, "fuel_stop", res.Map.Features[0].Properties["kind"])
	assert.JSONEq(t, `{"type":"Point","coordinates":[-97,31]}`, string(res.Map.Features[0].Geometry))
}

func TestPlanFuelRouteProviderFailureIsUpstream(t *testing.T) {
	provider := routeFunc(func(context.Context, domain.Coordinates, domain.Coordinates) (*domain.Route, error) {
		return nil, errors.New("HTTP 503")
	})

	_, err := PlanFuelRoute(context.Background(), PlanFuelRouteRequest{
		Origin: start, Destination: destination, Vehicle: domain.NewVehicle(500, 10),
	}, provider, repositories.NewMemoryFuelStopStore())

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "routing provider", ue.Source)
}

func TestPlanFuelRouteUnreachable(t *testing.T) {
	provider := routing.NewStaticRouteProvider().Add(start, destination, miles(600))

	res, err := PlanFuelRoute(context.Background(), PlanFuelRouteRequest{
		Origin: start, Destination: destination, Vehicle: domain.NewVehicle(500, 10),
	}, provider, repositories.NewMemoryFuelStopStore())

	assert.ErrorIs(t, err, domain.ErrUnreachableStop)
	assert.Nil(t, res)
}

func TestPlanFuelRouteInvalidCoordinates(t *testing.T) {
	provider := routeFunc(func(context.Context, domain.Coordinates, domain.Coordinates) (*domain.Route, error) {
		t.Fatal("provider must not be called")
		return nil, nil
	})

	_, err := PlanFuelRoute(context.Background(), PlanFuelRouteRequest{
		Origin: domain.Coordinates{Lon: 0, Lat: 91}, Destination: destination, Vehicle: domain.NewVehicle(500, 10),
	}, provider, repositories.NewMemoryFuelStopStore())

	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestBuildMapGeoJSON(t *testing.T) {
	route := &domain.Route{
		TotalDistanceMeters: 1200,
		Geometry:            json.RawMessage(`{"type":"LineString","coordinates":[[-97.7,30.2],[-97.0,31.0]]}`),
	}
	store := repositories.NewMemoryFuelStopStore(fuelStop(9, "3.25", domain.Coordinates{Lon: -97.0, Lat: 31.0}))
	plan, err := NewRangeSimulator(store).Run(context.Background(), start, legsOf(miles(400), miles(400)), domain.NewVehicle(500, 10))
	require.NoError(t, err)

	fc, err := BuildMapGeoJSON(route, plan)
	require.NoError(t, err)

	b, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type":"LineString","coordinates":[[-97.7,30.2],[-97.0,31.0]]},
				"properties": {"kind":"route","distance_meters":1200,"duration_seconds":0}
			},
			{
				"type": "Feature",
				"geometry": {"type":"Point","coordinates":[-97,31]},
				"properties": {
					"kind":"fuel_stop","sequence":1,"truckstop_id":9,"truckstop_name":"Stop",
					"retail_price":"3.250","gallons_bought":"10.000"
				}
			}
		]
	}`, string(b))
}

func TestBuildMapGeoJSONEmpty(t *testing.T) {
	fc, err := BuildMapGeoJSON(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Empty(t, fc.Features)
}
