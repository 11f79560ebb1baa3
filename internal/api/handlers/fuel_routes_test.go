package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	austin = domain.Coordinates{Lon: -97.7431, Lat: 30.2672}
	dallas = domain.Coordinates{Lon: -96.7970, Lat: 32.7767}
)

const austinToDallas = `{"start_lat":30.2672,"start_lon":-97.7431,"end_lat":32.7767,"end_lon":-96.797}`

type errProvider struct{ err error }

func (p errProvider) GetRoute(context.Context, domain.Coordinates, domain.Coordinates) (*domain.Route, error) {
	return nil, p.err
}

func newHandler(miles ...float64) *FuelRouteHandler {
	meters := make([]float64, 0, len(miles))
	for _, m := range miles {
		meters = append(meters, m*domain.MetersPerMile)
	}
	return &FuelRouteHandler{
		Provider: routing.NewStaticRouteProvider().Add(austin, dallas, meters...),
		Finder: repositories.NewMemoryFuelStopStore(domain.FuelStop{
			ID:       16,
			Name:     "PILOT TRAVEL CENTER #1243",
			Price:    decimal.RequireFromString("3.100"),
			Location: domain.Coordinates{Lon: -97.0, Lat: 31.0},
		}),
		Vehicle: domain.NewVehicle(500, 10),
	}
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/fuel-stops/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestFuelRouteHandlerPlan(t *testing.T) {
	rec := post(newHandler(300, 300).Plan, austinToDallas)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res dto.FuelRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "62.00", res.TotalCost)
	require.Len(t, res.FuelStops, 1)
	assert.Equal(t, dto.FuelStopResponse{
		TruckstopID:   16,
		TruckstopName: "PILOT TRAVEL CENTER #1243",
		RetailPrice:   "3.100",
		Latitude:      31.0,
		Longitude:     -97.0,
		GallonsBought: "20.000",
	}, res.FuelStops[0])

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(res.MapData, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 1)
}

func TestFuelRouteHandlerNoRefuel(t *testing.T) {
	rec := post(newHandler(250, 250).Plan, austinToDallas)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.FuelRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "0.00", res.TotalCost)
	assert.NotNil(t, res.FuelStops)
	assert.Empty(t, res.FuelStops)
}

func TestFuelRouteHandlerValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
		msg    string
	}{
		{
			name:   "latitude out of range",
			body:   `{"start_lat":91,"start_lon":-97.7,"end_lat":32.7,"end_lon":-96.8}`,
			status: http.StatusBadRequest,
			field:  "start_lat",
			msg:    "start_lat must be between -90 and 90.",
		},
		{
			name:   "longitude out of range",
			body:   `{"start_lat":30,"start_lon":-97.7,"end_lat":32.7,"end_lon":-180.5}`,
			status: http.StatusBadRequest,
			field:  "end_lon",
			msg:    "end_lon must be between -180 and 180.",
		},
		{
			name:   "missing field",
			body:   `{"start_lat":30,"start_lon":-97.7,"end_lat":32.7}`,
			status: http.StatusBadRequest,
			field:  "end_lon",
			msg:    "This field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(newHandler(300).Plan, tt.body)
			require.Equal(t, tt.status, rec.Code)

			var res dto.ValidationErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tt.msg, res.Fields[tt.field])
		})
	}
}

func TestFuelRouteHandlerBadBody(t *testing.T) {
	for _, body := range []string{`{`, `{"start_lat":1,"extra":2}`, austinToDallas + austinToDallas} {
		rec := post(newHandler(300).Plan, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestFuelRouteHandlerErrorMapping(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		h := newHandler(600)
		h.Finder = repositories.NewMemoryFuelStopStore()

		rec := post(h.Plan, austinToDallas)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"error":"no fuel stop within range"}`, rec.Body.String())
	})

	t.Run("routing provider down", func(t *testing.T) {
		h := newHandler()
		h.Provider = errProvider{err: errors.New("ors: status=503")}

		rec := post(h.Plan, austinToDallas)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"routing service unavailable"}`, rec.Body.String())
	})

	t.Run("invalid vehicle", func(t *testing.T) {
		h := newHandler(300)
		h.Vehicle = domain.Vehicle{}

		rec := post(h.Plan, austinToDallas)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
