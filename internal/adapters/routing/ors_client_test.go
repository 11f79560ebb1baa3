package routing

import (
	"context"
	"encoding/json"
	"fuel-route-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directionsBody = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {
      "segments": [
        {"distance": 1500.5, "duration": 90, "steps": [
          {"distance": 1000.5, "duration": 60, "instruction": "Head north"},
          {"distance": 500, "duration": 30, "instruction": "Turn right"}
        ]},
        {"distance": 250, "duration": 20, "steps": [
          {"distance": 250, "duration": 20, "instruction": "Arrive"}
        ]}
      ],
      "summary": {"distance": 1750.5, "duration": 110}
    },
    "geometry": {"type": "LineString", "coordinates": [[-97.74, 30.26], [-97.70, 30.30]]}
  }]
}`

var (
	austin = domain.Coordinates{Lon: -97.7431, Lat: 30.2672}
	dallas = domain.Coordinates{Lon: -96.7970, Lat: 32.7767}
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ORSClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewORSClient("test-key", WithBaseURL(srv.URL), WithProfile("driving-hgv"))
	require.NoError(t, err)
	return client
}

func TestNewORSClientRequiresKey(t *testing.T) {
	_, err := NewORSClient("")
	assert.Error(t, err)
}

func TestORSClientGetRoute(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-hgv/geojson", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var body directionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{austin.CoordsToList(), dallas.CoordsToList()}, body.Coordinates)

		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(directionsBody))
	})

	route, err := client.GetRoute(context.Background(), austin, dallas)
	require.NoError(t, err)

	require.Len(t, route.Legs, 3)
	assert.Equal(t, 1000.5, route.Legs[0].DistanceMeters)
	assert.Equal(t, "Turn right", route.Legs[1].Instruction)
	assert.Equal(t, 250.0, route.Legs[2].DistanceMeters)
	assert.Equal(t, 1750.5, route.TotalDistanceMeters)
	assert.Equal(t, 110.0, route.TotalDurationSeconds)
	assert.JSONEq(t, `{"type": "LineString", "coordinates": [[-97.74, 30.26], [-97.70, 30.30]]}`, string(route.Geometry))
}

func TestORSClientGetRouteRetriesTransientFailures(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(directionsBody))
	})

	route, err := client.GetRoute(context.Background(), austin, dallas)
	require.NoError(t, err)
	assert.Len(t, route.Legs, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestORSClientGetRouteFailsExplicitly(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{
			name:      "no routable point",
			status:    http.StatusNotFound,
			body:      `{"error":{"code":2010,"message":"Could not find routable point"}}`,
			wantCalls: 1,
		},
		{
			name:      "empty feature collection",
			status:    http.StatusOK,
			body:      `{"type":"FeatureCollection","features":[]}`,
			wantCalls: 1,
		},
		{
			name:      "malformed body",
			status:    http.StatusOK,
			body:      `not json`,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			route, err := client.GetRoute(context.Background(), austin, dallas)
			assert.Error(t, err)
			assert.Nil(t, route)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestORSClientGetRouteHonoursCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directionsBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetRoute(ctx, austin, dallas)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestORSClientGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))

		if r.URL.Query().Get("text") == "PETRO STOPPING CENTER #306" {
			w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-97.70,30.30]}}]}`))
			return
		}
		w.Write([]byte(`{"features":[]}`))
	})

	coords, ok, err := client.Geocode(context.Background(), "  PETRO   STOPPING CENTER #306 ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.Coordinates{Lon: -97.70, Lat: 30.30}, coords)

	_, ok, err = client.Geocode(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = client.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}
