package api

import (
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	origin := domain.Coordinates{Lon: -97.7431, Lat: 30.2672}
	dest := domain.Coordinates{Lon: -96.797, Lat: 32.7767}
	provider := routing.NewStaticRouteProvider().Add(origin, dest, 1000)
	return NewRouter(provider, repositories.NewMemoryFuelStopStore(), domain.NewVehicle(500, 10))
}

func TestRouterHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRouterKeepsInboundRequestID(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
}

func TestRouterFuelStops(t *testing.T) {
	body := `{"start_lat":30.2672,"start_lon":-97.7431,"end_lat":32.7767,"end_lon":-96.797}`

	for _, path := range []string{"/api/fuel-stops/", "/api/fuel-stops"} {
		rec := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"total_cost":"0.00"`)
	}
}

func TestRouterMethodAndPathErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fuel-stops/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
