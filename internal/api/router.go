package api

import (
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(provider ports.RouteProvider, finder ports.FuelStopFinder, vehicle domain.Vehicle) http.Handler {
	router := mux.NewRouter()

	fuelHandler := &handlers.FuelRouteHandler{
		Provider: provider,
		Finder:   finder,
		Vehicle:  vehicle,
	}

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/fuel-stops/", fuelHandler.Plan).Methods(http.MethodPost)
	router.HandleFunc("/api/fuel-stops", fuelHandler.Plan).Methods(http.MethodPost)

	router.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	return requestIDMiddleware(loggingMiddleware(router))
}
