package handlers

import (
	"encoding/json"
	"errors"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"io"
	"log"
	"net/http"
)

const maxBodyBytes = 1 << 20

type FuelRouteHandler struct {
	Provider ports.RouteProvider
	Finder   ports.FuelStopFinder
	Vehicle  domain.Vehicle
}

// Plan returns the cheapest refuelling plan for a trip between two points.
func (h *FuelRouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.FuelRouteRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	origin, destination, fields := validateFuelRouteRequest(req)
	if len(fields) > 0 {
		writeJSON(w, r, http.StatusBadRequest, dto.ValidationErrorResponse{
			Error:  "invalid coordinates",
			Fields: fields,
		})
		return
	}

	res, err := services.PlanFuelRoute(r.Context(), services.PlanFuelRouteRequest{
		Origin:      origin,
		Destination: destination,
		Vehicle:     h.Vehicle,
	}, h.Provider, h.Finder)
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	mapData, err := json.Marshal(res.Map)
	if err != nil {
		log.Printf("req_id=%s encode map failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := dto.FuelRouteResponse{
		TotalCost:            res.Plan.RoundedTotal().StringFixed(2),
		TotalDistanceMeters:  res.Route.TotalDistanceMeters,
		TotalDurationSeconds: res.Route.TotalDurationSeconds,
		FuelStops:            make([]dto.FuelStopResponse, 0, len(res.Plan.Events)),
		MapData:              mapData,
	}
	for _, ev := range res.Plan.Events {
		out.FuelStops = append(out.FuelStops, dto.FuelStopResponse{
			TruckstopID:   ev.StopID,
			TruckstopName: ev.StopName,
			RetailPrice:   ev.Price.StringFixed(3),
			Latitude:      ev.Location.Lat,
			Longitude:     ev.Location.Lon,
			GallonsBought: ev.Gallons.StringFixed(3),
		})
	}

	writeJSON(w, r, http.StatusOK, out)
}

func (h *FuelRouteHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := obs.RequestID(r.Context())

	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrUnreachableStop):
		writeError(w, r, http.StatusUnprocessableEntity, "no fuel stop within range")
	case errors.Is(err, domain.ErrInvalidParameters):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream):
		log.Printf("req_id=%s plan fuel route upstream failure: %v", reqID, err)
		writeError(w, r, http.StatusBadGateway, "routing service unavailable")
	default:
		log.Printf("req_id=%s plan fuel route failed: %v", reqID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func validateFuelRouteRequest(req dto.FuelRouteRequest) (origin, destination domain.Coordinates, fields map[string]string) {
	fields = map[string]string{}

	check := func(name string, v *float64, limit float64) float64 {
		if v == nil {
			fields[name] = "This field is required."
			return 0
		}
		if *v < -limit || *v > limit {
			if limit == 90 {
				fields[name] = name + " must be between -90 and 90."
			} else {
				fields[name] = name + " must be between -180 and 180."
			}
		}
		return *v
	}

	origin.Lat = check("start_lat", req.StartLat, 90)
	origin.Lon = check("start_lon", req.StartLon, 180)
	destination.Lat = check("end_lat", req.EndLat, 90)
	destination.Lon = check("end_lon", req.EndLon, 180)

	return origin, destination, fields
}
