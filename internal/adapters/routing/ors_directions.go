package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"net/http"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Units        string      `json:"units"`
}

type directionsResponse struct {
	Features []struct {
		Geometry   json.RawMessage `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Steps []struct {
					Distance    float64 `json:"distance"`
					Duration    float64 `json:"duration"`
					Instruction string  `json:"instruction"`
				} `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoute fetches a driving route using the ORS directions endpoint
// (/v2/directions/{profile}/geojson). Every step of every segment becomes one leg.
func (o *ORSClient) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  [][]float64{origin.CoordsToList(), destination.CoordsToList()},
		Instructions: true,
		Units:        "m",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return nil, errors.New("directions response contains no route")
	}
	feature := dr.Features[0]

	legs := make([]domain.RouteLeg, 0, 64)
	for _, seg := range feature.Properties.Segments {
		for _, step := range seg.Steps {
			if step.Distance < 0 {
				return nil, fmt.Errorf("directions response has negative step distance %v", step.Distance)
			}
			legs = append(legs, domain.RouteLeg{
				DistanceMeters:  step.Distance,
				DurationSeconds: step.Duration,
				Instruction:     step.Instruction,
			})
		}
	}

	return &domain.Route{
		Legs:                 legs,
		TotalDistanceMeters:  feature.Properties.Summary.Distance,
		TotalDurationSeconds: feature.Properties.Summary.Duration,
		Geometry:             feature.Geometry,
	}, nil
}
