package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "fuel-route-service/1.0"
)

// NominatimGeocoder resolves place names through the OpenStreetMap
// Nominatim search API. Requests are spaced one second apart by default.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	session   *http.Client
	limiter   *time.Ticker
}

type NominatimOption func(*NominatimGeocoder)

func WithNominatimURL(u string) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

func WithUserAgent(ua string) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.userAgent = ua
	}
}

// WithInterval sets the minimum spacing between requests.
func WithInterval(d time.Duration) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.limiter.Reset(d)
	}
}

func NewNominatimGeocoder(opts ...NominatimOption) *NominatimGeocoder {
	g := &NominatimGeocoder{
		baseURL:   defaultNominatimURL,
		userAgent: defaultUserAgent,
		session:   &http.Client{Timeout: 10 * time.Second},
		limiter:   time.NewTicker(time.Second),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Stop releases the rate limiter.
func (g *NominatimGeocoder) Stop() {
	g.limiter.Stop()
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the first match for query, or ok=false when Nominatim
// found nothing.
func (g *NominatimGeocoder) Geocode(
	ctx context.Context,
	query string,
) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: empty query")
	}

	select {
	case <-g.limiter.C:
	case <-ctx.Done():
		return domain.Coordinates{}, false, ctx.Err()
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	endpoint := g.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: new request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.session.Do(req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: status=%d body=%s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: decode response: %w", err)
	}

	if len(results) == 0 {
		log.Printf("nominatim no match query=%q", query)
		return domain.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: invalid lat=%q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: invalid lon=%q: %w", results[0].Lon, err)
	}

	c := domain.Coordinates{Lon: lon, Lat: lat}
	if err := c.Validate(); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("nominatim: %w", err)
	}

	return c, true, nil
}
