package routing

import (
	"errors"
	"net/http"
	"time"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// ORSClient talks to OpenRouteService.
//
// It implements:
//   - RouteProvider via the directions endpoint
//   - Geocoder via the geocode search endpoint
//
// Transient failures are retried with exponential backoff.
// The client is safe for concurrent use.
type ORSClient struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

// ORSOption customizes an ORSClient.
type ORSOption func(*ORSClient)

// WithBaseURL points the client at another ORS deployment (or a test server).
func WithBaseURL(u string) ORSOption {
	return func(o *ORSClient) { o.baseURL = u }
}

// WithProfile selects the ORS routing profile, e.g. "driving-hgv".
func WithProfile(p string) ORSOption {
	return func(o *ORSClient) { o.profile = p }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSClient) { o.session = c }
}

func NewORSClient(apiKey string, opts ...ORSOption) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	client := &ORSClient{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultORSBaseURL,
		profile: "driving-hgv",
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
