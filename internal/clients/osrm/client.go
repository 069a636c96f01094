package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

// HTTPDoer is the subset of *http.Client used by the client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to an OSRM-compatible route service
type Client struct {
	baseURL    string
	profile    string
	httpClient HTTPDoer
	geoUtils   geo.GeoUtils
}

// NewClient creates a new routing client for the driving profile
func NewClient(baseURL string) *Client {
	return NewClientWithHTTPDoer(baseURL, &http.Client{
		Timeout: 15 * time.Second,
	})
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation
func NewClientWithHTTPDoer(baseURL string, doer HTTPDoer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		profile:    "driving",
		httpClient: doer,
		geoUtils:   geo.NewGeoUtils(),
	}
}

// Route queries the route service for paths through points in order.
// A "NoRoute" answer (e.g. points on different islands) is an empty result,
// not an error.
func (c *Client) Route(ctx context.Context, points []geo.Point, opts routing.ProviderOptions) ([]routing.RouteOption, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("route needs at least 2 points, got %d", len(points))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(points, opts), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limit exceeded")
	}

	var response RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("API error %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch response.Code {
	case "Ok":
	case "NoRoute", "NoSegment":
		return []routing.RouteOption{}, nil
	default:
		return nil, fmt.Errorf("API error %d: %s %s", resp.StatusCode, response.Code, response.Message)
	}

	options := make([]routing.RouteOption, 0, len(response.Routes))
	for _, route := range response.Routes {
		option, err := c.processRoute(route)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	return options, nil
}

// routeURL builds /route/v1/{profile}/{lng,lat;...}?...
func (c *Client) routeURL(points []geo.Point, opts routing.ProviderOptions) string {
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%.6f,%.6f", p.Longitude, p.Latitude)
	}

	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "polyline")
	params.Set("steps", "false")
	params.Set("alternatives", fmt.Sprintf("%t", opts.Alternatives))
	if len(opts.Exclude) > 0 {
		classes := make([]string, len(opts.Exclude))
		for i, class := range opts.Exclude {
			classes[i] = string(class)
		}
		params.Set("exclude", strings.Join(classes, ","))
	}

	return fmt.Sprintf("%s/route/v1/%s/%s?%s", c.baseURL, c.profile, strings.Join(coords, ";"), params.Encode())
}

// processRoute converts a provider route to a RouteOption
func (c *Client) processRoute(route Route) (routing.RouteOption, error) {
	var geometry []geo.Point
	if route.Geometry != "" {
		points, err := c.geoUtils.DecodePolyline(route.Geometry)
		if err != nil {
			return routing.RouteOption{}, fmt.Errorf("failed to decode geometry: %w", err)
		}
		geometry = points
	}

	legs := make([]routing.SegmentSummary, len(route.Legs))
	for i, leg := range route.Legs {
		legs[i] = routing.SegmentSummary{
			Summary:         leg.Summary,
			DistanceMeters:  leg.Distance,
			DurationSeconds: leg.Duration,
		}
	}

	return routing.RouteOption{
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
		Geometry:        geometry,
		Legs:            legs,
	}, nil
}

// RouteResponse represents the route service response
type RouteResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message,omitempty"`
	Routes  []Route `json:"routes"`
}

// Route represents one candidate path
type Route struct {
	Distance float64    `json:"distance"` // meters
	Duration float64    `json:"duration"` // seconds
	Geometry string     `json:"geometry"`
	Legs     []RouteLeg `json:"legs"`
}

// RouteLeg is the waypoint-to-waypoint part of a route
type RouteLeg struct {
	Summary  string  `json:"summary"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

