package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

var (
	// ErrNotFound is returned when reverse lookup finds no place
	ErrNotFound = errors.New("no place found")

	// ErrOutsideCountry is returned when reverse lookup lands outside the operating country
	ErrOutsideCountry = location.ErrOutsideCountry
)

// HTTPDoer is the subset of *http.Client used by the client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to a Nominatim-compatible search and reverse geocoding service
type Client struct {
	baseURL     string
	countryCode string
	userAgent   string
	httpClient  HTTPDoer
}

// NewClient creates a new geocoding client restricted to countryCode (ISO 3166-1 alpha-2)
func NewClient(baseURL, countryCode, userAgent string) *Client {
	return NewClientWithHTTPDoer(baseURL, countryCode, userAgent, &http.Client{
		Timeout: 10 * time.Second,
	})
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation
func NewClientWithHTTPDoer(baseURL, countryCode, userAgent string, doer HTTPDoer) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		countryCode: strings.ToLower(countryCode),
		userAgent:   userAgent,
		httpClient:  doer,
	}
}

// CountryCode returns the operating country
func (c *Client) CountryCode() string {
	return c.countryCode
}

// Search returns ranked place matches for a free-text query
func (c *Client) Search(ctx context.Context, query string, limit int) ([]location.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []location.GeocodeResult{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	if c.countryCode != "" {
		params.Set("countrycodes", c.countryCode)
	}

	var places []Place
	if err := c.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]location.GeocodeResult, len(places))
	for i, place := range places {
		results[i] = place.toResult()
	}
	return results, nil
}

// Reverse returns the nearest place to p. Places outside the operating
// country are rejected with ErrOutsideCountry.
func (c *Client) Reverse(ctx context.Context, p geo.Point) (*location.GeocodeResult, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", p.Latitude))
	params.Set("lon", fmt.Sprintf("%.6f", p.Longitude))
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	var place Place
	if err := c.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}

	if place.Error != "" || place.DisplayName == "" {
		return nil, ErrNotFound
	}
	if c.countryCode != "" && !strings.EqualFold(place.Address.CountryCode, c.countryCode) {
		return nil, ErrOutsideCountry
	}

	result := place.toResult()
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limit exceeded (1/second)")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Place represents a search or reverse geocoding hit
type Place struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	Address     Address     `json:"address"`
	Error       string      `json:"error,omitempty"`
}

// Address holds the address details used for the country check
type Address struct {
	CountryCode string `json:"country_code"`
}

func (p Place) toResult() location.GeocodeResult {
	return location.GeocodeResult{
		PlaceID:     p.PlaceID.String(),
		DisplayName: p.DisplayName,
		Lat:         p.Lat,
		Lon:         p.Lon,
	}
}
