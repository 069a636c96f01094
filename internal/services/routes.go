package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dpup/prefab/logging"
	"github.com/go-playground/validator/v10"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

// RouteService answers stateless route and place queries
type RouteService struct {
	engine   routing.RouteEngine
	geocoder location.Geocoder
	offices  *legs.OfficeDirectory
	limit    int
	validate *validator.Validate
}

// RouteOptionsRequest asks for options through points in order
type RouteOptionsRequest struct {
	Points    []geo.Point       `json:"points" validate:"min=2"`
	Avoidance routing.Avoidance `json:"avoidance"`
}

// RouteOptionsResponse lists ranked options, fastest first
type RouteOptionsResponse struct {
	Routes []routing.RouteOption `json:"routes"`
	Count  int                   `json:"count"`
}

// NewRouteService creates a new RouteService
func NewRouteService(engine routing.RouteEngine, geocoder location.Geocoder, offices *legs.OfficeDirectory, searchLimit int) *RouteService {
	return &RouteService{
		engine:   engine,
		geocoder: geocoder,
		offices:  offices,
		limit:    searchLimit,
		validate: validator.New(),
	}
}

// RouteOptions handles POST /api/routes
func (s *RouteService) RouteOptions(w http.ResponseWriter, r *http.Request) {
	options, ok := s.options(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, RouteOptionsResponse{Routes: options, Count: len(options)})
}

// RouteGeoJSON handles POST /api/routes/geojson
func (s *RouteService) RouteGeoJSON(w http.ResponseWriter, r *http.Request) {
	options, ok := s.options(w, r)
	if !ok {
		return
	}
	data, err := routing.FeatureCollection(options).MarshalJSON()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (s *RouteService) options(w http.ResponseWriter, r *http.Request) ([]routing.RouteOption, bool) {
	var req RouteOptionsRequest
	if err := decodeJSON(r, s.validate, &req); err != nil {
		writeError(w, err)
		return nil, false
	}

	options, err := s.engine.Options(r.Context(), req.Points, req.Avoidance)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return options, true
}

// Search handles GET /api/geocode/search?q=
func (s *RouteService) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []location.NamedLocation{})
		return
	}

	results, err := s.geocoder.Search(r.Context(), query, s.limit)
	if err != nil {
		logging.Warnw(r.Context(), "Place search failed", "query", query, "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "place search is unavailable"})
		return
	}

	locations := make([]location.NamedLocation, 0, len(results))
	for _, result := range results {
		if loc := location.FromGeocode(result); loc != nil {
			locations = append(locations, *loc)
		}
	}
	writeJSON(w, http.StatusOK, locations)
}

// Reverse handles GET /api/geocode/reverse?lat=&lng=
func (s *RouteService) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, badRequest("lat and lng must be numbers"))
		return
	}
	p := geo.Point{Latitude: lat, Longitude: lng}
	if !geo.IsValid(p) {
		writeError(w, badRequest("coordinates out of range"))
		return
	}

	result, err := s.geocoder.Reverse(r.Context(), p)
	switch {
	case errors.Is(err, location.ErrOutsideCountry):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	case err != nil || result == nil:
		logging.Debugw(r.Context(), "Reverse geocode failed, naming by coordinates", "point", p.String(), "error", err)
		writeJSON(w, http.StatusOK, location.FromClick(p, ""))
		return
	}

	name, address := location.SplitDisplayName(result.DisplayName)
	loc := location.FromClick(p, name)
	loc.Address = address
	writeJSON(w, http.StatusOK, loc)
}

// Normalize handles POST /api/locations/normalize. The body is an office
// record or a geocode result in any of the shapes the front end holds.
func (s *RouteService) Normalize(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, badRequest("invalid request body: %v", err))
		return
	}

	loc := location.Normalize(raw)
	if loc == nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "unrecognized location shape"})
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// Offices handles GET /api/offices
func (s *RouteService) Offices(w http.ResponseWriter, r *http.Request) {
	offices := s.offices.Offices()
	locations := make([]location.NamedLocation, 0, len(offices))
	for _, o := range offices {
		if loc := location.FromOffice(o); loc != nil {
			locations = append(locations, *loc)
		}
	}
	writeJSON(w, http.StatusOK, locations)
}
