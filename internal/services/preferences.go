package services

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/store"
)

// ThemeRequest sets the colour scheme
type ThemeRequest struct {
	Theme store.Theme `json:"theme" validate:"required,oneof=light dark system"`
}

// ThemeResponse carries the stored colour scheme
type ThemeResponse struct {
	Theme store.Theme `json:"theme"`
}

// SaveRouteRequest keeps a route for reuse
type SaveRouteRequest struct {
	Name      string                   `json:"name" validate:"required,max=120"`
	From      location.NamedLocation   `json:"from"`
	To        location.NamedLocation   `json:"to"`
	Stops     []location.NamedLocation `json:"stops"`
	Avoidance routing.Avoidance        `json:"avoidance"`
}

// PreferencesService exposes the persisted user preferences
type PreferencesService struct {
	store    *store.Store
	validate *validator.Validate
}

// NewPreferencesService creates a new PreferencesService
func NewPreferencesService(s *store.Store) *PreferencesService {
	return &PreferencesService{store: s, validate: validator.New()}
}

// GetTheme handles GET /api/preferences/theme
func (s *PreferencesService) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: s.store.Theme()})
}

// SetTheme handles PUT /api/preferences/theme
func (s *PreferencesService) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := decodeJSON(r, s.validate, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SetTheme(req.Theme); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: s.store.Theme()})
}

// ListRoutes handles GET /api/saved-routes
func (s *PreferencesService) ListRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.SavedRoutes())
}

// GetRoute handles GET /api/saved-routes/{routeID}
func (s *PreferencesService) GetRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := s.store.SavedRoute(mux.Vars(r)["routeID"])
	if !ok {
		writeError(w, store.ErrRouteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// SaveRoute handles POST /api/saved-routes
func (s *PreferencesService) SaveRoute(w http.ResponseWriter, r *http.Request) {
	var req SaveRouteRequest
	if err := decodeJSON(r, s.validate, &req); err != nil {
		writeError(w, err)
		return
	}
	if !req.From.IsPlaced() || !req.To.IsPlaced() {
		writeError(w, badRequest("from and to must be placed locations"))
		return
	}

	route, err := s.store.SaveRoute(store.SavedRoute{
		Name:      req.Name,
		From:      req.From,
		To:        req.To,
		Stops:     req.Stops,
		Avoidance: req.Avoidance,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, route)
}

// DeleteRoute handles DELETE /api/saved-routes/{routeID}
func (s *PreferencesService) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRoute(mux.Vars(r)["routeID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
