package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/store"
)

func TestPreferences_Theme(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/preferences/theme", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, store.ThemeSystem, decode[ThemeResponse](t, rec).Theme)

	rec = s.do(t, http.MethodPut, "/api/preferences/theme", ThemeRequest{Theme: store.ThemeDark})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, store.ThemeDark, decode[ThemeResponse](t, rec).Theme)
	assert.Equal(t, store.ThemeDark, s.store.Theme())

	rec = s.do(t, http.MethodPut, "/api/preferences/theme", ThemeRequest{Theme: "sepia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, store.ThemeDark, s.store.Theme())
}

func TestPreferences_SavedRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/saved-routes", SaveRouteRequest{
		Name:      "Central to Pampanga",
		From:      centralOffice,
		To:        regionThree,
		Avoidance: routing.Avoidance{RoadClasses: []routing.RoadClass{routing.Tolls}},
	})
	requireStatus(t, rec, http.StatusCreated)
	saved := decode[store.SavedRoute](t, rec)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "Central to Pampanga", saved.Name)

	rec = s.do(t, http.MethodGet, "/api/saved-routes", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]store.SavedRoute](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/saved-routes/"+saved.ID, nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, []routing.RoadClass{routing.Tolls}, decode[store.SavedRoute](t, rec).Avoidance.RoadClasses)

	rec = s.do(t, http.MethodDelete, "/api/saved-routes/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/saved-routes/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/saved-routes/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreferences_SaveRouteValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/saved-routes", SaveRouteRequest{From: centralOffice, To: regionThree})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/saved-routes", SaveRouteRequest{Name: "Nowhere", From: centralOffice})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
