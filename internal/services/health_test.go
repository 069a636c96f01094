package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/itinerary"
)

type unreachableSummarizer struct{}

func (unreachableSummarizer) Summarize(ctx context.Context, req itinerary.Request) (itinerary.Itinerary, error) {
	return itinerary.Itinerary{}, errors.New("connection refused")
}

func (unreachableSummarizer) HealthCheck(ctx context.Context) error {
	return errors.New("OpenAI health check failed: connection refused")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.cache.Set("geocode:search:davao", []string{"Davao City"}, time.Hour, "nominatim"))
	openPicker(t, s, createOrder(t, s).ID, OpenPickerRequest{})

	rec := s.do(t, http.MethodGet, "/api/health", nil)
	requireStatus(t, rec, http.StatusOK)
	health := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "unchecked", health.Itinerary)
	assert.Equal(t, 1, health.OpenSessions)
	assert.Equal(t, 1, health.Cache.TotalEntries)
	assert.Equal(t, 1, health.Cache.FreshEntries)
	assert.NotNil(t, health.Cache.OldestEntry)

	rec = s.do(t, http.MethodGet, "/api/health?deep=true", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Itinerary)
}

func TestHealth_DegradedItineraryWriter(t *testing.T) {
	s := newTestServer(t)
	health := NewHealthService(unreachableSummarizer{}, s.cache, s.sessions)

	router := mux.NewRouter()
	router.HandleFunc("/api/health", health.Health)
	s.router = router

	rec := s.do(t, http.MethodGet, "/api/health?deep=true", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "degraded", resp.Status)
	assert.Contains(t, resp.Itinerary, "connection refused")
}
