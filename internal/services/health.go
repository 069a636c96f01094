package services

import (
	"net/http"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/cache"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/itinerary"
)

// CacheStatter reports cache usage
type CacheStatter interface {
	Stats() cache.CacheStats
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status       string      `json:"status"` // "ok" or "degraded"
	Itinerary    string      `json:"itinerary"`
	OpenSessions int         `json:"open_sessions"`
	Cache        CacheHealth `json:"cache"`
}

// CacheHealth summarizes cache.CacheStats
type CacheHealth struct {
	TotalEntries int        `json:"total_entries"`
	FreshEntries int        `json:"fresh_entries"`
	StaleEntries int        `json:"stale_entries"`
	OldestEntry  *time.Time `json:"oldest_entry,omitempty"`
}

// HealthService reports on the server's moving parts
type HealthService struct {
	summarizer itinerary.Summarizer
	cache      CacheStatter
	sessions   *PickerSessionService
}

// NewHealthService creates a new HealthService
func NewHealthService(summarizer itinerary.Summarizer, cache CacheStatter, sessions *PickerSessionService) *HealthService {
	return &HealthService{summarizer: summarizer, cache: cache, sessions: sessions}
}

// Health handles GET /api/health. The itinerary writer is only checked with
// ?deep=true since a model call costs tokens.
func (s *HealthService) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:       "ok",
		Itinerary:    "unchecked",
		OpenSessions: s.sessions.Count(),
	}

	stats := s.cache.Stats()
	resp.Cache = CacheHealth{
		TotalEntries: stats.TotalEntries,
		FreshEntries: stats.FreshEntries,
		StaleEntries: stats.StaleEntries,
	}
	if !stats.OldestEntry.IsZero() {
		oldest := stats.OldestEntry
		resp.Cache.OldestEntry = &oldest
	}

	if r.URL.Query().Get("deep") == "true" {
		if err := s.summarizer.HealthCheck(r.Context()); err != nil {
			logging.Warnw(r.Context(), "Itinerary health check failed", "error", err)
			resp.Status = "degraded"
			resp.Itinerary = err.Error()
		} else {
			resp.Itinerary = "ok"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
