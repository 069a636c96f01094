package itinerary

import (
	"context"
	"time"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
)

// Request is the travel order content an itinerary is written for
type Request struct {
	Traveler string           `json:"traveler,omitempty"`
	Purpose  string           `json:"purpose,omitempty"`
	Legs     []legs.TravelLeg `json:"legs"`
}

// Itinerary is the "itinerary of travel" text of a travel order
type Itinerary struct {
	Title           string    `json:"title"`
	Narrative       string    `json:"narrative"`
	Lines           []string  `json:"lines"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	StartDate       string    `json:"start_date,omitempty"`
	EndDate         string    `json:"end_date,omitempty"`
	GeneratedBy     string    `json:"generated_by"` // "openai" or "template"
	GeneratedAt     time.Time `json:"generated_at"`
}

// Summarizer writes an itinerary for a travel order
type Summarizer interface {
	// Summarize writes the itinerary for req
	Summarize(ctx context.Context, req Request) (Itinerary, error)

	// HealthCheck reports whether the backing service is reachable
	HealthCheck(ctx context.Context) error
}

// NewSummarizer is implemented in summarizer.go
