package routing

import (
	"context"
	"errors"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
)

// RoadClass is a class of road the routing provider can exclude
type RoadClass string

const (
	Tolls    RoadClass = "toll"
	Highways RoadClass = "motorway"
	Ferries  RoadClass = "ferry"
)

// DirectSummary labels the synthetic straight-line option
const DirectSummary = "Direct / Air / Sea (Estimate)"

// DefaultSafeRadiusKm is how far routes should stay from an avoidance point
const DefaultSafeRadiusKm = 10.0

// ErrNotEnoughPoints is returned when fewer than two placed points are given
var ErrNotEnoughPoints = errors.New("at least two placed points are required")

// Avoidance holds road-class exclusions and at most one avoidance point
type Avoidance struct {
	RoadClasses []RoadClass `json:"road_classes,omitempty"`
	Point       *geo.Point  `json:"point,omitempty"`
	PointName   string      `json:"point_name,omitempty"`
}

// HasPoint reports whether a usable avoidance point is set
func (a Avoidance) HasPoint() bool {
	return a.Point != nil && geo.IsPlaced(*a.Point)
}

// SegmentSummary describes one stop-to-stop segment of a route
type SegmentSummary struct {
	Summary         string  `json:"summary"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RouteOption is one candidate path through the ordered points
type RouteOption struct {
	DistanceMeters  float64          `json:"distance_meters"`
	DurationSeconds float64          `json:"duration_seconds"`
	Geometry        []geo.Point      `json:"geometry"`
	Legs            []SegmentSummary `json:"legs"`
	Direct          bool             `json:"direct"`

	// Set only when an avoidance point was requested
	MinAvoidDistanceKm *float64 `json:"min_avoid_distance_km,omitempty"`
}

// DistanceKm returns the option's distance in kilometers rounded to one decimal
func (r RouteOption) DistanceKm() float64 {
	return float64(int64(r.DistanceMeters/100+0.5)) / 10
}

// ProviderOptions controls a single provider query
type ProviderOptions struct {
	Alternatives bool
	Exclude      []RoadClass
}

// Provider is the external turn-by-turn routing service
type Provider interface {
	// Route returns zero or more candidate paths through points in order
	Route(ctx context.Context, points []geo.Point, opts ProviderOptions) ([]RouteOption, error)
}

// RouteEngine produces ranked, deduplicated route options
type RouteEngine interface {
	GetRouteOptions(ctx context.Context, from, to geo.Point, stops []geo.Point, avoid Avoidance) ([]RouteOption, error)
	Options(ctx context.Context, points []geo.Point, avoid Avoidance) ([]RouteOption, error)
}

// NewEngine is implemented in engine.go
