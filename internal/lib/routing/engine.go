package routing

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/dpup/prefab/logging"
	"github.com/sourcegraph/conc"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
)

// Engine implements RouteEngine on top of a single Provider
type Engine struct {
	provider     Provider
	geoUtils     geo.GeoUtils
	safeRadiusKm float64
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithSafeRadiusKm overrides the avoidance radius
func WithSafeRadiusKm(km float64) EngineOption {
	return func(e *Engine) {
		if km > 0 {
			e.safeRadiusKm = km
		}
	}
}

// NewEngine creates a new route engine
func NewEngine(provider Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider:     provider,
		geoUtils:     geo.NewGeoUtils(),
		safeRadiusKm: DefaultSafeRadiusKm,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetRouteOptions builds the ordered path from, stops..., to and returns ranked options
func (e *Engine) GetRouteOptions(ctx context.Context, from, to geo.Point, stops []geo.Point, avoid Avoidance) ([]RouteOption, error) {
	points := make([]geo.Point, 0, len(stops)+2)
	points = append(points, from)
	points = append(points, stops...)
	points = append(points, to)
	return e.Options(ctx, points, avoid)
}

// Options returns ranked, deduplicated route options for an ordered point list.
// Provider failures never surface; when no provider path exists a single
// synthetic direct option is returned.
func (e *Engine) Options(ctx context.Context, points []geo.Point, avoid Avoidance) ([]RouteOption, error) {
	ctx = logging.EnsureLogger(ctx)

	placed := make([]geo.Point, 0, len(points))
	for _, p := range points {
		if geo.IsPlaced(p) {
			placed = append(placed, p)
		}
	}
	if len(placed) < 2 {
		return nil, ErrNotEnoughPoints
	}

	candidates := e.queryProvider(ctx, placed, avoid.RoadClasses)
	if len(candidates) == 0 {
		logging.Infow(ctx, "No provider route, falling back to direct estimate", "points", len(placed))
		candidates = []RouteOption{DirectRoute(placed)}
	}

	options := Deduplicate(candidates)
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].DurationSeconds < options[j].DurationSeconds
	})

	if avoid.HasPoint() {
		options = e.applyAvoidance(options, *avoid.Point)
	}

	return options, nil
}

// queryProvider runs the primary query (with alternatives) and a secondary
// query that also excludes tolls and highways. Failures count as zero routes,
// so a failed primary still returns whatever the secondary found.
func (e *Engine) queryProvider(ctx context.Context, points []geo.Point, exclude []RoadClass) []RouteOption {
	primaryOpts := ProviderOptions{Alternatives: true, Exclude: exclude}
	secondaryOpts := ProviderOptions{Exclude: unionClasses(exclude, Tolls, Highways)}
	runSecondary := len(secondaryOpts.Exclude) != len(uniqueClasses(exclude))

	var primary, secondary []RouteOption
	var wg conc.WaitGroup
	wg.Go(func() {
		routes, err := e.provider.Route(ctx, points, primaryOpts)
		if err != nil {
			logging.Warnw(ctx, "Primary route query failed", "error", err)
			return
		}
		primary = usable(routes)
	})
	if runSecondary {
		wg.Go(func() {
			routes, err := e.provider.Route(ctx, points, secondaryOpts)
			if err != nil {
				logging.Debugw(ctx, "Secondary route query failed", "error", err)
				return
			}
			secondary = usable(routes)
		})
	}
	wg.Wait()

	return append(primary, secondary...)
}

// applyAvoidance keeps routes at least safeRadiusKm from the avoidance point.
// If every route comes too close, all are kept, furthest first.
func (e *Engine) applyAvoidance(options []RouteOption, avoid geo.Point) []RouteOption {
	safe := make([]RouteOption, 0, len(options))
	for i := range options {
		minKm := e.minDistanceKm(options[i], avoid)
		options[i].MinAvoidDistanceKm = &minKm
		if minKm >= e.safeRadiusKm {
			safe = append(safe, options[i])
		}
	}

	if len(safe) > 0 {
		return safe
	}

	sort.SliceStable(options, func(i, j int) bool {
		return *options[i].MinAvoidDistanceKm > *options[j].MinAvoidDistanceKm
	})
	return options
}

func (e *Engine) minDistanceKm(option RouteOption, avoid geo.Point) float64 {
	meters, err := e.geoUtils.MinDistanceToPoints(avoid, option.Geometry)
	if err != nil {
		return 0
	}
	return meters / 1000
}

// DirectRoute synthesises a straight-line option through points. Duration is
// unknown and reported as zero.
func DirectRoute(points []geo.Point) RouteOption {
	geometry := make([]geo.Point, len(points))
	copy(geometry, points)

	var total float64
	legs := make([]SegmentSummary, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		meters := geo.DistanceKm(points[i-1], points[i]) * 1000
		total += meters
		legs = append(legs, SegmentSummary{Summary: DirectSummary, DistanceMeters: meters})
	}

	return RouteOption{
		DistanceMeters: total,
		Geometry:       geometry,
		Legs:           legs,
		Direct:         true,
	}
}

// Signature identifies routes considered the same path: distance to the
// nearest 100 m and duration to the nearest minute.
func Signature(r RouteOption) string {
	return fmt.Sprintf("%d:%d", int64(math.Round(r.DistanceMeters/100)), int64(math.Round(r.DurationSeconds/60)))
}

// Deduplicate keeps the first route for every signature
func Deduplicate(routes []RouteOption) []RouteOption {
	seen := make(map[string]bool, len(routes))
	out := make([]RouteOption, 0, len(routes))
	for _, r := range routes {
		sig := Signature(r)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, r)
	}
	return out
}

func usable(routes []RouteOption) []RouteOption {
	out := make([]RouteOption, 0, len(routes))
	for _, r := range routes {
		if len(r.Geometry) >= 2 {
			out = append(out, r)
		}
	}
	return out
}

func uniqueClasses(classes []RoadClass) []RoadClass {
	return unionClasses(classes)
}

func unionClasses(base []RoadClass, extra ...RoadClass) []RoadClass {
	seen := make(map[RoadClass]bool)
	var out []RoadClass
	for _, c := range append(append([]RoadClass{}, base...), extra...) {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
