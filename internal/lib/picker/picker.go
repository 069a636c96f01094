package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/google/uuid"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

// Picker is the interactive route picker for one user. It holds the
// uncommitted points of the leg being edited between Open and Confirm or
// Cancel. Every Open starts a new session; async route and search results
// tagged with an older session are dropped.
type Picker struct {
	mu sync.Mutex

	engine   RouteSource
	geocoder location.Geocoder
	surface  MarkerSurface
	bounds   Bounds
	debounce time.Duration
	limit    int
	baseCtx  context.Context
	runAsync func(func())
	schedule func(time.Duration, func()) func() bool
	newID    func() string

	session   uint64
	open      bool
	ctx       context.Context
	cancel    context.CancelFunc
	editingID string
	isReturn  bool

	start     *RoutePoint
	waypoints []RoutePoint
	end       *RoutePoint
	mode      Mode
	pending   Pending

	avoid     routing.Avoidance
	startDate string
	endDate   string

	routes       []routing.RouteOption
	routesSeq    uint64 // routeSeq the routes were computed for
	selected     int
	routeSeq     uint64
	routeLoading bool
	routeErr     string
	dirty        bool

	search      searchState
	avoidSearch searchState

	rendered []RoutePoint
}

type searchKind int

const (
	searchLocation searchKind = iota
	searchAvoidance
)

type searchState struct {
	query   string
	seq     uint64
	results []location.NamedLocation
	loading bool
	err     string
	stop    func() bool
}

type routeJob struct {
	ctx     context.Context
	session uint64
	seq     uint64
	points  []geo.Point
	avoid   routing.Avoidance
}

// Option configures a Picker
type Option func(*Picker)

// WithBounds sets the operating-country bounding box for map clicks
func WithBounds(b Bounds) Option {
	return func(p *Picker) {
		p.bounds = b
	}
}

// WithSearchDebounce sets the search quiet period
func WithSearchDebounce(d time.Duration) Option {
	return func(p *Picker) {
		if d >= 0 {
			p.debounce = d
		}
	}
}

// WithSearchLimit sets how many search results are requested
func WithSearchLimit(n int) Option {
	return func(p *Picker) {
		if n > 0 {
			p.limit = n
		}
	}
}

// WithMarkerSurface attaches a marker renderer
func WithMarkerSurface(s MarkerSurface) Option {
	return func(p *Picker) {
		p.surface = s
	}
}

// WithAsyncRunner sets how route computations are run
func WithAsyncRunner(run func(func())) Option {
	return func(p *Picker) {
		p.runAsync = run
	}
}

// WithScheduler sets the debounce timer. The returned func cancels the call.
func WithScheduler(schedule func(time.Duration, func()) func() bool) Option {
	return func(p *Picker) {
		p.schedule = schedule
	}
}

// WithIDGenerator sets the point id generator
func WithIDGenerator(newID func() string) Option {
	return func(p *Picker) {
		p.newID = newID
	}
}

// WithBaseContext sets the parent of every session context
func WithBaseContext(ctx context.Context) Option {
	return func(p *Picker) {
		p.baseCtx = ctx
	}
}

// New creates a closed picker
func New(engine RouteSource, geocoder location.Geocoder, opts ...Option) *Picker {
	p := &Picker{
		engine:   engine,
		geocoder: geocoder,
		bounds:   PhilippinesBounds,
		debounce: DefaultSearchDebounce,
		limit:    DefaultSearchLimit,
		baseCtx:  context.Background(),
		runAsync: func(f func()) { go f() },
		schedule: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		newID: uuid.NewString,
		mode:  ModeIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.baseCtx = logging.EnsureLogger(p.baseCtx)
	return p
}

// Open starts a new session from the leg builder's context. An editing
// context pre-populates the whole leg unlocked; otherwise a valid previous
// endpoint becomes a locked start and a valid return endpoint a locked end.
func (p *Picker) Open(pctx legs.PickerContext) error {
	return p.mutate(func() error {
		if p.open {
			p.closeLocked()
		}

		p.session++
		p.open = true
		p.ctx, p.cancel = context.WithCancel(p.baseCtx)
		p.isReturn = pctx.IsReturn
		p.mode = ModeIdle
		p.dirty = true

		if leg := pctx.Editing; leg != nil {
			p.editingID = leg.ID
			p.isReturn = leg.IsReturn
			p.startDate = leg.StartDate
			p.endDate = leg.EndDate
			p.start = p.prefill(RoleStart, leg.From, EditingExistingLeg)
			p.end = p.prefill(RoleEnd, leg.To, EditingExistingLeg)
			for _, wp := range leg.Waypoints {
				if point := p.prefill(RoleWaypoint, wp, EditingExistingLeg); point != nil {
					p.waypoints = append(p.waypoints, *point)
				}
			}
			return nil
		}

		if ep := pctx.PreviousEndpoint; ep != nil {
			p.start = p.prefill(RoleStart, *ep, lockFor(*ep, ChainedFromPreviousLeg))
		}
		if ep := pctx.ReturnEndpoint; ep != nil {
			p.end = p.prefill(RoleEnd, *ep, lockFor(*ep, ChainedAsReturnEndpoint))
		}
		return nil
	})
}

// Cancel discards the session without emitting a leg
func (p *Picker) Cancel() {
	_ = p.mutate(func() error {
		p.closeLocked()
		return nil
	})
}

// EditPoint starts picking a new value for the start, the end or the
// waypoint at index
func (p *Picker) EditPoint(role Role, index int) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}

		switch role {
		case RoleStart:
			if p.start != nil && p.start.Locked() {
				return ErrLocked
			}
		case RoleEnd:
			if p.end != nil && p.end.Locked() {
				return ErrLocked
			}
		case RoleWaypoint:
			if index < 0 || index >= len(p.waypoints) {
				return ErrInvalidIndex
			}
		default:
			return fmt.Errorf("unknown role %q", role)
		}

		p.mode = ModePicking
		p.pending = Pending{Role: role, Index: index}
		return nil
	})
}

// AddWaypoint starts picking a new waypoint inserted at index. A negative
// index appends.
func (p *Picker) AddWaypoint(index int) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		if index < 0 || index > len(p.waypoints) {
			index = len(p.waypoints)
		}
		p.mode = ModePicking
		p.pending = Pending{Role: RoleWaypoint, Index: index, Insert: true}
		return nil
	})
}

// StopPicking returns to idle without placing a point
func (p *Picker) StopPicking() {
	_ = p.mutate(func() error {
		p.mode = ModeIdle
		return nil
	})
}

// ClickMap places the pending point at pt. Clicks outside the operating
// country, and clicks the geocoder places in another country, are ignored
// and the picker keeps waiting. A failed reverse lookup names the point by
// its coordinates. Returns whether a point was placed.
func (p *Picker) ClickMap(ctx context.Context, pt geo.Point) (bool, error) {
	ctx = logging.EnsureLogger(ctx)

	p.mu.Lock()
	if !p.open {
		p.mu.Unlock()
		return false, ErrNotOpen
	}
	if p.mode != ModePicking {
		p.mu.Unlock()
		return false, ErrNotPicking
	}
	if !p.bounds.Contains(pt) {
		p.mu.Unlock()
		logging.Debugw(ctx, "Ignoring map click outside operating country", "point", pt.String())
		return false, nil
	}
	session, pending := p.session, p.pending
	p.mu.Unlock()

	loc := location.FromClick(pt, "")
	if p.geocoder != nil {
		result, err := p.geocoder.Reverse(ctx, pt)
		switch {
		case errors.Is(err, location.ErrOutsideCountry):
			logging.Debugw(ctx, "Ignoring map click resolved outside operating country", "point", pt.String())
			return false, nil
		case err != nil:
			logging.Warnw(ctx, "Reverse geocode failed, using coordinates as name", "point", pt.String(), "error", err)
		case result != nil:
			name, address := location.SplitDisplayName(result.DisplayName)
			loc = location.FromClick(pt, name)
			loc.Address = address
		}
	}

	placed := false
	err := p.mutate(func() error {
		if !p.open || p.session != session || p.mode != ModePicking || p.pending != pending {
			return nil
		}
		placed = true
		return p.placeLocked(loc)
	})
	return placed, err
}

// Search records the location search text and issues a debounced query.
// Only the latest query's results are kept.
func (p *Picker) Search(query string) error {
	return p.startSearch(searchLocation, query)
}

// SearchAvoidance is Search for the avoidance-point box. It does not need a
// pending point.
func (p *Picker) SearchAvoidance(query string) error {
	return p.startSearch(searchAvoidance, query)
}

// SelectSearchResult places the pending point at the index-th search result
func (p *Picker) SelectSearchResult(index int) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		if p.mode != ModePicking {
			return ErrNotPicking
		}
		if index < 0 || index >= len(p.search.results) {
			return ErrInvalidIndex
		}
		loc := p.search.results[index]
		p.clearSearchLocked(&p.search)
		return p.placeLocked(loc)
	})
}

// SelectAvoidanceResult sets the avoidance point to the index-th avoidance
// search result
func (p *Picker) SelectAvoidanceResult(index int) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		if index < 0 || index >= len(p.avoidSearch.results) {
			return ErrInvalidIndex
		}
		loc := p.avoidSearch.results[index]
		p.clearSearchLocked(&p.avoidSearch)
		pt := loc.Point
		p.avoid.Point = &pt
		p.avoid.PointName = loc.Name
		p.dirty = true
		return nil
	})
}

// DragPoint moves a placed point in place, keeping its id and role. The
// point no longer refers to an office once moved.
func (p *Picker) DragPoint(id string, pt geo.Point) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		point := p.findLocked(id)
		if point == nil {
			return ErrPointNotFound
		}
		if point.Locked() {
			return ErrLocked
		}
		if !p.bounds.Contains(pt) {
			return nil
		}
		point.Location.Point = pt
		point.Location.ID = ""
		point.Location.Source = location.SourceClick
		p.dirty = true
		return nil
	})
}

// RemovePoint deletes a point. Removing the start or end empties that role;
// removing a waypoint shifts the later ones up.
func (p *Picker) RemovePoint(id string) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		point := p.findLocked(id)
		if point == nil {
			return ErrPointNotFound
		}
		if point.Locked() {
			return ErrLocked
		}

		switch point.Role {
		case RoleStart:
			p.start = nil
		case RoleEnd:
			p.end = nil
		default:
			i := p.waypointIndexLocked(id)
			p.waypoints = append(p.waypoints[:i], p.waypoints[i+1:]...)
		}
		p.mode = ModeIdle
		p.dirty = true
		return nil
	})
}

// MoveWaypoint swaps a waypoint with its neighbour; delta is -1 (up) or +1
// (down). The start and end never move.
func (p *Picker) MoveWaypoint(id string, delta int) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		i := p.waypointIndexLocked(id)
		if i < 0 {
			if p.findLocked(id) != nil {
				return ErrInvalidMove
			}
			return ErrPointNotFound
		}
		j := i + delta
		if (delta != 1 && delta != -1) || j < 0 || j >= len(p.waypoints) {
			return ErrInvalidMove
		}
		p.waypoints[i], p.waypoints[j] = p.waypoints[j], p.waypoints[i]
		p.dirty = true
		return nil
	})
}

// SetDates sets the leg's start and end dates (YYYY-MM-DD)
func (p *Picker) SetDates(startDate, endDate string) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		p.startDate = strings.TrimSpace(startDate)
		p.endDate = strings.TrimSpace(endDate)
		return nil
	})
}

// SetRoadClassAvoidance replaces the excluded road classes
func (p *Picker) SetRoadClassAvoidance(classes []routing.RoadClass) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		p.avoid.RoadClasses = append([]routing.RoadClass(nil), classes...)
		p.dirty = true
		return nil
	})
}

// SetAvoidancePoint sets or, with nil, clears the avoidance point
func (p *Picker) SetAvoidancePoint(loc *location.NamedLocation) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		if loc == nil || !loc.IsPlaced() {
			p.avoid.Point = nil
			p.avoid.PointName = ""
		} else {
			pt := loc.Point
			p.avoid.Point = &pt
			p.avoid.PointName = loc.Name
		}
		p.dirty = true
		return nil
	})
}

// SelectRoute picks which computed option Confirm uses
func (p *Picker) SelectRoute(index int) error {
	return p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		if index < 0 || index >= len(p.routes) {
			return ErrInvalidIndex
		}
		p.selected = index
		return nil
	})
}

// Confirm emits the finished leg and closes the session. It needs a start,
// an end and a route computed for the current points.
func (p *Picker) Confirm() (legs.TravelLeg, error) {
	return p.ConfirmWith(nil)
}

// ConfirmWith is Confirm with a commit step: the finished leg is handed to
// commit, whose result is returned, and the session only closes when commit
// succeeds. On a commit error the picker stays open unchanged.
func (p *Picker) ConfirmWith(commit func(legs.TravelLeg) (legs.TravelLeg, error)) (legs.TravelLeg, error) {
	var leg legs.TravelLeg
	err := p.mutate(func() error {
		if !p.open {
			return ErrNotOpen
		}
		if p.start == nil || p.end == nil {
			return ErrIncomplete
		}
		if p.routeLoading {
			return ErrRouteLoading
		}
		if !p.routesCurrentLocked() {
			return ErrNoRoute
		}

		option := p.routes[p.selected]
		waypoints := make([]location.NamedLocation, len(p.waypoints))
		for i, wp := range p.waypoints {
			waypoints[i] = wp.Location
		}

		leg = legs.TravelLeg{
			ID:              p.editingID,
			From:            p.start.Location,
			To:              p.end.Location,
			Waypoints:       waypoints,
			DistanceKm:      option.DistanceKm(),
			DurationSeconds: option.DurationSeconds,
			StartDate:       p.startDate,
			EndDate:         p.endDate,
			IsReturn:        p.isReturn,
			OriginLocked:    p.start.Lock == ChainedFromPreviousLeg,
			Direct:          option.Direct,
			RouteSummary:    summarize(option),
			Geometry:        append([]geo.Point(nil), option.Geometry...),
		}
		if commit != nil {
			stored, err := commit(leg)
			if err != nil {
				return err
			}
			leg = stored
		}
		p.closeLocked()
		return nil
	})
	if err != nil {
		return legs.TravelLeg{}, err
	}
	return leg, nil
}

// Snapshot returns a copy of the current state
func (p *Picker) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Session:       p.session,
		Open:          p.open,
		Mode:          p.mode,
		Waypoints:     append([]RoutePoint{}, p.waypoints...),
		Avoidance:     copyAvoidance(p.avoid),
		StartDate:     p.startDate,
		EndDate:       p.endDate,
		Routes:        append([]routing.RouteOption{}, p.routes...),
		SelectedRoute: p.selected,
		RouteLoading:  p.routeLoading,
		RouteError:    p.routeErr,
		Search:        p.search.view(),
		AvoidSearch:   p.avoidSearch.view(),
		EditingLegID:  p.editingID,
		IsReturn:      p.isReturn,
		CanConfirm:    p.open && p.start != nil && p.end != nil && !p.routeLoading && p.routesCurrentLocked(),
	}
	if p.mode == ModePicking {
		pending := p.pending
		s.Pending = &pending
	}
	if p.start != nil {
		start := *p.start
		s.Start = &start
	}
	if p.end != nil {
		end := *p.end
		s.End = &end
	}
	return s
}

// mutate runs fn under the lock, then reconciles markers and starts a route
// computation if fn changed the point set.
func (p *Picker) mutate(fn func() error) error {
	p.mu.Lock()
	err := fn()

	var job *routeJob
	if p.dirty {
		p.dirty = false
		job = p.routeJobLocked()
	}

	next := p.pointsLocked()
	diff := DiffMarkers(p.rendered, next)
	p.rendered = next
	surface := p.surface
	p.mu.Unlock()

	if surface != nil && !diff.Empty() {
		surface.ApplyMarkers(diff)
	}
	if job != nil {
		p.runAsync(func() { p.computeRoute(job) })
	}
	return err
}

// routeJobLocked prepares a computation for the current points, or clears
// the routes when fewer than two points are placed
func (p *Picker) routeJobLocked() *routeJob {
	if !p.open {
		return nil
	}

	points := make([]geo.Point, 0, len(p.waypoints)+2)
	for _, rp := range p.pointsLocked() {
		if rp.Location.IsPlaced() {
			points = append(points, rp.Location.Point)
		}
	}
	if len(points) < 2 {
		p.routeSeq++
		p.routes = nil
		p.routesSeq = p.routeSeq
		p.selected = 0
		p.routeLoading = false
		p.routeErr = ""
		return nil
	}

	p.routeSeq++
	p.routeLoading = true
	return &routeJob{
		ctx:     p.ctx,
		session: p.session,
		seq:     p.routeSeq,
		points:  points,
		avoid:   copyAvoidance(p.avoid),
	}
}

// computeRoute runs a route job. Results from a closed or replaced session
// are dropped, as are results for a point set that has since changed.
func (p *Picker) computeRoute(job *routeJob) {
	options, err := p.engine.Options(job.ctx, job.points, job.avoid)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open || p.session != job.session {
		logging.Debugw(job.ctx, "Dropping route result from stale picker session", "session", job.session)
		return
	}
	if job.seq != p.routeSeq {
		logging.Debugw(job.ctx, "Dropping outdated route result", "seq", job.seq, "latest", p.routeSeq)
		return
	}
	p.routeLoading = false
	if err != nil {
		logging.Warnw(job.ctx, "Route computation failed", "points", len(job.points), "error", err)
		p.routeErr = "No route found"
		return
	}

	p.routes = options
	p.routesSeq = job.seq
	p.selected = 0
	p.routeErr = ""
}

// routesCurrentLocked reports whether the routes match the current points
func (p *Picker) routesCurrentLocked() bool {
	return len(p.routes) > 0 && p.routesSeq == p.routeSeq
}

func (p *Picker) startSearch(kind searchKind, query string) error {
	p.mu.Lock()
	if !p.open {
		p.mu.Unlock()
		return ErrNotOpen
	}
	if kind == searchLocation && p.mode != ModePicking {
		p.mu.Unlock()
		return ErrNotPicking
	}

	state := p.searchStateLocked(kind)
	if state.stop != nil {
		state.stop()
		state.stop = nil
	}
	state.query = query
	state.seq++
	state.err = ""

	if strings.TrimSpace(query) == "" {
		state.results = nil
		state.loading = false
		p.mu.Unlock()
		return nil
	}

	state.loading = true
	session, seq, ctx := p.session, state.seq, p.ctx
	p.mu.Unlock()

	stop := p.schedule(p.debounce, func() {
		p.runSearch(ctx, kind, session, seq, query)
	})

	p.mu.Lock()
	if p.session == session && state.seq == seq {
		state.stop = stop
	}
	p.mu.Unlock()
	return nil
}

// runSearch sends a debounced query. A result is kept only if its query is
// still the latest in the same session.
func (p *Picker) runSearch(ctx context.Context, kind searchKind, session, seq uint64, query string) {
	var (
		results []location.GeocodeResult
		err     error
	)
	if p.geocoder != nil {
		results, err = p.geocoder.Search(ctx, query, p.limit)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	state := p.searchStateLocked(kind)
	if !p.open || p.session != session || state.seq != seq {
		return
	}

	state.loading = false
	state.stop = nil
	if err != nil {
		logging.Warnw(ctx, "Location search failed", "query", query, "error", err)
		state.results = nil
		state.err = "Search failed"
		return
	}

	state.results = make([]location.NamedLocation, 0, len(results))
	for _, r := range results {
		if loc := location.FromGeocode(r); loc != nil && loc.IsPlaced() {
			state.results = append(state.results, *loc)
		}
	}
}

func (p *Picker) searchStateLocked(kind searchKind) *searchState {
	if kind == searchAvoidance {
		return &p.avoidSearch
	}
	return &p.search
}

func (p *Picker) clearSearchLocked(state *searchState) {
	if state.stop != nil {
		state.stop()
	}
	*state = searchState{seq: state.seq + 1}
}

// placeLocked stores loc in the pending slot with a fresh id and returns to idle
func (p *Picker) placeLocked(loc location.NamedLocation) error {
	point := RoutePoint{ID: p.newID(), Role: p.pending.Role, Location: loc, Lock: Unlocked}

	switch p.pending.Role {
	case RoleStart:
		if p.start != nil && p.start.Locked() {
			return ErrLocked
		}
		p.start = &point
	case RoleEnd:
		if p.end != nil && p.end.Locked() {
			return ErrLocked
		}
		p.end = &point
	default:
		i := p.pending.Index
		if p.pending.Insert {
			if i < 0 || i > len(p.waypoints) {
				i = len(p.waypoints)
			}
			p.waypoints = append(p.waypoints, RoutePoint{})
			copy(p.waypoints[i+1:], p.waypoints[i:])
			p.waypoints[i] = point
		} else {
			if i < 0 || i >= len(p.waypoints) {
				return ErrInvalidIndex
			}
			p.waypoints[i] = point
		}
	}

	p.mode = ModeIdle
	p.dirty = true
	return nil
}

// prefill builds a pre-populated point. Unplaced locations are skipped.
func (p *Picker) prefill(role Role, loc location.NamedLocation, lock LockReason) *RoutePoint {
	if !loc.IsPlaced() {
		return nil
	}
	if strings.TrimSpace(loc.Name) == "" {
		loc.Name = loc.Point.String()
	}
	return &RoutePoint{ID: p.newID(), Role: role, Location: loc, Lock: lock}
}

func (p *Picker) closeLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.clearSearchLocked(&p.search)
	p.clearSearchLocked(&p.avoidSearch)

	p.open = false
	p.editingID = ""
	p.isReturn = false
	p.start = nil
	p.end = nil
	p.waypoints = nil
	p.mode = ModeIdle
	p.pending = Pending{}
	p.avoid = routing.Avoidance{}
	p.startDate = ""
	p.endDate = ""
	p.routes = nil
	p.selected = 0
	p.routeLoading = false
	p.routeErr = ""
	p.dirty = false
}

func (p *Picker) pointsLocked() []RoutePoint {
	points := make([]RoutePoint, 0, len(p.waypoints)+2)
	if p.start != nil {
		points = append(points, *p.start)
	}
	points = append(points, p.waypoints...)
	if p.end != nil {
		points = append(points, *p.end)
	}
	return points
}

func (p *Picker) findLocked(id string) *RoutePoint {
	if p.start != nil && p.start.ID == id {
		return p.start
	}
	if p.end != nil && p.end.ID == id {
		return p.end
	}
	if i := p.waypointIndexLocked(id); i >= 0 {
		return &p.waypoints[i]
	}
	return nil
}

func (p *Picker) waypointIndexLocked(id string) int {
	for i, wp := range p.waypoints {
		if wp.ID == id {
			return i
		}
	}
	return -1
}

func (s *searchState) view() SearchView {
	return SearchView{
		Query:   s.query,
		Results: append([]location.NamedLocation{}, s.results...),
		Loading: s.loading,
		Error:   s.err,
	}
}

// lockFor locks a chained endpoint only if it has a name and a real coordinate
func lockFor(loc location.NamedLocation, reason LockReason) LockReason {
	if strings.TrimSpace(loc.Name) != "" && loc.IsPlaced() {
		return reason
	}
	return Unlocked
}

func copyAvoidance(a routing.Avoidance) routing.Avoidance {
	out := routing.Avoidance{
		RoadClasses: append([]routing.RoadClass(nil), a.RoadClasses...),
		PointName:   a.PointName,
	}
	if a.Point != nil {
		pt := *a.Point
		out.Point = &pt
	}
	return out
}

func summarize(option routing.RouteOption) string {
	var parts []string
	for _, leg := range option.Legs {
		if s := strings.TrimSpace(leg.Summary); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}
