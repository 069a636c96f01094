package picker

import (
	"context"
	"errors"
	"time"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

// Role is a point's position in the leg being edited
type Role string

const (
	RoleStart    Role = "start"
	RoleWaypoint Role = "waypoint"
	RoleEnd      Role = "end"
)

// LockReason explains why a point is or is not editable
type LockReason string

const (
	Unlocked                LockReason = "unlocked"
	ChainedFromPreviousLeg  LockReason = "chained-from-previous-leg"
	ChainedAsReturnEndpoint LockReason = "chained-as-return-endpoint"
	EditingExistingLeg      LockReason = "editing-existing-leg"
)

// Locked reports whether the point must not be edited, dragged or removed
func (r LockReason) Locked() bool {
	return r == ChainedFromPreviousLeg || r == ChainedAsReturnEndpoint
}

// Mode is the picker's edit state
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModePicking Mode = "picking"
)

// DefaultSearchDebounce is the input quiet period before a search is sent
const DefaultSearchDebounce = 500 * time.Millisecond

// DefaultSearchLimit is the number of search results requested
const DefaultSearchLimit = 5

var (
	ErrNotOpen       = errors.New("picker is not open")
	ErrNotPicking    = errors.New("no point is being picked")
	ErrLocked        = errors.New("point is locked")
	ErrPointNotFound = errors.New("point not found")
	ErrInvalidMove   = errors.New("waypoint cannot move in that direction")
	ErrInvalidIndex  = errors.New("index out of range")
	ErrIncomplete    = errors.New("start and end are required")
	ErrNoRoute       = errors.New("no route has been computed")
	ErrRouteLoading  = errors.New("route for the current points is still being computed")
)

// RoutePoint is a placed location with a role and a marker id. The id
// survives drags but not replacement.
type RoutePoint struct {
	ID       string                 `json:"id"`
	Role     Role                   `json:"role"`
	Location location.NamedLocation `json:"location"`
	Lock     LockReason             `json:"lock"`
}

// Locked reports whether the point is read-only
func (p RoutePoint) Locked() bool {
	return p.Lock.Locked()
}

// Pending describes the point slot awaiting a map click or search selection
type Pending struct {
	Role   Role `json:"role"`
	Index  int  `json:"index"`
	Insert bool `json:"insert"`
}

// Bounds is the operating country's bounding box
type Bounds struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// PhilippinesBounds covers the Philippine archipelago
var PhilippinesBounds = Bounds{MinLat: 4.5, MaxLat: 21.5, MinLng: 116.0, MaxLng: 127.0}

// Contains reports whether p lies inside the box
func (b Bounds) Contains(p geo.Point) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLng && p.Longitude <= b.MaxLng
}

// SearchView is the visible state of a search box
type SearchView struct {
	Query   string                   `json:"query"`
	Results []location.NamedLocation `json:"results"`
	Loading bool                     `json:"loading"`
	Error   string                   `json:"error,omitempty"`
}

// Snapshot is an immutable copy of the picker state
type Snapshot struct {
	Session       uint64                `json:"session"`
	Open          bool                  `json:"open"`
	Mode          Mode                  `json:"mode"`
	Pending       *Pending              `json:"pending,omitempty"`
	Start         *RoutePoint           `json:"start,omitempty"`
	Waypoints     []RoutePoint          `json:"waypoints"`
	End           *RoutePoint           `json:"end,omitempty"`
	Avoidance     routing.Avoidance     `json:"avoidance"`
	StartDate     string                `json:"start_date,omitempty"`
	EndDate       string                `json:"end_date,omitempty"`
	Routes        []routing.RouteOption `json:"routes"`
	SelectedRoute int                   `json:"selected_route"`
	RouteLoading  bool                  `json:"route_loading"`
	RouteError    string                `json:"route_error,omitempty"`
	Search        SearchView            `json:"search"`
	AvoidSearch   SearchView            `json:"avoid_search"`
	EditingLegID  string                `json:"editing_leg_id,omitempty"`
	IsReturn      bool                  `json:"is_return"`
	CanConfirm    bool                  `json:"can_confirm"`
}

// Points returns start, waypoints and end in order
func (s Snapshot) Points() []RoutePoint {
	points := make([]RoutePoint, 0, len(s.Waypoints)+2)
	if s.Start != nil {
		points = append(points, *s.Start)
	}
	points = append(points, s.Waypoints...)
	if s.End != nil {
		points = append(points, *s.End)
	}
	return points
}

// RouteSource computes route options for an ordered point list
type RouteSource interface {
	Options(ctx context.Context, points []geo.Point, avoid routing.Avoidance) ([]routing.RouteOption, error)
}

// New is implemented in picker.go
