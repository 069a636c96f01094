package services

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/picker"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

// PickerSession is one open route picker bound to a travel order
type PickerSession struct {
	ID      string
	OrderID string
	Picker  *picker.Picker

	markers  *markerLog
	lastSeen time.Time
}

// SessionView is the JSON shape of a picker session. Markers holds the
// marker changes since the previous response for this session.
type SessionView struct {
	ID      string              `json:"id"`
	OrderID string              `json:"order_id"`
	State   picker.Snapshot     `json:"state"`
	Markers []picker.MarkerDiff `json:"markers"`
}

// markerLog collects marker diffs until a client reads them
type markerLog struct {
	mu    sync.Mutex
	diffs []picker.MarkerDiff
}

func (m *markerLog) ApplyMarkers(diff picker.MarkerDiff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diffs = append(m.diffs, diff)
}

func (m *markerLog) drain() []picker.MarkerDiff {
	m.mu.Lock()
	defer m.mu.Unlock()
	diffs := m.diffs
	m.diffs = nil
	if diffs == nil {
		diffs = []picker.MarkerDiff{}
	}
	return diffs
}

// OpenPickerRequest opens the picker for a new leg or, with LegID, for
// editing an existing one
type OpenPickerRequest struct {
	IsReturn bool   `json:"is_return"`
	LegID    string `json:"leg_id"`
}

// PickRequest starts picking the point at role and index
type PickRequest struct {
	Role  picker.Role `json:"role" validate:"required,oneof=start waypoint end"`
	Index int         `json:"index" validate:"gte=0"`
}

// AddWaypointRequest starts picking a waypoint inserted at Index, or
// appended when Index is nil
type AddWaypointRequest struct {
	Index *int `json:"index"`
}

// PointRequest is a map coordinate
type PointRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// SearchRequest updates a search box. Target "avoid" addresses the
// avoidance-point box.
type SearchRequest struct {
	Query  string `json:"query" validate:"max=200"`
	Target string `json:"target" validate:"omitempty,oneof=point avoid"`
}

// SelectRequest picks a search result
type SelectRequest struct {
	Index  int    `json:"index" validate:"gte=0"`
	Target string `json:"target" validate:"omitempty,oneof=point avoid"`
}

// MoveRequest moves a waypoint up (-1) or down (1)
type MoveRequest struct {
	Delta int `json:"delta" validate:"oneof=-1 1"`
}

// DatesRequest sets the leg dates
type DatesRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// AvoidRequest replaces the avoidance settings
type AvoidRequest struct {
	RoadClasses []routing.RoadClass `json:"road_classes" validate:"dive,oneof=toll motorway ferry"`
	Point       *geo.Point          `json:"point"`
	PointName   string              `json:"point_name" validate:"max=200"`
	ClearPoint  bool                `json:"clear_point"`
}

// SelectRouteRequest picks the route option Confirm uses
type SelectRouteRequest struct {
	Index int `json:"index" validate:"gte=0"`
}

// ClickResponse reports whether a map click placed a point
type ClickResponse struct {
	Placed  bool        `json:"placed"`
	Session SessionView `json:"session"`
}

// ConfirmResponse carries the stored leg and the updated order
type ConfirmResponse struct {
	Leg   legs.TravelLeg `json:"leg"`
	Order OrderView      `json:"order"`
}

// PickerSessionService hosts route picker sessions over HTTP
type PickerSessionService struct {
	orders     *OrderService
	engine     picker.RouteSource
	geocoder   location.Geocoder
	pickerOpts []picker.Option
	validate   *validator.Validate
	newID      func() string
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*PickerSession
}

// NewPickerSessionService creates a new PickerSessionService. opts are
// applied to every picker it opens.
func NewPickerSessionService(orders *OrderService, engine picker.RouteSource, geocoder location.Geocoder, opts ...picker.Option) *PickerSessionService {
	return &PickerSessionService{
		orders:     orders,
		engine:     engine,
		geocoder:   geocoder,
		pickerOpts: opts,
		validate:   validator.New(),
		newID:      uuid.NewString,
		now:        time.Now,
		sessions:   make(map[string]*PickerSession),
	}
}

// Count returns the number of open sessions
func (s *PickerSessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reap cancels sessions untouched for longer than idle
func (s *PickerSessionService) Reap(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var expired []*PickerSession
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Picker.Cancel()
	}
	return len(expired)
}

// Open handles POST /api/orders/{orderID}/picker
func (s *PickerSessionService) Open(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(mux.Vars(r)["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}

	var req OpenPickerRequest
	if err := decodeJSON(r, s.validate, &req); err != nil {
		writeError(w, err)
		return
	}

	var pctx legs.PickerContext
	if req.LegID != "" {
		pctx, err = order.Legs.EditLeg(req.LegID)
	} else {
		pctx, err = order.Legs.ContextForNew(req.IsReturn)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	markers := &markerLog{}
	opts := make([]picker.Option, 0, len(s.pickerOpts)+1)
	opts = append(opts, s.pickerOpts...)
	opts = append(opts, picker.WithMarkerSurface(markers))

	sess := &PickerSession{
		ID:       s.newID(),
		OrderID:  order.ID,
		Picker:   picker.New(s.engine, s.geocoder, opts...),
		markers:  markers,
		lastSeen: s.now(),
	}
	if err := sess.Picker.Open(pctx); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	logging.Infow(r.Context(), "Route picker opened", "session_id", sess.ID, "order_id", order.ID, "editing", req.LegID)
	writeJSON(w, http.StatusCreated, sess.view())
}

// View handles GET /api/picker/{sessionID}
func (s *PickerSessionService) View(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, nil, func(sess *PickerSession) error { return nil })
}

// Pick handles POST /api/picker/{sessionID}/pick
func (s *PickerSessionService) Pick(w http.ResponseWriter, r *http.Request) {
	var req PickRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		return sess.Picker.EditPoint(req.Role, req.Index)
	})
}

// AddWaypoint handles POST /api/picker/{sessionID}/waypoints
func (s *PickerSessionService) AddWaypoint(w http.ResponseWriter, r *http.Request) {
	var req AddWaypointRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		index := -1
		if req.Index != nil {
			index = *req.Index
		}
		return sess.Picker.AddWaypoint(index)
	})
}

// StopPicking handles POST /api/picker/{sessionID}/stop
func (s *PickerSessionService) StopPicking(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, nil, func(sess *PickerSession) error {
		sess.Picker.StopPicking()
		return nil
	})
}

// Click handles POST /api/picker/{sessionID}/click
func (s *PickerSessionService) Click(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req PointRequest
	if err := decodeJSON(r, s.validate, &req); err != nil {
		writeError(w, err)
		return
	}

	placed, err := sess.Picker.ClickMap(r.Context(), geo.Point{Latitude: req.Lat, Longitude: req.Lng})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClickResponse{Placed: placed, Session: sess.view()})
}

// Search handles POST /api/picker/{sessionID}/search. Results arrive after
// the debounce; poll the session view for them.
func (s *PickerSessionService) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		if req.Target == "avoid" {
			return sess.Picker.SearchAvoidance(req.Query)
		}
		return sess.Picker.Search(req.Query)
	})
}

// Select handles POST /api/picker/{sessionID}/select
func (s *PickerSessionService) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		if req.Target == "avoid" {
			return sess.Picker.SelectAvoidanceResult(req.Index)
		}
		return sess.Picker.SelectSearchResult(req.Index)
	})
}

// Drag handles PUT /api/picker/{sessionID}/points/{pointID}
func (s *PickerSessionService) Drag(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		return sess.Picker.DragPoint(mux.Vars(r)["pointID"], geo.Point{Latitude: req.Lat, Longitude: req.Lng})
	})
}

// Remove handles DELETE /api/picker/{sessionID}/points/{pointID}
func (s *PickerSessionService) Remove(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, nil, func(sess *PickerSession) error {
		return sess.Picker.RemovePoint(mux.Vars(r)["pointID"])
	})
}

// Move handles POST /api/picker/{sessionID}/points/{pointID}/move
func (s *PickerSessionService) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		return sess.Picker.MoveWaypoint(mux.Vars(r)["pointID"], req.Delta)
	})
}

// Dates handles PUT /api/picker/{sessionID}/dates
func (s *PickerSessionService) Dates(w http.ResponseWriter, r *http.Request) {
	var req DatesRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		return sess.Picker.SetDates(req.StartDate, req.EndDate)
	})
}

// Avoid handles PUT /api/picker/{sessionID}/avoidance
func (s *PickerSessionService) Avoid(w http.ResponseWriter, r *http.Request) {
	var req AvoidRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		if err := sess.Picker.SetRoadClassAvoidance(req.RoadClasses); err != nil {
			return err
		}
		switch {
		case req.ClearPoint:
			return sess.Picker.SetAvoidancePoint(nil)
		case req.Point != nil:
			if !geo.IsValid(*req.Point) {
				return badRequest("avoidance point out of range")
			}
			loc := location.FromClick(*req.Point, req.PointName)
			return sess.Picker.SetAvoidancePoint(&loc)
		}
		return nil
	})
}

// SelectRoute handles PUT /api/picker/{sessionID}/route
func (s *PickerSessionService) SelectRoute(w http.ResponseWriter, r *http.Request) {
	var req SelectRouteRequest
	s.withSession(w, r, &req, func(sess *PickerSession) error {
		return sess.Picker.SelectRoute(req.Index)
	})
}

// Confirm handles POST /api/picker/{sessionID}/confirm. The leg is stored
// on the order and the session ends. When the order rejects the leg the
// session stays open so the user can adjust or cancel.
func (s *PickerSessionService) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := s.orders.Get(sess.OrderID)
	if err != nil {
		s.remove(sess.ID)
		sess.Picker.Cancel()
		writeError(w, err)
		return
	}

	leg, err := sess.Picker.ConfirmWith(order.Legs.ApplyPicked)
	if err != nil {
		writeError(w, err)
		return
	}
	s.remove(sess.ID)

	logging.Infow(r.Context(), "Route picker confirmed", "session_id", sess.ID, "order_id", order.ID, "leg_id", leg.ID)
	writeJSON(w, http.StatusOK, ConfirmResponse{Leg: leg, Order: viewOf(order)})
}

// Cancel handles DELETE /api/picker/{sessionID}
func (s *PickerSessionService) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.remove(sess.ID)
	sess.Picker.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// withSession loads the session, decodes req when non-nil, runs fn and
// replies with the session view
func (s *PickerSessionService) withSession(w http.ResponseWriter, r *http.Request, req any, fn func(*PickerSession) error) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req != nil {
		if err := decodeJSON(r, s.validate, req); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := fn(sess); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.view())
}

func (s *PickerSessionService) session(r *http.Request) (*PickerSession, error) {
	id := mux.Vars(r)["sessionID"]

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("failed to load picker session %s: %w", id, ErrSessionNotFound)
	}
	sess.lastSeen = s.now()
	return sess, nil
}

func (s *PickerSessionService) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (sess *PickerSession) view() SessionView {
	return SessionView{
		ID:      sess.ID,
		OrderID: sess.OrderID,
		State:   sess.Picker.Snapshot(),
		Markers: sess.markers.drain(),
	}
}
