package legs

import (
	"errors"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

// DateLayout is the calendar-date format used for leg dates
const DateLayout = "2006-01-02"

var (
	// ErrLegNotFound is returned when no leg matches the given id
	ErrLegNotFound = errors.New("leg not found")

	// ErrReturnPhaseClosed is returned when a non-return leg is added after a return leg
	ErrReturnPhaseClosed = errors.New("trip already has a return leg; only return legs can follow it")

	// ErrOriginLocked is returned when a locked origin is edited without unlocking it
	ErrOriginLocked = errors.New("leg origin is locked to the previous leg's destination")
)

// TravelLeg is one confirmed journey segment of a travel order
type TravelLeg struct {
	ID              string                   `json:"id"`
	From            location.NamedLocation   `json:"from"`
	To              location.NamedLocation   `json:"to"`
	Waypoints       []location.NamedLocation `json:"waypoints,omitempty"`
	DistanceKm      float64                  `json:"distance_km"`
	DurationSeconds float64                  `json:"duration_seconds,omitempty"`
	StartDate       string                   `json:"start_date,omitempty"`
	EndDate         string                   `json:"end_date,omitempty"`
	IsReturn        bool                     `json:"is_return"`
	OriginLocked    bool                     `json:"origin_locked"`

	// Route details from the picker, when the leg was built on the map
	Direct       bool        `json:"direct,omitempty"`
	RouteSummary string      `json:"route_summary,omitempty"`
	Geometry     []geo.Point `json:"geometry,omitempty"`
}

// Stops returns the leg's ordered points: origin, waypoints, destination
func (l TravelLeg) Stops() []location.NamedLocation {
	stops := make([]location.NamedLocation, 0, len(l.Waypoints)+2)
	stops = append(stops, l.From)
	stops = append(stops, l.Waypoints...)
	stops = append(stops, l.To)
	return stops
}

// LegUpdate holds the fields to merge into a leg. Nil fields are left alone.
type LegUpdate struct {
	From         *location.NamedLocation   `json:"from,omitempty"`
	To           *location.NamedLocation   `json:"to,omitempty"`
	Waypoints    *[]location.NamedLocation `json:"waypoints,omitempty"`
	DistanceKm   *float64                  `json:"distance_km,omitempty"`
	StartDate    *string                   `json:"start_date,omitempty"`
	EndDate      *string                   `json:"end_date,omitempty"`
	OriginLocked *bool                     `json:"origin_locked,omitempty"`
}

// PickerContext tells the route picker how to pre-populate a session
type PickerContext struct {
	// Destination of the previous leg; becomes a locked start
	PreviousEndpoint *location.NamedLocation `json:"previous_endpoint,omitempty"`

	// Origin of the first leg; becomes a locked end for a return leg
	ReturnEndpoint *location.NamedLocation `json:"return_endpoint,omitempty"`

	// Leg being edited; its points are pre-populated and nothing is locked
	Editing *TravelLeg `json:"editing,omitempty"`

	IsReturn bool `json:"is_return"`
}

// ValidationErrors maps "<legID>.<field>" to a message
type ValidationErrors map[string]string

// FieldKey builds the error key for a leg field
func FieldKey(legID, field string) string {
	return legID + "." + field
}
