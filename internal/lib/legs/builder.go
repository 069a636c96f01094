package legs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

// Builder manages the ordered legs of one travel order
type Builder struct {
	mu      sync.RWMutex
	legs    []TravelLeg
	offices *OfficeDirectory
	now     func() time.Time
	newID   func() string
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithClock sets the clock used for the "not in the past" date rule
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// WithIDGenerator sets the leg id generator
func WithIDGenerator(newID func() string) BuilderOption {
	return func(b *Builder) {
		b.newID = newID
	}
}

// WithLegs seeds the builder with existing legs
func WithLegs(legs []TravelLeg) BuilderOption {
	return func(b *Builder) {
		b.legs = append([]TravelLeg(nil), legs...)
	}
}

// NewBuilder creates an empty leg builder
func NewBuilder(offices *OfficeDirectory, opts ...BuilderOption) *Builder {
	if offices == nil {
		offices = NewOfficeDirectory(nil, nil)
	}
	b := &Builder{
		offices: offices,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Legs returns a copy of the current legs in order
func (b *Builder) Legs() []TravelLeg {
	b.mu.RLock()
	defer b.mu.RUnlock()

	legs := make([]TravelLeg, len(b.legs))
	copy(legs, b.legs)
	return legs
}

// Leg returns the leg with id
func (b *Builder) Leg(id string) (TravelLeg, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.indexOf(id); i >= 0 {
		return b.legs[i], true
	}
	return TravelLeg{}, false
}

// HasReturnLeg reports whether the trip's return phase has started
func (b *Builder) HasReturnLeg() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hasReturnLeg()
}

// AddLeg appends a manual leg. A return leg runs from the previous leg's
// destination back to the first leg's origin; any other leg starts at the
// previous leg's destination and waits for a destination. Both chained
// origins are locked. The first leg has no locked origin.
func (b *Builder) AddLeg(isReturn bool) (TravelLeg, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !isReturn && b.hasReturnLeg() {
		return TravelLeg{}, ErrReturnPhaseClosed
	}

	leg := TravelLeg{ID: b.newID()}
	if len(b.legs) > 0 {
		first := b.legs[0]
		prev := b.legs[len(b.legs)-1]

		leg.From = prev.To
		leg.OriginLocked = true
		leg.StartDate = prev.EndDate
		if isReturn {
			leg.IsReturn = true
			leg.To = first.From
			leg.DistanceKm = b.offices.DistanceKm(leg.From, leg.To)
		}
	}

	b.legs = append(b.legs, leg)
	return leg, nil
}

// UpdateLeg merges update into the leg with id. Distance is recomputed only
// when the origin or destination actually changed, and a recomputed 0 keeps
// the previous distance. A locked origin only moves when the same update
// unlocks it; a new destination is carried into the next leg's locked origin.
func (b *Builder) UpdateLeg(id string, update LegUpdate) (TravelLeg, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return TravelLeg{}, fmt.Errorf("failed to update leg %s: %w", id, ErrLegNotFound)
	}
	leg := b.legs[i]
	prev := leg

	if update.From != nil && locationChanged(leg.From, *update.From) {
		unlocking := update.OriginLocked != nil && !*update.OriginLocked
		if leg.OriginLocked && !unlocking {
			return TravelLeg{}, fmt.Errorf("failed to update leg %s: %w", id, ErrOriginLocked)
		}
	}

	moved := false
	if update.From != nil {
		moved = moved || locationChanged(leg.From, *update.From)
		leg.From = *update.From
	}
	if update.To != nil {
		moved = moved || locationChanged(leg.To, *update.To)
		leg.To = *update.To
	}
	if update.Waypoints != nil {
		leg.Waypoints = append([]location.NamedLocation(nil), (*update.Waypoints)...)
	}
	if update.DistanceKm != nil {
		leg.DistanceKm = *update.DistanceKm
	}
	if update.StartDate != nil {
		leg.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		leg.EndDate = *update.EndDate
	}
	if update.OriginLocked != nil {
		leg.OriginLocked = *update.OriginLocked
	}

	if moved {
		b.resetRoute(&leg)
	}

	b.legs[i] = leg
	b.rechain(i, prev)
	return b.legs[i], nil
}

// RemoveLeg deletes the leg with id. Neighbouring legs are not re-chained.
func (b *Builder) RemoveLeg(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return fmt.Errorf("failed to remove leg %s: %w", id, ErrLegNotFound)
	}
	b.legs = append(b.legs[:i], b.legs[i+1:]...)
	return nil
}

// ContextForNew returns the picker context for adding a leg on the map
func (b *Builder) ContextForNew(isReturn bool) (PickerContext, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !isReturn && b.hasReturnLeg() {
		return PickerContext{}, ErrReturnPhaseClosed
	}

	ctx := PickerContext{}
	if len(b.legs) == 0 {
		return ctx, nil
	}

	prev := b.legs[len(b.legs)-1].To
	ctx.PreviousEndpoint = &prev
	if isReturn {
		origin := b.legs[0].From
		ctx.ReturnEndpoint = &origin
		ctx.IsReturn = true
	}
	return ctx, nil
}

// EditLeg returns the picker context for editing an existing leg
func (b *Builder) EditLeg(id string) (PickerContext, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.indexOf(id)
	if i < 0 {
		return PickerContext{}, fmt.Errorf("failed to edit leg %s: %w", id, ErrLegNotFound)
	}
	leg := b.legs[i]
	leg.Waypoints = append([]location.NamedLocation(nil), leg.Waypoints...)
	return PickerContext{Editing: &leg, IsReturn: leg.IsReturn}, nil
}

// ApplyPicked stores a leg emitted by the picker. A leg whose id already
// exists replaces it in place, keeping its return flag and its locked origin
// unless the edit moved that origin; any other leg is appended.
func (b *Builder) ApplyPicked(picked TravelLeg) (TravelLeg, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := b.indexOf(picked.ID); picked.ID != "" && i >= 0 {
		existing := b.legs[i]
		picked.IsReturn = existing.IsReturn
		picked.OriginLocked = existing.OriginLocked && !locationChanged(existing.From, picked.From)
		b.legs[i] = picked
		b.rechain(i, existing)
		return b.legs[i], nil
	}

	if !picked.IsReturn && b.hasReturnLeg() {
		return TravelLeg{}, ErrReturnPhaseClosed
	}
	if picked.ID == "" {
		picked.ID = b.newID()
	}
	if picked.IsReturn && len(b.legs) == 0 {
		picked.IsReturn = false
	}
	b.legs = append(b.legs, picked)
	return picked, nil
}

// TotalDistanceKm sums every leg's distance
func (b *Builder) TotalDistanceKm() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total float64
	for _, leg := range b.legs {
		total += leg.DistanceKm
	}
	return total
}

// TripSpan returns the first leg's start date and the last leg's end date
func (b *Builder) TripSpan() (string, string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.legs) == 0 {
		return "", ""
	}
	return b.legs[0].StartDate, b.legs[len(b.legs)-1].EndDate
}

// rechain carries leg i's endpoints into the legs chained to it: its new
// destination into the next leg's locked origin and, for the first leg, its
// new origin into a return leg that still ends there. prev is leg i before
// the change.
func (b *Builder) rechain(i int, prev TravelLeg) {
	leg := b.legs[i]

	if locationChanged(prev.To, leg.To) && i+1 < len(b.legs) && b.legs[i+1].OriginLocked {
		next := b.legs[i+1]
		next.From = leg.To
		b.resetRoute(&next)
		b.legs[i+1] = next
	}

	if i == 0 && locationChanged(prev.From, leg.From) {
		for j := 1; j < len(b.legs); j++ {
			ret := b.legs[j]
			if ret.IsReturn && !locationChanged(ret.To, prev.From) {
				ret.To = leg.From
				b.resetRoute(&ret)
				b.legs[j] = ret
			}
		}
	}
}

// resetRoute recomputes the distance after an endpoint moved and drops the
// picker's route details, which no longer match
func (b *Builder) resetRoute(leg *TravelLeg) {
	if km := b.offices.DistanceKm(leg.From, leg.To); km > 0 {
		leg.DistanceKm = km
	}
	leg.Geometry = nil
	leg.RouteSummary = ""
	leg.Direct = false
	leg.DurationSeconds = 0
}

func (b *Builder) hasReturnLeg() bool {
	for _, leg := range b.legs {
		if leg.IsReturn {
			return true
		}
	}
	return false
}

func (b *Builder) indexOf(id string) int {
	for i, leg := range b.legs {
		if leg.ID == id {
			return i
		}
	}
	return -1
}

func locationChanged(prev, next location.NamedLocation) bool {
	return prev.ID != next.ID || prev.Point != next.Point
}
