package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

func point(id string, role Role, lat, lng float64) RoutePoint {
	return RoutePoint{
		ID:       id,
		Role:     role,
		Location: location.NamedLocation{Name: id, Point: geo.Point{Latitude: lat, Longitude: lng}},
		Lock:     Unlocked,
	}
}

func TestDiffMarkers(t *testing.T) {
	a := point("a", RoleStart, 14.6, 121.0)
	b := point("b", RoleWaypoint, 14.1, 120.9)
	c := point("c", RoleEnd, 13.7, 121.0)

	movedB := b
	movedB.Location.Point = geo.Point{Latitude: 14.2, Longitude: 120.9}
	d := point("d", RoleEnd, 10.3, 123.8)

	diff := DiffMarkers([]RoutePoint{a, b, c}, []RoutePoint{a, movedB, d})

	assert.Equal(t, []RoutePoint{d}, diff.Add)
	assert.Equal(t, []RoutePoint{movedB}, diff.Update)
	assert.Equal(t, []string{"c"}, diff.Remove)
	assert.False(t, diff.Empty())
}

func TestDiffMarkers_NoChange(t *testing.T) {
	a := point("a", RoleStart, 14.6, 121.0)
	assert.True(t, DiffMarkers([]RoutePoint{a}, []RoutePoint{a}).Empty())
	assert.True(t, DiffMarkers(nil, nil).Empty())
}

func TestDiffMarkers_LockChangeIsUpdate(t *testing.T) {
	a := point("a", RoleStart, 14.6, 121.0)
	locked := a
	locked.Lock = ChainedFromPreviousLeg

	diff := DiffMarkers([]RoutePoint{a}, []RoutePoint{locked})
	assert.Equal(t, []RoutePoint{locked}, diff.Update)
}

func TestLockReason_Locked(t *testing.T) {
	assert.True(t, ChainedFromPreviousLeg.Locked())
	assert.True(t, ChainedAsReturnEndpoint.Locked())
	assert.False(t, EditingExistingLeg.Locked())
	assert.False(t, Unlocked.Locked())
}
