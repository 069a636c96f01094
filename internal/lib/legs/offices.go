package legs

import (
	"strings"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

// FixedDistance is a known road distance between two offices
type FixedDistance struct {
	From       string  `json:"from" yaml:"from"`
	To         string  `json:"to" yaml:"to"`
	DistanceKm float64 `json:"distance_km" yaml:"distance_km"`
}

// OfficeDirectory knows office coordinates and fixed office-to-office distances
type OfficeDirectory struct {
	offices   map[string]location.Office
	order     []string
	distances map[string]float64
}

// NewOfficeDirectory builds a directory. Fixed distances are symmetric.
func NewOfficeDirectory(offices []location.Office, distances []FixedDistance) *OfficeDirectory {
	d := &OfficeDirectory{
		offices:   make(map[string]location.Office, len(offices)),
		distances: make(map[string]float64, len(distances)),
	}
	for _, o := range offices {
		if _, seen := d.offices[o.ID]; !seen {
			d.order = append(d.order, o.ID)
		}
		d.offices[o.ID] = o
	}
	for _, fd := range distances {
		if fd.DistanceKm <= 0 {
			continue
		}
		d.distances[pairKey(fd.From, fd.To)] = fd.DistanceKm
	}
	return d
}

// Offices returns all offices in configuration order
func (d *OfficeDirectory) Offices() []location.Office {
	offices := make([]location.Office, 0, len(d.order))
	for _, id := range d.order {
		offices = append(offices, d.offices[id])
	}
	return offices
}

// Office looks up an office by id
func (d *OfficeDirectory) Office(id string) (location.Office, bool) {
	o, ok := d.offices[id]
	return o, ok
}

// Location returns the office as a NamedLocation
func (d *OfficeDirectory) Location(id string) (*location.NamedLocation, bool) {
	o, ok := d.offices[id]
	if !ok {
		return nil, false
	}
	return location.FromOffice(o), true
}

// FixedDistanceKm returns the table distance between two office ids
func (d *OfficeDirectory) FixedDistanceKm(a, b string) (float64, bool) {
	km, ok := d.distances[pairKey(a, b)]
	return km, ok
}

// DistanceKm estimates the distance between two leg endpoints. The fixed
// table wins when both ends are known offices; otherwise it is the
// great-circle distance, using office coordinates for endpoints that carry an
// office id but no coordinate. Returns 0 when either end cannot be resolved.
func (d *OfficeDirectory) DistanceKm(from, to location.NamedLocation) float64 {
	if from.ID != "" && to.ID != "" {
		if km, ok := d.FixedDistanceKm(from.ID, to.ID); ok {
			return km
		}
	}

	a, okA := d.resolve(from)
	b, okB := d.resolve(to)
	if !okA || !okB {
		return 0
	}
	return geo.DistanceKm(a, b)
}

func (d *OfficeDirectory) resolve(l location.NamedLocation) (geo.Point, bool) {
	if l.IsPlaced() {
		return l.Point, true
	}
	if o, ok := d.offices[l.ID]; ok {
		p := geo.Point{Latitude: o.Latitude, Longitude: o.Longitude}
		return p, geo.IsPlaced(p)
	}
	return geo.Point{}, false
}

func pairKey(a, b string) string {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
