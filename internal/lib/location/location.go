package location

import (
	"strconv"
	"strings"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
)

// Source identifies where a NamedLocation came from
type Source string

const (
	SourceOffice Source = "office"
	SourceSearch Source = "search"
	SourceClick  Source = "click"
)

// NamedLocation is the canonical location shape shared by the picker, the
// route engine and the leg builder.
type NamedLocation struct {
	ID      string    `json:"id,omitempty"` // stable office identifier, empty for search/click
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	Point   geo.Point `json:"point"`
	Source  Source    `json:"source,omitempty"`
}

// Office is a saved office record
type Office struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Address   string  `json:"address" yaml:"address"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// GeocodeResult is a single place-search hit. Coordinates arrive as strings.
type GeocodeResult struct {
	PlaceID     string `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// IsPlaced reports whether the location has a non-sentinel coordinate
func (l NamedLocation) IsPlaced() bool {
	return geo.IsPlaced(l.Point)
}

// Normalize converts an office record, a geocode result, or a JSON-decoded map
// of either shape into a NamedLocation. Unrecognised shapes return nil.
func Normalize(raw any) *NamedLocation {
	switch v := raw.(type) {
	case nil:
		return nil
	case NamedLocation:
		return &v
	case *NamedLocation:
		if v == nil {
			return nil
		}
		loc := *v
		return &loc
	case Office:
		return FromOffice(v)
	case *Office:
		if v == nil {
			return nil
		}
		return FromOffice(*v)
	case GeocodeResult:
		return FromGeocode(v)
	case *GeocodeResult:
		if v == nil {
			return nil
		}
		return FromGeocode(*v)
	case map[string]any:
		return normalizeMap(v)
	}
	return nil
}

// FromOffice normalizes a saved office record
func FromOffice(o Office) *NamedLocation {
	return &NamedLocation{
		ID:      o.ID,
		Name:    o.Name,
		Address: o.Address,
		Point:   geo.Point{Latitude: o.Latitude, Longitude: o.Longitude},
		Source:  SourceOffice,
	}
}

// FromGeocode normalizes a search hit. The name is the display name up to the
// first comma and the remainder becomes the address.
func FromGeocode(r GeocodeResult) *NamedLocation {
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
	if err != nil {
		return nil
	}

	name, address := SplitDisplayName(r.DisplayName)
	return &NamedLocation{
		Name:    name,
		Address: address,
		Point:   geo.Point{Latitude: lat, Longitude: lon},
		Source:  SourceSearch,
	}
}

// FromClick builds a location for a map click. An empty name falls back to the
// coordinate text.
func FromClick(p geo.Point, name string) NamedLocation {
	name = strings.TrimSpace(name)
	if name == "" {
		name = p.String()
	}
	return NamedLocation{
		Name:   name,
		Point:  p,
		Source: SourceClick,
	}
}

// SplitDisplayName splits "Name, rest, of, address" into its name and address parts
func SplitDisplayName(displayName string) (string, string) {
	name, rest, found := strings.Cut(displayName, ",")
	if !found {
		return strings.TrimSpace(displayName), ""
	}
	return strings.TrimSpace(name), strings.TrimSpace(rest)
}

func normalizeMap(m map[string]any) *NamedLocation {
	if _, ok := m["latitude"]; ok {
		lat, ok1 := toFloat(m["latitude"])
		lon, ok2 := toFloat(m["longitude"])
		name, ok3 := m["name"].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil
		}
		office := Office{Name: name, Latitude: lat, Longitude: lon}
		office.Address, _ = m["address"].(string)
		office.ID = toID(m["id"])
		return FromOffice(office)
	}

	if _, ok := m["display_name"]; ok {
		displayName, ok1 := m["display_name"].(string)
		lat, ok2 := toCoordString(m["lat"])
		lon, ok3 := toCoordString(m["lon"])
		if !ok1 || !ok2 || !ok3 {
			return nil
		}
		return FromGeocode(GeocodeResult{
			PlaceID:     toID(m["place_id"]),
			DisplayName: displayName,
			Lat:         lat,
			Lon:         lon,
		})
	}

	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func toCoordString(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

func toID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	}
	return ""
}
