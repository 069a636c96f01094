package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/twpayne/go-kml/v2"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

const (
	routeStyleID  = "route"
	directStyleID = "direct"
)

// WriteKML writes a travel order's legs as a KML document: one LineString
// placemark per leg and one Point placemark per distinct stop. Legs without
// route geometry are drawn as straight segments through their stops.
func WriteKML(w io.Writer, title string, ls []legs.TravelLeg) error {
	children := []kml.Element{
		kml.Name(title),
		kml.SharedStyle(routeStyleID,
			kml.LineStyle(kml.Color(color.RGBA{R: 0, G: 56, B: 168, A: 255}), kml.Width(4)),
		),
		kml.SharedStyle(directStyleID,
			kml.LineStyle(kml.Color(color.RGBA{R: 206, G: 17, B: 38, A: 255}), kml.Width(2)),
		),
	}

	for i, leg := range ls {
		if placemark := legPlacemark(i, leg); placemark != nil {
			children = append(children, placemark)
		}
	}
	for _, stop := range distinctStops(ls) {
		children = append(children, kml.Placemark(
			kml.Name(stop.Name),
			kml.Description(stop.Address),
			kml.Point(kml.Coordinates(coordinate(stop.Point))),
		))
	}

	if err := kml.KML(kml.Document(children...)).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func legPlacemark(i int, leg legs.TravelLeg) kml.Element {
	path := leg.Geometry
	if len(path) < 2 {
		path = nil
		for _, stop := range leg.Stops() {
			if stop.IsPlaced() {
				path = append(path, stop.Point)
			}
		}
	}
	if len(path) < 2 {
		return nil
	}

	coords := make([]kml.Coordinate, len(path))
	for j, p := range path {
		coords[j] = coordinate(p)
	}

	style := routeStyleID
	if leg.Direct || len(leg.Geometry) < 2 {
		style = directStyleID
	}

	return kml.Placemark(
		kml.Name(fmt.Sprintf("Leg %d: %s to %s", i+1, leg.From.Name, leg.To.Name)),
		kml.Description(legDescription(leg)),
		kml.StyleURL("#"+style),
		kml.LineString(
			kml.Tessellate(true),
			kml.Coordinates(coords...),
		),
	)
}

func legDescription(leg legs.TravelLeg) string {
	parts := []string{fmt.Sprintf("%.1f km", leg.DistanceKm)}
	if leg.StartDate != "" {
		dates := leg.StartDate
		if leg.EndDate != "" && leg.EndDate != leg.StartDate {
			dates += " to " + leg.EndDate
		}
		parts = append(parts, dates)
	}
	if leg.RouteSummary != "" {
		parts = append(parts, leg.RouteSummary)
	}
	if leg.IsReturn {
		parts = append(parts, "return leg")
	}
	return strings.Join(parts, ", ")
}

// distinctStops lists every placed stop once, in travel order
func distinctStops(ls []legs.TravelLeg) []location.NamedLocation {
	seen := make(map[string]bool)
	var stops []location.NamedLocation
	for _, leg := range ls {
		for _, stop := range leg.Stops() {
			if !stop.IsPlaced() {
				continue
			}
			key := stop.Point.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			stops = append(stops, stop)
		}
	}
	return stops
}

func coordinate(p geo.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
}
