package routing

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
)

var polylineEncoder = geo.NewGeoUtils()

// FeatureCollection renders route options as GeoJSON LineStrings for the map
// surface. Feature order matches option order.
func FeatureCollection(options []RouteOption) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, option := range options {
		f := geojson.NewFeature(lineString(option.Geometry))
		f.Properties["index"] = i
		f.Properties["distance_km"] = option.DistanceKm()
		f.Properties["duration_seconds"] = option.DurationSeconds
		f.Properties["direct"] = option.Direct
		f.Properties["polyline"] = polylineEncoder.EncodePolyline(option.Geometry)
		if len(option.Legs) > 0 {
			f.Properties["summary"] = option.Legs[0].Summary
		}
		if option.MinAvoidDistanceKm != nil {
			f.Properties["min_avoid_distance_km"] = *option.MinAvoidDistanceKm
		}
		fc.Append(f)
	}
	return fc
}

func lineString(points []geo.Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Longitude, p.Latitude}
	}
	return ls
}
