package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

const (
	// EarthRadiusKm is the mean earth radius used by the Haversine formula
	EarthRadiusKm = 6371.0

	// sentinelEpsilon is the tolerance around (0,0) treated as "unset"
	sentinelEpsilon = 1e-4
)

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// DistanceKm returns the great-circle distance between a and b in kilometers,
// rounded to one decimal place. Invalid coordinates still produce a number.
func DistanceKm(a, b Point) float64 {
	return math.Round(haversineKm(a, b)*10) / 10
}

// haversineKm is the unrounded great-circle distance in kilometers
func haversineKm(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dlat := (b.Latitude - a.Latitude) * math.Pi / 180
	dlon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// IsPlaced reports whether p holds a real coordinate. (0,0) within 1e-4 is
// the "unset" sentinel.
func IsPlaced(p Point) bool {
	return !(math.Abs(p.Latitude) < sentinelEpsilon && math.Abs(p.Longitude) < sentinelEpsilon)
}

// IsValid validates latitude and longitude ranges
func IsValid(p Point) bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// String renders the point as "lat, lng" with five decimals
func (p Point) String() string {
	return fmt.Sprintf("%.5f, %.5f", p.Latitude, p.Longitude)
}

// PointToPoint calculates great-circle distance between two points in meters
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	if !IsValid(p1) || !IsValid(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return haversineKm(p1, p2) * 1000, nil
}

// MinDistanceToPoints samples every vertex of path and returns the smallest
// distance to point in meters.
func (g *geoUtils) MinDistanceToPoints(point Point, path []Point) (float64, error) {
	if !IsValid(point) {
		return 0, errors.New("invalid point coordinates")
	}
	if len(path) == 0 {
		return 0, errors.New("path has no points")
	}

	minDistance := math.Inf(1)
	for _, p := range path {
		if !IsValid(p) {
			continue
		}
		d := haversineKm(point, p) * 1000
		if d < minDistance {
			minDistance = d
		}
	}

	if math.IsInf(minDistance, 1) {
		return 0, errors.New("path has no valid points")
	}
	return minDistance, nil
}

// PathLength sums consecutive great-circle distances in meters
func (g *geoUtils) PathLength(path []Point) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += haversineKm(path[i-1], path[i]) * 1000
	}
	return total
}

// DecodePolyline decodes a polyline string to point sequence
func (g *geoUtils) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{Latitude: coord[0], Longitude: coord[1]}
		if !IsValid(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// EncodePolyline encodes points as a precision-5 polyline
func (g *geoUtils) EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}
