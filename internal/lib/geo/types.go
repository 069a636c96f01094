package geo

// Point represents a geographic coordinate (WGS84 decimal degrees)
type Point struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lng" yaml:"lng"`
}

// Polyline represents an encoded polyline with optional decoded points
type Polyline struct {
	EncodedPolyline string  `json:"encoded_polyline,omitempty"`
	Points          []Point `json:"points"`
}

// GeoUtils interface defines geographic calculation utilities
type GeoUtils interface {
	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Calculate minimum distance from point to any vertex of a path in meters
	MinDistanceToPoints(point Point, path []Point) (float64, error)

	// Decode Google/OSRM polyline string to point sequence
	DecodePolyline(encoded string) ([]Point, error)

	// Encode a point sequence as a precision-5 polyline string
	EncodePolyline(points []Point) string

	// Total length of a path in meters
	PathLength(path []Point) float64
}

// NewGeoUtils is implemented in geo.go
