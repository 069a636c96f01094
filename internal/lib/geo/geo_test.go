package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	manila = Point{Latitude: 14.5995, Longitude: 120.9842}
	cebu   = Point{Latitude: 10.3157, Longitude: 123.8854}
	davao  = Point{Latitude: 7.0731, Longitude: 125.6128}
)

func TestDistanceKm_ManilaToCebu(t *testing.T) {
	d := DistanceKm(manila, cebu)
	assert.GreaterOrEqual(t, d, 570.0)
	assert.LessOrEqual(t, d, 575.0)

	// Rounded to one decimal place
	assert.InDelta(t, d, float64(int(d*10+0.5))/10, 1e-9)
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{manila, cebu},
		{cebu, davao},
		{manila, davao},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 51.5074, Longitude: -0.1278}},
		{{Latitude: 0, Longitude: 179.9}, {Latitude: 0, Longitude: -179.9}},
	}

	for _, pair := range pairs {
		assert.Equal(t, DistanceKm(pair[0], pair[1]), DistanceKm(pair[1], pair[0]))
	}
}

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(manila, manila))
	assert.Equal(t, 0.0, DistanceKm(Point{}, Point{}))
}

func TestDistanceKm_TriangleInequalityApproximately(t *testing.T) {
	direct := DistanceKm(manila, davao)
	viaCebu := DistanceKm(manila, cebu) + DistanceKm(cebu, davao)

	// Rounding can shave at most 0.1 km off the direct leg
	assert.LessOrEqual(t, direct, viaCebu+0.1)
}

func TestIsPlaced(t *testing.T) {
	assert.False(t, IsPlaced(Point{}))
	assert.False(t, IsPlaced(Point{Latitude: 0.00005, Longitude: -0.00009}))
	assert.True(t, IsPlaced(Point{Latitude: 0.00005, Longitude: 0.5}))
	assert.True(t, IsPlaced(manila))
}

func TestGeoUtils_PointToPoint(t *testing.T) {
	geoUtils := NewGeoUtils()

	distance, err := geoUtils.PointToPoint(manila, cebu)
	require.NoError(t, err)
	assert.InDelta(t, DistanceKm(manila, cebu)*1000, distance, 100)

	_, err = geoUtils.PointToPoint(manila, Point{Latitude: 200, Longitude: -300})
	assert.Error(t, err, "Should return error for invalid coordinates")
}

func TestGeoUtils_MinDistanceToPoints(t *testing.T) {
	geoUtils := NewGeoUtils()

	path := []Point{manila, cebu, davao}
	d, err := geoUtils.MinDistanceToPoints(cebu, path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	d, err = geoUtils.MinDistanceToPoints(Point{Latitude: 10.4, Longitude: 123.9}, path)
	require.NoError(t, err)
	assert.Less(t, d, 15000.0)
	assert.Greater(t, d, 5000.0)

	_, err = geoUtils.MinDistanceToPoints(cebu, nil)
	assert.Error(t, err)
}

func TestGeoUtils_PolylineRoundTrip(t *testing.T) {
	geoUtils := NewGeoUtils()

	encoded := geoUtils.EncodePolyline([]Point{manila, cebu})
	require.NotEmpty(t, encoded)

	points, err := geoUtils.DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InDelta(t, manila.Latitude, points[0].Latitude, 1e-5)
	assert.InDelta(t, cebu.Longitude, points[1].Longitude, 1e-5)

	_, err = geoUtils.DecodePolyline("")
	assert.Error(t, err)
}

func TestGeoUtils_DecodeKnownPolyline(t *testing.T) {
	geoUtils := NewGeoUtils()

	// Reference string from the polyline algorithm documentation
	points, err := geoUtils.DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 38.5, points[0].Latitude, 1e-5)
	assert.InDelta(t, -120.2, points[0].Longitude, 1e-5)
	assert.InDelta(t, 43.252, points[2].Latitude, 1e-5)
}

func TestGeoUtils_PathLength(t *testing.T) {
	geoUtils := NewGeoUtils()
	assert.Equal(t, 0.0, geoUtils.PathLength([]Point{manila}))
	assert.InDelta(t, DistanceKm(manila, cebu)*1000, geoUtils.PathLength([]Point{manila, cebu}), 100)
}
