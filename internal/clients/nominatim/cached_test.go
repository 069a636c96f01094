package nominatim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/cache"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

var _ location.Geocoder = (*CachedGeocoder)(nil)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Search(ctx context.Context, query string, limit int) ([]location.GeocodeResult, error) {
	args := m.Called(ctx, query, limit)
	results, _ := args.Get(0).([]location.GeocodeResult)
	return results, args.Error(1)
}

func (m *MockGeocoder) Reverse(ctx context.Context, p geo.Point) (*location.GeocodeResult, error) {
	args := m.Called(ctx, p)
	result, _ := args.Get(0).(*location.GeocodeResult)
	return result, args.Error(1)
}

func TestCachedGeocoder_SearchHitsUpstreamOnce(t *testing.T) {
	upstream := &MockGeocoder{}
	upstream.On("Search", mock.Anything, "Davao", 5).Return([]location.GeocodeResult{
		{PlaceID: "1", DisplayName: "Davao City, Davao Region, Philippines", Lat: "7.0731", Lon: "125.6128"},
	}, nil).Once()

	geocoder := NewCachedGeocoder(upstream, cache.NewCache(), time.Hour)

	first, err := geocoder.Search(testContext(t), "Davao", 5)
	require.NoError(t, err)
	second, err := geocoder.Search(testContext(t), "  davao ", 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	upstream.AssertNumberOfCalls(t, "Search", 1)
}

func TestCachedGeocoder_ReverseCachesByPoint(t *testing.T) {
	p := geo.Point{Latitude: 14.5826, Longitude: 120.9787}
	upstream := &MockGeocoder{}
	upstream.On("Reverse", mock.Anything, p).Return(&location.GeocodeResult{
		PlaceID: "7", DisplayName: "Rizal Park, Manila", Lat: "14.5826", Lon: "120.9787",
	}, nil).Once()

	geocoder := NewCachedGeocoder(upstream, cache.NewCache(), time.Hour)

	for i := 0; i < 3; i++ {
		result, err := geocoder.Reverse(testContext(t), p)
		require.NoError(t, err)
		assert.Equal(t, "Rizal Park, Manila", result.DisplayName)
	}
	upstream.AssertNumberOfCalls(t, "Reverse", 1)
}

func TestCachedGeocoder_ErrorsAreNotCached(t *testing.T) {
	p := geo.Point{Latitude: 26.2, Longitude: 127.6}
	upstream := &MockGeocoder{}
	upstream.On("Reverse", mock.Anything, p).Return(nil, ErrOutsideCountry)

	geocoder := NewCachedGeocoder(upstream, cache.NewCache(), time.Hour)

	_, err := geocoder.Reverse(testContext(t), p)
	assert.True(t, errors.Is(err, ErrOutsideCountry))
	_, err = geocoder.Reverse(testContext(t), p)
	assert.True(t, errors.Is(err, ErrOutsideCountry))

	upstream.AssertNumberOfCalls(t, "Reverse", 2)
}

// testContext carries a logger the way request contexts do in the server
func testContext(t *testing.T) context.Context {
	return logging.With(t.Context(), logging.NewDevLogger())
}
