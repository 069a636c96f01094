package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/cache"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/itinerary"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/picker"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/store"
)

var (
	manila = geo.Point{Latitude: 14.5826, Longitude: 120.9787}
	cebu   = geo.Point{Latitude: 10.3157, Longitude: 123.8854}
	naha   = geo.Point{Latitude: 26.2124, Longitude: 127.6809}
)

// stubProvider returns the same path for every query
type stubProvider struct {
	option routing.RouteOption
	err    error
}

func (p *stubProvider) Route(ctx context.Context, points []geo.Point, opts routing.ProviderOptions) ([]routing.RouteOption, error) {
	if p.err != nil {
		return nil, p.err
	}
	option := p.option
	option.Geometry = append([]geo.Point(nil), points...)
	return []routing.RouteOption{option}, nil
}

// stubGeocoder resolves a fixed set of places
type stubGeocoder struct {
	places  map[string]location.GeocodeResult
	outside map[string]bool
	search  []location.GeocodeResult
	err     error
}

func (g *stubGeocoder) Search(ctx context.Context, query string, limit int) ([]location.GeocodeResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.search, nil
}

func (g *stubGeocoder) Reverse(ctx context.Context, p geo.Point) (*location.GeocodeResult, error) {
	if g.outside[p.String()] {
		return nil, location.ErrOutsideCountry
	}
	result, ok := g.places[p.String()]
	if !ok {
		return nil, errors.New("unable to geocode")
	}
	return &result, nil
}

type testServer struct {
	router   *mux.Router
	cache    *cache.Cache
	provider *stubProvider
	geocoder *stubGeocoder
	orders   *OrderService
	sessions *PickerSessionService
	store    *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	offices := legs.NewOfficeDirectory([]location.Office{
		{ID: "dict-co", Name: "DICT Central Office", Address: "Quezon City", Latitude: 14.6507, Longitude: 121.0494},
		{ID: "dict-r3", Name: "DICT Region III", Address: "San Fernando, Pampanga", Latitude: 15.0286, Longitude: 120.6898},
		{ID: "dict-r7", Name: "DICT Region VII", Address: "Cebu City", Latitude: 10.3157, Longitude: 123.8854},
	}, []legs.FixedDistance{{From: "dict-co", To: "dict-r3", DistanceKm: 78.0}})

	provider := &stubProvider{option: routing.RouteOption{
		DistanceMeters:  571000,
		DurationSeconds: 36000,
		Legs:            []routing.SegmentSummary{{Summary: "Maharlika Highway", DistanceMeters: 571000, DurationSeconds: 36000}},
	}}
	geocoder := &stubGeocoder{
		places: map[string]location.GeocodeResult{
			manila.String(): {PlaceID: "1", DisplayName: "Rizal Park, Ermita, Manila", Lat: "14.5826", Lon: "120.9787"},
			cebu.String():   {PlaceID: "2", DisplayName: "Cebu City, Central Visayas", Lat: "10.3157", Lon: "123.8854"},
		},
		outside: map[string]bool{naha.String(): true},
		search: []location.GeocodeResult{
			{PlaceID: "3", DisplayName: "Davao City, Davao Region", Lat: "7.0731", Lon: "125.6128"},
			{PlaceID: "4", DisplayName: "Broken", Lat: "north", Lon: "east"},
		},
	}
	engine := routing.NewEngine(provider)

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	legN := 0
	orders := NewOrderService(offices, itinerary.NewTemplateSummarizer(),
		legs.WithClock(func() time.Time { return now }),
		legs.WithIDGenerator(func() string {
			legN++
			return fmt.Sprintf("leg-%d", legN)
		}),
	)
	orderN := 0
	orders.newID = func() string {
		orderN++
		return fmt.Sprintf("order-%d", orderN)
	}

	sessions := NewPickerSessionService(orders, engine, geocoder,
		picker.WithAsyncRunner(func(fn func()) { fn() }),
		picker.WithScheduler(func(_ time.Duration, fn func()) func() bool {
			fn()
			return func() bool { return false }
		}),
	)
	sessionN := 0
	sessions.newID = func() string {
		sessionN++
		return fmt.Sprintf("session-%d", sessionN)
	}

	st, err := store.Open("")
	require.NoError(t, err)

	summaryCache := cache.NewCache()
	router := NewRouter(
		NewRouteService(engine, geocoder, offices, 5),
		orders,
		sessions,
		NewPreferencesService(st),
		NewHealthService(itinerary.NewTemplateSummarizer(), summaryCache, sessions),
	)
	return &testServer{
		router:   router,
		cache:    summaryCache,
		provider: provider,
		geocoder: geocoder,
		orders:   orders,
		sessions: sessions,
		store:    st,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequestWithContext(testContext(t), method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// testContext carries a logger the way the prefab server's request contexts do
func testContext(t *testing.T) context.Context {
	return logging.With(t.Context(), logging.NewDevLogger())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}
