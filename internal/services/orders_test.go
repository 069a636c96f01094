package services

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/itinerary"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

var (
	centralOffice = location.NamedLocation{ID: "dict-co", Name: "DICT Central Office", Point: geo.Point{Latitude: 14.6507, Longitude: 121.0494}, Source: location.SourceOffice}
	regionThree   = location.NamedLocation{ID: "dict-r3", Name: "DICT Region III", Point: geo.Point{Latitude: 15.0286, Longitude: 120.6898}, Source: location.SourceOffice}
)

func createOrder(t *testing.T, s *testServer) OrderView {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/orders", CreateOrderRequest{Traveler: " Juan Dela Cruz ", Purpose: "ICT caravan."})
	requireStatus(t, rec, http.StatusCreated)
	return decode[OrderView](t, rec)
}

func TestCreateOrder(t *testing.T) {
	s := newTestServer(t)

	order := createOrder(t, s)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "Juan Dela Cruz", order.Traveler)
	assert.Empty(t, order.Legs)

	rec := s.do(t, http.MethodPost, "/api/orders", CreateOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/orders", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]OrderView](t, rec), 1)
}

func TestOrder_NotFound(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/orders/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/orders/missing/legs", "{}").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/orders/missing", nil).Code)
}

func TestOrder_LegSequence(t *testing.T) {
	s := newTestServer(t)
	order := createOrder(t, s)
	base := "/api/orders/" + order.ID

	rec := s.do(t, http.MethodPost, base+"/legs", AddLegRequest{})
	requireStatus(t, rec, http.StatusCreated)
	first := decode[legs.TravelLeg](t, rec)
	assert.Equal(t, "leg-1", first.ID)

	from, to := centralOffice, regionThree
	start, end := "2026-03-02", "2026-03-02"
	rec = s.do(t, http.MethodPatch, base+"/legs/leg-1", legs.LegUpdate{From: &from, To: &to, StartDate: &start, EndDate: &end})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, 78.0, decode[legs.TravelLeg](t, rec).DistanceKm)

	rec = s.do(t, http.MethodPost, base+"/legs", AddLegRequest{})
	requireStatus(t, rec, http.StatusCreated)
	second := decode[legs.TravelLeg](t, rec)
	assert.Equal(t, "dict-r3", second.From.ID)
	assert.True(t, second.OriginLocked)
	assert.Equal(t, "2026-03-02", second.StartDate)

	office := centralOffice
	rec = s.do(t, http.MethodPatch, base+"/legs/leg-2", legs.LegUpdate{From: &office})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/validation", nil)
	requireStatus(t, rec, http.StatusOK)
	result := decode[ValidationResponse](t, rec)
	assert.False(t, result.Valid)
	assert.Equal(t, "Destination is required", result.Errors["leg-2.to"])
	assert.Equal(t, "End date is required", result.Errors["leg-2.endDate"])
	assert.NotContains(t, result.Errors, "leg-1.from")

	rec = s.do(t, http.MethodGet, base+"/validation?scope=dates", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.True(t, decode[ValidationResponse](t, rec).Valid)

	rec = s.do(t, http.MethodDelete, base+"/legs/leg-2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, base+"/legs/leg-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, base, nil)
	requireStatus(t, rec, http.StatusOK)
	view := decode[OrderView](t, rec)
	assert.Len(t, view.Legs, 1)
	assert.Equal(t, 78.0, view.TotalDistanceKm)
	assert.Equal(t, "2026-03-02", view.StartDate)
}

func TestOrder_ReturnPhaseClosed(t *testing.T) {
	s := newTestServer(t)
	base := "/api/orders/" + createOrder(t, s).ID

	requireStatus(t, s.do(t, http.MethodPost, base+"/legs", AddLegRequest{}), http.StatusCreated)
	requireStatus(t, s.do(t, http.MethodPost, base+"/legs", AddLegRequest{IsReturn: true}), http.StatusCreated)

	rec := s.do(t, http.MethodPost, base+"/legs", AddLegRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrder_ExportKML(t *testing.T) {
	s := newTestServer(t)
	base := "/api/orders/" + createOrder(t, s).ID

	requireStatus(t, s.do(t, http.MethodPost, base+"/legs", AddLegRequest{}), http.StatusCreated)
	from, to := centralOffice, regionThree
	requireStatus(t, s.do(t, http.MethodPatch, base+"/legs/leg-1", legs.LegUpdate{From: &from, To: &to}), http.StatusOK)

	rec := s.do(t, http.MethodGet, base+"/export.kml", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "travel-order-order-1.kml")

	body := rec.Body.String()
	assert.Contains(t, body, "<kml")
	assert.Contains(t, body, "Travel order for Juan Dela Cruz")
	assert.Contains(t, body, "DICT Region III")
	assert.Equal(t, 1, strings.Count(body, "<LineString>"))
}

func TestOrder_Itinerary(t *testing.T) {
	s := newTestServer(t)
	base := "/api/orders/" + createOrder(t, s).ID

	requireStatus(t, s.do(t, http.MethodPost, base+"/legs", AddLegRequest{}), http.StatusCreated)
	from, to := centralOffice, regionThree
	start, end := "2026-03-02", "2026-03-03"
	requireStatus(t, s.do(t, http.MethodPatch, base+"/legs/leg-1", legs.LegUpdate{From: &from, To: &to, StartDate: &start, EndDate: &end}), http.StatusOK)

	rec := s.do(t, http.MethodPost, base+"/itinerary", nil)
	requireStatus(t, rec, http.StatusOK)

	it := decode[itinerary.Itinerary](t, rec)
	assert.Equal(t, "template", it.GeneratedBy)
	assert.Equal(t, 78.0, it.TotalDistanceKm)
	require.Len(t, it.Lines, 1)
	assert.Contains(t, it.Lines[0], "DICT Central Office to DICT Region III")
	assert.Contains(t, it.Narrative, "Juan Dela Cruz")
}
