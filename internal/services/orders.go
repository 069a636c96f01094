package services

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/export"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/itinerary"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
)

// Order is a travel order draft and its leg sequence
type Order struct {
	ID        string
	Traveler  string
	Purpose   string
	CreatedAt time.Time
	Legs      *legs.Builder
}

// OrderView is the JSON shape of an order
type OrderView struct {
	ID              string           `json:"id"`
	Traveler        string           `json:"traveler"`
	Purpose         string           `json:"purpose"`
	CreatedAt       time.Time        `json:"created_at"`
	Legs            []legs.TravelLeg `json:"legs"`
	TotalDistanceKm float64          `json:"total_distance_km"`
	StartDate       string           `json:"start_date,omitempty"`
	EndDate         string           `json:"end_date,omitempty"`
	HasReturnLeg    bool             `json:"has_return_leg"`
}

// CreateOrderRequest starts a new travel order
type CreateOrderRequest struct {
	Traveler string `json:"traveler" validate:"required,max=200"`
	Purpose  string `json:"purpose" validate:"max=2000"`
}

// AddLegRequest appends a form-built leg
type AddLegRequest struct {
	IsReturn bool `json:"is_return"`
}

// ValidationResponse reports per-field problems keyed "<legID>.<field>"
type ValidationResponse struct {
	Valid  bool                  `json:"valid"`
	Errors legs.ValidationErrors `json:"errors"`
}

// OrderService keeps travel order drafts in memory
type OrderService struct {
	offices     *legs.OfficeDirectory
	summarizer  itinerary.Summarizer
	builderOpts []legs.BuilderOption
	validate    *validator.Validate
	newID       func() string
	now         func() time.Time

	mu     sync.RWMutex
	orders map[string]*Order
}

// NewOrderService creates a new OrderService
func NewOrderService(offices *legs.OfficeDirectory, summarizer itinerary.Summarizer, builderOpts ...legs.BuilderOption) *OrderService {
	return &OrderService{
		offices:     offices,
		summarizer:  summarizer,
		builderOpts: builderOpts,
		validate:    validator.New(),
		newID:       uuid.NewString,
		now:         time.Now,
		orders:      make(map[string]*Order),
	}
}

// Get returns the order with id
func (s *OrderService) Get(id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("failed to load order %s: %w", id, ErrOrderNotFound)
	}
	return order, nil
}

// CreateOrder handles POST /api/orders
func (s *OrderService) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSON(r, s.validate, &req); err != nil {
		writeError(w, err)
		return
	}

	order := &Order{
		ID:        s.newID(),
		Traveler:  strings.TrimSpace(req.Traveler),
		Purpose:   strings.TrimSpace(req.Purpose),
		CreatedAt: s.now().UTC(),
		Legs:      legs.NewBuilder(s.offices, s.builderOpts...),
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	logging.Infow(r.Context(), "Travel order created", "order_id", order.ID)
	writeJSON(w, http.StatusCreated, viewOf(order))
}

// ListOrders handles GET /api/orders
func (s *OrderService) ListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	views := make([]OrderView, 0, len(s.orders))
	for _, order := range s.orders {
		views = append(views, viewOf(order))
	}
	s.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, views)
}

// GetOrder handles GET /api/orders/{orderID}
func (s *OrderService) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.Get(mux.Vars(r)["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(order))
}

// DeleteOrder handles DELETE /api/orders/{orderID}
func (s *OrderService) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["orderID"]

	s.mu.Lock()
	_, ok := s.orders[id]
	delete(s.orders, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, fmt.Errorf("failed to delete order %s: %w", id, ErrOrderNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddLeg handles POST /api/orders/{orderID}/legs
func (s *OrderService) AddLeg(w http.ResponseWriter, r *http.Request) {
	order, err := s.Get(mux.Vars(r)["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}

	var req AddLegRequest
	if err := decodeJSON(r, s.validate, &req); err != nil {
		writeError(w, err)
		return
	}

	leg, err := order.Legs.AddLeg(req.IsReturn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, leg)
}

// UpdateLeg handles PATCH /api/orders/{orderID}/legs/{legID}
func (s *OrderService) UpdateLeg(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	order, err := s.Get(vars["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}

	var update legs.LegUpdate
	if err := decodeJSON(r, s.validate, &update); err != nil {
		writeError(w, err)
		return
	}

	leg, err := order.Legs.UpdateLeg(vars["legID"], update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leg)
}

// RemoveLeg handles DELETE /api/orders/{orderID}/legs/{legID}
func (s *OrderService) RemoveLeg(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	order, err := s.Get(vars["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}
	if err := order.Legs.RemoveLeg(vars["legID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateOrder handles GET /api/orders/{orderID}/validation. With
// ?scope=dates only the date ordering rules run.
func (s *OrderService) ValidateOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.Get(mux.Vars(r)["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}

	var errs legs.ValidationErrors
	if r.URL.Query().Get("scope") == "dates" {
		errs = order.Legs.ValidateDates()
	} else {
		errs = order.Legs.Validate()
	}
	writeJSON(w, http.StatusOK, ValidationResponse{Valid: len(errs) == 0, Errors: errs})
}

// ExportKML handles GET /api/orders/{orderID}/export.kml
func (s *OrderService) ExportKML(w http.ResponseWriter, r *http.Request) {
	order, err := s.Get(mux.Vars(r)["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteKML(&buf, orderTitle(order), order.Legs.Legs()); err != nil {
		logging.Errorw(r.Context(), "KML export failed", "order_id", order.ID, "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "travel-order-"+order.ID+".kml"))
	_, _ = w.Write(buf.Bytes())
}

// Itinerary handles POST /api/orders/{orderID}/itinerary
func (s *OrderService) Itinerary(w http.ResponseWriter, r *http.Request) {
	order, err := s.Get(mux.Vars(r)["orderID"])
	if err != nil {
		writeError(w, err)
		return
	}

	it, err := s.summarizer.Summarize(r.Context(), itinerary.Request{
		Traveler: order.Traveler,
		Purpose:  order.Purpose,
		Legs:     order.Legs.Legs(),
	})
	if err != nil {
		logging.Errorw(r.Context(), "Itinerary generation failed", "order_id", order.ID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func viewOf(order *Order) OrderView {
	start, end := order.Legs.TripSpan()
	return OrderView{
		ID:              order.ID,
		Traveler:        order.Traveler,
		Purpose:         order.Purpose,
		CreatedAt:       order.CreatedAt,
		Legs:            order.Legs.Legs(),
		TotalDistanceKm: order.Legs.TotalDistanceKm(),
		StartDate:       start,
		EndDate:         end,
		HasReturnLeg:    order.Legs.HasReturnLeg(),
	}
}

func orderTitle(order *Order) string {
	if order.Traveler == "" {
		return "Travel order " + order.ID
	}
	return "Travel order for " + order.Traveler
}
