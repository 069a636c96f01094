package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/picker"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/store"
)

var (
	ErrOrderNotFound   = errors.New("travel order not found")
	ErrSessionNotFound = errors.New("picker session not found")
)

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
}

// decodeJSON reads the request body into v and runs struct validation
func decodeJSON(r *http.Request, validate *validator.Validate, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &requestError{fmt.Errorf("invalid request body: %w", err)}
	}
	if err := validate.Struct(v); err != nil {
		return &requestError{fmt.Errorf("validation failed: %w", err)}
	}
	return nil
}

// requestError marks malformed client input
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{fmt.Errorf(format, args...)}
}

func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, legs.ErrLegNotFound),
		errors.Is(err, picker.ErrPointNotFound),
		errors.Is(err, store.ErrRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, picker.ErrLocked),
		errors.Is(err, picker.ErrNotOpen),
		errors.Is(err, picker.ErrNotPicking),
		errors.Is(err, picker.ErrRouteLoading),
		errors.Is(err, legs.ErrReturnPhaseClosed),
		errors.Is(err, legs.ErrOriginLocked):
		return http.StatusConflict
	case errors.Is(err, picker.ErrInvalidMove),
		errors.Is(err, picker.ErrInvalidIndex),
		errors.Is(err, picker.ErrIncomplete),
		errors.Is(err, picker.ErrNoRoute),
		errors.Is(err, routing.ErrNotEnoughPoints),
		errors.Is(err, store.ErrInvalidTheme),
		errors.Is(err, store.ErrNameRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
