package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

// Theme is the user's colour scheme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var (
	ErrInvalidTheme  = errors.New("theme must be light, dark or system")
	ErrNameRequired  = errors.New("route name is required")
	ErrRouteNotFound = errors.New("saved route not found")
)

// SavedRoute is a named route the user kept for reuse
type SavedRoute struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	From      location.NamedLocation   `json:"from"`
	To        location.NamedLocation   `json:"to"`
	Stops     []location.NamedLocation `json:"stops,omitempty"`
	Avoidance routing.Avoidance        `json:"avoidance"`
	CreatedAt time.Time                `json:"created_at"`
}

// State is the persisted document
type State struct {
	Theme       Theme        `json:"theme"`
	SavedRoutes []SavedRoute `json:"saved_routes"`
}

// Store keeps user preferences in a single JSON file. It is read once at
// open and rewritten on every change. An empty path keeps state in memory.
type Store struct {
	path  string
	mu    sync.RWMutex
	state State
	now   func() time.Time
	newID func() string
}

// Open loads the store at path. A missing file yields the defaults.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		state: State{Theme: ThemeSystem},
		now:   time.Now,
		newID: uuid.NewString,
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", path, err)
	}
	if !s.state.Theme.Valid() {
		s.state.Theme = ThemeSystem
	}
	return s, nil
}

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// Theme returns the stored theme
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Theme
}

// SetTheme stores a new theme
func (s *Store) SetTheme(t Theme) error {
	if !t.Valid() {
		return ErrInvalidTheme
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.Theme
	s.state.Theme = t
	if err := s.persistLocked(); err != nil {
		s.state.Theme = prev
		return err
	}
	return nil
}

// SavedRoutes returns the saved routes, oldest first
func (s *Store) SavedRoutes() []SavedRoute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SavedRoute{}, s.state.SavedRoutes...)
}

// SavedRoute returns one saved route by id
func (s *Store) SavedRoute(id string) (SavedRoute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.state.SavedRoutes {
		if r.ID == id {
			return r, true
		}
	}
	return SavedRoute{}, false
}

// SaveRoute appends a route, assigning its id and creation time
func (s *Store) SaveRoute(r SavedRoute) (SavedRoute, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return SavedRoute{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.newID()
	r.CreatedAt = s.now().UTC()

	prev := s.state.SavedRoutes
	s.state.SavedRoutes = append(append([]SavedRoute{}, prev...), r)
	if err := s.persistLocked(); err != nil {
		s.state.SavedRoutes = prev
		return SavedRoute{}, err
	}
	return r, nil
}

// DeleteRoute removes a saved route
func (s *Store) DeleteRoute(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.SavedRoutes
	next := make([]SavedRoute, 0, len(prev))
	for _, r := range prev {
		if r.ID != id {
			next = append(next, r)
		}
	}
	if len(next) == len(prev) {
		return ErrRouteNotFound
	}

	s.state.SavedRoutes = next
	if err := s.persistLocked(); err != nil {
		s.state.SavedRoutes = prev
		return err
	}
	return nil
}

// persistLocked writes the state to a temp file and renames it into place
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
