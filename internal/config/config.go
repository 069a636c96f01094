package config

import (
	"time"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/picker"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

// Config represents the complete server configuration
type Config struct {
	Routing   RoutingConfig   `yaml:"routing"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Picker    PickerConfig    `yaml:"picker"`
	Itinerary ItineraryConfig `yaml:"itinerary"`
	Storage   StorageConfig   `yaml:"storage"`
	Offices   OfficesConfig   `yaml:"offices"`
}

// RoutingConfig holds route provider settings
type RoutingConfig struct {
	BaseURL      string  `yaml:"base_url"`
	SafeRadiusKm float64 `yaml:"safe_radius_km"`
}

// GeocodingConfig holds place-search provider settings
type GeocodingConfig struct {
	BaseURL     string        `yaml:"base_url"`
	CountryCode string        `yaml:"country_code"`
	UserAgent   string        `yaml:"user_agent"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// PickerConfig holds route picker session settings
type PickerConfig struct {
	SearchDebounce time.Duration `yaml:"search_debounce"`
	SearchLimit    int           `yaml:"search_limit"`
	SessionIdle    time.Duration `yaml:"session_idle"`
	ReapInterval   time.Duration `yaml:"reap_interval"`
	Bounds         picker.Bounds `yaml:"bounds"`
}

// ItineraryConfig holds itinerary writer settings. Without an API key the
// template writer is used.
type ItineraryConfig struct {
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
}

// StorageConfig holds the preferences file location
type StorageConfig struct {
	Path string `yaml:"path"`
}

// OfficesConfig lists known offices and fixed office-to-office distances
type OfficesConfig struct {
	Offices   []location.Office    `yaml:"offices"`
	Distances []legs.FixedDistance `yaml:"distances"`
}

// Directory builds the office directory
func (o OfficesConfig) Directory() *legs.OfficeDirectory {
	return legs.NewOfficeDirectory(o.Offices, o.Distances)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Routing: RoutingConfig{
			BaseURL:      "https://router.project-osrm.org",
			SafeRadiusKm: routing.DefaultSafeRadiusKm,
		},
		Geocoding: GeocodingConfig{
			BaseURL:     "https://nominatim.openstreetmap.org",
			CountryCode: "ph",
			UserAgent:   "dict-travel-orders/1.0",
			CacheTTL:    24 * time.Hour,
		},
		Picker: PickerConfig{
			SearchDebounce: picker.DefaultSearchDebounce,
			SearchLimit:    picker.DefaultSearchLimit,
			SessionIdle:    30 * time.Minute,
			ReapInterval:   5 * time.Minute,
			Bounds:         picker.PhilippinesBounds,
		},
		Itinerary: ItineraryConfig{
			OpenAIModel: "gpt-4o-mini",
		},
		Storage: StorageConfig{
			Path: "data/preferences.json",
		},
		Offices: OfficesConfig{
			Offices: []location.Office{
				{
					ID:        "dict-co",
					Name:      "DICT Central Office",
					Address:   "C.P. Garcia Avenue, Diliman, Quezon City",
					Latitude:  14.6507,
					Longitude: 121.0494,
				},
				{
					ID:        "dict-r3",
					Name:      "DICT Region III",
					Address:   "San Fernando, Pampanga",
					Latitude:  15.0286,
					Longitude: 120.6898,
				},
				{
					ID:        "dict-r7",
					Name:      "DICT Region VII",
					Address:   "Cebu City, Cebu",
					Latitude:  10.3157,
					Longitude: 123.8854,
				},
				{
					ID:        "dict-r11",
					Name:      "DICT Region XI",
					Address:   "Davao City, Davao del Sur",
					Latitude:  7.0731,
					Longitude: 125.6128,
				},
			},
			Distances: []legs.FixedDistance{
				{From: "dict-co", To: "dict-r3", DistanceKm: 78.0},
			},
		},
	}
}

// ApplyDefaults fills zero values left by a partial configuration file
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()

	if c.Routing.BaseURL == "" {
		c.Routing.BaseURL = d.Routing.BaseURL
	}
	if c.Routing.SafeRadiusKm <= 0 {
		c.Routing.SafeRadiusKm = d.Routing.SafeRadiusKm
	}
	if c.Geocoding.BaseURL == "" {
		c.Geocoding.BaseURL = d.Geocoding.BaseURL
	}
	if c.Geocoding.CountryCode == "" {
		c.Geocoding.CountryCode = d.Geocoding.CountryCode
	}
	if c.Geocoding.UserAgent == "" {
		c.Geocoding.UserAgent = d.Geocoding.UserAgent
	}
	if c.Geocoding.CacheTTL <= 0 {
		c.Geocoding.CacheTTL = d.Geocoding.CacheTTL
	}
	if c.Picker.SearchDebounce <= 0 {
		c.Picker.SearchDebounce = d.Picker.SearchDebounce
	}
	if c.Picker.SearchLimit <= 0 {
		c.Picker.SearchLimit = d.Picker.SearchLimit
	}
	if c.Picker.SessionIdle <= 0 {
		c.Picker.SessionIdle = d.Picker.SessionIdle
	}
	if c.Picker.ReapInterval <= 0 {
		c.Picker.ReapInterval = d.Picker.ReapInterval
	}
	if c.Picker.Bounds == (picker.Bounds{}) {
		c.Picker.Bounds = d.Picker.Bounds
	}
	if c.Itinerary.OpenAIModel == "" {
		c.Itinerary.OpenAIModel = d.Itinerary.OpenAIModel
	}
	if c.Storage.Path == "" {
		c.Storage.Path = d.Storage.Path
	}
	if len(c.Offices.Offices) == 0 {
		c.Offices = d.Offices
	}
}
