package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/dpup/prefab"
	"github.com/dpup/prefab/logging"
	"github.com/joho/godotenv"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/cache"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/clients/nominatim"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/clients/osrm"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/config"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/itinerary"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/picker"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/services"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/store"
)

func main() {
	// Local secrets (OpenAI key) may live in .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	appConfig := loadConfig()
	ctx := logging.EnsureLogger(context.Background())

	cacheInstance := cache.NewCache()

	offices := appConfig.Offices.Directory()
	routeClient := osrm.NewClient(appConfig.Routing.BaseURL)
	engine := routing.NewEngine(routeClient, routing.WithSafeRadiusKm(appConfig.Routing.SafeRadiusKm))

	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(appConfig.Geocoding.BaseURL, appConfig.Geocoding.CountryCode, appConfig.Geocoding.UserAgent),
		cacheInstance,
		appConfig.Geocoding.CacheTTL,
	)

	if appConfig.Itinerary.OpenAIAPIKey == "" {
		log.Printf("No OpenAI API key configured, itineraries use the built-in template")
	} else {
		log.Printf("OpenAI itinerary writer enabled (model: %s)", appConfig.Itinerary.OpenAIModel)
	}
	summarizer := itinerary.NewCachedSummarizer(
		itinerary.NewSummarizer(appConfig.Itinerary.OpenAIAPIKey, appConfig.Itinerary.OpenAIModel, appConfig.Itinerary.OpenAIBaseURL),
		cacheInstance,
	)

	prefs, err := store.Open(appConfig.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open preferences store: %v", err)
	}

	orders := services.NewOrderService(offices, summarizer)
	sessions := services.NewPickerSessionService(orders, engine, geocoder,
		picker.WithBounds(appConfig.Picker.Bounds),
		picker.WithSearchDebounce(appConfig.Picker.SearchDebounce),
		picker.WithSearchLimit(appConfig.Picker.SearchLimit),
		picker.WithBaseContext(ctx),
	)
	router := services.NewRouter(
		services.NewRouteService(engine, geocoder, offices, appConfig.Picker.SearchLimit),
		orders,
		sessions,
		services.NewPreferencesService(prefs),
		services.NewHealthService(summarizer, cacheInstance, sessions),
	)

	log.Printf("Travel order route planner starting")
	log.Printf("Offices configured: %d", len(offices.Offices()))
	log.Printf("Routing via %s, geocoding via %s (%s)", appConfig.Routing.BaseURL, appConfig.Geocoding.BaseURL, appConfig.Geocoding.CountryCode)

	// Expire abandoned picker sessions and stale cache entries
	reaper := services.NewSessionReaper(sessions, cacheInstance, appConfig.Picker.SessionIdle, appConfig.Picker.ReapInterval)
	reaper.Start(ctx)
	defer reaper.Stop()

	// Server configuration (port, etc.) is loaded from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithContext(ctx),
		prefab.WithHTTPHandlerFunc("/api/", router.ServeHTTP),
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system on top of the
// defaults. Configuration is loaded from prefab.yaml and environment
// variables with PF__ prefix.
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	sections := []struct {
		key    string
		target any
	}{
		{"routing", &appConfig.Routing},
		{"geocoding", &appConfig.Geocoding},
		{"picker", &appConfig.Picker},
		{"itinerary", &appConfig.Itinerary},
		{"storage", &appConfig.Storage},
		{"offices", &appConfig.Offices},
	}
	for _, section := range sections {
		if err := prefab.Config.Unmarshal(section.key, section.target); err != nil {
			log.Fatalf("Failed to unmarshal %s section: %v", section.key, err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" && appConfig.Itinerary.OpenAIAPIKey == "" {
		appConfig.Itinerary.OpenAIAPIKey = key
	}

	appConfig.ApplyDefaults()
	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Travel Order Route Planner</title>
    <style>
        body { font-family: 'Courier New', Consolas, monospace; padding: 20px; line-height: 1.4; }
        a { color: #0038a8; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ce1126; }
    </style>
</head>
<body>
<pre>
<span class="header">Travel Order Route Planner</span>

Multi-leg route planning for travel orders.

<span class="header">Lookups:</span>
  <a href="/api/health">GET  /api/health</a>                           - Service health
  <a href="/api/offices">GET  /api/offices</a>                          - Known offices
  GET  /api/geocode/search?q=                   - Place search
  GET  /api/geocode/reverse?lat=&amp;lng=            - Name a map point
  POST /api/routes                              - Ranked route options
  POST /api/routes/geojson                      - Route options as GeoJSON

<span class="header">Travel orders:</span>
  <a href="/api/orders">GET  /api/orders</a>                           - List drafts
  POST /api/orders                              - New draft
  POST /api/orders/{id}/legs                    - Add a leg
  GET  /api/orders/{id}/validation              - Check legs and dates
  GET  /api/orders/{id}/export.kml              - KML export
  POST /api/orders/{id}/itinerary               - Itinerary of travel
  POST /api/orders/{id}/picker                  - Open the route picker

<span class="header">Preferences:</span>
  <a href="/api/preferences/theme">GET  /api/preferences/theme</a>
  <a href="/api/saved-routes">GET  /api/saved-routes</a>
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
