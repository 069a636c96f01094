package nominatim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

// ResultCache is the subset of cache.Cache used for geocode results
type ResultCache interface {
	Set(key string, data interface{}, ttl time.Duration, source string) error
	Get(key string, result interface{}) (bool, error)
}

// CachedGeocoder wraps a geocoder with result caching. The public service
// allows one request per second, so repeated lookups are served locally.
type CachedGeocoder struct {
	geocoder location.Geocoder
	cache    ResultCache
	ttl      time.Duration
}

// NewCachedGeocoder creates a geocoder that caches results for ttl
func NewCachedGeocoder(geocoder location.Geocoder, cache ResultCache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		geocoder: geocoder,
		cache:    cache,
		ttl:      ttl,
	}
}

// Search returns cached matches for query when available
func (c *CachedGeocoder) Search(ctx context.Context, query string, limit int) ([]location.GeocodeResult, error) {
	key := fmt.Sprintf("geocode:search:%d:%s", limit, strings.ToLower(strings.TrimSpace(query)))

	var cached []location.GeocodeResult
	if found, err := c.cache.Get(key, &cached); err == nil && found {
		logging.Debugw(ctx, "Geocode search cache hit", "query", query)
		return cached, nil
	}

	results, err := c.geocoder.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(key, results, c.ttl, "geocode"); err != nil {
		logging.Warnw(ctx, "Failed to cache geocode search", "query", query, "error", err)
	}
	return results, nil
}

// Reverse returns the cached place for p when available. Coordinates are
// keyed at five decimals (about a meter). Lookup errors are not cached.
func (c *CachedGeocoder) Reverse(ctx context.Context, p geo.Point) (*location.GeocodeResult, error) {
	key := "geocode:reverse:" + p.String()

	var cached location.GeocodeResult
	if found, err := c.cache.Get(key, &cached); err == nil && found {
		logging.Debugw(ctx, "Reverse geocode cache hit", "point", p.String())
		return &cached, nil
	}

	result, err := c.geocoder.Reverse(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(key, result, c.ttl, "geocode"); err != nil {
		logging.Warnw(ctx, "Failed to cache reverse geocode", "point", p.String(), "error", err)
	}
	return result, nil
}
