package itinerary

import (
	"context"
	"time"

	"github.com/dpup/prefab/logging"
)

// ItineraryTTL is how long a written itinerary is reused
const ItineraryTTL = 24 * time.Hour

// ItineraryCache is the subset of cache.Cache used for itineraries
type ItineraryCache interface {
	Set(key string, data interface{}, ttl time.Duration, source string) error
	Get(key string, result interface{}) (bool, error)
}

// CachedSummarizer wraps a Summarizer with content-based caching so the same
// legs are only sent to the model once a day
type CachedSummarizer struct {
	summarizer Summarizer
	cache      ItineraryCache
	hasher     *ContentHasher
}

// NewCachedSummarizer creates a summarizer with content-based caching
func NewCachedSummarizer(summarizer Summarizer, cache ItineraryCache) *CachedSummarizer {
	return &CachedSummarizer{
		summarizer: summarizer,
		cache:      cache,
		hasher:     NewContentHasher(),
	}
}

// Summarize returns the cached itinerary for identical content, otherwise
// writes and caches a new one
func (c *CachedSummarizer) Summarize(ctx context.Context, req Request) (Itinerary, error) {
	key := "itinerary:" + c.hasher.HashRequest(req)

	var cached Itinerary
	if found, err := c.cache.Get(key, &cached); err == nil && found {
		logging.Debugw(ctx, "Itinerary cache hit", "hash", key[10:18])
		return cached, nil
	}

	it, err := c.summarizer.Summarize(ctx, req)
	if err != nil {
		return it, err
	}

	if err := c.cache.Set(key, it, ItineraryTTL, it.GeneratedBy); err != nil {
		logging.Warnw(ctx, "Failed to cache itinerary", "error", err)
	}
	return it, nil
}

// HealthCheck delegates to the underlying summarizer
func (c *CachedSummarizer) HealthCheck(ctx context.Context) error {
	return c.summarizer.HealthCheck(ctx)
}
