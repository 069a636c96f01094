package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
}

func newTestCache(now *time.Time) *Cache {
	c := NewCache()
	c.now = func() time.Time { return *now }
	return c
}

func TestCache_SetGet(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	c := newTestCache(&now)

	require.NoError(t, c.Set("search:cebu", []place{{Name: "Cebu City", Lat: 10.3157}}, time.Hour, "geocode"))

	var got []place
	found, err := c.Get("search:cebu", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []place{{Name: "Cebu City", Lat: 10.3157}}, got)

	found, err = c.Get("search:davao", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	c := newTestCache(&now)

	require.NoError(t, c.Set("k", "v", time.Minute, "test"))
	assert.Equal(t, 1, c.Stats().FreshEntries)

	now = now.Add(2 * time.Minute)

	var v string
	found, err := c.Get("k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.StaleEntries)

	assert.Equal(t, 1, c.CleanupStale())
	assert.Equal(t, 0, c.Stats().TotalEntries)
}

func TestCache_UnmarshalableValue(t *testing.T) {
	c := NewCache()
	err := c.Set("bad", make(chan int), time.Hour, "test")
	assert.Error(t, err)
}
