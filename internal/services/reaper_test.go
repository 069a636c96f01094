package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls   int
	removed int
}

func (c *countingSweeper) CleanupStale() int {
	c.calls++
	return c.removed
}

func TestSessionReaper_Sweep(t *testing.T) {
	s := newTestServer(t)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.sessions.now = func() time.Time { return now }

	openPicker(t, s, createOrder(t, s).ID, OpenPickerRequest{})
	now = now.Add(time.Hour)

	sweeper := &countingSweeper{removed: 2}
	reaper := NewSessionReaper(s.sessions, sweeper, 30*time.Minute, time.Minute)
	reaper.Sweep(testContext(t))

	assert.Equal(t, 0, s.sessions.Count())
	assert.Equal(t, 1, sweeper.calls)
}

func TestSessionReaper_StartStop(t *testing.T) {
	s := newTestServer(t)
	reaper := NewSessionReaper(s.sessions, nil, time.Minute, time.Hour)

	// Start attaches a logger when the caller's context has none
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reaper.Start(ctx)
	assert.True(t, reaper.IsRunning())
	reaper.Start(ctx)

	reaper.Stop()
	assert.False(t, reaper.IsRunning())
	reaper.Stop()
}

func TestSessionReaper_LoopWithoutLogger(t *testing.T) {
	s := newTestServer(t)
	openPicker(t, s, createOrder(t, s).ID, OpenPickerRequest{})
	require.Equal(t, 1, s.sessions.Count())

	sweeper := &countingSweeper{removed: 1}
	reaper := NewSessionReaper(s.sessions, sweeper, 0, 5*time.Millisecond)
	reaper.Start(context.Background())
	defer reaper.Stop()

	assert.Eventually(t, func() bool { return s.sessions.Count() == 0 }, time.Second, 5*time.Millisecond)
}
