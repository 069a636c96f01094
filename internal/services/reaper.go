package services

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
)

// StaleSweeper drops expired cache entries
type StaleSweeper interface {
	CleanupStale() int
}

// SessionReaper periodically cancels idle picker sessions and sweeps stale
// cache entries
type SessionReaper struct {
	sessions *PickerSessionService
	cache    StaleSweeper
	idle     time.Duration
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewSessionReaper creates a new SessionReaper. cache may be nil.
func NewSessionReaper(sessions *PickerSessionService, cache StaleSweeper, idle, interval time.Duration) *SessionReaper {
	return &SessionReaper{
		sessions: sessions,
		cache:    cache,
		idle:     idle,
		interval: interval,
	}
}

// Start begins reaping in the background until ctx is done or Stop is called
func (r *SessionReaper) Start(ctx context.Context) {
	ctx = logging.EnsureLogger(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true
	r.stopChan = make(chan struct{})

	logging.Infow(ctx, "Starting picker session reaper", "interval", r.interval, "idle", r.idle)
	go r.loop(ctx, r.stopChan)
}

// Stop ends the background loop
func (r *SessionReaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.running = false
	close(r.stopChan)
}

// IsRunning returns whether the reaper loop is active
func (r *SessionReaper) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *SessionReaper) loop(ctx context.Context, stop chan struct{}) {
	defer func() {
		if rec := recover(); rec != nil {
			err, _ := errors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(ctx, "Session reaper: recovered from panic",
				"error", rec, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
		}
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Infow(ctx, "Session reaper stopping due to context cancellation")
			return
		case <-stop:
			logging.Infow(ctx, "Session reaper stopping due to stop signal")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one reaping pass
func (r *SessionReaper) Sweep(ctx context.Context) {
	if n := r.sessions.Reap(r.idle); n > 0 {
		logging.Infow(ctx, "Reaped idle picker sessions", "count", n, "open", r.sessions.Count())
	}
	if r.cache != nil {
		if n := r.cache.CleanupStale(); n > 0 {
			logging.Infow(ctx, "Swept stale cache entries", "count", n)
		}
	}
}
