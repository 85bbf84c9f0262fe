package ratelimit

import (
	"sync"
	"time"
)

// Window is a sliding-window request counter. Each session owns exactly one
// Window; the state dies with the session, so there is no shared map of
// limiter entries to grow or leak across sessions.
type Window struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu     sync.Mutex
	stamps []time.Time
}

func NewWindow(maxRequests int, window time.Duration) *Window {
	if maxRequests <= 0 {
		maxRequests = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Window{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Tests use it to step through windows.
func (w *Window) SetClock(now func() time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
}

// Allow reports whether a request may proceed right now. A denied request
// does not consume a slot.
func (w *Window) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.window)

	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept

	if len(w.stamps) >= w.maxRequests {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}
