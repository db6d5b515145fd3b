// Package ratelimit provides per-channel sliding-window admission control
// for preview requests.
package ratelimit

import (
	"sync"
	"time"
)

// ChannelLimiter admits at most max requests per channel within a trailing
// window. Denied requests are dropped, not queued. State lives in memory
// only and resets with the process; construct one per bot instance and
// pass it by handle, never share it as a package global.
type ChannelLimiter struct {
	mu         sync.Mutex
	max        int
	window     time.Duration
	admissions map[string][]time.Time

	// now is swappable for tests
	now func() time.Time
}

// NewChannelLimiter creates a limiter admitting max requests per window
// for each channel.
func NewChannelLimiter(max int, window time.Duration) *ChannelLimiter {
	return &ChannelLimiter{
		max:        max,
		window:     window,
		admissions: make(map[string][]time.Time),
		now:        time.Now,
	}
}

// Admit records and allows the request unless the channel already has max
// admissions inside the window. Denied calls leave no trace, so a burst of
// denials does not extend the window.
func (l *ChannelLimiter) Admit(channelID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.admissions[channelID][:0]
	for _, t := range l.admissions[channelID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.admissions[channelID] = kept
		return false
	}

	l.admissions[channelID] = append(kept, now)
	return true
}
