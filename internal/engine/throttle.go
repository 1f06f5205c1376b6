package engine

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle channels.
const (
	ChannelWallpaper   = "wallpaper"
	ChannelColorScheme = "color-scheme-change"
)

// Default suppression windows.
const (
	DefaultWindow      = time.Second
	SystemToggleWindow = 5 * time.Second
)

// Throttle suppresses rapid-fire triggers per channel: after an accepted
// trigger, further triggers inside the channel's window are dropped.
// Channels are independent and never interact.
type Throttle struct {
	mu         sync.Mutex
	windows    map[string]time.Duration
	limiters   map[string]*rate.Limiter
	suppressed map[string]int
}

// NewThrottle returns an empty throttle table.
func NewThrottle() *Throttle {
	return &Throttle{
		windows:    make(map[string]time.Duration),
		limiters:   make(map[string]*rate.Limiter),
		suppressed: make(map[string]int),
	}
}

// SetWindow overrides the suppression window for a channel. Takes effect
// on the channel's next reset (force or first use).
func (t *Throttle) SetWindow(channel string, window time.Duration) {
	t.mu.Lock()
	t.windows[channel] = window
	t.mu.Unlock()
}

func (t *Throttle) window(channel string) time.Duration {
	if w, ok := t.windows[channel]; ok {
		return w
	}
	if channel == ChannelColorScheme {
		return SystemToggleWindow
	}
	return DefaultWindow
}

// Allow reports whether a trigger at now may proceed. force always
// proceeds and restarts the channel's window at now. A suppressed call
// mutates nothing beyond the suppression count.
func (t *Throttle) Allow(channel string, now time.Time, force bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	lim, ok := t.limiters[channel]
	if !ok || force {
		// A fresh limiter carries one token; consuming it at now starts
		// the window there, which is exactly the force-reset semantics.
		lim = rate.NewLimiter(rate.Every(t.window(channel)), 1)
		t.limiters[channel] = lim
		lim.AllowN(now, 1)
		return true
	}

	if lim.AllowN(now, 1) {
		return true
	}
	t.suppressed[channel]++
	return false
}

// Suppressed reports how many triggers the channel has dropped.
func (t *Throttle) Suppressed(channel string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.suppressed[channel]
}
