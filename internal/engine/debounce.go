package engine

import (
	"log/slog"
	"sync"
	"time"
)

// ChannelUserSettings coalesces cosmetic setting edits.
const ChannelUserSettings = "user-settings"

// Debounce coalesces bursts per channel: only the most recent scheduling
// request executes, once the channel has been quiet for its delay.
type Debounce struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewDebounce returns an empty debounce table.
func NewDebounce(logger *slog.Logger) *Debounce {
	return &Debounce{
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms channel to run fn after delay. An already-armed channel is
// re-armed with the full delay; the superseded fn never runs. The timer
// slot is cleared before fn is invoked, so fn may re-schedule its own
// channel. A panic inside fn is contained to that invocation.
func (d *Debounce) Schedule(channel string, delay time.Duration, fn func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if prev := d.timers[channel]; prev != nil {
		prev.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.closed || d.timers[channel] != timer {
			// Superseded or torn down between firing and running.
			d.mu.Unlock()
			return
		}
		delete(d.timers, channel)
		d.mu.Unlock()

		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("debounced action panicked", "channel", channel, "panic", r)
			}
		}()
		fn()
	})
	d.timers[channel] = timer
	d.mu.Unlock()
}

// Pending reports whether channel has a live timer.
func (d *Debounce) Pending(channel string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timers[channel] != nil
}

// Len reports the number of live timers.
func (d *Debounce) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// CancelAll stops every live timer and refuses new scheduling. A fresh
// Debounce is created on the next enable cycle.
func (d *Debounce) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for channel, timer := range d.timers {
		timer.Stop()
		delete(d.timers, channel)
	}
}
