package engine

import (
	"testing"
	"time"
)

func TestThrottleSuppression(t *testing.T) {
	th := NewThrottle()
	t0 := time.Now()

	if !th.Allow(ChannelWallpaper, t0, false) {
		t.Fatal("first trigger suppressed")
	}
	if th.Allow(ChannelWallpaper, t0.Add(500*time.Millisecond), false) {
		t.Error("trigger inside the window proceeded")
	}
	if !th.Allow(ChannelWallpaper, t0.Add(1500*time.Millisecond), false) {
		t.Error("trigger after the window suppressed")
	}
	if th.Suppressed(ChannelWallpaper) != 1 {
		t.Errorf("suppressed count = %d, want 1", th.Suppressed(ChannelWallpaper))
	}
}

func TestThrottleForceResetsWindow(t *testing.T) {
	th := NewThrottle()
	t0 := time.Now()

	th.Allow(ChannelWallpaper, t0, false)
	if !th.Allow(ChannelWallpaper, t0.Add(500*time.Millisecond), true) {
		t.Fatal("forced trigger suppressed")
	}
	// The window restarted at t0+500ms.
	if th.Allow(ChannelWallpaper, t0.Add(1200*time.Millisecond), false) {
		t.Error("trigger inside the reset window proceeded")
	}
	if !th.Allow(ChannelWallpaper, t0.Add(1600*time.Millisecond), false) {
		t.Error("trigger after the reset window suppressed")
	}
}

func TestThrottleChannelsIndependent(t *testing.T) {
	th := NewThrottle()
	t0 := time.Now()

	th.Allow(ChannelWallpaper, t0, false)
	if !th.Allow(ChannelColorScheme, t0.Add(100*time.Millisecond), false) {
		t.Error("separate channel affected by another channel's window")
	}
}

func TestThrottleSystemToggleWindow(t *testing.T) {
	th := NewThrottle()
	t0 := time.Now()

	th.Allow(ChannelColorScheme, t0, false)
	if th.Allow(ChannelColorScheme, t0.Add(3*time.Second), false) {
		t.Error("system toggle deduped window should span 5s")
	}
	if !th.Allow(ChannelColorScheme, t0.Add(6*time.Second), false) {
		t.Error("trigger after 5s window suppressed")
	}
}

func TestThrottleSetWindow(t *testing.T) {
	th := NewThrottle()
	th.SetWindow("custom", 100*time.Millisecond)
	t0 := time.Now()

	th.Allow("custom", t0, false)
	if th.Allow("custom", t0.Add(50*time.Millisecond), false) {
		t.Error("trigger inside custom window proceeded")
	}
	if !th.Allow("custom", t0.Add(150*time.Millisecond), false) {
		t.Error("trigger after custom window suppressed")
	}
}
