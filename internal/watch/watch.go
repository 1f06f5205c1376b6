// Package watch feeds external change events into the engine by watching
// the wallpaper file and the system color-scheme state file.
package watch

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies an external change.
type Kind int

const (
	WallpaperChanged Kind = iota
	SystemThemeChanged
)

// Event is one debounced external change.
type Event struct {
	Kind Kind
	Path string
}

// Watcher emits debounced change events for a wallpaper path and an
// optional color-scheme state file.
type Watcher struct {
	Events <-chan Event

	fsw    *fsnotify.Watcher
	stop   chan struct{}
	stopMu sync.Mutex
	done   bool
}

const debounceDelay = 200 * time.Millisecond

// New starts watching. Either path may be empty. Watching the parent
// directory survives the atomic replace most wallpaper setters do.
func New(wallpaperPath, colorSchemePath string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	kinds := make(map[string]Kind)
	watchDirs := make(map[string]struct{})
	if wallpaperPath != "" {
		kinds[filepath.Clean(wallpaperPath)] = WallpaperChanged
		watchDirs[filepath.Dir(wallpaperPath)] = struct{}{}
	}
	if colorSchemePath != "" {
		kinds[filepath.Clean(colorSchemePath)] = SystemThemeChanged
		watchDirs[filepath.Dir(colorSchemePath)] = struct{}{}
	}
	for dir := range watchDirs {
		if err := fsw.Add(dir); err != nil {
			logger.Warn("watch add failed", "dir", dir, "err", err)
		}
	}

	events := make(chan Event, 8)
	w := &Watcher{
		Events: events,
		fsw:    fsw,
		stop:   make(chan struct{}),
	}

	go func() {
		defer fsw.Close()
		defer close(events)

		timers := make(map[Kind]*time.Timer)
		var mu sync.Mutex
		var closed bool

		defer func() {
			mu.Lock()
			closed = true
			for _, t := range timers {
				t.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-w.stop:
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				kind, ok := kinds[filepath.Clean(ev.Name)]
				if !ok {
					continue
				}
				path := ev.Name

				mu.Lock()
				if t := timers[kind]; t != nil {
					t.Stop()
				}
				var timer *time.Timer
				timer = time.AfterFunc(debounceDelay, func() {
					mu.Lock()
					if closed || timers[kind] != timer {
						// Superseded by a re-arm or torn down.
						mu.Unlock()
						return
					}
					delete(timers, kind)
					mu.Unlock()
					select {
					case events <- Event{Kind: kind, Path: path}:
					case <-w.stop:
					}
				})
				timers[kind] = timer
				mu.Unlock()
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", "err", err)
			}
		}
	}()

	return w, nil
}

// Close stops watching; the Events channel is closed once the goroutine
// drains. Safe to call twice.
func (w *Watcher) Close() error {
	w.stopMu.Lock()
	defer w.stopMu.Unlock()
	if w.done {
		return nil
	}
	w.done = true
	close(w.stop)
	return nil
}
