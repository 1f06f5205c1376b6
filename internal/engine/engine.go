// Package engine is the reactive synchronization core: it routes
// configuration-change and external-change events through throttling,
// debouncing, and single-flight recreation so the generated overlay stays
// consistent with its inputs without redundant rebuilds.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/drdrummie/cssgnomme/internal/activate"
	"github.com/drdrummie/cssgnomme/internal/css"
	"github.com/drdrummie/cssgnomme/internal/extract"
	"github.com/drdrummie/cssgnomme/internal/notify"
	"github.com/drdrummie/cssgnomme/internal/settings"
	"github.com/drdrummie/cssgnomme/internal/themes"
	"github.com/drdrummie/cssgnomme/internal/watch"
)

// Options configure a new Engine. Store and OverlayPath are required; the
// rest default to the production collaborators.
type Options struct {
	Store       settings.Store
	OverlayPath string

	// OverlayTheme is the theme identifier the activator switches to.
	OverlayTheme string

	Extractor extract.Extractor
	Discovery themes.Discovery
	Activator activate.Activator
	Notifier  notify.Notifier
	Logger    *slog.Logger

	// StructuralApply is the live-widget collaborator hook invoked
	// immediately when a structural setting changes.
	StructuralApply func(key string)

	DebounceDelay   time.Duration
	WallpaperWindow time.Duration
	ToggleWindow    time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine owns all per-session state: the overlay state, the throttle and
// debounce tables, the recreation coordinator, and the subscription
// registry. Start builds them; Stop releases every one of them.
type Engine struct {
	store        settings.Store
	pipeline     *extract.Pipeline
	assembler    *css.Assembler
	discovery    themes.Discovery
	activator    activate.Activator
	notifier     notify.Notifier
	logger       *slog.Logger
	overlayPath  string
	overlayTheme string
	structural   map[string]bool
	applyHook    func(key string)

	debounceDelay   time.Duration
	wallpaperWindow time.Duration
	toggleWindow    time.Duration
	now             func() time.Time

	coord *Coordinator

	mu              sync.Mutex
	throttle        *Throttle
	debounce        *Debounce
	running         bool
	enabled         bool
	overlayID       string
	initialCreation bool
	subs            []settings.Subscription

	suspendExtract atomic.Bool
	activationWarn sync.Once
}

// New assembles an engine from options. Nothing runs until Start.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("engine: Store is required")
	}
	if opts.OverlayPath == "" {
		return nil, errors.New("engine: OverlayPath is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Extractor == nil {
		opts.Extractor = &extract.FileExtractor{}
	}
	if opts.Discovery == nil {
		opts.Discovery = themes.NewFSDiscovery()
	}
	if opts.Activator == nil {
		opts.Activator = &activate.StoreActivator{Store: opts.Store, Logger: logger}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.OverlayTheme == "" {
		opts.OverlayTheme = "CSSGnomme"
	}
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = 2500 * time.Millisecond
	}
	if opts.WallpaperWindow <= 0 {
		opts.WallpaperWindow = DefaultWindow
	}
	if opts.ToggleWindow <= 0 {
		opts.ToggleWindow = SystemToggleWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	structural := make(map[string]bool, len(settings.StructuralKeys))
	for _, key := range settings.StructuralKeys {
		structural[key] = true
	}

	e := &Engine{
		store:           opts.Store,
		pipeline:        extract.NewPipeline(opts.Store, opts.Extractor, logger),
		assembler:       css.NewAssembler(),
		discovery:       opts.Discovery,
		activator:       opts.Activator,
		notifier:        opts.Notifier,
		logger:          logger,
		overlayPath:     opts.OverlayPath,
		overlayTheme:    opts.OverlayTheme,
		structural:      structural,
		applyHook:       opts.StructuralApply,
		debounceDelay:   opts.DebounceDelay,
		wallpaperWindow: opts.WallpaperWindow,
		toggleWindow:    opts.ToggleWindow,
		now:             opts.Now,
	}
	e.coord = NewCoordinator(e.rebuild, logger)
	return e, nil
}

// Start seeds defaults, builds fresh throttle/debounce tables, registers
// every subscription, and brings the overlay up if the enable flag is set.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return errors.New("engine: already started")
	}
	e.running = true
	e.mu.Unlock()

	settings.EnsureDefaults(e.store)
	e.resetTables()

	subscribe := func(key string, fn settings.ChangeFunc) {
		sub := e.store.Subscribe(key, fn)
		e.mu.Lock()
		e.subs = append(e.subs, sub)
		e.mu.Unlock()
	}

	seen := make(map[string]bool)
	for _, key := range append(append([]string{}, settings.CosmeticKeys...), settings.StructuralKeys...) {
		if seen[key] {
			continue
		}
		seen[key] = true
		key := key
		subscribe(key, func(string) { e.OnCSSSettingChanged(key) })
	}
	subscribe(settings.KeyWallpaperURI, func(string) { e.onWallpaperChanged() })
	subscribe(settings.KeyWallpaperURIDark, func(string) { e.onWallpaperChanged() })
	subscribe(settings.KeyColorScheme, func(string) { e.onColorSchemeToggled() })
	subscribe(settings.KeyTriggerExtraction, func(string) { e.onManualTrigger() })
	subscribe(settings.KeyEnabled, func(string) { e.onEnabledChanged() })

	if e.store.GetBool(settings.KeyEnabled) {
		e.enable()
	}
	e.logger.Info("engine started", "overlay", e.overlayPath)
	return nil
}

// Stop releases every subscription and timer created by Start. An
// in-flight recreation is dropped, not awaited: it resolves on its own
// and the coordinator returns to idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.enabled = false
	subs := e.subs
	e.subs = nil
	e.mu.Unlock()

	for _, sub := range subs {
		e.store.Unsubscribe(sub)
	}
	_, debounce := e.tables()
	debounce.CancelAll()
	e.pipeline.Reset()
	e.logger.Info("engine stopped")
}

// resetTables re-initializes empty throttle and debounce state for a new
// enable cycle. The swap happens under the engine lock: handlers on other
// store-writer goroutines read the table pointers through tables(). The
// superseded debounce is closed so a handler holding it schedules nothing.
func (e *Engine) resetTables() {
	throttle := NewThrottle()
	throttle.SetWindow(ChannelWallpaper, e.wallpaperWindow)
	throttle.SetWindow(ChannelColorScheme, e.toggleWindow)
	debounce := NewDebounce(e.logger)

	e.mu.Lock()
	prev := e.debounce
	e.throttle = throttle
	e.debounce = debounce
	e.mu.Unlock()
	if prev != nil {
		prev.CancelAll()
	}
}

// tables returns the current throttle and debounce under the engine lock.
func (e *Engine) tables() (*Throttle, *Debounce) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.throttle, e.debounce
}

func (e *Engine) isEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running && e.enabled
}

// OnCSSSettingChanged is the single fan-in point for cosmetic edits:
// enabled check, immediate structural apply, then the shared debounced
// regeneration so every CSS-affecting key has identical semantics.
func (e *Engine) OnCSSSettingChanged(name string) {
	if !e.isEnabled() {
		return
	}
	if e.structural[name] && e.applyHook != nil {
		e.applyHook(name)
	}
	_, debounce := e.tables()
	debounce.Schedule(ChannelUserSettings, e.debounceDelay, func() {
		e.coord.Recreate()
	})
}

// onWallpaperChanged handles a wallpaper URI edit: throttled, then the
// shared color-scheme handling. The URI is part of the cache key, so a
// plain (non-forced) extraction is enough.
func (e *Engine) onWallpaperChanged() {
	if !e.isEnabled() {
		return
	}
	throttle, _ := e.tables()
	if !throttle.Allow(ChannelWallpaper, e.now(), false) {
		return
	}
	e.handleColorScheme(false)
}

// onManualTrigger services the forced-extraction trigger key.
func (e *Engine) onManualTrigger() {
	if !e.store.GetBool(settings.KeyTriggerExtraction) {
		return
	}
	e.store.SetBool(settings.KeyTriggerExtraction, false)
	e.TriggerColorExtraction()
}

// TriggerColorExtraction is the manual, forced path: it resets the
// wallpaper throttle window and bypasses the color cache.
func (e *Engine) TriggerColorExtraction() {
	if !e.isEnabled() {
		return
	}
	throttle, _ := e.tables()
	throttle.Allow(ChannelWallpaper, e.now(), true)
	e.handleColorScheme(true)
}

// handleColorScheme runs one round of extract-and-apply. On extraction
// failure it applies theme-brightness fallback colors rather than leaving
// stale state.
func (e *Engine) handleColorScheme(force bool) {
	if e.suspendExtract.Load() && !force {
		return
	}
	if !e.store.GetBool(settings.KeyAutoExtract) {
		return
	}
	scheme, ok := e.pipeline.Extract(force)
	if !ok {
		scheme = extract.FallbackScheme(e.sourceThemeIsLight())
		e.logger.Warn("color extraction failed, using theme fallback colors")
	}
	if e.store.GetBool(settings.KeyOverrideColors) {
		// User-picked colors win; extraction results stay cached for
		// when the override is turned off.
		return
	}
	e.pipeline.ApplyToSettings(scheme)
}

// onColorSchemeToggled handles the system light/dark switch: deduplicated,
// then variant resolution. When a sibling variant exists the switch is
// visually atomic: extraction is suspended, the source theme swaps, the
// recreation future resolves, and only then does color handling run once.
func (e *Engine) onColorSchemeToggled() {
	if !e.isEnabled() {
		return
	}
	throttle, _ := e.tables()
	if !throttle.Allow(ChannelColorScheme, e.now(), false) {
		return
	}
	if !e.store.GetBool(settings.KeyAutoSwitchVariant) {
		e.handleColorScheme(false)
		return
	}

	preferDark := e.store.GetString(settings.KeyColorScheme) == "prefer-dark"
	source := e.store.GetString(settings.KeySourceTheme)
	variant := themes.ResolveVariant(source, preferDark, e.themeInstalled)
	if variant == "" || variant == source {
		e.handleColorScheme(false)
		return
	}

	e.logger.Info("switching theme variant", "from", source, "to", variant)
	e.suspendExtract.Store(true)
	e.store.SetString(settings.KeySourceTheme, variant)
	rec := e.coord.Recreate()
	go func() {
		ok, err := rec.Wait(context.Background())
		e.suspendExtract.Store(false)
		if err != nil || !ok {
			return
		}
		e.handleColorScheme(false)
	}()
}

// onEnabledChanged applies the enable flag synchronously: a user-visible
// on/off action is never debounced. The transition is marked inside the
// lock hold that checks it, so concurrent notifications for the same flag
// value dispatch enable or disable exactly once.
func (e *Engine) onEnabledChanged() {
	want := e.store.GetBool(settings.KeyEnabled)
	e.mu.Lock()
	if !e.running || want == e.enabled {
		e.mu.Unlock()
		return
	}
	e.enabled = want
	e.mu.Unlock()
	if want {
		e.enable()
	} else {
		e.disable()
	}
}

// enable brings the overlay up: fresh throttle/debounce tables, optional
// border-radius detection from the source theme, initial color handling,
// and the initial creation. A failed initial creation reverts the enable
// flag and notifies the user.
func (e *Engine) enable() {
	e.mu.Lock()
	e.enabled = true
	e.initialCreation = true
	e.mu.Unlock()
	e.resetTables()

	source := e.store.GetString(settings.KeySourceTheme)
	if radius, ok := e.discovery.DetectBorderRadius(source); ok {
		def, isInt := settings.Defaults[settings.KeyBorderRadius].(int)
		if isInt && e.store.GetInt(settings.KeyBorderRadius) == def {
			e.store.SetInt(settings.KeyBorderRadius, radius)
		}
	}

	e.handleColorScheme(false)
	e.assembler.InvalidateWritten()
	rec := e.coord.Recreate()
	go func() {
		ok, err := rec.Wait(context.Background())
		e.mu.Lock()
		initial := e.initialCreation
		e.initialCreation = false
		e.mu.Unlock()
		if err != nil || ok {
			return
		}
		if initial {
			e.logger.Error("initial overlay creation failed, reverting enable flag")
			e.store.SetBool(settings.KeyEnabled, false)
			e.notifyUser("Overlay disabled", "Initial overlay creation failed; see the log for details.")
		}
	}()
}

// disable tears the overlay down synchronously: timers cancelled, original
// theme restored. Subscriptions stay registered so a later re-enable works.
func (e *Engine) disable() {
	e.mu.Lock()
	e.enabled = false
	e.mu.Unlock()

	_, debounce := e.tables()
	debounce.CancelAll()
	if err := e.activator.RestoreOriginal(); err != nil {
		e.logger.Warn("restoring original theme failed", "err", err)
	}
	e.logger.Info("overlay disabled")
}

// rebuild is the coordinator's work: snapshot, render, write, identify,
// activate. It runs off the caller's goroutine; every error resolves the
// in-flight recreation with false.
func (e *Engine) rebuild() error {
	snap := settings.TakeSnapshot(e.store)
	stylesheet := e.assembler.Render(snap)
	wrote, err := e.assembler.WriteOverlay(e.overlayPath, stylesheet)
	if err != nil {
		e.notifyUser("Overlay update failed", err.Error())
		return err
	}

	id := uuid.NewString()
	e.mu.Lock()
	e.overlayID = id
	enabled := e.enabled
	e.mu.Unlock()
	e.store.SetString(settings.KeyOverlayID, id)

	if !enabled {
		return nil
	}
	if err := e.activator.ActivateOverlay(e.overlayTheme); err != nil {
		e.notifyUser("Overlay activation failed", err.Error())
		return fmt.Errorf("activate overlay: %w", err)
	}
	if wrote {
		if err := e.activator.ReloadPresentationLayer(); err != nil {
			if errors.Is(err, activate.ErrUnavailable) {
				e.activationWarn.Do(func() {
					e.logger.Warn("shell theme integration missing; overlay CSS generated, live reload unavailable")
				})
			} else {
				e.logger.Warn("presentation reload failed", "err", err)
			}
		}
	}
	return nil
}

func (e *Engine) notifyUser(title, message string) {
	if !e.store.GetBool(settings.KeyNotifications) {
		return
	}
	e.notifier.Notify(title, message)
}

func (e *Engine) themeInstalled(themeID string) bool {
	_, ok := e.discovery.Discover(themeID)
	return ok
}

func (e *Engine) sourceThemeIsLight() bool {
	source := e.store.GetString(settings.KeySourceTheme)
	if path, ok := e.discovery.Discover(source); ok {
		return e.discovery.IsLightTheme(path)
	}
	return e.store.GetString(settings.KeyColorScheme) != "prefer-dark"
}

// HandleExternal routes a watcher event. A rewritten wallpaper file keeps
// its URI, so that path forces a cache bypass; the throttle still
// coalesces bursts.
func (e *Engine) HandleExternal(ev watch.Event) {
	switch ev.Kind {
	case watch.WallpaperChanged:
		if !e.isEnabled() {
			return
		}
		throttle, _ := e.tables()
		if !throttle.Allow(ChannelWallpaper, e.now(), false) {
			return
		}
		e.handleColorScheme(true)
	case watch.SystemThemeChanged:
		e.onColorSchemeToggled()
	}
}

// Status is a point-in-time view for the CLI.
type Status struct {
	Running            bool
	Enabled            bool
	SourceTheme        string
	OverlayID          string
	RecreationInFlight bool
	LiveDebounceTimers int
}

// CurrentStatus reports the engine's state.
func (e *Engine) CurrentStatus() Status {
	e.mu.Lock()
	st := Status{
		Running:   e.running,
		Enabled:   e.enabled,
		OverlayID: e.overlayID,
	}
	debounce := e.debounce
	e.mu.Unlock()
	st.SourceTheme = e.store.GetString(settings.KeySourceTheme)
	st.RecreationInFlight = e.coord.InProgress()
	if debounce != nil {
		st.LiveDebounceTimers = debounce.Len()
	}
	return st
}
