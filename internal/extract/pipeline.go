// Package extract wraps wallpaper color extraction with a content-addressed
// cache and projects extracted colors into the configuration store.
package extract

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/drdrummie/cssgnomme/internal/colors"
	"github.com/drdrummie/cssgnomme/internal/settings"
)

// Scheme is the result of one extraction. Immutable once returned.
type Scheme struct {
	Accent      colors.RGB
	Background  colors.RGB
	ExtractedAt time.Time
}

// Extractor produces a dominant/accent pair from an image file.
type Extractor interface {
	ExtractDominantAndAccent(imagePath string) (Scheme, error)
}

// Pipeline caches extraction results per (wallpaper URI, light preference)
// pair. The cache lives as long as the pipeline and is cleared only by
// Reset; failures are never cached, so every call after a failure
// re-attempts extraction.
type Pipeline struct {
	store     settings.Store
	extractor Extractor
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[uint64]Scheme
}

// NewPipeline wires an extractor to the configuration store.
func NewPipeline(store settings.Store, extractor Extractor, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		extractor: extractor,
		logger:    logger,
		cache:     make(map[uint64]Scheme),
	}
}

// cacheKey is the content address for one extraction input.
func cacheKey(wallpaperURI string, preferLight bool) uint64 {
	d := xxhash.New()
	d.WriteString(wallpaperURI)
	if preferLight {
		d.Write([]byte{0, 1})
	} else {
		d.Write([]byte{0, 0})
	}
	return d.Sum64()
}

// CurrentWallpaper returns the wallpaper URI for the active light/dark
// preference, and whether that preference is light.
func (p *Pipeline) CurrentWallpaper() (uri string, preferLight bool) {
	scheme := p.store.GetString(settings.KeyColorScheme)
	preferLight = scheme != "prefer-dark"
	uri = p.store.GetString(settings.KeyWallpaperURI)
	if !preferLight {
		if dark := p.store.GetString(settings.KeyWallpaperURIDark); dark != "" {
			uri = dark
		}
	}
	return uri, preferLight
}

// Extract returns the color scheme for the current wallpaper. Unless force
// is set, a cached result for the same (URI, preference) pair is reused.
// The zero Scheme with ok=false signals extraction failure; nothing is
// cached on failure.
func (p *Pipeline) Extract(force bool) (Scheme, bool) {
	uri, preferLight := p.CurrentWallpaper()
	if uri == "" {
		p.logger.Debug("no wallpaper configured, skipping extraction")
		return Scheme{}, false
	}
	key := cacheKey(uri, preferLight)

	if !force {
		p.mu.Lock()
		cached, ok := p.cache[key]
		p.mu.Unlock()
		if ok {
			p.logger.Debug("color cache hit", "uri", uri, "light", preferLight)
			return cached, true
		}
	}

	scheme, err := p.extractor.ExtractDominantAndAccent(URIToPath(uri))
	if err != nil {
		p.logger.Warn("color extraction failed", "uri", uri, "err", err)
		return Scheme{}, false
	}

	p.mu.Lock()
	p.cache[key] = scheme
	p.mu.Unlock()
	return scheme, true
}

// ApplyToSettings projects a scheme into the derived color keys. Pure
// projection: no extraction, no cache access. The keys form one logical
// write performed by this single caller.
func (p *Pipeline) ApplyToSettings(s Scheme) {
	popup := colors.Lighten(s.Background, 0.04)
	if !colors.IsDark(s.Background) {
		popup = colors.Darken(s.Background, 0.04)
	}
	p.store.SetString(settings.KeyPanelColor, s.Background.Hex())
	p.store.SetString(settings.KeyPopupColor, popup.Hex())
	p.store.SetString(settings.KeyAccentColor, s.Accent.Hex())
	p.store.SetString(settings.KeyBorderColor, s.Accent.Hex())
}

// FallbackScheme derives default colors from theme brightness, used when
// extraction fails so state never goes stale.
func FallbackScheme(lightTheme bool) Scheme {
	if lightTheme {
		return Scheme{
			Accent:      colors.HexToRGB("#3584e4"),
			Background:  colors.HexToRGB("#fafafa"),
			ExtractedAt: time.Now(),
		}
	}
	return Scheme{
		Accent:      colors.HexToRGB("#3584e4"),
		Background:  colors.HexToRGB("#1e1e2e"),
		ExtractedAt: time.Now(),
	}
}

// Reset clears the cache. Called on pipeline teardown.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	p.cache = make(map[uint64]Scheme)
	p.mu.Unlock()
}

// URIToPath strips a file:// prefix, leaving plain paths untouched.
func URIToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
