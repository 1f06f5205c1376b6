// Package css assembles the overlay stylesheet from typed parameters and
// memoizes generated fragments.
package css

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/natefinch/atomic"

	"github.com/drdrummie/cssgnomme/internal/colors"
	"github.com/drdrummie/cssgnomme/internal/settings"
)

// PanelParams feed the top panel fragment.
type PanelParams struct {
	Color   colors.RGB
	Opacity float64
	Radius  int
	Margin  int
}

// PopupParams feed the popup menu fragment.
type PopupParams struct {
	Color   colors.RGB
	Border  colors.RGB
	Opacity float64
	Radius  int
	Layout  string // "attached" or "floating"
}

// BlurParams feed the blur fragment.
type BlurParams struct {
	Radius     int
	Brightness float64
}

// AccentParams feed the accent fragment.
type AccentParams struct {
	Accent colors.RGB
}

// Assembler builds stylesheet fragments and caches them by their parameter
// tuples. The cache is unbounded; its cardinality is bounded in practice
// by the distinct configuration combinations actually exercised.
type Assembler struct {
	mu    sync.RWMutex
	cache map[any]string

	lastHash uint64
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{cache: make(map[any]string)}
}

// memo returns the cached fragment for key, building it once on miss.
func (a *Assembler) memo(key any, build func() string) string {
	a.mu.RLock()
	frag, ok := a.cache[key]
	a.mu.RUnlock()
	if ok {
		return frag
	}
	frag = build()
	a.mu.Lock()
	a.cache[key] = frag
	a.mu.Unlock()
	return frag
}

// CacheSize reports the number of memoized fragments.
func (a *Assembler) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// Panel renders the top panel fragment.
func (a *Assembler) Panel(p PanelParams) string {
	return a.memo(p, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, "#panel {\n")
		fmt.Fprintf(&b, "  background-color: %s;\n", p.Color.RGBA(p.Opacity))
		fmt.Fprintf(&b, "  border-radius: %dpx;\n", p.Radius)
		if p.Margin > 0 {
			fmt.Fprintf(&b, "  margin: %dpx %dpx 0 %dpx;\n", p.Margin, p.Margin, p.Margin)
		}
		fmt.Fprintf(&b, "}\n")
		return b.String()
	})
}

// Popup renders the popup menu fragment.
func (a *Assembler) Popup(p PopupParams) string {
	return a.memo(p, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, ".popup-menu-content, .quick-settings {\n")
		fmt.Fprintf(&b, "  background-color: %s;\n", p.Color.RGBA(p.Opacity))
		fmt.Fprintf(&b, "  border: 1px solid %s;\n", p.Border.RGBA(0.55))
		fmt.Fprintf(&b, "  border-radius: %dpx;\n", p.Radius)
		fmt.Fprintf(&b, "}\n")
		if p.Layout == "floating" {
			fmt.Fprintf(&b, ".popup-menu-boxpointer { -arrow-rise: 8px; }\n")
		}
		return b.String()
	})
}

// Blur renders the blur fragment.
func (a *Assembler) Blur(p BlurParams) string {
	return a.memo(p, func() string {
		if p.Radius <= 0 {
			return ""
		}
		var b strings.Builder
		fmt.Fprintf(&b, ".blurred-background {\n")
		fmt.Fprintf(&b, "  blur-radius: %dpx;\n", p.Radius)
		fmt.Fprintf(&b, "  brightness: %.2f;\n", p.Brightness)
		fmt.Fprintf(&b, "}\n")
		return b.String()
	})
}

// Accent renders the accent fragment.
func (a *Assembler) Accent(p AccentParams) string {
	return a.memo(p, func() string {
		hover := colors.Lighten(p.Accent, 0.08)
		var b strings.Builder
		fmt.Fprintf(&b, ".check-box:checked, .toggle-switch:checked, .slider {\n")
		fmt.Fprintf(&b, "  color: %s;\n", p.Accent.Hex())
		fmt.Fprintf(&b, "}\n")
		fmt.Fprintf(&b, ".button:hover, .popup-menu-item:focus {\n")
		fmt.Fprintf(&b, "  background-color: %s;\n", hover.RGBA(0.35))
		fmt.Fprintf(&b, "}\n")
		return b.String()
	})
}

// Render assembles the complete overlay stylesheet for a configuration
// snapshot.
func (a *Assembler) Render(snap settings.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "/* Generated overlay for %s. Do not edit: regenerated on configuration change. */\n\n", snap.SourceTheme)

	b.WriteString(a.Panel(PanelParams{
		Color:   snap.PanelColor,
		Opacity: snap.PanelOpacity,
		Radius:  snap.BorderRadius,
		Margin:  snap.PanelMargin,
	}))
	b.WriteString("\n")
	b.WriteString(a.Popup(PopupParams{
		Color:   snap.PopupColor,
		Border:  snap.BorderColor,
		Opacity: snap.PopupOpacity,
		Radius:  snap.BorderRadius,
		Layout:  snap.MenuLayout,
	}))
	b.WriteString("\n")
	if frag := a.Blur(BlurParams{Radius: snap.BlurRadius, Brightness: snap.BlurBrightness}); frag != "" {
		b.WriteString(frag)
		b.WriteString("\n")
	}
	b.WriteString(a.Accent(AccentParams{Accent: snap.AccentColor}))
	return b.String()
}

// WriteOverlay writes the stylesheet atomically, skipping the write when
// the content hash matches the previous one so an unchanged overlay never
// triggers a visible reload.
func (a *Assembler) WriteOverlay(path, stylesheet string) (wrote bool, err error) {
	sum := xxhash.Sum64String(stylesheet)

	a.mu.Lock()
	unchanged := a.lastHash != 0 && a.lastHash == sum
	a.mu.Unlock()
	if unchanged {
		return false, nil
	}

	if err := atomic.WriteFile(path, bytes.NewReader([]byte(stylesheet))); err != nil {
		return false, fmt.Errorf("write overlay stylesheet: %w", err)
	}

	a.mu.Lock()
	a.lastHash = sum
	a.mu.Unlock()
	return true, nil
}

// InvalidateWritten forgets the last written hash, forcing the next
// WriteOverlay to hit the disk. Used when the overlay file may have been
// removed behind the engine's back.
func (a *Assembler) InvalidateWritten() {
	a.mu.Lock()
	a.lastHash = 0
	a.mu.Unlock()
}
