package settings

// Persisted configuration keys. Every key is a plain scalar; co-written
// groups (panel + popup color) are always written by a single caller.
const (
	KeyEnabled          = "overlay-enabled"
	KeySourceTheme      = "source-theme"
	KeyOverlayID        = "overlay-id"
	KeyActiveTheme      = "active-theme"
	KeyColorScheme      = "color-scheme" // "default", "prefer-dark", "prefer-light"
	KeyWallpaperURI     = "wallpaper-uri"
	KeyWallpaperURIDark = "wallpaper-uri-dark"

	KeyAutoExtract       = "auto-extract-colors"
	KeyAutoSwitchVariant = "auto-switch-variant"
	KeyTriggerExtraction = "trigger-extraction"
	KeyNotifications     = "show-notifications"

	KeyPanelOpacity   = "panel-opacity"
	KeyPopupOpacity   = "popup-opacity"
	KeyBorderRadius   = "border-radius"
	KeyBlurRadius     = "blur-radius"
	KeyBlurBrightness = "blur-brightness"
	KeyPanelMargin    = "panel-margin"
	KeyMenuLayout     = "menu-layout" // "attached" or "floating"

	KeyOverrideColors = "override-colors"
	KeyPanelColor     = "panel-color"
	KeyPopupColor     = "popup-color"
	KeyAccentColor    = "accent-color"
	KeyBorderColor    = "border-color"

	keyInitialized = "initialized"
)

// Defaults maps every known key to its first-run value. Typed getters fall
// back to these when a key is missing or the store is unavailable.
var Defaults = map[string]any{
	KeyEnabled:          false,
	KeySourceTheme:      "ZorinBlue-Dark",
	KeyOverlayID:        "",
	KeyActiveTheme:      "",
	KeyColorScheme:      "default",
	KeyWallpaperURI:     "",
	KeyWallpaperURIDark: "",

	KeyAutoExtract:       true,
	KeyAutoSwitchVariant: true,
	KeyTriggerExtraction: false,
	KeyNotifications:     true,

	KeyPanelOpacity:   0.85,
	KeyPopupOpacity:   0.95,
	KeyBorderRadius:   12,
	KeyBlurRadius:     20,
	KeyBlurBrightness: 0.8,
	KeyPanelMargin:    4,
	KeyMenuLayout:     "attached",

	KeyOverrideColors: false,
	KeyPanelColor:     "#1e1e2e",
	KeyPopupColor:     "#24243a",
	KeyAccentColor:    "#3584e4",
	KeyBorderColor:    "#3584e4",

	keyInitialized: false,
}

// CosmeticKeys are the CSS-affecting keys that share the debounced
// regeneration path. Order is not significant.
var CosmeticKeys = []string{
	KeyPanelOpacity,
	KeyPopupOpacity,
	KeyBorderRadius,
	KeyBlurRadius,
	KeyBlurBrightness,
	KeyOverrideColors,
	KeyPanelColor,
	KeyPopupColor,
	KeyAccentColor,
	KeyBorderColor,
}

// StructuralKeys change widget geometry and get an immediate collaborator
// apply in addition to the debounced CSS regeneration.
var StructuralKeys = []string{
	KeyPanelMargin,
	KeyMenuLayout,
	KeyBorderRadius,
}

// EnsureDefaults seeds first-run values inside one batch so subscribers see
// no per-key notification storm. Runs only once per store lifetime.
func EnsureDefaults(s Store) {
	if s.GetBool(keyInitialized) {
		return
	}
	s.BeginBatch()
	defer s.CommitBatch()
	for key, def := range Defaults {
		switch v := def.(type) {
		case bool:
			s.SetBool(key, v)
		case int:
			s.SetInt(key, v)
		case float64:
			s.SetDouble(key, v)
		case string:
			s.SetString(key, v)
		}
	}
	s.SetBool(keyInitialized, true)
}
