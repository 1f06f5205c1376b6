package settings

import "github.com/drdrummie/cssgnomme/internal/colors"

// Snapshot is a read-only view of the cosmetic keys, taken at the moment a
// regeneration starts. It is never cached across regenerations: any key
// may have changed since the last one.
type Snapshot struct {
	SourceTheme    string
	PanelOpacity   float64
	PopupOpacity   float64
	BorderRadius   int
	BlurRadius     int
	BlurBrightness float64
	PanelMargin    int
	MenuLayout     string

	OverrideColors bool
	PanelColor     colors.RGB
	PopupColor     colors.RGB
	AccentColor    colors.RGB
	BorderColor    colors.RGB
}

// TakeSnapshot reads the full cosmetic set fresh from the store.
func TakeSnapshot(s Store) Snapshot {
	return Snapshot{
		SourceTheme:    s.GetString(KeySourceTheme),
		PanelOpacity:   s.GetDouble(KeyPanelOpacity),
		PopupOpacity:   s.GetDouble(KeyPopupOpacity),
		BorderRadius:   s.GetInt(KeyBorderRadius),
		BlurRadius:     s.GetInt(KeyBlurRadius),
		BlurBrightness: s.GetDouble(KeyBlurBrightness),
		PanelMargin:    s.GetInt(KeyPanelMargin),
		MenuLayout:     s.GetString(KeyMenuLayout),
		OverrideColors: s.GetBool(KeyOverrideColors),
		PanelColor:     colors.HexToRGB(s.GetString(KeyPanelColor)),
		PopupColor:     colors.HexToRGB(s.GetString(KeyPopupColor)),
		AccentColor:    colors.HexToRGB(s.GetString(KeyAccentColor)),
		BorderColor:    colors.HexToRGB(s.GetString(KeyBorderColor)),
	}
}
