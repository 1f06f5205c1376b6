package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Paths      PathsConfig      `json:"paths"`
	Overlay    OverlayConfig    `json:"overlay"`
	Engine     EngineConfig     `json:"engine"`
	Extraction ExtractionConfig `json:"extraction"`
	Watch      WatchConfig      `json:"watch"`
}

// PathsConfig locates the settings store and theme directories.
type PathsConfig struct {
	StorePath string   `json:"storePath"`           // sqlite settings database (supports ~ expansion)
	ThemeDirs []string `json:"themeDirs,omitempty"` // extra theme search dirs on top of the XDG defaults
}

// OverlayConfig names the generated overlay theme and its stylesheet path.
type OverlayConfig struct {
	ThemeName  string `json:"themeName"`
	OutputPath string `json:"outputPath"` // generated stylesheet (supports ~ expansion)
}

// EngineConfig tunes the event timing windows.
type EngineConfig struct {
	DebounceDelay   time.Duration `json:"debounceDelay"`
	WallpaperWindow time.Duration `json:"wallpaperWindow"`
	ToggleWindow    time.Duration `json:"toggleWindow"`
}

// ExtractionConfig tunes the wallpaper color sampler.
type ExtractionConfig struct {
	SampleStride int `json:"sampleStride"` // sample every Nth pixel
}

// WatchConfig configures the external change watcher.
type WatchConfig struct {
	Enabled         bool   `json:"enabled"`
	WallpaperPath   string `json:"wallpaperPath,omitempty"`   // watched wallpaper file (supports ~ expansion)
	ColorSchemePath string `json:"colorSchemePath,omitempty"` // watched system theme state file
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			StorePath: "~/.config/cssgnomme/settings.db",
		},
		Overlay: OverlayConfig{
			ThemeName:  "CSSGnomme",
			OutputPath: "~/.themes/CSSGnomme/gnome-shell/gnome-shell.css",
		},
		Engine: EngineConfig{
			DebounceDelay:   2500 * time.Millisecond,
			WallpaperWindow: time.Second,
			ToggleWindow:    5 * time.Second,
		},
		Extraction: ExtractionConfig{
			SampleStride: 8,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for errors and clamps nonsense values
// back to defaults.
func (c *Config) Validate() error {
	if c.Engine.DebounceDelay <= 0 {
		c.Engine.DebounceDelay = 2500 * time.Millisecond
	}
	if c.Engine.WallpaperWindow <= 0 {
		c.Engine.WallpaperWindow = time.Second
	}
	if c.Engine.ToggleWindow <= 0 {
		c.Engine.ToggleWindow = 5 * time.Second
	}
	if c.Extraction.SampleStride <= 0 {
		c.Extraction.SampleStride = 8
	}
	return nil
}
