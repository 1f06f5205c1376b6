package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/cssgnomme"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Durations are strings
// ("2.5s") and optional booleans are pointers so an absent key is
// distinguishable from false.
type rawConfig struct {
	Paths      rawPathsConfig      `json:"paths"`
	Overlay    rawOverlayConfig    `json:"overlay"`
	Engine     rawEngineConfig     `json:"engine"`
	Extraction rawExtractionConfig `json:"extraction"`
	Watch      rawWatchConfig      `json:"watch"`
}

type rawPathsConfig struct {
	StorePath string   `json:"storePath"`
	ThemeDirs []string `json:"themeDirs"`
}

type rawOverlayConfig struct {
	ThemeName  string `json:"themeName"`
	OutputPath string `json:"outputPath"`
}

type rawEngineConfig struct {
	DebounceDelay   string `json:"debounceDelay"`
	WallpaperWindow string `json:"wallpaperWindow"`
	ToggleWindow    string `json:"toggleWindow"`
}

type rawExtractionConfig struct {
	SampleStride *int `json:"sampleStride"`
}

type rawWatchConfig struct {
	Enabled         *bool  `json:"enabled"`
	WallpaperPath   string `json:"wallpaperPath"`
	ColorSchemePath string `json:"colorSchemePath"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/cssgnomme/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil // Return defaults on error
		}
		path = filepath.Join(home, configDir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	cfg.Paths.StorePath = ExpandPath(cfg.Paths.StorePath)
	cfg.Overlay.OutputPath = ExpandPath(cfg.Overlay.OutputPath)
	cfg.Watch.WallpaperPath = ExpandPath(cfg.Watch.WallpaperPath)
	cfg.Watch.ColorSchemePath = ExpandPath(cfg.Watch.ColorSchemePath)
	for i := range cfg.Paths.ThemeDirs {
		cfg.Paths.ThemeDirs[i] = ExpandPath(cfg.Paths.ThemeDirs[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	if raw.Paths.StorePath != "" {
		cfg.Paths.StorePath = raw.Paths.StorePath
	}
	if len(raw.Paths.ThemeDirs) > 0 {
		cfg.Paths.ThemeDirs = append([]string{}, raw.Paths.ThemeDirs...)
	}

	if raw.Overlay.ThemeName != "" {
		cfg.Overlay.ThemeName = raw.Overlay.ThemeName
	}
	if raw.Overlay.OutputPath != "" {
		cfg.Overlay.OutputPath = raw.Overlay.OutputPath
	}

	if raw.Engine.DebounceDelay != "" {
		if d, err := time.ParseDuration(raw.Engine.DebounceDelay); err == nil {
			cfg.Engine.DebounceDelay = d
		}
	}
	if raw.Engine.WallpaperWindow != "" {
		if d, err := time.ParseDuration(raw.Engine.WallpaperWindow); err == nil {
			cfg.Engine.WallpaperWindow = d
		}
	}
	if raw.Engine.ToggleWindow != "" {
		if d, err := time.ParseDuration(raw.Engine.ToggleWindow); err == nil {
			cfg.Engine.ToggleWindow = d
		}
	}

	if raw.Extraction.SampleStride != nil {
		cfg.Extraction.SampleStride = *raw.Extraction.SampleStride
	}

	if raw.Watch.Enabled != nil {
		cfg.Watch.Enabled = *raw.Watch.Enabled
	}
	if raw.Watch.WallpaperPath != "" {
		cfg.Watch.WallpaperPath = raw.Watch.WallpaperPath
	}
	if raw.Watch.ColorSchemePath != "" {
		cfg.Watch.ColorSchemePath = raw.Watch.ColorSchemePath
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
