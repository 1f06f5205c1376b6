package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Paths      rawPathsConfig   `json:"paths"`
	Overlay    rawOverlayConfig `json:"overlay"`
	Engine     rawEngineConfig  `json:"engine"`
	Extraction saveExtraction   `json:"extraction"`
	Watch      saveWatch        `json:"watch"`
}

type saveExtraction struct {
	SampleStride int `json:"sampleStride"`
}

type saveWatch struct {
	Enabled         bool   `json:"enabled"`
	WallpaperPath   string `json:"wallpaperPath,omitempty"`
	ColorSchemePath string `json:"colorSchemePath,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Paths: rawPathsConfig{
			StorePath: cfg.Paths.StorePath,
			ThemeDirs: cfg.Paths.ThemeDirs,
		},
		Overlay: rawOverlayConfig{
			ThemeName:  cfg.Overlay.ThemeName,
			OutputPath: cfg.Overlay.OutputPath,
		},
		Engine: rawEngineConfig{
			DebounceDelay:   cfg.Engine.DebounceDelay.String(),
			WallpaperWindow: cfg.Engine.WallpaperWindow.String(),
			ToggleWindow:    cfg.Engine.ToggleWindow.String(),
		},
		Extraction: saveExtraction{
			SampleStride: cfg.Extraction.SampleStride,
		},
		Watch: saveWatch{
			Enabled:         cfg.Watch.Enabled,
			WallpaperPath:   cfg.Watch.WallpaperPath,
			ColorSchemePath: cfg.Watch.ColorSchemePath,
		},
	}
}

// Save writes the config to ~/.config/cssgnomme/config.json
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
