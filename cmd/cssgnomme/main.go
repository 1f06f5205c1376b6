package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/drdrummie/cssgnomme/internal/activate"
	"github.com/drdrummie/cssgnomme/internal/config"
	"github.com/drdrummie/cssgnomme/internal/engine"
	"github.com/drdrummie/cssgnomme/internal/extract"
	"github.com/drdrummie/cssgnomme/internal/notify"
	"github.com/drdrummie/cssgnomme/internal/settings"
	"github.com/drdrummie/cssgnomme/internal/themes"
	"github.com/drdrummie/cssgnomme/internal/watch"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
	lightFlag    = flag.Bool("light", false, "resolve toward the light variant (resolve command)")
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("cssgnomme version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "run"
	}

	switch cmd {
	case "run":
		err = runEngine(cfg, logger)
	case "status":
		err = showStatus(cfg, logger)
	case "extract":
		err = extractColors(cfg, logger)
	case "resolve":
		err = resolveVariant(cfg, flag.Arg(1))
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// runEngine wires the full stack and blocks until SIGINT/SIGTERM.
func runEngine(cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Overlay.OutputPath), 0755); err != nil {
		return fmt.Errorf("create overlay directory: %w", err)
	}

	eng, err := engine.New(engine.Options{
		Store:           store,
		OverlayPath:     cfg.Overlay.OutputPath,
		OverlayTheme:    cfg.Overlay.ThemeName,
		Extractor:       &extract.FileExtractor{Stride: cfg.Extraction.SampleStride},
		Discovery:       newDiscovery(cfg),
		Activator:       newActivator(store, logger),
		Notifier:        notify.NewCommand(logger),
		Logger:          logger,
		DebounceDelay:   cfg.Engine.DebounceDelay,
		WallpaperWindow: cfg.Engine.WallpaperWindow,
		ToggleWindow:    cfg.Engine.ToggleWindow,
	})
	if err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()

	if cfg.Watch.Enabled && (cfg.Watch.WallpaperPath != "" || cfg.Watch.ColorSchemePath != "") {
		w, err := watch.New(cfg.Watch.WallpaperPath, cfg.Watch.ColorSchemePath, logger)
		if err != nil {
			logger.Warn("external change watcher unavailable", "err", err)
		} else {
			defer w.Close()
			go func() {
				for ev := range w.Events {
					eng.HandleExternal(ev)
				}
			}()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// showStatus prints the persisted overlay state.
func showStatus(cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Println(headingStyle.Render("CSSGnomme"))
	printKV("enabled", fmt.Sprintf("%v", store.GetBool(settings.KeyEnabled)))
	printKV("source theme", store.GetString(settings.KeySourceTheme))
	printKV("active theme", store.GetString(settings.KeyActiveTheme))
	printKV("overlay id", store.GetString(settings.KeyOverlayID))
	printKV("auto extract", fmt.Sprintf("%v", store.GetBool(settings.KeyAutoExtract)))
	for _, key := range []string{settings.KeyPanelColor, settings.KeyPopupColor, settings.KeyAccentColor, settings.KeyBorderColor} {
		printSwatch(key, store.GetString(key))
	}
	return nil
}

// extractColors runs a one-shot forced extraction against the configured
// wallpaper and prints the resulting scheme without touching the overlay.
func extractColors(cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline := extract.NewPipeline(store, &extract.FileExtractor{Stride: cfg.Extraction.SampleStride}, logger)
	scheme, ok := pipeline.Extract(true)
	if !ok {
		return fmt.Errorf("extraction failed; is a wallpaper URI configured?")
	}
	fmt.Println(headingStyle.Render("Extracted colors"))
	printSwatch("background", scheme.Background.Hex())
	printSwatch("accent", scheme.Accent.Hex())
	return nil
}

// resolveVariant prints the sibling-variant resolution for a theme.
func resolveVariant(cfg *config.Config, themeID string) error {
	if themeID == "" {
		return fmt.Errorf("usage: cssgnomme resolve [-light] <theme-id>")
	}
	discovery := newDiscovery(cfg)
	resolved := themes.ResolveVariant(themeID, !*lightFlag, discovery.Installed)
	if resolved == "" {
		fmt.Printf("%s: no installed sibling variant\n", themeID)
		return nil
	}
	fmt.Printf("%s -> %s\n", themeID, resolved)
	return nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (*settings.SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.StorePath), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return settings.OpenSQL(cfg.Paths.StorePath, logger)
}

func newDiscovery(cfg *config.Config) *themes.FSDiscovery {
	d := themes.NewFSDiscovery()
	if len(cfg.Paths.ThemeDirs) > 0 {
		d.Dirs = append(append([]string{}, cfg.Paths.ThemeDirs...), d.Dirs...)
	}
	return d
}

func newActivator(store settings.Store, logger *slog.Logger) *activate.StoreActivator {
	return &activate.StoreActivator{
		Store:  store,
		Reload: activate.GSettingsReload("org.gnome.shell.extensions.user-theme", "name"),
		Logger: logger,
	}
}

func printKV(key, value string) {
	fmt.Printf("  %s %s\n", keyStyle.Render(key+":"), value)
}

func printSwatch(key, hex string) {
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
	fmt.Printf("  %s %s %s\n", keyStyle.Render(key+":"), swatch, hex)
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cssgnomme [options] [command]\n\n")
		fmt.Fprintf(os.Stderr, "Reactive overlay theme generator for the GNOME shell.\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  run      start the synchronization engine (default)\n")
		fmt.Fprintf(os.Stderr, "  status   print the persisted overlay state\n")
		fmt.Fprintf(os.Stderr, "  extract  run a one-shot wallpaper color extraction\n")
		fmt.Fprintf(os.Stderr, "  resolve  resolve a theme's sibling variant\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
