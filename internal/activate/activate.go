// Package activate is the engine's surface to the shell theme switcher.
package activate

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/drdrummie/cssgnomme/internal/settings"
)

// ErrUnavailable reports that the optional shell integration is missing.
// The engine degrades: overlay CSS is still generated, live hot-reload is
// not.
var ErrUnavailable = errors.New("shell theme integration unavailable")

// Activator switches the presentation layer between the generated overlay
// and the original theme. Implementations do not rebuild anything.
type Activator interface {
	ActivateOverlay(overlayTheme string) error
	RestoreOriginal() error
	ReloadPresentationLayer() error
}

// StoreActivator flips the active-theme configuration keys. Reload is
// delegated to an optional hook; without one it reports ErrUnavailable.
type StoreActivator struct {
	Store  settings.Store
	Reload func() error
	Logger *slog.Logger
}

// ActivateOverlay records overlayTheme as the active theme.
func (a *StoreActivator) ActivateOverlay(overlayTheme string) error {
	a.Store.SetString(settings.KeyActiveTheme, overlayTheme)
	return nil
}

// RestoreOriginal puts the source theme back.
func (a *StoreActivator) RestoreOriginal() error {
	a.Store.SetString(settings.KeyActiveTheme, a.Store.GetString(settings.KeySourceTheme))
	return nil
}

// ReloadPresentationLayer asks the shell to pick up the new stylesheet.
func (a *StoreActivator) ReloadPresentationLayer() error {
	if a.Reload == nil {
		return ErrUnavailable
	}
	return a.Reload()
}

// GSettingsReload returns a Reload hook that pokes the user-theme key via
// the gsettings CLI, which makes the shell re-read its theme.
func GSettingsReload(schema, key string) func() error {
	path, err := exec.LookPath("gsettings")
	if err != nil {
		return nil
	}
	return func() error {
		get := exec.Command(path, "get", schema, key)
		out, err := get.Output()
		if err != nil {
			return fmt.Errorf("read %s %s: %w", schema, key, err)
		}
		set := exec.Command(path, "set", schema, key, string(out))
		if err := set.Run(); err != nil {
			return fmt.Errorf("rewrite %s %s: %w", schema, key, err)
		}
		return nil
	}
}
