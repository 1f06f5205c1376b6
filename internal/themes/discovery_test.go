package themes

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTheme(t *testing.T, root, themeID, css string) string {
	t.Helper()
	dir := filepath.Join(root, themeID, "gnome-shell")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "gnome-shell.css")
	if err := os.WriteFile(path, []byte(css), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverPrefersEarlierDirs(t *testing.T) {
	userDir := t.TempDir()
	sysDir := t.TempDir()
	userPath := writeTheme(t, userDir, "Zorin-Dark", "stage {}")
	writeTheme(t, sysDir, "Zorin-Dark", "stage {}")

	d := &FSDiscovery{Dirs: []string{userDir, sysDir}}
	got, ok := d.Discover("Zorin-Dark")
	if !ok || got != userPath {
		t.Errorf("Discover = %q, %v; want user copy %q", got, ok, userPath)
	}

	if _, ok := d.Discover("Missing"); ok {
		t.Error("Discover found a theme that does not exist")
	}
	if d.Installed("Missing") {
		t.Error("Installed(Missing) = true")
	}
}

func TestIsLightTheme(t *testing.T) {
	root := t.TempDir()
	light := writeTheme(t, root, "Plain", "stage { background-color: #fafafa; }")
	d := &FSDiscovery{Dirs: []string{root}}

	if !d.IsLightTheme(light) {
		t.Error("bright background not detected as light")
	}

	dark := writeTheme(t, root, "Other", "stage { background-color: #1c1c1c; }")
	if d.IsLightTheme(dark) {
		t.Error("dark background detected as light")
	}

	// Name wins over content.
	named := writeTheme(t, root, "Foo-Light", "stage { background-color: #000000; }")
	if !d.IsLightTheme(named) {
		t.Error("path containing 'light' should read as light")
	}
}

func TestDetectBorderRadius(t *testing.T) {
	root := t.TempDir()
	writeTheme(t, root, "Rounded", "#panel { border-radius: 14px; }")
	writeTheme(t, root, "Square", "#panel { margin: 0; }")
	d := &FSDiscovery{Dirs: []string{root}}

	if got, ok := d.DetectBorderRadius("Rounded"); !ok || got != 14 {
		t.Errorf("DetectBorderRadius(Rounded) = %v, %v; want 14", got, ok)
	}
	if _, ok := d.DetectBorderRadius("Square"); ok {
		t.Error("DetectBorderRadius(Square) found a radius")
	}
	if _, ok := d.DetectBorderRadius("Missing"); ok {
		t.Error("DetectBorderRadius(Missing) found a radius")
	}
}
