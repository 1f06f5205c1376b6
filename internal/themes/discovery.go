package themes

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Discovery locates installed themes and answers the questions the engine
// asks about them.
type Discovery interface {
	// Discover returns the shell stylesheet path for themeID.
	Discover(themeID string) (string, bool)
	// IsLightTheme reports whether the stylesheet at path is a light theme.
	IsLightTheme(path string) bool
	// DetectBorderRadius extracts the panel border radius the theme ships
	// with, when one can be found.
	DetectBorderRadius(themeID string) (int, bool)
}

// FSDiscovery scans the usual theme directories.
type FSDiscovery struct {
	Dirs []string
}

// NewFSDiscovery returns a Discovery over the XDG theme locations.
func NewFSDiscovery() *FSDiscovery {
	dirs := []string{"/usr/share/themes", "/usr/local/share/themes"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append([]string{
			filepath.Join(home, ".themes"),
			filepath.Join(home, ".local", "share", "themes"),
		}, dirs...)
	}
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		dirs = append([]string{filepath.Join(base, "themes")}, dirs...)
	}
	return &FSDiscovery{Dirs: dirs}
}

// Discover returns the path to themeID's gnome-shell stylesheet, searching
// user directories before system ones.
func (d *FSDiscovery) Discover(themeID string) (string, bool) {
	for _, dir := range d.Dirs {
		p := filepath.Join(dir, themeID, "gnome-shell", "gnome-shell.css")
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Installed reports whether themeID resolves to an on-disk theme. It is
// the existence check ResolveVariant consults.
func (d *FSDiscovery) Installed(themeID string) bool {
	_, ok := d.Discover(themeID)
	return ok
}

var (
	bgColorPattern = regexp.MustCompile(`background-color:\s*#([0-9a-fA-F]{6})`)
	radiusPattern  = regexp.MustCompile(`border-radius:\s*(\d+)px`)
)

// IsLightTheme sniffs the stylesheet's first background-color declaration.
// A name containing "light" short-circuits; unreadable files read as dark.
func (d *FSDiscovery) IsLightTheme(path string) bool {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "light") {
		return true
	}
	if strings.Contains(lower, "dark") {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	m := bgColorPattern.FindSubmatch(data)
	if m == nil {
		return false
	}
	r, _ := strconv.ParseUint(string(m[1][0:2]), 16, 8)
	g, _ := strconv.ParseUint(string(m[1][2:4]), 16, 8)
	b, _ := strconv.ParseUint(string(m[1][4:6]), 16, 8)
	// Quick perceived-brightness test; full luminance math lives in colors.
	return 0.299*float64(r)+0.587*float64(g)+0.114*float64(b) > 128
}

// DetectBorderRadius reads the first panel border-radius declared by the
// theme's stylesheet.
func (d *FSDiscovery) DetectBorderRadius(themeID string) (int, bool) {
	path, ok := d.Discover(themeID)
	if !ok {
		return 0, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	idx := strings.Index(string(data), "#panel")
	section := string(data)
	if idx >= 0 {
		section = section[idx:]
	}
	m := radiusPattern.FindStringSubmatch(section)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
