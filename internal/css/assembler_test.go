package css

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drdrummie/cssgnomme/internal/colors"
	"github.com/drdrummie/cssgnomme/internal/settings"
)

func testSnapshot() settings.Snapshot {
	return settings.Snapshot{
		SourceTheme:    "ZorinBlue-Dark",
		PanelOpacity:   0.85,
		PopupOpacity:   0.95,
		BorderRadius:   12,
		BlurRadius:     20,
		BlurBrightness: 0.8,
		PanelMargin:    4,
		MenuLayout:     "attached",
		PanelColor:     colors.HexToRGB("#1e1e2e"),
		PopupColor:     colors.HexToRGB("#24243a"),
		AccentColor:    colors.HexToRGB("#3584e4"),
		BorderColor:    colors.HexToRGB("#3584e4"),
	}
}

func TestPanelFragmentMemoized(t *testing.T) {
	a := NewAssembler()
	p := PanelParams{Color: colors.HexToRGB("#101010"), Opacity: 0.8, Radius: 10, Margin: 2}

	first := a.Panel(p)
	second := a.Panel(p)
	if first != second {
		t.Error("identical params produced different fragments")
	}
	if a.CacheSize() != 1 {
		t.Errorf("cache size = %d, want 1", a.CacheSize())
	}

	p.Opacity = 0.5
	third := a.Panel(p)
	if third == first {
		t.Error("changed params produced the cached fragment")
	}
	if a.CacheSize() != 2 {
		t.Errorf("cache size = %d, want 2", a.CacheSize())
	}
}

func TestFragmentContent(t *testing.T) {
	a := NewAssembler()

	panel := a.Panel(PanelParams{Color: colors.HexToRGB("#1e1e2e"), Opacity: 0.85, Radius: 12, Margin: 4})
	if !strings.Contains(panel, "rgba(30, 30, 46, 0.85)") {
		t.Errorf("panel fragment missing rgba color:\n%s", panel)
	}
	if !strings.Contains(panel, "border-radius: 12px") {
		t.Errorf("panel fragment missing radius:\n%s", panel)
	}

	floating := a.Popup(PopupParams{Layout: "floating", Radius: 8})
	if !strings.Contains(floating, "-arrow-rise") {
		t.Error("floating layout missing boxpointer rule")
	}
	attached := a.Popup(PopupParams{Layout: "attached", Radius: 8})
	if strings.Contains(attached, "-arrow-rise") {
		t.Error("attached layout should not emit boxpointer rule")
	}

	if frag := a.Blur(BlurParams{Radius: 0}); frag != "" {
		t.Error("zero blur radius should produce an empty fragment")
	}
}

func TestRenderAssemblesAllFragments(t *testing.T) {
	a := NewAssembler()
	css := a.Render(testSnapshot())

	for _, want := range []string{"#panel", ".popup-menu-content", ".blurred-background", ".toggle-switch:checked", "ZorinBlue-Dark"} {
		if !strings.Contains(css, want) {
			t.Errorf("rendered stylesheet missing %q", want)
		}
	}
}

func TestWriteOverlaySkipsUnchanged(t *testing.T) {
	a := NewAssembler()
	path := filepath.Join(t.TempDir(), "overlay.css")
	css := a.Render(testSnapshot())

	wrote, err := a.WriteOverlay(path, css)
	if err != nil {
		t.Fatalf("WriteOverlay: %v", err)
	}
	if !wrote {
		t.Fatal("first write skipped")
	}

	wrote, err = a.WriteOverlay(path, css)
	if err != nil {
		t.Fatalf("WriteOverlay: %v", err)
	}
	if wrote {
		t.Error("unchanged content was rewritten")
	}

	snap := testSnapshot()
	snap.PanelOpacity = 0.5
	wrote, err = a.WriteOverlay(path, a.Render(snap))
	if err != nil {
		t.Fatalf("WriteOverlay: %v", err)
	}
	if !wrote {
		t.Error("changed content was skipped")
	}

	a.InvalidateWritten()
	wrote, err = a.WriteOverlay(path, a.Render(snap))
	if err != nil {
		t.Fatalf("WriteOverlay: %v", err)
	}
	if !wrote {
		t.Error("write skipped after InvalidateWritten")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != a.Render(snap) {
		t.Error("overlay file does not match last render")
	}
}
