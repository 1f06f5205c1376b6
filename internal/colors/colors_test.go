package colors

import (
	"math"
	"testing"
)

func TestIsValidHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid lowercase", "#aabbcc", true},
		{"valid uppercase", "#FF5500", true},
		{"valid with alpha", "#00000080", true},
		{"invalid 3-char", "#FFF", false},
		{"no hash", "FF5500", false},
		{"invalid char", "#GGGGGG", false},
		{"empty", "", false},
		{"just hash", "#", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidHex(tt.input); got != tt.valid {
				t.Errorf("IsValidHex(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	tests := []string{"#000000", "#ffffff", "#3584e4", "#c01c28"}
	for _, hex := range tests {
		if got := HexToRGB(hex).Hex(); got != hex {
			t.Errorf("HexToRGB(%q).Hex() = %q", hex, got)
		}
	}
}

func TestHexToRGBInvalid(t *testing.T) {
	if got := HexToRGB("not-a-color"); got != (RGB{}) {
		t.Errorf("invalid hex parsed to %+v, want zero", got)
	}
}

func TestRGBA(t *testing.T) {
	c := RGB{R: 255, G: 128, B: 0}
	if got := c.RGBA(0.85); got != "rgba(255, 128, 0, 0.85)" {
		t.Errorf("RGBA = %q", got)
	}
	if got := c.RGBA(2); got != "rgba(255, 128, 0, 1.00)" {
		t.Errorf("RGBA clamps high: %q", got)
	}
}

func TestContrastRatio(t *testing.T) {
	white := RGB{255, 255, 255}
	black := RGB{0, 0, 0}

	if got := ContrastRatio(white, black); math.Abs(got-21.0) > 0.01 {
		t.Errorf("white/black contrast = %v, want 21", got)
	}
	if got := ContrastRatio(white, white); math.Abs(got-1.0) > 0.01 {
		t.Errorf("white/white contrast = %v, want 1", got)
	}
	// Symmetric
	if a, b := ContrastRatio(white, black), ContrastRatio(black, white); a != b {
		t.Errorf("contrast not symmetric: %v vs %v", a, b)
	}
}

func TestIsDark(t *testing.T) {
	if !IsDark(RGB{30, 30, 30}) {
		t.Error("near-black should be dark")
	}
	if IsDark(RGB{240, 240, 240}) {
		t.Error("near-white should not be dark")
	}
}

func TestLightenDarken(t *testing.T) {
	base := RGB{R: 100, G: 100, B: 100}
	if l := Lighten(base, 0.2); Luminance(l) <= Luminance(base) {
		t.Error("Lighten did not increase luminance")
	}
	if d := Darken(base, 0.2); Luminance(d) >= Luminance(base) {
		t.Error("Darken did not decrease luminance")
	}
}
