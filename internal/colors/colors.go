// Package colors provides the RGB value type and the color math used by
// the extraction pipeline and the stylesheet assembler.
package colors

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with channels in the 0-255 range.
type RGB struct {
	R, G, B float64
}

// HexToRGB parses "#RRGGBB" (or "#RRGGBBAA", alpha ignored) into an RGB.
// Invalid input yields the zero color.
func HexToRGB(hex string) RGB {
	if !IsValidHex(hex) {
		return RGB{}
	}
	var r, g, b uint8
	fmt.Sscanf(hex[1:7], "%02x%02x%02x", &r, &g, &b)
	return RGB{R: float64(r), G: float64(g), B: float64(b)}
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.R), clampByte(c.G), clampByte(c.B))
}

// RGBA formats the color as a CSS rgba() expression with the given opacity.
func (c RGB) RGBA(alpha float64) string {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", clampByte(c.R), clampByte(c.G), clampByte(c.B), alpha)
}

// IsValidHex reports whether s is a "#RRGGBB" or "#RRGGBBAA" color string.
func IsValidHex(s string) bool {
	if len(s) != 7 && len(s) != 9 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(math.Round(v))
}

// Luminance returns the WCAG relative luminance of c in [0, 1].
func Luminance(c RGB) float64 {
	r := linearize(c.R / 255.0)
	g := linearize(c.G / 255.0)
	b := linearize(c.B / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between fg and bg (1 to 21).
func ContrastRatio(fg, bg RGB) float64 {
	l1 := Luminance(fg)
	l2 := Luminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// IsDark reports whether c reads as a dark color.
func IsDark(c RGB) bool {
	return Luminance(c) < 0.179
}

// Lighten moves c toward white by amount (0-1) in Lab space.
func Lighten(c RGB, amount float64) RGB {
	col := colorful.Color{R: c.R / 255.0, G: c.G / 255.0, B: c.B / 255.0}
	l, a, b := col.Lab()
	out := colorful.Lab(math.Min(1, l+amount), a, b).Clamped()
	return RGB{R: out.R * 255, G: out.G * 255, B: out.B * 255}
}

// Darken moves c toward black by amount (0-1) in Lab space.
func Darken(c RGB, amount float64) RGB {
	col := colorful.Color{R: c.R / 255.0, G: c.G / 255.0, B: c.B / 255.0}
	l, a, b := col.Lab()
	out := colorful.Lab(math.Max(0, l-amount), a, b).Clamped()
	return RGB{R: out.R * 255, G: out.G * 255, B: out.B * 255}
}

// Blend mixes a and b in Lab space; t=0 yields a, t=1 yields b.
func Blend(a, b RGB, t float64) RGB {
	ca := colorful.Color{R: a.R / 255.0, G: a.G / 255.0, B: a.B / 255.0}
	cb := colorful.Color{R: b.R / 255.0, G: b.G / 255.0, B: b.B / 255.0}
	out := ca.BlendLab(cb, t).Clamped()
	return RGB{R: out.R * 255, G: out.G * 255, B: out.B * 255}
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
