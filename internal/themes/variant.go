// Package themes resolves light/dark sibling variants of installed themes
// and discovers theme files on disk.
package themes

import (
	"regexp"
	"strings"
)

// variantPattern matches "<base>-<Dark|Light><optional -modifiers>".
// The variant token is case-insensitive; modifiers are any trailing
// "-word" suffixes and are preserved verbatim across a swap.
var variantPattern = regexp.MustCompile(`^(.+)-(?i:(dark|light))((?:-[A-Za-z0-9]+)*)$`)

// VariantInfo is the parsed form of a theme identifier that follows the
// variant naming convention.
type VariantInfo struct {
	Base      string
	Variant   string // the matched token, original casing
	Modifiers string // including leading dash, may be empty
}

// IsDark reports whether the parsed variant token is the dark one.
func (v VariantInfo) IsDark() bool {
	return strings.EqualFold(v.Variant, "dark")
}

// ParseVariant splits themeID into base, variant token, and trailing
// modifiers. Identifiers without a variant token do not match.
func ParseVariant(themeID string) (VariantInfo, bool) {
	m := variantPattern.FindStringSubmatch(themeID)
	if m == nil {
		return VariantInfo{}, false
	}
	return VariantInfo{Base: m[1], Variant: m[2], Modifiers: m[3]}, true
}

// Sibling returns the identifier with the opposite variant token,
// mirroring the casing style of the original token.
func (v VariantInfo) Sibling() string {
	var token string
	if v.IsDark() {
		token = "Light"
	} else {
		token = "Dark"
	}
	if v.Variant != "" && v.Variant[0] >= 'a' && v.Variant[0] <= 'z' {
		token = strings.ToLower(token)
	}
	return v.Base + "-" + token + v.Modifiers
}

// ResolveVariant resolves the theme identifier matching preferDark.
// It returns themeID unchanged when its variant already agrees, the
// installed sibling when one exists, and "" when themeID does not follow
// the variant convention or the sibling is not installed.
func ResolveVariant(themeID string, preferDark bool, installed func(string) bool) string {
	info, ok := ParseVariant(themeID)
	if !ok {
		return ""
	}
	if info.IsDark() == preferDark {
		return themeID
	}
	candidate := info.Sibling()
	if installed != nil && installed(candidate) {
		return candidate
	}
	return ""
}
