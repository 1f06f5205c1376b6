package themes

import "testing"

func TestParseVariant(t *testing.T) {
	tests := []struct {
		name    string
		themeID string
		want    VariantInfo
		ok      bool
	}{
		{"dark capitalized", "Foo-Dark", VariantInfo{Base: "Foo", Variant: "Dark"}, true},
		{"light capitalized", "Foo-Light", VariantInfo{Base: "Foo", Variant: "Light"}, true},
		{"lowercase token", "Adwaita-dark", VariantInfo{Base: "Adwaita", Variant: "dark"}, true},
		{"trailing modifier", "Foo-Dark-HC", VariantInfo{Base: "Foo", Variant: "Dark", Modifiers: "-HC"}, true},
		{"two modifiers", "ZorinBlue-Light-Compact-HC", VariantInfo{Base: "ZorinBlue", Variant: "Light", Modifiers: "-Compact-HC"}, true},
		{"hyphenated base", "My-Theme-Dark", VariantInfo{Base: "My-Theme", Variant: "Dark"}, true},
		{"no variant token", "PlainTheme", VariantInfo{}, false},
		{"token not separated", "Darkest", VariantInfo{}, false},
		{"token mid-name", "Darkroom-Blue", VariantInfo{}, false},
		{"empty", "", VariantInfo{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVariant(tt.themeID)
			if ok != tt.ok {
				t.Fatalf("ParseVariant(%q) ok = %v, want %v", tt.themeID, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseVariant(%q) = %+v, want %+v", tt.themeID, got, tt.want)
			}
		})
	}
}

func TestSibling(t *testing.T) {
	tests := []struct {
		themeID string
		want    string
	}{
		{"Foo-Dark", "Foo-Light"},
		{"Foo-Light", "Foo-Dark"},
		{"Adwaita-dark", "Adwaita-light"},
		{"Foo-Dark-HC", "Foo-Light-HC"},
	}
	for _, tt := range tests {
		info, ok := ParseVariant(tt.themeID)
		if !ok {
			t.Fatalf("ParseVariant(%q) did not match", tt.themeID)
		}
		if got := info.Sibling(); got != tt.want {
			t.Errorf("Sibling(%q) = %q, want %q", tt.themeID, got, tt.want)
		}
	}
}

func TestResolveVariant(t *testing.T) {
	installed := func(ids ...string) func(string) bool {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		return func(id string) bool { return set[id] }
	}

	tests := []struct {
		name       string
		themeID    string
		preferDark bool
		installed  func(string) bool
		want       string
	}{
		{"swap to installed light", "Foo-Dark", false, installed("Foo-Light"), "Foo-Light"},
		{"sibling missing", "Foo-Dark", false, installed(), ""},
		{"already matches", "Foo-Dark-HC", true, installed(), "Foo-Dark-HC"},
		{"no variant pattern", "PlainTheme", true, installed("PlainTheme"), ""},
		{"modifiers preserved", "Foo-Light-Compact", true, installed("Foo-Dark-Compact"), "Foo-Dark-Compact"},
		{"light already matches", "Foo-Light", false, installed(), "Foo-Light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVariant(tt.themeID, tt.preferDark, tt.installed)
			if got != tt.want {
				t.Errorf("ResolveVariant(%q, %v) = %q, want %q", tt.themeID, tt.preferDark, got, tt.want)
			}
		})
	}
}
