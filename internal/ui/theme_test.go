package ui

import "testing"

func TestGetTheme_UnknownFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Solarized").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Nightfox", got)
	}
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestDepartmentColor(t *testing.T) {
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		styles := theme.Styles()

		if got, want := styles.DepartmentColor(" Design "), theme.DepartmentColors["Design"]; got != want {
			t.Fatalf("%s: DepartmentColor(Design) = %q, want %q", name, got, want)
		}
		if got := styles.DepartmentColor("Legal"); got != theme.Accent {
			t.Fatalf("%s: DepartmentColor(Legal) = %q, want accent %q", name, got, theme.Accent)
		}
	}
}
