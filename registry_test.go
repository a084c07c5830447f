package bannerbuilder

import (
	"errors"
	"image/color"
	"strings"
	"testing"
)

func TestResolveColorCaseInsensitive(t *testing.T) {
	for _, name := range AvailableColors() {
		want, err := ResolveColor(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if want.A != 255 {
			t.Errorf("%s: alpha %d, want 255", name, want.A)
		}
		for _, variant := range []string{strings.ToUpper(name), strings.ToUpper(name[:1]) + name[1:]} {
			got, err := ResolveColor(variant)
			if err != nil {
				t.Errorf("%s: %v", variant, err)
				continue
			}
			if got != want {
				t.Errorf("%s: got %v, want %v", variant, got, want)
			}
		}
	}
}

func TestResolveColorValues(t *testing.T) {
	cases := map[string]color.RGBA{
		"white": {249, 255, 254, 255},
		"BLACK": {29, 29, 33, 255},
		"Red":   {176, 46, 38, 255},
	}
	for name, want := range cases {
		got, err := ResolveColor(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
}

func TestResolveColorUnknown(t *testing.T) {
	for _, name := range []string{"chartreuse", "", "light blue"} {
		_, err := ResolveColor(name)
		if !errors.Is(err, ErrInvalidColor) {
			t.Errorf("%q: got %v, want ErrInvalidColor", name, err)
		}
	}
}

func TestResolvePatternTiers(t *testing.T) {
	for _, p := range patterns {
		for _, token := range []string{p.alias, p.id, strings.ToUpper(p.id)} {
			got, err := ResolvePattern(token)
			if err != nil {
				t.Errorf("%q: %v", token, err)
				continue
			}
			if got != p.id {
				t.Errorf("%q: got %q, want %q", token, got, p.id)
			}
		}
	}
	for _, token := range []string{"gra", "gradient", "GRADIENT", "Gradient"} {
		got, err := ResolvePattern(token)
		if err != nil || got != "gradient" {
			t.Errorf("%q: got %q, %v", token, got, err)
		}
	}
}

func TestResolvePatternUnknown(t *testing.T) {
	// aliases are matched exactly
	for _, token := range []string{"GRA", "zigzag", ""} {
		_, err := ResolvePattern(token)
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("%q: got %v, want ErrInvalidPattern", token, err)
		}
	}
}

func TestRegistryTablesDistinct(t *testing.T) {
	if n := len(AvailableColors()); n != 16 {
		t.Errorf("got %d colors, want 16", n)
	}
	aliases := AvailablePatternAliases()
	if len(aliases) != len(AvailablePatterns()) {
		t.Fatalf("alias count %d != pattern count %d", len(aliases), len(AvailablePatterns()))
	}
	// An alias equal to some canonical id would shadow it.
	for _, a := range aliases {
		if _, ok := patternByID[a]; ok {
			t.Errorf("alias %q collides with a canonical id", a)
		}
	}
	if len(patternByAlias) != len(aliases) || len(patternByEnum) != len(aliases) {
		t.Error("duplicate entries in pattern tables")
	}
}

func TestNearestColor(t *testing.T) {
	for _, d := range dyes {
		if got := NearestColor(d.rgb); got != d.name {
			t.Errorf("%v: got %s, want %s", d.rgb, got, d.name)
		}
	}
	if got := NearestColor(color.RGBA{180, 40, 40, 255}); got != "red" {
		t.Errorf("near red: got %s", got)
	}
}
