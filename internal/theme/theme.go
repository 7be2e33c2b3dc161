package theme

import (
	"fmt"
)

// Color is an opaque RGB value shared by both render backends.
type Color struct {
	R, G, B uint8
}

// Hex returns the #RRGGBB form used by the markup backend.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor parses #RRGGBB (leading # optional).
func ParseHexColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	var c Color
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}

// accent application modes. Minimal-family presets keep neutral header and
// table backgrounds and let the accent show only in borders and the total
// emphasis; the rest substitute the accent into both backgrounds.
const (
	accentFull = iota
	accentSubtle
)

// Spec is a fully resolved, immutable style. Resolvers hand out copies;
// presets are never mutated in place.
type Spec struct {
	Key                   string
	HeaderBackground      Color
	HeaderText            Color
	TableHeaderBackground Color
	TableHeaderText       Color
	TableBorder           Color
	TotalEmphasis         Color
	FontFamily            string
	BaseFontSize          float64 // pt
	TitleFontSize         float64 // pt
	MarginTop             float64 // mm
	MarginSide            float64 // mm
	MarginBottom          float64 // mm
}

// DefaultKey is the fallback preset for unknown or empty keys.
const DefaultKey = "classic"

type preset struct {
	spec       Spec
	accentMode int
}

var (
	white = Color{255, 255, 255}
	ink   = Color{33, 37, 41}
	grey  = Color{222, 226, 230}
)

func basePreset(key string, header, border, emphasis Color, headerText Color, mode int) preset {
	return preset{
		spec: Spec{
			Key:                   key,
			HeaderBackground:      header,
			HeaderText:            headerText,
			TableHeaderBackground: header,
			TableHeaderText:       headerText,
			TableBorder:           border,
			TotalEmphasis:         emphasis,
			FontFamily:            "Helvetica",
			BaseFontSize:          9,
			TitleFontSize:         16,
			MarginTop:             18,
			MarginSide:            18,
			MarginBottom:          12,
		},
		accentMode: mode,
	}
}

// Closed registry, built once. Legacy aliases resolve to canonical keys at
// load so no call site ever deals with alias strings.
var (
	presetOrder = []string{"classic", "modern", "minimal", "swiss", "elegant"}

	presets = map[string]preset{
		"classic": basePreset("classic", Color{52, 58, 64}, grey, Color{52, 58, 64}, white, accentFull),
		"modern":  basePreset("modern", Color{13, 110, 253}, grey, Color{13, 110, 253}, white, accentFull),
		"elegant": basePreset("elegant", Color{94, 53, 80}, Color{200, 183, 195}, Color{94, 53, 80}, white, accentFull),
		"minimal": basePreset("minimal", white, grey, ink, ink, accentSubtle),
		"swiss":   basePreset("swiss", white, Color{218, 41, 28}, Color{218, 41, 28}, ink, accentSubtle),
	}

	aliases = map[string]string{
		"default": "classic",
		"legacy":  "classic",
		"simple":  "minimal",
	}
)

// Keys returns the canonical preset keys in registry order (aliases
// excluded).
func Keys() []string {
	out := make([]string, len(presetOrder))
	copy(out, presetOrder)
	return out
}

// Canonical maps aliases to their canonical key; unknown keys map to the
// default preset. Never fails.
func Canonical(key string) string {
	if target, ok := aliases[key]; ok {
		key = target
	}
	if _, ok := presets[key]; !ok {
		return DefaultKey
	}
	return key
}

// Resolve looks up a preset and applies an optional user accent color. How
// the accent lands depends on the preset family: minimal presets keep their
// neutral backgrounds and tint only borders and the total emphasis; the
// others substitute the accent into the header and table-header backgrounds.
func Resolve(key string, accent *Color) Spec {
	p := presets[Canonical(key)]
	spec := p.spec // copy; registry entry stays untouched

	if accent == nil {
		return spec
	}

	switch p.accentMode {
	case accentSubtle:
		spec.TableBorder = *accent
		spec.TotalEmphasis = *accent
	default:
		spec.HeaderBackground = *accent
		spec.TableHeaderBackground = *accent
		spec.TotalEmphasis = *accent
	}
	return spec
}
