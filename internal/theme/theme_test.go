package theme_test

import (
	"testing"

	"docgen/internal/theme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct{ in, want string }{
		{"classic", "classic"},
		{"swiss", "swiss"},
		{"default", "classic"},
		{"legacy", "classic"},
		{"simple", "minimal"},
		{"", "classic"},
		{"no-such-theme", "classic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, theme.Canonical(tt.in), "key %q", tt.in)
	}
}

func TestKeys(t *testing.T) {
	keys := theme.Keys()
	assert.Equal(t, []string{"classic", "modern", "minimal", "swiss", "elegant"}, keys)

	// Mutating the returned slice must not leak into the registry.
	keys[0] = "hacked"
	assert.Equal(t, "classic", theme.Keys()[0])
}

func TestResolve_UnknownFallsBackToDefault(t *testing.T) {
	spec := theme.Resolve("does-not-exist", nil)
	assert.Equal(t, theme.DefaultKey, spec.Key)
}

func TestResolve_AccentFull(t *testing.T) {
	accent := theme.Color{R: 0x12, G: 0x34, B: 0x56}
	spec := theme.Resolve("classic", &accent)

	assert.Equal(t, accent, spec.HeaderBackground)
	assert.Equal(t, accent, spec.TableHeaderBackground)
	assert.Equal(t, accent, spec.TotalEmphasis)
}

func TestResolve_AccentSubtle(t *testing.T) {
	accent := theme.Color{R: 0x12, G: 0x34, B: 0x56}
	plain := theme.Resolve("minimal", nil)
	spec := theme.Resolve("minimal", &accent)

	// Minimal keeps its neutral backgrounds; the accent shows up only in
	// the border and the total emphasis.
	assert.Equal(t, plain.HeaderBackground, spec.HeaderBackground)
	assert.Equal(t, plain.TableHeaderBackground, spec.TableHeaderBackground)
	assert.Equal(t, accent, spec.TableBorder)
	assert.Equal(t, accent, spec.TotalEmphasis)
}

func TestResolve_RegistryIsImmutable(t *testing.T) {
	accent := theme.Color{R: 1, G: 2, B: 3}
	theme.Resolve("classic", &accent)

	again := theme.Resolve("classic", nil)
	assert.NotEqual(t, accent, again.HeaderBackground)
}

func TestResolve_EveryPresetComplete(t *testing.T) {
	for _, key := range theme.Keys() {
		spec := theme.Resolve(key, nil)
		require.Equal(t, key, spec.Key)
		assert.NotEmpty(t, spec.FontFamily, key)
		assert.Positive(t, spec.BaseFontSize, key)
		assert.Positive(t, spec.TitleFontSize, key)
		assert.Positive(t, spec.MarginTop, key)
		assert.Positive(t, spec.MarginSide, key)
		assert.Positive(t, spec.MarginBottom, key)
	}
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#0d6efd", theme.Color{R: 13, G: 110, B: 253}.Hex())
	assert.Equal(t, "#000000", theme.Color{}.Hex())
}

func TestParseHexColor(t *testing.T) {
	c, err := theme.ParseHexColor("#0d6efd")
	require.NoError(t, err)
	assert.Equal(t, theme.Color{R: 13, G: 110, B: 253}, c)

	c, err = theme.ParseHexColor("ff0000")
	require.NoError(t, err)
	assert.Equal(t, theme.Color{R: 255}, c)

	_, err = theme.ParseHexColor("#zzz")
	assert.Error(t, err)
	_, err = theme.ParseHexColor("")
	assert.Error(t, err)
}
