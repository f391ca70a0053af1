package colormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHSVToRGBRoundTrip(t *testing.T) {
	cases := []HSV{
		{H: 0, S: 1, V: 1},
		{H: 120, S: 0.5, V: 0.8},
		{H: 240, S: 1, V: 0.3},
		{H: 359, S: 0.2, V: 0.9},
	}

	for _, c := range cases {
		rgb := HSVToRGB(c)
		back := RGBToHSV(rgb)
		assert.InDelta(t, c.H, back.H, 2.0)
		assert.InDelta(t, c.S, back.S, 0.02)
		assert.InDelta(t, c.V, back.V, 0.02)
	}
}

func TestHSVToRGBClampsOutOfRangeInputs(t *testing.T) {
	rgb := HSVToRGB(HSV{H: 720, S: 5, V: -2})
	assert.NotPanics(t, func() { _ = RGBToHSV(rgb) })
}

func TestHue16RoundTrip(t *testing.T) {
	assert.Equal(t, uint16(0), Hue16(0))
	assert.Equal(t, uint16(0), Hue16(360))
	assert.Equal(t, uint16(32768), Hue16(180))
}

func TestHue16WrapsNegativeDegrees(t *testing.T) {
	assert.Equal(t, Hue16(350), Hue16(-10))
}

func TestHueDistance(t *testing.T) {
	assert.Equal(t, 0.0, HueDistance(10, 10))
	assert.Equal(t, 10.0, HueDistance(5, 355))
	assert.Equal(t, 180.0, HueDistance(0, 180))
}

func TestHueDistance16(t *testing.T) {
	assert.InDelta(t, 0.0, HueDistance16(0, 0), 0.01)
	assert.InDelta(t, 180.0, HueDistance16(0, 32768), 0.1)
}

func TestSaturationBoost(t *testing.T) {
	assert.Equal(t, 1.0, SaturationBoost(0.5, 1))
	assert.Equal(t, 0.5, SaturationBoost(0.5, 0))
	assert.InDelta(t, 0.75, SaturationBoost(0.5, 0.5), 1e-9)
}

func TestEnforceMinSaturation(t *testing.T) {
	assert.Equal(t, 0.4, EnforceMinSaturation(0.1, 0.4))
	assert.Equal(t, 0.6, EnforceMinSaturation(0.6, 0.4))
}

func TestContrastNormalizeEmpty(t *testing.T) {
	assert.Nil(t, ContrastNormalize(nil, 0.5, 0.2))
}

func TestContrastNormalizePreservesHueAndSaturation(t *testing.T) {
	colors := []HSV{{H: 10, S: 0.5, V: 0.2}, {H: 20, S: 0.6, V: 0.9}}
	out := ContrastNormalize(colors, 0.5, 0.4)

	for i, c := range out {
		assert.Equal(t, colors[i].H, c.H)
		assert.Equal(t, colors[i].S, c.S)
		assert.GreaterOrEqual(t, c.V, 0.0)
		assert.LessOrEqual(t, c.V, 1.0)
	}
}

func TestReorderByContrastShortInputUnchanged(t *testing.T) {
	colors := []HSV{{H: 0}, {H: 90}}
	assert.Equal(t, colors, ReorderByContrast(colors))
}

func TestReorderByContrastReducesOrEqualsOriginalCost(t *testing.T) {
	colors := []HSV{{H: 0}, {H: 10}, {H: 200}, {H: 30}, {H: 190}}
	reordered := ReorderByContrast(colors)

	assert.Len(t, reordered, len(colors))
	assert.LessOrEqual(t, segmentCost(reordered), segmentCost(colors)+1e-9)

	assert.ElementsMatch(t, colors, reordered)
}
