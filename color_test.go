package padicon

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColor_Parse(t *testing.T) {
	testCases := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#0066FF", color.NRGBA{0, 102, 255, 255}, true},
		{"#ff6600", color.NRGBA{255, 102, 0, 255}, true},
		{"#000000", color.NRGBA{0, 0, 0, 255}, true},
		{"red", color.NRGBA{255, 0, 0, 255}, true},
		{"White", color.NRGBA{255, 255, 255, 255}, true},
		{"GREY", color.NRGBA{128, 128, 128, 255}, true},
		{"gray", color.NRGBA{128, 128, 128, 255}, true},
		{"magenta", color.NRGBA{255, 0, 255, 255}, true},
		{"orange", FallbackColor, false},
		{"", FallbackColor, false},
		{"#12345", FallbackColor, false},
		{"#12345z", FallbackColor, false},
		{"notahex#", FallbackColor, false},
	}

	for _, tc := range testCases {
		got, ok := ParseColor(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestColor_FallbackIsBlue(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 255, A: 255}, FallbackColor)
}
