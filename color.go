package padicon

import (
	"image/color"
	"strconv"
	"strings"
)

// FallbackColor is used for every color which can't be resolved.
var FallbackColor = color.NRGBA{R: 0, G: 0, B: 255, A: 255}

// namedColors holds the color names recognized besides the #RRGGBB notation.
var namedColors = map[string]color.NRGBA{
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 255, B: 0, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
}

// ParseColor converts a "#RRGGBB" hex string or a color name to an opaque color.
// Unknown names and malformed hex strings resolve to FallbackColor, in which
// case the returned boolean is false.
func ParseColor(s string) (color.NRGBA, bool) {
	if strings.HasPrefix(s, "#") {
		if !isHexColor(s) {
			return FallbackColor, false
		}
		v, _ := strconv.ParseUint(s[1:], 16, 32)
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
	}

	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, true
	}
	return FallbackColor, false
}

// isHexColor reports whether s is a '#' followed by exactly 6 hex digits.
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// validColor is the permissive check used by the validation: anything containing a '#'
// must be a well formed hex string, any other string is accepted as a color name
// and resolved at render time.
func validColor(s string) bool {
	if strings.Contains(s, "#") {
		return isHexColor(s)
	}
	return true
}
