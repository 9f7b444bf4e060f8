package padicon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Kind identifies the renderer used to draw an icon.
type Kind string

const (
	Solid    Kind = "solid"
	Gradient Kind = "gradient"
	Text     Kind = "text"
	Emoji    Kind = "emoji"
	Icon     Kind = "icon"
)

// Kinds lists every icon type accepted by the validation, in declaration order.
var Kinds = []Kind{Solid, Gradient, Text, Emoji, Icon}

// Valid reports whether k is one of the declared icon types.
func (k Kind) Valid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// colored reports whether the primary color of k is used while rendering.
func (k Kind) colored() bool {
	return k == Solid || k == Gradient || k == Text
}

func (k Kind) String() string {
	return string(k)
}

// Default values applied for the missing keys of a raw specification.
const (
	DefaultKind      = Solid
	DefaultColor     = "#0000FF"
	DefaultTextColor = "#FFFFFF"
	DefaultFontSize  = 40
	DefaultWidth     = 196
	DefaultHeight    = 196

	MinFontSize = 1
	MaxFontSize = 150
)

// Size is the pixel dimension of a rendered icon.
type Size struct {
	Width, Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// IconSpec is an immutable description of an icon. It is created from a raw
// mapping with NewIconSpec and checked with Validate.
type IconSpec struct {
	raw map[string]any

	kind      Kind
	color     string
	text      string
	textColor string
	fontSize  int
	font      string
	size      Size

	// problems found while reading the raw values, reported by Validate.
	colorOK    bool
	fontSizeOK bool
	sizeErr    string
}

// NewIconSpec builds an icon specification from a raw mapping. The recognized keys are
// type, color, text, text_color, font_size, font and size; the missing ones get
// their default value. The mapping is copied, later changes made by the caller
// don't affect the returned value.
func NewIconSpec(raw map[string]any) *IconSpec {
	s := &IconSpec{
		raw:        deepCopy(raw).(map[string]any),
		kind:       DefaultKind,
		color:      DefaultColor,
		textColor:  DefaultTextColor,
		fontSize:   DefaultFontSize,
		size:       Size{DefaultWidth, DefaultHeight},
		colorOK:    true,
		fontSizeOK: true,
	}

	if v, ok := raw["type"]; ok {
		s.kind = Kind(stringOf(v))
	}
	if v, ok := raw["color"]; ok {
		s.color = stringOf(v)
		_, s.colorOK = v.(string)
	}
	if v, ok := raw["text"]; ok && v != nil {
		s.text = stringOf(v)
	}
	if v, ok := raw["text_color"]; ok {
		s.textColor = stringOf(v)
	}
	if v, ok := raw["font_size"]; ok {
		s.fontSize, s.fontSizeOK = intOf(v)
	}
	if v, ok := raw["font"]; ok && v != nil {
		s.font = stringOf(v)
	}
	if v, ok := raw["size"]; ok {
		s.size, s.sizeErr = sizeOf(v)
	}
	return s
}

// Kind returns the icon type.
func (s *IconSpec) Kind() Kind { return s.kind }

// Color returns the background color, or the gradient start color.
func (s *IconSpec) Color() string { return s.color }

// Text returns the text drawn by text icons.
func (s *IconSpec) Text() string { return s.text }

// TextColor returns the text color, or the gradient end color.
func (s *IconSpec) TextColor() string { return s.textColor }

// FontSize returns the requested font size in pixels.
func (s *IconSpec) FontSize() int { return s.fontSize }

// Font returns the requested font path or name. It is empty when the
// fallback fonts should be used.
func (s *IconSpec) Font() string { return s.font }

// Size returns the icon dimension.
func (s *IconSpec) Size() Size { return s.size }

// Raw returns a copy of the mapping the specification was created from.
func (s *IconSpec) Raw() map[string]any {
	return deepCopy(s.raw).(map[string]any)
}

// Validate checks the specification and returns every violation found.
// An empty result means the specification can be rendered.
func (s *IconSpec) Validate() []string {
	var errs []string

	if !s.kind.Valid() {
		names := make([]string, len(Kinds))
		for i, k := range Kinds {
			names[i] = string(k)
		}
		errs = append(errs, fmt.Sprintf("invalid icon type %q: must be one of %s", s.kind, strings.Join(names, ", ")))
	}

	if s.kind.colored() && (!s.colorOK || !validColor(s.color)) {
		errs = append(errs, fmt.Sprintf("invalid color %q", s.color))
	}

	if s.kind == Text && s.text == "" {
		errs = append(errs, "text type requires a non-empty 'text' field")
	}

	if !s.fontSizeOK {
		errs = append(errs, fmt.Sprintf("font_size must be an integer, got %v", s.raw["font_size"]))
	} else if s.fontSize < MinFontSize || s.fontSize > MaxFontSize {
		errs = append(errs, fmt.Sprintf("font_size must be between %d and %d, got %d", MinFontSize, MaxFontSize, s.fontSize))
	}

	if s.sizeErr != "" {
		errs = append(errs, s.sizeErr)
	}

	return errs
}

// Hash returns the identity of the specification: the first 16 hex characters
// of the SHA-256 digest computed over the canonical form of the raw mapping.
func (s *IconSpec) Hash() string {
	sum := sha256.Sum256(canonicalJSON(s.raw))
	return hex.EncodeToString(sum[:])[:16]
}

// stringOf returns v unchanged if it's a string, otherwise its default format.
func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// intOf converts the numeric values produced by the YAML, TOML and JSON
// decoders to int. Floats are accepted only when they have no fractional part.
func intOf(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt32 {
			return 0, false
		}
		return int(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// sizeOf expands a scalar to a square size and accepts any two elements
// sequence as a width and height pair.
func sizeOf(v any) (Size, string) {
	const msg = "size must be a list of 2 integers"

	if n, ok := intOf(v); ok {
		return checkSize(Size{n, n})
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Size{}, msg
	}
	if rv.Len() != 2 {
		return Size{}, msg
	}
	w, okw := intOf(rv.Index(0).Interface())
	h, okh := intOf(rv.Index(1).Interface())
	if !okw || !okh {
		return Size{}, msg
	}
	return checkSize(Size{w, h})
}

func checkSize(s Size) (Size, string) {
	if s.Width <= 0 || s.Height <= 0 {
		return s, fmt.Sprintf("size must be positive, got %s", s)
	}
	return s, ""
}

// deepCopy copies the maps and slices of a decoded document.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = deepCopy(e)
		}
		return s
	}
	return v
}
