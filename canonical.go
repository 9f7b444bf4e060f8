package padicon

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// canonicalJSON serializes a decoded document with sorted object keys, ", " and ": "
// separators and ASCII only output (every other rune is written as a \uXXXX escape,
// using surrogate pairs outside the basic multilingual plane). Floats are written in
// their shortest round-trip form with a mandatory fractional part. This is the layout
// the icon cache file names have always been derived from, so it must not change.
func canonicalJSON(v any) []byte {
	return appendValue(nil, v)
}

func appendValue(buf []byte, v any) []byte {
	switch t := v.(type) {
	case nil:
		return append(buf, "null"...)
	case bool:
		if t {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case string:
		return appendString(buf, t)
	case int:
		return strconv.AppendInt(buf, int64(t), 10)
	case int8:
		return strconv.AppendInt(buf, int64(t), 10)
	case int16:
		return strconv.AppendInt(buf, int64(t), 10)
	case int32:
		return strconv.AppendInt(buf, int64(t), 10)
	case int64:
		return strconv.AppendInt(buf, t, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(t), 10)
	case uint8:
		return strconv.AppendUint(buf, uint64(t), 10)
	case uint16:
		return strconv.AppendUint(buf, uint64(t), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(t), 10)
	case uint64:
		return strconv.AppendUint(buf, t, 10)
	case float32:
		return appendFloat(buf, float64(t))
	case float64:
		return appendFloat(buf, t)
	case map[string]any:
		return appendObject(buf, t)
	case []any:
		return appendArray(buf, len(t), func(i int) any { return t[i] })
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return appendArray(buf, rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return appendObject(buf, m)
	}
	return appendString(buf, fmt.Sprint(v))
}

func appendObject(buf []byte, m map[string]any) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = appendString(buf, k)
		buf = append(buf, ": "...)
		buf = appendValue(buf, m[k])
	}
	return append(buf, '}')
}

func appendArray(buf []byte, n int, at func(int) any) []byte {
	buf = append(buf, '[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = appendValue(buf, at(i))
	}
	return append(buf, ']')
}

const hexDigits = "0123456789abcdef"

func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			buf = append(buf, `\"`...)
		case '\\':
			buf = append(buf, `\\`...)
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\t':
			buf = append(buf, `\t`...)
		case '\b':
			buf = append(buf, `\b`...)
		case '\f':
			buf = append(buf, `\f`...)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf = append(buf, byte(r))
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				buf = appendEscape(buf, r1)
				buf = appendEscape(buf, r2)
			default:
				buf = appendEscape(buf, r)
			}
		}
	}
	return append(buf, '"')
}

func appendEscape(buf []byte, r rune) []byte {
	return append(buf, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}

// appendFloat writes f positionally when its decimal exponent lies in [-4, 16),
// and in exponent notation with at least two exponent digits otherwise.
func appendFloat(buf []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(buf, "NaN"...)
	case math.IsInf(f, 1):
		return append(buf, "Infinity"...)
	case math.IsInf(f, -1):
		return append(buf, "-Infinity"...)
	case f == 0:
		if math.Signbit(f) {
			return append(buf, "-0.0"...)
		}
		return append(buf, "0.0"...)
	}

	// Shortest representation, in the d.ddde±xx form.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	if s[0] == '-' {
		buf = append(buf, '-')
		s = s[1:]
	}
	mant, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	digits := strings.Replace(mant, ".", "", 1)

	switch {
	case e < -4 || e >= 16:
		buf = append(buf, digits[0])
		if len(digits) > 1 {
			buf = append(buf, '.')
			buf = append(buf, digits[1:]...)
		}
		buf = append(buf, 'e')
		if e < 0 {
			buf = append(buf, '-')
			e = -e
		} else {
			buf = append(buf, '+')
		}
		if e < 10 {
			buf = append(buf, '0')
		}
		return strconv.AppendInt(buf, int64(e), 10)
	case e < 0:
		buf = append(buf, "0."...)
		buf = append(buf, strings.Repeat("0", -e-1)...)
		return append(buf, digits...)
	case len(digits) <= e+1:
		buf = append(buf, digits...)
		buf = append(buf, strings.Repeat("0", e+1-len(digits))...)
		return append(buf, ".0"...)
	}
	buf = append(buf, digits[:e+1]...)
	buf = append(buf, '.')
	return append(buf, digits[e+1:]...)
}
