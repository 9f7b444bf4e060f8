package padicon

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, opts ...func(*Config)) *Generator {
	t.Helper()

	cfg := Config{CacheDir: t.TempDir(), Format: PNG}
	for _, opt := range opts {
		opt(&cfg)
	}
	gen, err := New(cfg)
	require.NoError(t, err)
	return gen
}

// age moves the modification time of path to the past and returns it.
func age(t *testing.T, path string) time.Time {
	t.Helper()

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))
	return past
}

func modTime(t *testing.T, path string) time.Time {
	t.Helper()

	fi, err := os.Stat(path)
	require.NoError(t, err)
	return fi.ModTime()
}

func TestGenerator_CreatesCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "icons")

	gen, err := New(Config{CacheDir: dir})
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, dir, gen.CacheDir())
}

func TestGenerator_CacheDirFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "icons")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := New(Config{CacheDir: file})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCacheIO)

	var cerr *CacheError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "create", cerr.Op)
	assert.Equal(t, file, cerr.Path)
}

func TestGenerator_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Config{CacheDir: t.TempDir(), Format: "jpeg"})
	assert.Error(t, err)
}

func TestGenerator_SolidScenario(t *testing.T) {
	gen := newTestGenerator(t)

	path, err := gen.GenerateFromMap(map[string]any{
		"type":  "solid",
		"color": "#0066FF",
		"size":  []any{196, 196},
	}, Request{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(gen.CacheDir(), "icon_e6ef2b3fe9513016.png"), path)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	nrgba := imaging.Clone(img)
	require.Equal(t, 196, nrgba.Bounds().Dx())
	require.Equal(t, 196, nrgba.Bounds().Dy())
	for y := 0; y < 196; y++ {
		for x := 0; x < 196; x++ {
			if c := nrgba.NRGBAAt(x, y); c != (color.NRGBA{0, 102, 255, 255}) {
				t.Fatalf("pixel (%d,%d): got %v", x, y, c)
			}
		}
	}
}

func TestGenerator_TextScenarioIsCached(t *testing.T) {
	gen := newTestGenerator(t, withGoFonts(t))
	raw := map[string]any{
		"type":       "text",
		"text":       "REC",
		"color":      "#FF6600",
		"text_color": "#FFFFFF",
		"font_size":  70,
	}

	first, err := gen.GenerateFromMap(raw, Request{Force: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(gen.CacheDir(), "icon_1b437ab77ece6eda.png"), first)

	img, err := imaging.Open(first)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 102, 0, 255}, imaging.Clone(img).NRGBAAt(0, 0))

	past := age(t, first)
	second, err := gen.GenerateFromMap(raw, Request{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, past.Equal(modTime(t, second)), "a cache hit should not render the icon again")
}

func TestGenerator_ForceRendersAgain(t *testing.T) {
	gen := newTestGenerator(t)
	spec := NewIconSpec(map[string]any{"type": "solid", "color": "red"})

	path, err := gen.Generate(spec, Request{})
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	past := age(t, path)
	again, err := gen.Generate(spec, Request{Force: true})
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.True(t, modTime(t, path).After(past))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(before, after), "forced renders should be byte identical")
}

func TestGenerator_DeterministicTextArtifacts(t *testing.T) {
	gen := newTestGenerator(t, withGoFonts(t))
	spec := NewIconSpec(map[string]any{"type": "text", "text": "MIC\nOFF", "color": "#202020", "font_size": 48})

	path, err := gen.Generate(spec, Request{Force: true})
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = gen.Generate(spec, Request{Force: true})
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestGenerator_SlotOverwrite(t *testing.T) {
	gen := newTestGenerator(t)
	red := NewIconSpec(map[string]any{"type": "solid", "color": "red", "size": 8})
	green := NewIconSpec(map[string]any{"type": "solid", "color": "green", "size": 8})

	first, err := gen.Generate(red, Request{Slot: SlotIndex(3), Force: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(gen.CacheDir(), "button_icon_3.png"), first)

	second, err := gen.Generate(green, Request{Slot: SlotIndex(3), Force: true})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	img, err := imaging.Open(second)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, imaging.Clone(img).NRGBAAt(4, 4))

	entries, err := os.ReadDir(gen.CacheDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerator_SlotIsNotContentAddressed(t *testing.T) {
	gen := newTestGenerator(t)
	red := NewIconSpec(map[string]any{"type": "solid", "color": "red", "size": 8})
	blue := NewIconSpec(map[string]any{"type": "solid", "color": "blue", "size": 8})

	path, err := gen.Generate(red, Request{Slot: "mute"})
	require.NoError(t, err)

	// Without Force the stale slot icon is returned as is.
	stale, err := gen.Generate(blue, Request{Slot: "mute"})
	require.NoError(t, err)
	assert.Equal(t, path, stale)

	img, err := imaging.Open(stale)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, imaging.Clone(img).NRGBAAt(0, 0))
}

func TestGenerator_InvalidSlot(t *testing.T) {
	gen := newTestGenerator(t)
	spec := NewIconSpec(map[string]any{"type": "solid"})

	for _, slot := range []string{"../3", "a/b", "3.png", "two words"} {
		_, err := gen.Generate(spec, Request{Slot: slot})
		assert.ErrorIs(t, err, ErrInvalidSlot, slot)
	}
}

func TestGenerator_InvalidSpec(t *testing.T) {
	gen := newTestGenerator(t)

	_, err := gen.GenerateFromMap(map[string]any{
		"type":      "text",
		"text":      "",
		"font_size": 200,
		"color":     "#nothex",
	}, Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSpec)

	var serr *SpecError
	require.ErrorAs(t, err, &serr)
	assert.Len(t, serr.Violations, 3)
	assert.Contains(t, err.Error(), "font_size must be between 1 and 150")
	assert.Contains(t, err.Error(), `invalid color "#nothex"`)

	entries, err := os.ReadDir(gen.CacheDir())
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing should be written for an invalid spec")
}

func TestGenerator_UnsupportedTypes(t *testing.T) {
	gen := newTestGenerator(t)

	// emoji and icon pass the validation, but can't be rendered.
	for _, k := range []string{"emoji", "icon"} {
		_, err := gen.GenerateFromMap(map[string]any{"type": k}, Request{})
		assert.ErrorIs(t, err, ErrNotImplemented)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	}

	// An unknown type is reported at render time when the validation is skipped.
	_, err := gen.Generate(NewIconSpec(map[string]any{"type": "hologram"}), Request{})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// A slot file left by another spec doesn't hide the failure.
	_, err = gen.Generate(NewIconSpec(map[string]any{"type": "solid"}), Request{Slot: "1"})
	require.NoError(t, err)
	_, err = gen.Generate(NewIconSpec(map[string]any{"type": "emoji"}), Request{Slot: "1"})
	assert.ErrorIs(t, err, ErrNotImplemented)

	entries, err := os.ReadDir(gen.CacheDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerator_WriteFailure(t *testing.T) {
	gen := newTestGenerator(t)
	require.NoError(t, os.RemoveAll(gen.CacheDir()))

	_, err := gen.GenerateFromMap(map[string]any{"type": "solid"}, Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCacheIO)

	var cerr *CacheError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "write", cerr.Op)
}

func TestGenerator_Formats(t *testing.T) {
	for _, format := range []Format{BMP, TIFF} {
		gen := newTestGenerator(t, func(cfg *Config) { cfg.Format = format })
		spec := NewIconSpec(map[string]any{"type": "gradient", "size": []any{12, 6}})

		path, err := gen.Generate(spec, Request{})
		require.NoError(t, err)
		assert.Equal(t, "icon_"+spec.Hash()+format.Ext(), filepath.Base(path))

		img, err := imaging.Open(path)
		require.NoError(t, err)
		assert.Equal(t, 12, img.Bounds().Dx())
		assert.Equal(t, 6, img.Bounds().Dy())

		rendered, err := gen.Render(spec)
		require.NoError(t, err)
		assert.Equal(t, rendered.Pix, imaging.Clone(img).Pix, "%s should be lossless", format)
	}
}

func TestGenerator_ParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PNG, "PNG": PNG, ".bmp": BMP, "tif": TIFF, "tiff": TIFF} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("jpg")
	assert.Error(t, err)
}
