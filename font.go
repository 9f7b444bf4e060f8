package padicon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/esimov/padicon/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontTier identifies a step of the font resolution chain.
type FontTier int

const (
	// RequestedFont is the font named by the icon specification.
	RequestedFont FontTier = iota
	// BoldFont is the first loadable font of Config.BoldFonts.
	BoldFont
	// RegularFont is the first loadable font of Config.RegularFonts.
	RegularFont
	// BuiltinFont is the 7x13 bitmap face compiled into the binary. It never fails.
	BuiltinFont
)

func (t FontTier) String() string {
	switch t {
	case RequestedFont:
		return "requested"
	case BoldFont:
		return "bold"
	case RegularFont:
		return "regular"
	case BuiltinFont:
		return "builtin"
	}
	return fmt.Sprintf("FontTier(%d)", int(t))
}

// FontFallback describes a degradation of the font resolution: the font of tier
// From couldn't be used, so the resolution continues with tier To.
type FontFallback struct {
	From FontTier
	To   FontTier
	// Font is the last font file or name tried on the From tier,
	// empty if the tier had no candidate.
	Font string
	Err  error
}

var errNoCandidates = errors.New("no font candidates")

// fontLoader parses font files and keeps them for the lifetime of the generator.
type fontLoader struct {
	dirs    []string
	bold    []string
	regular []string

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

func newFontLoader(cfg Config) *fontLoader {
	return &fontLoader{
		dirs:    append([]string(nil), cfg.FontDirs...),
		bold:    append([]string(nil), cfg.BoldFonts...),
		regular: append([]string(nil), cfg.RegularFonts...),
		fonts:   make(map[string]*opentype.Font),
	}
}

// load parses the font file found at path. For font collections the first font is used.
func (l *fontLoader) load(path string) (*opentype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.fonts[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f *opentype.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		var c *sfnt.Collection
		if c, err = sfnt.ParseCollection(data); err == nil {
			f, err = c.Font(0)
		}
	default:
		f, err = opentype.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse the font file %s: %w", path, err)
	}

	l.fonts[path] = f
	return f, nil
}

// named resolves the font requested by an icon. The name is used as a path first,
// then, if it's a bare name, it's looked up in the configured font directories.
func (l *fontLoader) named(name string) (*opentype.Font, string, error) {
	if isFile(name) || filepath.Base(name) != name {
		f, err := l.load(name)
		return f, name, err
	}
	for _, dir := range l.dirs {
		for _, ext := range []string{"", ".ttf", ".otf", ".ttc"} {
			path := filepath.Join(dir, name+ext)
			if isFile(path) {
				f, err := l.load(path)
				return f, path, err
			}
		}
	}
	return nil, name, fmt.Errorf("font %q not found", name)
}

// first returns the first loadable font of paths.
func (l *fontLoader) first(paths []string) (*opentype.Font, string, error) {
	var (
		last string
		err  = errNoCandidates
	)
	for _, path := range paths {
		var f *opentype.Font
		if f, err = l.load(path); err == nil {
			return f, path, nil
		}
		last = path
	}
	return nil, last, err
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// fontFace returns the face used to draw the text of spec. The requested font is
// tried first, then the bold and the regular system fonts, and finally the builtin
// bitmap face. Every step down the chain is logged and reported to Config.OnFontFallback.
func (g *Generator) fontFace(spec *IconSpec) font.Face {
	type candidate struct {
		tier FontTier
		open func() (*opentype.Font, string, error)
	}

	var chain []candidate
	if name := spec.Font(); name != "" {
		chain = append(chain, candidate{RequestedFont, func() (*opentype.Font, string, error) {
			return g.fonts.named(name)
		}})
	}
	chain = append(chain,
		candidate{BoldFont, func() (*opentype.Font, string, error) {
			return g.fonts.first(g.fonts.bold)
		}},
		candidate{RegularFont, func() (*opentype.Font, string, error) {
			return g.fonts.first(g.fonts.regular)
		}},
	)

	size := utils.Clamp(spec.FontSize(), MinFontSize, MaxFontSize)
	for i, c := range chain {
		f, src, err := c.open()
		if err == nil {
			var face font.Face
			face, err = opentype.NewFace(f, &opentype.FaceOptions{
				Size:    float64(size),
				DPI:     72,
				Hinting: font.HintingFull,
			})
			if err == nil {
				return face
			}
		}

		next := BuiltinFont
		if i+1 < len(chain) {
			next = chain[i+1].tier
		}
		g.fontFallback(FontFallback{From: c.tier, To: next, Font: src, Err: err})
	}
	return basicfont.Face7x13
}

func (g *Generator) fontFallback(fb FontFallback) {
	g.log.Warn("font unavailable, falling back",
		"tier", fb.From.String(),
		"next", fb.To.String(),
		"font", fb.Font,
		"error", fb.Err,
	)
	if g.cfg.OnFontFallback != nil {
		g.cfg.OnFontFallback(fb)
	}
}
