package padicon

import (
	"io"
	"log/slog"
)

// DefaultCacheDir is the cache directory used when none is configured.
const DefaultCacheDir = "icons"

// Config holds the generator options.
type Config struct {
	// CacheDir is the directory holding the rendered icons. It's created if missing.
	CacheDir string
	// Format is the lossless image format the icons are saved in.
	Format Format
	// FontDirs are searched when an icon asks for a font by name instead of path.
	FontDirs []string
	// BoldFonts and RegularFonts are the system font candidates, tried in order
	// when the requested font is missing or can't be loaded.
	BoldFonts    []string
	RegularFonts []string
	// Logger receives the generator records. Nothing is logged when nil.
	Logger *slog.Logger
	// OnFontFallback, when set, is called every time the font resolution
	// moves down to the next candidate tier.
	OnFontFallback func(FontFallback)
}

// The system fonts tried when an icon doesn't request a font, or the requested one can't be loaded.
var (
	defaultBoldFonts = []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
		"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
		`C:\Windows\Fonts\arialbd.ttf`,
	}
	defaultRegularFonts = []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Supplemental/Arial.ttf",
		`C:\Windows\Fonts\arial.ttf`,
	}
)

// DefaultConfig returns the configuration used by the command line tool:
// PNG icons saved in ./icons, with the DejaVu/Arial system fonts as fallback.
func DefaultConfig() Config {
	return Config{
		CacheDir:     DefaultCacheDir,
		Format:       PNG,
		BoldFonts:    append([]string(nil), defaultBoldFonts...),
		RegularFonts: append([]string(nil), defaultRegularFonts...),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
