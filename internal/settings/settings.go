// Package settings loads the command line tool configuration from a TOML file,
// overridden by the PADICON_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/esimov/padicon"
)

// Settings is the content of the configuration file.
//
//	cache_dir = "icons"
//	format = "png"
//
//	[fonts]
//	dirs = ["/usr/share/fonts/truetype/dejavu"]
//	bold = ["/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"]
//	regular = ["/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"]
//
//	[log]
//	level = "info"
//	file = ""
//	max_size_mb = 10
type Settings struct {
	CacheDir string `toml:"cache_dir" env:"PADICON_CACHE_DIR"`
	Format   string `toml:"format"    env:"PADICON_FORMAT"`
	Fonts    Fonts  `toml:"fonts"`
	Log      Log    `toml:"log"`
}

// Fonts lists where the fonts are looked up.
type Fonts struct {
	Dirs    []string `toml:"dirs"    env:"PADICON_FONT_DIRS"     envSeparator:":"`
	Bold    []string `toml:"bold"    env:"PADICON_BOLD_FONTS"    envSeparator:":"`
	Regular []string `toml:"regular" env:"PADICON_REGULAR_FONTS" envSeparator:":"`
}

// Log configures the diagnostic output. An empty File logs to stderr.
type Log struct {
	Level     string `toml:"level"       env:"PADICON_LOG_LEVEL"`
	File      string `toml:"file"        env:"PADICON_LOG_FILE"`
	MaxSizeMB int    `toml:"max_size_mb" env:"PADICON_LOG_MAX_SIZE_MB"`
}

// Default returns the settings used when no configuration file is given.
func Default() Settings {
	cfg := padicon.DefaultConfig()
	return Settings{
		CacheDir: cfg.CacheDir,
		Format:   string(cfg.Format),
		Fonts: Fonts{
			Bold:    cfg.BoldFonts,
			Regular: cfg.RegularFonts,
		},
		Log: Log{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// Load returns the default settings overridden by the file found at path, if any,
// and then by the environment. Unknown keys in the file are reported as an error.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, &s)
		if err != nil {
			return s, fmt.Errorf("could not decode the config file: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return s, fmt.Errorf("%s: unknown config keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	if err := s.validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s Settings) validate() error {
	var errs []error
	if _, err := padicon.ParseFormat(s.Format); err != nil {
		errs = append(errs, err)
	}
	if s.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("log max_size_mb must not be negative, got %d", s.Log.MaxSizeMB))
	}
	return errors.Join(errs...)
}

// GeneratorConfig returns the generator configuration matching the settings.
func (s Settings) GeneratorConfig(log *slog.Logger) (padicon.Config, error) {
	format, err := padicon.ParseFormat(s.Format)
	if err != nil {
		return padicon.Config{}, err
	}
	return padicon.Config{
		CacheDir:     s.CacheDir,
		Format:       format,
		FontDirs:     s.Fonts.Dirs,
		BoldFonts:    s.Fonts.Bold,
		RegularFonts: s.Fonts.Regular,
		Logger:       log,
	}, nil
}
