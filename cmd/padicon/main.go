package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/padicon"
	"github.com/esimov/padicon/deck"
	"github.com/esimov/padicon/internal/logger"
	"github.com/esimov/padicon/internal/settings"
	"github.com/esimov/padicon/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┌─┐┌┬┐┬┌─┐┌─┐┌┐┌
├─┘├─┤ │││  │ ││││
┴  ┴ ┴─┴┘┴└─┘└─┘┘└┘

Control panel button icon generator.
    Version: %s

`

// pipeName is the destination name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	configFile = flag.String("config", "", "TOML configuration file")
	manifest   = flag.String("manifest", "", "Render the icons of every button declared in a YAML manifest")
	outDir     = flag.String("out", "", "Icon cache directory, or - to write a single icon to stdout")
	format     = flag.String("format", "", "Icon image format: png, bmp or tiff")
	force      = flag.Bool("force", false, "Render the icon even if it is cached")
	slot       = flag.String("slot", "", "Store the icon under a fixed slot name instead of its hash")
	watch      = flag.Bool("watch", false, "Render the manifest icons again every time the manifest changes")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn or error")

	// Icon specification flags. Only the flags set explicitly end up in the specification.
	_ = flag.String("type", padicon.DefaultKind.String(), "Icon type: solid, gradient or text")
	_ = flag.String("color", padicon.DefaultColor, "Background color, hex or name")
	_ = flag.String("text", "", "Text drawn on text icons, \\n separates the lines")
	_ = flag.String("text-color", padicon.DefaultTextColor, "Text color, or gradient end color")
	_ = flag.Int("font-size", padicon.DefaultFontSize, "Font size in pixels")
	_ = flag.String("font", "", "Font file path, or font name looked up in the font directories")
	_ = flag.String("size", "196", "Icon size: N or WxH")
)

// specFlags maps the icon flags to the keys of the icon specification.
var specFlags = map[string]string{
	"type":       "type",
	"color":      "color",
	"text":       "text",
	"text-color": "text_color",
	"font-size":  "font_size",
	"font":       "font",
	"size":       "size",
}

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	deco := utils.Decorator{Enabled: term.IsTerminal(int(os.Stderr.Fd()))}

	var closer io.Closer = io.NopCloser(nil)
	fatal := func(msg string, err error) {
		log.Fatal(fatalMessage(closer, deco, msg, err))
	}

	set := map[string]string{}
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})

	raw, err := specFromFlags(set)
	if err != nil {
		fatal("Invalid icon option:", err)
	}
	if err := checkOutput(*manifest, *outDir); err != nil {
		fatal("Invalid output:", err)
	}
	if len(raw) == 0 && *manifest == "" {
		flag.Usage()
		log.Fatal(deco.Text("\nPlease provide a manifest or at least one icon option!", utils.ErrorMessage))
	}

	s, err := settings.Load(*configFile)
	if err != nil {
		fatal("Failed to load the configuration:", err)
	}
	if *logLevel != "" {
		s.Log.Level = *logLevel
	}
	if *format != "" {
		s.Format = *format
	}

	var lg *slog.Logger
	lg, closer = newLogger(s)
	defer closer.Close()

	now := time.Now()

	switch {
	case *manifest != "":
		m, err := deck.Load(*manifest)
		if err != nil {
			fatal("Failed to load the manifest:", err)
		}
		s.CacheDir = m.CacheDir()
		if *outDir != "" {
			s.CacheDir = *outDir
		}
		gen, err := newGenerator(s, lg)
		if err != nil {
			fatal("Failed to create the icon cache:", err)
		}

		if err := renderManifest(m, gen, lg, deco); err != nil && !*watch {
			fatal("Failed to render the manifest:", err)
		}
		if *watch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(os.Stderr, "\nWatching %s for changes...\n", deco.Text(*manifest, utils.StatusMessage))
			err := watchFile(ctx, *manifest, debounce, func() {
				m, err := deck.Load(*manifest)
				if err == nil {
					err = renderManifest(m, gen, lg, deco)
				}
				if err != nil {
					printError(deco, err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				fatal("Failed to watch the manifest:", err)
			}
			return
		}

	case *outDir == pipeName:
		if term.IsTerminal(int(os.Stdout.Fd())) {
			fatal("Invalid output:", errors.New("`-` should be used with a pipe for stdout"))
		}
		// Nothing is cached when writing to stdout.
		s.CacheDir = os.TempDir()
		gen, err := newGenerator(s, lg)
		if err != nil {
			fatal("Failed to create the generator:", err)
		}
		f, _ := padicon.ParseFormat(s.Format)
		if err := writeIcon(os.Stdout, gen, raw, f); err != nil {
			fatal("Error generating the icon:", err)
		}
		return

	default:
		if *outDir != "" {
			s.CacheDir = *outDir
		}
		gen, err := newGenerator(s, lg)
		if err != nil {
			fatal("Failed to create the icon cache:", err)
		}
		path, err := gen.GenerateFromMap(raw, padicon.Request{Force: *force, Slot: *slot})
		if err != nil {
			fatal("Error generating the icon:", err)
		}
		fmt.Fprintf(os.Stderr, "\nThe icon has been saved as: %s\n", deco.Text(path, utils.SuccessMessage))
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", deco.Text(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// fatalMessage closes the log output and returns the decorated error message.
// log.Fatal skips the deferred calls, so the log file has to be closed before exiting.
func fatalMessage(closer io.Closer, deco utils.Decorator, msg string, err error) string {
	closer.Close()
	return fmt.Sprintf("%s %s",
		deco.Text(msg, utils.ErrorMessage),
		deco.Text(err.Error(), utils.DefaultMessage),
	)
}

// checkOutput rejects the output destinations that can't be used with the selected mode.
func checkOutput(manifest, out string) error {
	if manifest != "" && out == pipeName {
		return errors.New("`-` can't be used with -manifest, the button icons must be saved in a directory")
	}
	return nil
}

// specFromFlags builds the raw icon specification out of the icon flags set on the command line.
func specFromFlags(set map[string]string) (map[string]any, error) {
	raw := map[string]any{}
	for name, val := range set {
		key, ok := specFlags[name]
		if !ok {
			continue
		}
		switch key {
		case "font_size":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("font-size must be an integer, got %q", val)
			}
			raw[key] = n
		case "size":
			size, err := parseSize(val)
			if err != nil {
				return nil, err
			}
			raw[key] = size
		case "text":
			raw[key] = strings.ReplaceAll(val, `\n`, "\n")
		default:
			raw[key] = val
		}
	}
	return raw, nil
}

// parseSize parses a square size (N) or a WxH size. A square size stays a single
// integer, so that the icon hash matches the one of a specification using a scalar size.
func parseSize(s string) (any, error) {
	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	width, err := strconv.Atoi(w)
	if err != nil {
		return nil, fmt.Errorf("invalid size %q: expected N or WxH", s)
	}
	if !found {
		return width, nil
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return nil, fmt.Errorf("invalid size %q: expected N or WxH", s)
	}
	return []any{width, height}, nil
}

// newLogger returns the logger described by the settings and the closer flushing it.
func newLogger(s settings.Settings) (*slog.Logger, io.Closer) {
	level := logger.ParseLevel(s.Log.Level)
	if s.Log.File != "" {
		return logger.NewFile(s.Log.File, level, s.Log.MaxSizeMB)
	}
	return logger.New(os.Stderr, level), io.NopCloser(nil)
}

func newGenerator(s settings.Settings, lg *slog.Logger) (*padicon.Generator, error) {
	cfg, err := s.GeneratorConfig(lg)
	if err != nil {
		return nil, err
	}
	return padicon.New(cfg)
}

// renderManifest validates the manifest and renders the icons of its buttons.
func renderManifest(m *deck.Manifest, gen *padicon.Generator, lg *slog.Logger, deco utils.Decorator) error {
	if errs := m.Validate(); len(errs) > 0 {
		return errors.New(strings.Join(errs, "\n\t"))
	}
	n, err := m.Render(gen, lg)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n%s button icons have been saved in: %s\n",
		deco.Text(strconv.Itoa(n), utils.StatusMessage),
		deco.Text(gen.CacheDir(), utils.SuccessMessage),
	)
	return nil
}

// writeIcon renders the icon without caching it and writes it to w.
func writeIcon(w io.Writer, gen *padicon.Generator, raw map[string]any, f padicon.Format) error {
	spec := padicon.NewIconSpec(raw)
	if errs := spec.Validate(); len(errs) > 0 {
		return &padicon.SpecError{Violations: errs}
	}
	img, err := gen.Render(spec)
	if err != nil {
		return err
	}
	return padicon.Encode(w, img, f)
}

func printError(deco utils.Decorator, err error) {
	fmt.Fprintf(os.Stderr, "%s\n\t%s\n",
		deco.Text("Error rendering the manifest:", utils.ErrorMessage),
		deco.Text(err.Error(), utils.DefaultMessage),
	)
}
