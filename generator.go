package padicon

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/esimov/padicon/utils"
)

// Request holds the options of a single generation.
type Request struct {
	// Force renders the icon even if the cache already holds it.
	Force bool
	// Slot, when set, stores the icon under a fixed name derived from the slot
	// (usually a button index) instead of the specification hash. A slot file is
	// returned as is on subsequent calls until Force is used, whatever spec is passed.
	Slot string
}

// SlotIndex returns the slot identifier of a button index.
func SlotIndex(i int) string {
	return strconv.Itoa(i)
}

var slotRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Generator renders icons and stores them in a cache directory.
// It is not safe to render the same cache entry from concurrent calls; the last writer wins.
type Generator struct {
	cfg   Config
	log   *slog.Logger
	fonts *fontLoader
}

// New creates a generator, creating the cache directory if it does not exist.
func New(cfg Config) (*Generator, error) {
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	if cfg.Format == "" {
		cfg.Format = PNG
	}
	if _, err := ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, &CacheError{Op: "create", Path: cfg.CacheDir, Err: err}
	}

	log := cfg.Logger
	if log == nil {
		log = discardLogger()
	}

	return &Generator{
		cfg:   cfg,
		log:   log,
		fonts: newFontLoader(cfg),
	}, nil
}

// CacheDir returns the directory the icons are stored in.
func (g *Generator) CacheDir() string {
	return g.cfg.CacheDir
}

// HashPath returns the content addressed path of spec.
func (g *Generator) HashPath(spec *IconSpec) string {
	return filepath.Join(g.cfg.CacheDir, "icon_"+spec.Hash()+g.cfg.Format.Ext())
}

// SlotPath returns the path of a slot addressed icon.
func (g *Generator) SlotPath(slot string) (string, error) {
	if !slotRegex.MatchString(slot) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return filepath.Join(g.cfg.CacheDir, "button_icon_"+slot+g.cfg.Format.Ext()), nil
}

// Generate returns the path of the icon described by spec, rendering it only if
// the cache does not hold it already or if the request forces it.
func (g *Generator) Generate(spec *IconSpec, req Request) (string, error) {
	if _, err := g.renderer(spec.Kind()); err != nil {
		return "", err
	}

	var err error
	path := g.HashPath(spec)
	if req.Slot != "" {
		if path, err = g.SlotPath(req.Slot); err != nil {
			return "", err
		}
	}

	if !req.Force && isFile(path) {
		g.log.Debug("using cached icon", "path", path)
		return path, nil
	}

	g.log.Info("generating icon", "type", spec.Kind().String(), "size", spec.Size().String())

	img, err := g.Render(spec)
	if err != nil {
		return "", err
	}

	err = utils.WriteFileAtomic(path, 0644, func(w io.Writer) error {
		return Encode(w, img, g.cfg.Format)
	})
	if err != nil {
		return "", &CacheError{Op: "write", Path: path, Err: err}
	}

	g.log.Info("saved icon", "path", path)
	return path, nil
}

// GenerateFromMap builds a specification from a raw mapping, validates it and generates it.
// All the validation violations are reported together in a *SpecError.
func (g *Generator) GenerateFromMap(raw map[string]any, req Request) (string, error) {
	spec := NewIconSpec(raw)
	if errs := spec.Validate(); len(errs) > 0 {
		return "", &SpecError{Violations: errs}
	}
	return g.Generate(spec, req)
}
