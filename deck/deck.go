// Package deck reads the button layout of a control panel from a YAML manifest
// and renders the icons of the buttons described by an icon specification.
//
// A manifest looks like this:
//
//	buttons:
//	  - label: Record
//	    icon_spec:
//	      type: text
//	      text: REC
//	      color: "#FF6600"
//	  - label: Logo
//	    image: images/logo.png
//
// Only the button images are handled here, every other key of the manifest is ignored.
package deck

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/padicon"
	"github.com/esimov/padicon/utils"
	"gopkg.in/yaml.v3"
)

// Button is a single manifest entry.
type Button struct {
	// Index is the position of the button in the manifest, empty entries included.
	Index int `yaml:"-"`
	Label string `yaml:"label"`
	// Image is the path of the image shown on the button. After Render it points
	// to the generated icon for the buttons with an icon specification.
	Image    string         `yaml:"image"`
	IconSpec map[string]any `yaml:"icon_spec"`
}

// HasIconSpec reports whether the button declares a non-empty icon specification.
// An empty icon_spec mapping counts as absent.
func (b *Button) HasIconSpec() bool {
	return len(b.IconSpec) > 0
}

// Manifest holds the buttons declared in a manifest file.
type Manifest struct {
	// Dir is the directory relative image paths are resolved against.
	Dir     string
	Buttons []*Button
}

type document struct {
	Buttons []*Button `yaml:"buttons"`
}

// Load reads the manifest found at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the manifest: %w", err)
	}
	m, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest. Relative image paths are resolved against dir.
func Parse(data []byte, dir string) (*Manifest, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not decode the manifest: %w", err)
	}

	m := &Manifest{Dir: dir}
	for i, b := range doc.Buttons {
		if b == nil {
			continue
		}
		b.Index = i
		if b.Image != "" && !filepath.IsAbs(b.Image) {
			b.Image = filepath.Join(dir, b.Image)
		}
		m.Buttons = append(m.Buttons, b)
	}
	return m, nil
}

// CacheDir returns the default icon directory of the manifest: an icons folder next to it.
func (m *Manifest) CacheDir() string {
	return filepath.Join(m.Dir, padicon.DefaultCacheDir)
}

// Validate checks every button and returns the problems found, prefixed by the button index.
func (m *Manifest) Validate() []string {
	var errs []string

	for _, b := range m.Buttons {
		prefix := fmt.Sprintf("Button %d: ", b.Index)

		if b.HasIconSpec() {
			for _, e := range padicon.NewIconSpec(b.IconSpec).Validate() {
				errs = append(errs, prefix+"icon_spec error: "+e)
			}
			continue
		}

		if b.Image == "" {
			errs = append(errs, prefix+"must specify either 'image' or 'icon_spec'")
			continue
		}
		ctype, err := utils.DetectContentType(b.Image)
		switch {
		case errors.Is(err, os.ErrNotExist):
			errs = append(errs, prefix+"image file not found: "+b.Image)
		case err != nil:
			errs = append(errs, prefix+"could not read image: "+err.Error())
		case !strings.HasPrefix(ctype, "image/"):
			errs = append(errs, fmt.Sprintf("%simage file is not an image (%s): %s", prefix, ctype, b.Image))
		}
	}
	return errs
}

// Render generates the icon of every button carrying an icon specification and points
// the button image to it. The icons are stored under the button index and always rendered
// again, so that a changed specification replaces the previous icon. It stops at the first
// failing button and returns the number of icons rendered.
func (m *Manifest) Render(gen *padicon.Generator, log *slog.Logger) (int, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var n int
	for _, b := range m.Buttons {
		if !b.HasIconSpec() {
			continue
		}

		log.Info("generating button icon", "button", b.Index, "label", b.Label)
		path, err := gen.GenerateFromMap(b.IconSpec, padicon.Request{
			Slot:  padicon.SlotIndex(b.Index),
			Force: true,
		})
		if err != nil {
			log.Error("failed to generate button icon", "button", b.Index, "error", err)
			return n, fmt.Errorf("button %d: %w", b.Index, err)
		}
		b.Image = path
		n++
	}
	return n, nil
}
