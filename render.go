package padicon

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/padicon/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// renderFn draws an icon of a specific kind.
type renderFn func(spec *IconSpec) (*image.NRGBA, error)

// renderer returns the function drawing icons of kind k.
func (g *Generator) renderer(k Kind) (renderFn, error) {
	switch k {
	case Solid:
		return g.renderSolid, nil
	case Text:
		return g.renderText, nil
	case Gradient:
		return g.renderGradient, nil
	case Emoji, Icon:
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, k)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, k)
}

// Render draws the icon described by spec without using the cache.
func (g *Generator) Render(spec *IconSpec) (*image.NRGBA, error) {
	render, err := g.renderer(spec.Kind())
	if err != nil {
		return nil, err
	}
	if sz := spec.Size(); sz.Width <= 0 || sz.Height <= 0 {
		return nil, &SpecError{Violations: []string{fmt.Sprintf("size must be positive, got %s", sz)}}
	}
	return render(spec)
}

// color resolves a color string, logging the ones replaced by FallbackColor.
func (g *Generator) color(s string) color.NRGBA {
	c, ok := ParseColor(s)
	if !ok {
		g.log.Debug("unknown color, using the fallback", "color", s)
	}
	return c
}

// renderSolid fills the whole icon with the primary color.
func (g *Generator) renderSolid(spec *IconSpec) (*image.NRGBA, error) {
	sz := spec.Size()
	return imaging.New(sz.Width, sz.Height, g.color(spec.Color())), nil
}

// renderGradient interpolates vertically from the primary color at the top row towards the
// text color. The ratio of row y is y/height, so the last row stops one step short of the
// end color.
func (g *Generator) renderGradient(spec *IconSpec) (*image.NRGBA, error) {
	var (
		sz    = spec.Size()
		start = g.color(spec.Color())
		end   = g.color(spec.TextColor())
		dst   = image.NewNRGBA(image.Rect(0, 0, sz.Width, sz.Height))
	)

	for y := 0; y < sz.Height; y++ {
		ratio := float64(y) / float64(sz.Height)
		rc := lerp(start.R, end.R, ratio)
		gc := lerp(start.G, end.G, ratio)
		bc := lerp(start.B, end.B, ratio)

		row := dst.Pix[y*dst.Stride : y*dst.Stride+sz.Width*4]
		for x := 0; x < len(row); x += 4 {
			row[x+0] = rc
			row[x+1] = gc
			row[x+2] = bc
			row[x+3] = 0xff
		}
	}
	return dst, nil
}

// lerp mixes two channel values and truncates the result.
func lerp(a, b uint8, t float64) uint8 {
	// The explicit conversions prevent the products from being fused,
	// which would change the truncated result on some architectures.
	return uint8(float64(float64(a)*(1-t)) + float64(float64(b)*t))
}

// renderText fills the icon with the primary color and draws the text centered on it.
// Multiline text is drawn line by line, each line centered horizontally, with a spacing of
// 15% of the font size between the lines. The text block is centered vertically, the middle
// of a line being halfway between its ascent and descent.
func (g *Generator) renderText(spec *IconSpec) (*image.NRGBA, error) {
	sz := spec.Size()
	dst := imaging.New(sz.Width, sz.Height, g.color(spec.Color()))

	face := g.fontFace(spec)
	defer face.Close()

	lines := []string{spec.Text()}
	spacing := 0
	if strings.Contains(spec.Text(), "\n") {
		lines = strings.Split(strings.ReplaceAll(spec.Text(), "\r\n", "\n"), "\n")
		spacing = utils.Max(1, spec.FontSize()*15/100)
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(g.color(spec.TextColor())),
		Face: face,
	}
	for i, dot := range lineOrigins(face, lines, spacing, sz) {
		d.Dot = dot
		d.DrawString(lines[i])
	}
	return dst, nil
}

// lineOrigins returns the baseline origin of every line, so that each line is centered
// horizontally and the whole block is centered vertically inside an icon of size sz.
func lineOrigins(face font.Face, lines []string, spacing int, sz Size) []fixed.Point26_6 {
	var (
		metrics    = face.Metrics()
		lineHeight = metrics.Ascent + metrics.Descent
		step       = lineHeight + fixed.I(spacing)
		blockH     = lineHeight*fixed.Int26_6(len(lines)) + fixed.I(spacing*(len(lines)-1))
		top        = fixed.I(sz.Height/2) - blockH/2
		centerX    = fixed.I(sz.Width / 2)
	)

	dots := make([]fixed.Point26_6, len(lines))
	for i, line := range lines {
		dots[i] = fixed.Point26_6{
			X: centerX - font.MeasureString(face, line)/2,
			Y: top + step*fixed.Int26_6(i) + metrics.Ascent,
		}
	}
	return dots
}
