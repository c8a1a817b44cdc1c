// Package render draws garment placements and the calibration guide onto camera frames.
package render

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ayusman/tryon/internal/placement"
)

// Compositor draws placements over a background with alpha blending.
type Compositor struct {
	// Interpolator samples garment pixels. Defaults to draw.BiLinear.
	Interpolator draw.Interpolator
}

// NewCompositor returns a compositor using bilinear sampling.
func NewCompositor() *Compositor {
	return &Compositor{Interpolator: draw.BiLinear}
}

// Composite draws every placement onto dst in slot order. Pixels outside dst
// are clipped and transparent garment pixels leave dst untouched.
func (c *Compositor) Composite(dst draw.Image, placements []placement.Placement) {
	ordered := make([]placement.Placement, len(placements))
	copy(ordered, placements)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Slot < ordered[j].Slot })

	interp := c.Interpolator
	if interp == nil {
		interp = draw.BiLinear
	}

	for _, p := range ordered {
		if p.Garment == nil || p.Source.Empty() {
			continue
		}
		src := p.Garment.Pixels
		origin := src.Bounds().Min
		m := shift(p.Transform(), origin)
		interp.Transform(dst, m, src, p.Source.Add(origin), draw.Over, nil)
	}
}

// Render copies background into a new RGBA image and composites onto it.
func (c *Compositor) Render(background image.Image, placements []placement.Placement) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, background.Bounds().Dx(), background.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), background, background.Bounds().Min, draw.Src)
	c.Composite(out, placements)
	return out
}

// Blank returns an opaque surface of the given size, used when no camera frame is available.
func Blank(surface placement.Surface, bg color.Color) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, surface.Width, surface.Height))
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return out
}

// shift re-bases m, defined over origin-relative source coordinates, onto
// source images whose bounds do not start at (0,0).
func shift(m f64.Aff3, origin image.Point) f64.Aff3 {
	if origin == (image.Point{}) {
		return m
	}
	ox, oy := float64(origin.X), float64(origin.Y)
	m[2] -= m[0]*ox + m[1]*oy
	m[5] -= m[3]*ox + m[4]*oy
	return m
}
