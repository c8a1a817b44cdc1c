package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/garment"
	"github.com/ayusman/tryon/internal/placement"
	"github.com/ayusman/tryon/internal/pose"
)

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

// solid returns a garment whose left half is c and right half transparent.
func solid(c color.Color, w, h int) *garment.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.NewUniform(c), image.Point{}, draw.Src)
	return garment.NewImage("g", "g", garment.Top, img)
}

func rect(x0, y0, x1, y1 float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1})
}

func TestCompositor_Composite(t *testing.T) {
	surface := placement.Surface{Width: 100, Height: 100}

	t.Run("opaque pixels replace and transparent pixels keep background", func(t *testing.T) {
		dst := Blank(surface, white)
		g := solid(red, 20, 20)

		NewCompositor().Composite(dst, []placement.Placement{{
			Slot:    placement.SlotTop,
			Garment: g,
			Source:  image.Rect(0, 0, 20, 20),
			Dest:    rect(20, 20, 60, 60),
		}})

		if got := dst.RGBAAt(30, 40); got != red {
			t.Errorf("pixel in opaque half = %v, want red", got)
		}
		if got := dst.RGBAAt(50, 40); got != white {
			t.Errorf("pixel in transparent half = %v, want white", got)
		}
		if got := dst.RGBAAt(10, 10); got != white {
			t.Errorf("pixel outside placement = %v, want white", got)
		}
	})

	t.Run("mirror flips the garment", func(t *testing.T) {
		dst := Blank(surface, white)
		g := solid(red, 20, 20)

		NewCompositor().Composite(dst, []placement.Placement{{
			Slot:    placement.SlotTop,
			Garment: g,
			Source:  image.Rect(0, 0, 20, 20),
			Dest:    rect(20, 20, 60, 60),
			Mirror:  true,
		}})

		if got := dst.RGBAAt(50, 40); got != red {
			t.Errorf("mirrored opaque half = %v, want red", got)
		}
		if got := dst.RGBAAt(30, 40); got != white {
			t.Errorf("mirrored transparent half = %v, want white", got)
		}
	})

	t.Run("higher slots draw on top", func(t *testing.T) {
		dst := Blank(surface, white)
		under := solid(red, 20, 20)
		over := solid(blue, 20, 20)

		// Passed out of order on purpose.
		NewCompositor().Composite(dst, []placement.Placement{
			{Slot: placement.SlotBottom, Garment: over, Source: image.Rect(0, 0, 20, 20), Dest: rect(20, 20, 60, 60)},
			{Slot: placement.SlotTop, Garment: under, Source: image.Rect(0, 0, 20, 20), Dest: rect(20, 20, 60, 60)},
		})

		if got := dst.RGBAAt(30, 40); got != blue {
			t.Errorf("overlapping pixel = %v, want blue", got)
		}
	})

	t.Run("clips to the surface", func(t *testing.T) {
		dst := Blank(surface, white)
		g := solid(red, 20, 20)

		NewCompositor().Composite(dst, []placement.Placement{{
			Slot:    placement.SlotTop,
			Garment: g,
			Source:  image.Rect(0, 0, 20, 20),
			Dest:    rect(-10, -10, 30, 30),
		}})

		if got := dst.RGBAAt(0, 0); got != red {
			t.Errorf("pixel at origin = %v, want red", got)
		}
	})

	t.Run("sub-image sources", func(t *testing.T) {
		dst := Blank(surface, white)
		base := image.NewNRGBA(image.Rect(0, 0, 40, 40))
		draw.Draw(base, image.Rect(20, 20, 30, 40), image.NewUniform(red), image.Point{}, draw.Src)
		sub := base.SubImage(image.Rect(20, 20, 40, 40))
		g := garment.NewImage("g", "g", garment.Top, sub)

		NewCompositor().Composite(dst, []placement.Placement{{
			Slot:    placement.SlotTop,
			Garment: g,
			Source:  image.Rect(0, 0, 20, 20),
			Dest:    rect(20, 20, 60, 60),
		}})

		if got := dst.RGBAAt(30, 40); got != red {
			t.Errorf("pixel from sub-image = %v, want red", got)
		}
		if got := dst.RGBAAt(50, 40); got != white {
			t.Errorf("transparent sub-image pixel = %v, want white", got)
		}
	})

	t.Run("nil garment is skipped", func(t *testing.T) {
		dst := Blank(surface, white)
		NewCompositor().Composite(dst, []placement.Placement{{Slot: placement.SlotTop, Source: image.Rect(0, 0, 1, 1)}})
		if got := dst.RGBAAt(50, 50); got != white {
			t.Errorf("pixel = %v, want white", got)
		}
	})
}

func TestCompositor_Render(t *testing.T) {
	bg := Blank(placement.Surface{Width: 64, Height: 48}, white)

	out := NewCompositor().Render(bg, nil)

	if out.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Errorf("bounds = %v, want 64x48", out.Bounds())
	}
	if out == bg {
		t.Error("Render should not draw onto the background")
	}
}

func changed(a, b *image.RGBA) bool {
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return true
		}
	}
	return false
}

func TestGuide_Draw(t *testing.T) {
	surface := placement.Surface{Width: 360, Height: 640}

	t.Run("incomplete state draws guidance", func(t *testing.T) {
		dst := Blank(surface, white)
		before := Blank(surface, white)

		(&Guide{}).Draw(dst, calibration.State{ShouldersOK: true}, pose.StandingFrame())

		if !changed(dst, before) {
			t.Error("expected guidance to be drawn")
		}
	})

	t.Run("complete state hides guidance", func(t *testing.T) {
		dst := Blank(surface, white)
		before := Blank(surface, white)
		done := calibration.State{ShouldersOK: true, TorsoOK: true, LegsOK: true, FeetOK: true}

		(&Guide{}).Draw(dst, done, pose.StandingFrame())

		if changed(dst, before) {
			t.Error("expected nothing drawn after calibration completes")
		}
	})

	t.Run("skeleton is drawn when enabled", func(t *testing.T) {
		dst := Blank(surface, white)
		before := Blank(surface, white)
		done := calibration.State{ShouldersOK: true, TorsoOK: true, LegsOK: true, FeetOK: true}

		(&Guide{Skeleton: true}).Draw(dst, done, pose.StandingFrame())

		if !changed(dst, before) {
			t.Error("expected skeleton to be drawn")
		}
	})
}
