package garment

import (
	"image"
)

// Bounds extraction constants.
const (
	// AlphaThreshold is the alpha value (0-255) a pixel must exceed to count as garment.
	AlphaThreshold = 50
	// SampleStride is the pixel step used in both axes while scanning.
	SampleStride = 4
	// EdgeMargin is added around the scanned box so anti-aliased edges are not clipped.
	EdgeMargin = 4
)

// Bounds is the pixel box of the visible part of a garment image, relative to the
// image origin. Right and Bottom are exclusive.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right - Left.
func (b Bounds) Width() int { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b Bounds) Height() int { return b.Bottom - b.Top }

// Rect returns the bounds as an image.Rectangle in image-origin coordinates.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

// Empty reports whether the box has no area.
func (b Bounds) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// ExtractBounds scans img on a SampleStride grid and returns the box around every
// sampled pixel with alpha above AlphaThreshold, grown by EdgeMargin and clamped to
// the image. A fully transparent image yields the full image box.
func ExtractBounds(img image.Image) Bounds {
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()
	full := Bounds{Right: w, Bottom: h}
	if w <= 0 || h <= 0 {
		return full
	}

	alpha := alphaReader(img)
	minX, minY := w, h
	maxX, maxY := -1, -1

	for y := 0; y < h; y += SampleStride {
		for x := 0; x < w; x += SampleStride {
			if alpha(r.Min.X+x, r.Min.Y+y) <= AlphaThreshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return full
	}

	return Bounds{
		Left:   max(minX-EdgeMargin, 0),
		Top:    max(minY-EdgeMargin, 0),
		Right:  min(maxX+EdgeMargin, w),
		Bottom: min(maxY+EdgeMargin, h),
	}
}

// alphaReader returns an 8-bit alpha lookup, reading Pix directly for the common
// decoded formats.
func alphaReader(img image.Image) func(x, y int) uint8 {
	switch m := img.(type) {
	case *image.NRGBA:
		return func(x, y int) uint8 { return m.Pix[m.PixOffset(x, y)+3] }
	case *image.RGBA:
		return func(x, y int) uint8 { return m.Pix[m.PixOffset(x, y)+3] }
	case *image.Alpha:
		return func(x, y int) uint8 { return m.Pix[m.PixOffset(x, y)] }
	default:
		return func(x, y int) uint8 {
			_, _, _, a := img.At(x, y).RGBA()
			return uint8(a >> 8)
		}
	}
}
