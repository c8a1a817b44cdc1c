// Package placement computes where each garment is drawn for a frame of body landmarks.
package placement

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
	"golang.org/x/image/math/f64"

	"github.com/ayusman/tryon/internal/garment"
)

// Slot is an independent overlay target. Slots are drawn in ascending order.
type Slot int

const (
	SlotFullBody Slot = iota
	SlotTop
	SlotBottom
	SlotLeftShoe
	SlotRightShoe
)

func (s Slot) String() string {
	switch s {
	case SlotFullBody:
		return "fullbody"
	case SlotTop:
		return "top"
	case SlotBottom:
		return "bottom"
	case SlotLeftShoe:
		return "left_shoe"
	case SlotRightShoe:
		return "right_shoe"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Surface is the pixel size of the output the garments are drawn onto.
type Surface struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the surface has a drawable area.
func (s Surface) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Placement maps a source rectangle of a garment image onto the surface. Dest is
// the unrotated destination box; Rotation (radians) turns it around its center.
type Placement struct {
	Slot     Slot            `json:"slot"`
	Garment  *garment.Image  `json:"-"`
	Source   image.Rectangle `json:"source"`
	Dest     r2.Rect         `json:"-"`
	Rotation float64         `json:"rotation"`
	Mirror   bool            `json:"mirror"`
}

// ScaleX returns the horizontal source-to-destination scale.
func (p Placement) ScaleX() float64 {
	return p.Dest.X.Length() / float64(p.Source.Dx())
}

// ScaleY returns the vertical source-to-destination scale.
func (p Placement) ScaleY() float64 {
	return p.Dest.Y.Length() / float64(p.Source.Dy())
}

// Transform returns the affine matrix taking source pixel coordinates to surface
// coordinates, including mirroring and rotation.
func (p Placement) Transform() f64.Aff3 {
	sx, sy := p.ScaleX(), p.ScaleY()
	if p.Mirror {
		sx = -sx
	}

	srcCX := float64(p.Source.Min.X+p.Source.Max.X) / 2
	srcCY := float64(p.Source.Min.Y+p.Source.Max.Y) / 2
	dst := p.Dest.Center()
	sin, cos := math.Sincos(p.Rotation)

	a, b := cos*sx, -sin*sy
	d, e := sin*sx, cos*sy
	return f64.Aff3{
		a, b, dst.X - a*srcCX - b*srcCY,
		d, e, dst.Y - d*srcCX - e*srcCY,
	}
}

// Apply maps a source pixel coordinate through Transform.
func (p Placement) Apply(src r2.Point) r2.Point {
	m := p.Transform()
	return r2.Point{
		X: m[0]*src.X + m[1]*src.Y + m[2],
		Y: m[3]*src.X + m[4]*src.Y + m[5],
	}
}

// rectFromTopCenter builds a destination box horizontally centered on cx with its
// top edge at top.
func rectFromTopCenter(cx, top, width, height float64) r2.Rect {
	return r2.RectFromPoints(
		r2.Point{X: cx - width/2, Y: top},
		r2.Point{X: cx + width/2, Y: top + height},
	)
}
