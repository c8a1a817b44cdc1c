package placement

import (
	"image"
	"math"

	"github.com/golang/geo/r2"

	"github.com/ayusman/tryon/internal/garment"
	"github.com/ayusman/tryon/internal/pose"
)

// epsilon guards every division by a measured length.
const epsilon = 1e-6

// Strategy turns a projected skeleton and an outfit into placements.
type Strategy interface {
	Name() string
	Place(s pose.ScreenSkeleton, outfit garment.Outfit) []Placement
}

// SlotBasedStrategy anchors tops, bottoms and shoes independently without rotation.
type SlotBasedStrategy struct {
	config Config
}

// NewSlotBasedStrategy returns the per-slot strategy.
func NewSlotBasedStrategy(config Config) *SlotBasedStrategy {
	return &SlotBasedStrategy{config: config}
}

// Name implements Strategy.
func (*SlotBasedStrategy) Name() string { return StrategySlots }

// Place implements Strategy.
func (st *SlotBasedStrategy) Place(s pose.ScreenSkeleton, outfit garment.Outfit) []Placement {
	var out []Placement
	if outfit.Top != nil {
		if p, ok := st.top(s, outfit.Top); ok {
			out = append(out, p)
		}
	}
	if outfit.Bottom != nil {
		if p, ok := st.bottom(s, outfit.Bottom); ok {
			out = append(out, p)
		}
	}
	if outfit.Shoes != nil {
		out = append(out, st.shoes(s, outfit.Shoes)...)
	}
	for i := range out {
		out[i].Mirror = st.config.Mirror
	}
	return out
}

// top scales the garment's visible width to a multiple of shoulder width and
// lifts it slightly so the neckline sits above the shoulder line.
func (st *SlotBasedStrategy) top(s pose.ScreenSkeleton, g *garment.Image) (Placement, bool) {
	b := g.Bounds()
	shoulders := pose.Distance(s.LeftShoulder, s.RightShoulder)
	if float64(b.Width()) < epsilon || b.Height() <= 0 || shoulders < epsilon {
		return Placement{}, false
	}

	anchor := pose.Midpoint(s.LeftShoulder, s.RightShoulder)
	scale := shoulders * st.config.TopWidthFactor / float64(b.Width())
	width := float64(b.Width()) * scale
	height := float64(b.Height()) * scale
	top := anchor.Y - st.config.TopNecklineOffset*height

	return Placement{
		Slot:    SlotTop,
		Garment: g,
		Source:  b.Rect(),
		Dest:    rectFromTopCenter(anchor.X, top, width, height),
	}, true
}

// bottom scales width from hip width and stretches height to the ankle line.
func (st *SlotBasedStrategy) bottom(s pose.ScreenSkeleton, g *garment.Image) (Placement, bool) {
	b := g.Bounds()
	hips := pose.Distance(s.LeftHip, s.RightHip)
	if float64(b.Width()) < epsilon || b.Height() <= 0 || hips < epsilon {
		return Placement{}, false
	}

	anchor := pose.Midpoint(s.LeftHip, s.RightHip)
	ankles := pose.Midpoint(s.LeftAnkle, s.RightAnkle)
	height := pose.Distance(anchor, ankles) * st.config.BottomLegFactor
	if height < epsilon {
		return Placement{}, false
	}

	scale := hips * st.config.BottomWidthFactor / float64(b.Width())
	width := float64(b.Width()) * scale
	top := anchor.Y - st.config.BottomWaistOffset*height

	return Placement{
		Slot:    SlotBottom,
		Garment: g,
		Source:  b.Rect(),
		Dest:    rectFromTopCenter(anchor.X, top, width, height),
	}, true
}

// shoes splits the image at its horizontal midline. The right half is drawn at
// the left ankle and the left half at the right ankle, matching the asset layout.
func (st *SlotBasedStrategy) shoes(s pose.ScreenSkeleton, g *garment.Image) []Placement {
	w, h := g.Width(), g.Height()
	half := w / 2
	ankles := pose.Distance(s.LeftAnkle, s.RightAnkle)
	if half <= 0 || h <= 0 || ankles < epsilon {
		return nil
	}

	scale := ankles / float64(w) * st.config.ShoeWidthFactor
	place := func(slot Slot, src image.Rectangle, ankle r2.Point) Placement {
		width := float64(src.Dx()) * scale
		height := float64(src.Dy()) * scale
		return Placement{
			Slot:    slot,
			Garment: g,
			Source:  src,
			Dest: r2.RectFromPoints(
				r2.Point{X: ankle.X - width/2, Y: ankle.Y - st.config.ShoeAboveAnkle*height},
				r2.Point{X: ankle.X + width/2, Y: ankle.Y + st.config.ShoeBelowAnkle*height},
			),
		}
	}

	return []Placement{
		place(SlotLeftShoe, image.Rect(half, 0, w, h), s.LeftAnkle),
		place(SlotRightShoe, image.Rect(0, 0, half, h), s.RightAnkle),
	}
}

// SingleImageStrategy anchors one full-body image between shoulders and hips and
// rotates it with the shoulder line.
type SingleImageStrategy struct {
	config Config
}

// NewSingleImageStrategy returns the full-body strategy.
func NewSingleImageStrategy(config Config) *SingleImageStrategy {
	return &SingleImageStrategy{config: config}
}

// Name implements Strategy.
func (*SingleImageStrategy) Name() string { return StrategySingle }

// Place implements Strategy. The full-body garment is used when selected,
// otherwise the selected top.
func (st *SingleImageStrategy) Place(s pose.ScreenSkeleton, outfit garment.Outfit) []Placement {
	g := outfit.FullBody
	if g == nil {
		g = outfit.Top
	}
	if g == nil {
		return nil
	}

	w, h := g.Width(), g.Height()
	shoulders := pose.Distance(s.LeftShoulder, s.RightShoulder)
	if w <= 0 || h <= 0 || shoulders < epsilon || st.config.SingleReferenceShoulderWidth < epsilon {
		return nil
	}

	scale := shoulders / st.config.SingleReferenceShoulderWidth
	shoulderMid := pose.Midpoint(s.LeftShoulder, s.RightShoulder)
	hipMid := pose.Midpoint(s.LeftHip, s.RightHip)
	shoulderLine := s.RightShoulder.Sub(s.LeftShoulder)

	center := r2.Point{
		X: (shoulderMid.X + hipMid.X) / 2,
		Y: shoulderMid.Y*st.config.SingleShoulderWeight + hipMid.Y*st.config.SingleHipWeight,
	}

	return []Placement{{
		Slot:     SlotFullBody,
		Garment:  g,
		Source:   image.Rect(0, 0, w, h),
		Dest:     r2.RectFromCenterSize(center, r2.Point{X: float64(w) * scale, Y: float64(h) * scale}),
		Rotation: math.Atan2(shoulderLine.Y, shoulderLine.X),
		Mirror:   st.config.Mirror,
	}}
}
