package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/pose"
)

var (
	bracketColor = color.NRGBA{A: 0xff}
	checkColor   = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	boxColor     = color.NRGBA{R: 0xf8, G: 0xbb, B: 0xd9, A: 0xff}
	textColor    = color.NRGBA{R: 0x88, G: 0x0e, B: 0x4f, A: 0xff}
	arrowColor   = color.NRGBA{R: 0xf4, G: 0x8f, B: 0xb1, A: 0xff}
	boneColor    = color.NRGBA{R: 0x00, G: 0xe5, B: 0xff, A: 0xc0}
)

// referenceWidth is the surface width the guide's stroke and text sizes are tuned for.
const referenceWidth = 1080.0

// guideBand is where a zone's brackets, checkmark and message are drawn, as
// fractions of the surface height.
type guideBand struct {
	top, bottom float64
	check       float64
	message     float64
}

var guideBands = map[calibration.Zone]guideBand{
	calibration.ZoneShoulders: {top: 0.18, bottom: 0.38, check: 0.28, message: 0.32},
	calibration.ZoneTorso:     {top: 0.38, bottom: 0.55, check: 0.46, message: 0.50},
	calibration.ZoneLegs:      {top: 0.55, bottom: 0.75, check: 0.65, message: 0.68},
	calibration.ZoneFeet:      {top: 0.75, bottom: 0.92, check: 0.83, message: 0.86},
}

var bones = [][2]int{
	{pose.LeftShoulder, pose.RightShoulder},
	{pose.LeftShoulder, pose.LeftHip},
	{pose.RightShoulder, pose.RightHip},
	{pose.LeftHip, pose.RightHip},
	{pose.LeftHip, pose.LeftKnee},
	{pose.RightHip, pose.RightKnee},
	{pose.LeftKnee, pose.LeftAnkle},
	{pose.RightKnee, pose.RightAnkle},
}

// Guide draws the calibration guidance overlay.
type Guide struct {
	// Skeleton draws the tracked landmarks as a stick figure.
	Skeleton bool
}

// Draw renders zone brackets, checkmarks for satisfied zones and the message
// for the first unmet zone. Once state is complete only the optional skeleton
// is drawn.
func (g *Guide) Draw(dst *image.RGBA, state calibration.State, frame *pose.Frame) {
	dc := gg.NewContextForRGBA(dst)
	w, h := float64(dc.Width()), float64(dc.Height())
	k := w / referenceWidth

	if g.Skeleton {
		drawSkeleton(dc, frame, k)
	}
	if state.Complete() {
		return
	}

	margin := w * 0.15
	for _, z := range calibration.Zones {
		b := guideBands[z]
		drawCornerBrackets(dc, margin, h*b.top, w-margin, h*b.bottom, 60*k, 4*k)
		if state.Satisfied(z) {
			drawCheckmark(dc, w/2, h*b.check, k)
		}
	}

	if next := state.NextUnmet(); next != calibration.ZoneNone {
		drawMessageBox(dc, next.Message(), w/2, h*guideBands[next].message, k)
	}

	for _, y := range []float64{0.5, 0.8} {
		drawArrow(dc, 40*k, h*y, true, k)
		drawArrow(dc, w-40*k, h*y, false, k)
	}
}

func drawCornerBrackets(dc *gg.Context, left, top, right, bottom, size, width float64) {
	dc.SetColor(bracketColor)
	dc.SetLineWidth(width)

	dc.DrawLine(left, top+size, left, top)
	dc.DrawLine(left, top, left+size, top)
	dc.DrawLine(right-size, top, right, top)
	dc.DrawLine(right, top, right, top+size)
	dc.DrawLine(left, bottom-size, left, bottom)
	dc.DrawLine(left, bottom, left+size, bottom)
	dc.DrawLine(right-size, bottom, right, bottom)
	dc.DrawLine(right, bottom, right, bottom-size)
	dc.Stroke()
}

func drawCheckmark(dc *gg.Context, cx, cy, k float64) {
	dc.SetColor(checkColor)
	dc.SetLineWidth(8 * k)
	dc.SetLineCapRound()

	dc.MoveTo(cx-30*k, cy)
	dc.LineTo(cx-5*k, cy+25*k)
	dc.LineTo(cx+35*k, cy-25*k)
	dc.Stroke()
}

func drawMessageBox(dc *gg.Context, msg string, cx, cy, k float64) {
	setFont(dc, 40*k)
	tw, _ := dc.MeasureString(msg)
	pad := 30 * k

	dc.SetColor(boxColor)
	dc.DrawRoundedRectangle(cx-tw/2-pad, cy-35*k, tw+2*pad, 70*k, 25*k)
	dc.Fill()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(msg, cx, cy, 0.5, 0.35)
}

func drawArrow(dc *gg.Context, cx, cy float64, left bool, k float64) {
	size := 25 * k
	dir := 1.0
	if !left {
		dir = -1
	}

	dc.SetColor(arrowColor)
	dc.SetLineWidth(6 * k)
	dc.SetLineCapRound()
	dc.MoveTo(cx+dir*size, cy-size)
	dc.LineTo(cx, cy)
	dc.LineTo(cx+dir*size, cy+size)
	dc.Stroke()
}

func drawSkeleton(dc *gg.Context, frame *pose.Frame, k float64) {
	if !frame.Sufficient() {
		return
	}
	w, h := float64(dc.Width()), float64(dc.Height())

	dc.SetColor(boneColor)
	dc.SetLineWidth(3 * k)
	for _, b := range bones {
		p := frame.Landmarks[b[0]].Screen(w, h)
		q := frame.Landmarks[b[1]].Screen(w, h)
		dc.DrawLine(p.X, p.Y, q.X, q.Y)
	}
	dc.Stroke()

	for _, b := range bones {
		p := frame.Landmarks[b[0]].Screen(w, h)
		dc.DrawCircle(p.X, p.Y, 5*k)
	}
	dc.Fill()
}

// DrawLabel writes text at p, used for status lines on the preview.
func DrawLabel(dst *image.RGBA, text string, p image.Point, c color.Color, size float64) {
	dc := gg.NewContextForRGBA(dst)
	setFont(dc, size)
	dc.SetColor(c)
	dc.DrawStringWrapped(text, float64(p.X), float64(p.Y), 0, 0, float64(dc.Width()), 1, 0)
}
