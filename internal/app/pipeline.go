package app

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/capture"
	"github.com/ayusman/tryon/internal/placement"
	"github.com/ayusman/tryon/internal/pose"
	"github.com/ayusman/tryon/internal/render"
)

// subscriberBuffer is how many events a slow subscriber may lag before events are dropped.
const subscriberBuffer = 4

var allZonesMet = calibration.State{ShouldersOK: true, TorsoOK: true, LegsOK: true, FeetOK: true}

// Result is the output of processing one frame.
type Result struct {
	Seq         uint64
	Phase       Phase
	Calibration calibration.State
	NextZone    calibration.Zone
	Placements  []placement.Placement
	Image       *image.RGBA
	JPEG        []byte
	Timestamp   time.Time
}

// PlacementView is the wire form of a placement.
type PlacementView struct {
	Slot      placement.Slot `json:"slot"`
	GarmentID string         `json:"garment_id"`
	Name      string         `json:"name"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Rotation  float64        `json:"rotation"`
	Mirror    bool           `json:"mirror"`
}

// Event is pushed to subscribers after every processed frame.
type Event struct {
	Seq         uint64            `json:"seq"`
	Phase       Phase             `json:"phase"`
	Calibration calibration.State `json:"calibration"`
	NextZone    calibration.Zone  `json:"next_zone"`
	Message     string            `json:"message,omitempty"`
	Placements  []PlacementView   `json:"placements"`
	Timestamp   int64             `json:"timestamp"`
}

// Event converts r to its wire form.
func (r *Result) Event() Event {
	ev := Event{
		Seq:         r.Seq,
		Phase:       r.Phase,
		Calibration: r.Calibration,
		NextZone:    r.NextZone,
		Message:     r.NextZone.Message(),
		Placements:  make([]PlacementView, 0, len(r.Placements)),
		Timestamp:   r.Timestamp.UnixMilli(),
	}
	for _, p := range r.Placements {
		v := PlacementView{
			Slot:     p.Slot,
			X:        p.Dest.X.Lo,
			Y:        p.Dest.Y.Lo,
			Width:    p.Dest.X.Length(),
			Height:   p.Dest.Y.Length(),
			Rotation: p.Rotation,
			Mirror:   p.Mirror,
		}
		if p.Garment != nil {
			v.GarmentID = p.Garment.ID
			v.Name = p.Garment.Name
		}
		ev.Placements = append(ev.Placements, v)
	}
	return ev
}

type subscribers struct {
	mu    sync.Mutex
	next  int
	chans map[int]chan Event
}

// Subscribe returns a channel of per-frame events and a function that ends the
// subscription. Events are dropped for subscribers that fall behind.
func (a *App) Subscribe() (<-chan Event, func()) {
	a.subs.mu.Lock()
	defer a.subs.mu.Unlock()

	id := a.subs.next
	a.subs.next++
	ch := make(chan Event, subscriberBuffer)
	a.subs.chans[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subs.mu.Lock()
			defer a.subs.mu.Unlock()
			delete(a.subs.chans, id)
			close(ch)
		})
	}
}

func (a *App) publish(ev Event) {
	a.subs.mu.Lock()
	defer a.subs.mu.Unlock()
	for _, ch := range a.subs.chans {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Submit publishes a detected frame and its camera image for processing,
// replacing any frame that has not been processed yet. img may be nil.
func (a *App) Submit(frame *pose.Frame, img *image.RGBA) uint64 {
	seq := a.latest.Store(&sample{frame: frame, image: img})
	select {
	case a.signal <- struct{}{}:
	default:
	}
	return seq
}

// Latest returns the most recent result, or nil before the first frame.
func (a *App) Latest() *Result {
	return a.output.Load()
}

// LatestJPEG returns the most recent composited frame and its sequence number.
func (a *App) LatestJPEG() ([]byte, uint64) {
	r := a.output.Load()
	if r == nil {
		return nil, 0
	}
	return r.JPEG, r.Seq
}

// ProcessFrame runs calibration and, once calibrated, garment placement for one
// frame and composites the result over img. A nil img renders onto a black
// surface of the configured camera size.
func (a *App) ProcessFrame(frame *pose.Frame, img *image.RGBA) *Result {
	state := a.calibration.Update(frame)

	var background image.Image = img
	if img == nil {
		background = render.Blank(placement.Surface{
			Width:  a.config.Camera.Width,
			Height: a.config.Camera.Height,
		}, color.Black)
	}

	res := &Result{
		Phase:       a.Phase(),
		Calibration: state,
		NextZone:    state.NextUnmet(),
		Timestamp:   time.Now(),
	}

	if res.Phase == PhaseTryingOn {
		b := background.Bounds()
		surface := placement.Surface{Width: b.Dx(), Height: b.Dy()}
		res.Placements = a.engine.Place(frame, a.wardrobe.Outfit(), surface)
		res.Image = a.compositor.Render(background, res.Placements)
		if a.guide.Skeleton {
			a.guide.Draw(res.Image, allZonesMet, frame)
		}
	} else {
		res.Image = a.compositor.Render(background, nil)
		a.guide.Draw(res.Image, state, frame)
	}

	if data, err := capture.EncodeJPEG(res.Image, a.config.Overlay.JPEGQuality); err != nil {
		a.logger.Warnw("failed to encode preview", "error", err)
	} else {
		res.JPEG = data
	}
	return res
}

func (a *App) publishResult(res *Result, seq uint64) {
	res.Seq = seq
	a.output.Store(res)
	a.publish(res.Event())
}

// captureLoop reads camera frames at the camera rate, detects the pose and
// hands each frame to the processing loop.
func (a *App) captureLoop(ctx context.Context) {
	defer a.wg.Done()

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			if err := a.captureOnce(); err != nil {
				a.logger.Debugw("frame skipped", "error", err)
			}
		}
	}
}

func (a *App) captureOnce() error {
	mat, err := a.camera.ReadFrame()
	if err != nil {
		return errors.Wrap(err, "read frame")
	}
	defer mat.Close()

	frame, err := a.detector.Detect(mat)
	if err != nil {
		return errors.Wrap(err, "detect pose")
	}
	img, err := capture.ToRGBA(mat)
	if err != nil {
		return errors.Wrap(err, "convert frame")
	}

	a.Submit(frame, img)
	return nil
}

// processLoop renders the newest submitted frame each time it is signalled.
// Frames submitted while a render is in progress collapse into one.
func (a *App) processLoop(ctx context.Context) {
	defer a.wg.Done()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.signal:
			s, seq := a.latest.Load()
			if s == nil || seq == last {
				continue
			}
			last = seq
			a.publishResult(a.ProcessFrame(s.frame, s.image), seq)
		}
	}
}
