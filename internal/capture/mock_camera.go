package capture

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrNoFrames is returned by MockCamera once a non-looping sequence is exhausted.
var ErrNoFrames = errors.New("no more frames")

// MockCamera replays a fixed sequence of frames in place of a capture device.
// It backs tests and offline sessions driven by still photos.
type MockCamera struct {
	mu     sync.Mutex
	frames []*gocv.Mat
	owned  bool
	next   int
	loop   bool
	mirror bool
	open   bool
	fps    int
	reads  int
}

// NewMockCamera replays frames, optionally in a loop. The caller keeps
// ownership of frames; ReadFrame returns clones.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{frames: frames, loop: loop, fps: DefaultFPS}
}

// NewMockCameraFromImages converts still images into BGR frames and replays
// them in a loop. Close releases the converted frames.
func NewMockCameraFromImages(images ...image.Image) (*MockCamera, error) {
	frames := make([]*gocv.Mat, 0, len(images))
	for i, img := range images {
		mat, err := gocv.ImageToMatRGB(img)
		if err != nil {
			for _, f := range frames {
				f.Close()
			}
			return nil, errors.Wrapf(err, "convert image %d", i)
		}
		frames = append(frames, &mat)
	}
	c := NewMockCamera(frames, true)
	c.owned = true
	return c, nil
}

// SetMirror flips every returned frame, matching Config.Mirror on a real camera.
func (c *MockCamera) SetMirror(mirror bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirror = mirror
}

// Open rewinds playback.
func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.next = 0
	return nil
}

// Close stops playback. Frames converted by NewMockCameraFromImages are
// released, so the camera cannot be reopened afterwards.
func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	if c.owned {
		for _, f := range c.frames {
			f.Close()
		}
		c.frames = nil
		c.owned = false
	}
	return nil
}

// ReadFrame returns a copy of the next frame. The caller must Close it.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	if len(c.frames) == 0 {
		return nil, ErrNoFrames
	}
	if c.next >= len(c.frames) {
		if !c.loop {
			return nil, ErrNoFrames
		}
		c.next = 0
	}

	frame := c.frames[c.next].Clone()
	c.next++
	c.reads++
	if c.mirror {
		Mirror(&frame)
	}
	return &frame, nil
}

// Reads reports how many frames have been returned since creation.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}
