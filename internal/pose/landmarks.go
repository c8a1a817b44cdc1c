// Package pose provides the body landmark types shared by calibration and garment placement.
package pose

import "github.com/golang/geo/r2"

// Body landmark indices following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// MinLandmarks is the smallest landmark count that still contains both ankles.
const MinLandmarks = RightAnkle + 1

// Landmark is a single normalized keypoint. X and Y are in [0,1] image space but
// may fall slightly outside when the model extrapolates off-frame.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
	Presence   float64 `json:"presence,omitempty"`
}

// Screen projects the landmark onto a surface of the given pixel size.
func (l Landmark) Screen(width, height float64) r2.Point {
	return r2.Point{X: l.X * width, Y: l.Y * height}
}

// Frame is the landmark set emitted by the pose model for one camera frame.
// A frame with no landmarks means no person was detected.
type Frame struct {
	Landmarks []Landmark `json:"landmarks"`
	Timestamp int64      `json:"timestamp"`
}

// Empty reports whether the frame carries no person.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Landmarks) == 0
}

// Sufficient reports whether every landmark used by the overlay engine is present.
func (f *Frame) Sufficient() bool {
	return f != nil && len(f.Landmarks) >= MinLandmarks
}

// Skeleton is the reduced eight-point subset of a frame that the overlay engine works on.
type Skeleton struct {
	LeftShoulder  Landmark
	RightShoulder Landmark
	LeftHip       Landmark
	RightHip      Landmark
	LeftKnee      Landmark
	RightKnee     Landmark
	LeftAnkle     Landmark
	RightAnkle    Landmark
}

// Skeleton extracts the reduced subset. ok is false for empty or truncated frames.
func (f *Frame) Skeleton() (s Skeleton, ok bool) {
	if !f.Sufficient() {
		return Skeleton{}, false
	}
	lm := f.Landmarks
	return Skeleton{
		LeftShoulder:  lm[LeftShoulder],
		RightShoulder: lm[RightShoulder],
		LeftHip:       lm[LeftHip],
		RightHip:      lm[RightHip],
		LeftKnee:      lm[LeftKnee],
		RightKnee:     lm[RightKnee],
		LeftAnkle:     lm[LeftAnkle],
		RightAnkle:    lm[RightAnkle],
	}, true
}

// ScreenSkeleton holds the skeleton projected into surface pixels.
type ScreenSkeleton struct {
	LeftShoulder  r2.Point
	RightShoulder r2.Point
	LeftHip       r2.Point
	RightHip      r2.Point
	LeftKnee      r2.Point
	RightKnee     r2.Point
	LeftAnkle     r2.Point
	RightAnkle    r2.Point
}

// Screen projects every skeleton point onto a width x height surface.
func (s Skeleton) Screen(width, height float64) ScreenSkeleton {
	return ScreenSkeleton{
		LeftShoulder:  s.LeftShoulder.Screen(width, height),
		RightShoulder: s.RightShoulder.Screen(width, height),
		LeftHip:       s.LeftHip.Screen(width, height),
		RightHip:      s.RightHip.Screen(width, height),
		LeftKnee:      s.LeftKnee.Screen(width, height),
		RightKnee:     s.RightKnee.Screen(width, height),
		LeftAnkle:     s.LeftAnkle.Screen(width, height),
		RightAnkle:    s.RightAnkle.Screen(width, height),
	}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r2.Point) r2.Point {
	return a.Add(b).Mul(0.5)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r2.Point) float64 {
	return a.Sub(b).Norm()
}
