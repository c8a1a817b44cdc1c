package pose

// NewFrame builds a full 33-point frame around the given skeleton. Landmarks the
// skeleton does not name are placed on the body midline so the frame looks plausible.
func NewFrame(s Skeleton) *Frame {
	lm := make([]Landmark, NumLandmarks)
	midX := (s.LeftShoulder.X + s.RightShoulder.X) / 2
	head := s.LeftShoulder.Y - 0.1
	for i := range lm {
		lm[i] = Landmark{X: midX, Y: head, Visibility: 0.9, Presence: 0.9}
	}

	lm[LeftShoulder] = s.LeftShoulder
	lm[RightShoulder] = s.RightShoulder
	lm[LeftHip] = s.LeftHip
	lm[RightHip] = s.RightHip
	lm[LeftKnee] = s.LeftKnee
	lm[RightKnee] = s.RightKnee
	lm[LeftAnkle] = s.LeftAnkle
	lm[RightAnkle] = s.RightAnkle

	// Heels and toes follow the ankles.
	lm[LeftHeel] = Landmark{X: s.LeftAnkle.X, Y: s.LeftAnkle.Y + 0.02}
	lm[RightHeel] = Landmark{X: s.RightAnkle.X, Y: s.RightAnkle.Y + 0.02}
	lm[LeftFootIndex] = Landmark{X: s.LeftAnkle.X, Y: s.LeftAnkle.Y + 0.04}
	lm[RightFootIndex] = Landmark{X: s.RightAnkle.X, Y: s.RightAnkle.Y + 0.04}

	return &Frame{Landmarks: lm}
}

// StandingSkeleton returns a person standing centered and fully inside the frame,
// facing the camera.
func StandingSkeleton() Skeleton {
	return Skeleton{
		LeftShoulder:  Landmark{X: 0.6, Y: 0.25},
		RightShoulder: Landmark{X: 0.4, Y: 0.25},
		LeftHip:       Landmark{X: 0.56, Y: 0.45},
		RightHip:      Landmark{X: 0.44, Y: 0.45},
		LeftKnee:      Landmark{X: 0.56, Y: 0.65},
		RightKnee:     Landmark{X: 0.44, Y: 0.65},
		LeftAnkle:     Landmark{X: 0.56, Y: 0.85},
		RightAnkle:    Landmark{X: 0.44, Y: 0.85},
	}
}

// StandingFrame is NewFrame(StandingSkeleton()).
func StandingFrame() *Frame {
	return NewFrame(StandingSkeleton())
}

// CloseUpFrame returns a person standing too close to the camera: shoulders are
// in place but the hips sit below the torso zone.
func CloseUpFrame() *Frame {
	s := StandingSkeleton()
	s.LeftHip.Y, s.RightHip.Y = 0.65, 0.65
	s.LeftKnee.Y, s.RightKnee.Y = 0.9, 0.9
	s.LeftAnkle.Y, s.RightAnkle.Y = 1.15, 1.15
	return NewFrame(s)
}
