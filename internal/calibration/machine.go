package calibration

import (
	"sync"

	"github.com/ayusman/tryon/internal/pose"
)

// State is the per-zone result of the latest update.
type State struct {
	ShouldersOK bool `json:"shoulders_ok"`
	TorsoOK     bool `json:"torso_ok"`
	LegsOK      bool `json:"legs_ok"`
	FeetOK      bool `json:"feet_ok"`
}

// Complete reports whether every zone is satisfied.
func (s State) Complete() bool {
	return s.ShouldersOK && s.TorsoOK && s.LegsOK && s.FeetOK
}

// Satisfied reports whether z is satisfied. ZoneNone is satisfied only when complete.
func (s State) Satisfied(z Zone) bool {
	switch z {
	case ZoneShoulders:
		return s.ShouldersOK
	case ZoneTorso:
		return s.TorsoOK
	case ZoneLegs:
		return s.LegsOK
	case ZoneFeet:
		return s.FeetOK
	}
	return s.Complete()
}

// NextUnmet returns the first unsatisfied zone in priority order, or ZoneNone.
func (s State) NextUnmet() Zone {
	for _, z := range Zones {
		if !s.Satisfied(z) {
			return z
		}
	}
	return ZoneNone
}

// Machine is the calibration state machine. Every Update recomputes the zones
// from the given frame alone; only the completion signal is remembered.
type Machine struct {
	config Config

	mu         sync.Mutex
	state      State
	completed  bool
	last       *pose.Frame
	onComplete func()
}

// NewMachine creates a machine with all zones unsatisfied.
func NewMachine(config Config) *Machine {
	return &Machine{config: config}
}

// OnComplete registers fn to run once, the first time every zone is satisfied.
func (m *Machine) OnComplete(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onComplete = fn
}

// Update classifies the zones for frame. Frames without a person or without the
// full skeleton reset every zone to unsatisfied.
func (m *Machine) Update(frame *pose.Frame) State {
	state := m.evaluate(frame)

	m.mu.Lock()
	m.state = state
	m.last = frame
	var fire func()
	if state.Complete() && !m.completed {
		m.completed = true
		fire = m.onComplete
	}
	m.mu.Unlock()

	if fire != nil {
		fire()
	}
	return state
}

func (m *Machine) evaluate(frame *pose.Frame) State {
	s, ok := frame.Skeleton()
	if !ok {
		return State{}
	}

	both := func(r Range, a, b pose.Landmark) bool {
		return r.Contains(a.Y) && r.Contains(b.Y)
	}

	return State{
		ShouldersOK: both(m.config.Shoulders, s.LeftShoulder, s.RightShoulder),
		TorsoOK:     both(m.config.Torso, s.LeftHip, s.RightHip),
		LegsOK:      both(m.config.Legs, s.LeftKnee, s.RightKnee),
		FeetOK:      both(m.config.Feet, s.LeftAnkle, s.RightAnkle),
	}
}

// State returns the result of the latest update.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// NextUnmet returns the zone the user should fix next.
func (m *Machine) NextUnmet() Zone {
	return m.State().NextUnmet()
}

// Completed reports whether the completion signal has fired since the last Clear.
func (m *Machine) Completed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed
}

// Last returns the frame passed to the latest Update.
func (m *Machine) Last() *pose.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Clear resets the zones and re-arms the completion signal.
func (m *Machine) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	m.completed = false
	m.last = nil
}
