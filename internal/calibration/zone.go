// Package calibration decides, frame by frame, whether the whole body is inside
// the camera view before garments are shown.
package calibration

import "github.com/pkg/errors"

// Zone is one of the four body regions that must be in frame.
type Zone int

// Zones in guidance priority order. ZoneNone means every zone is satisfied.
const (
	ZoneShoulders Zone = iota
	ZoneTorso
	ZoneLegs
	ZoneFeet
	ZoneNone
)

// Zones lists the four body zones in priority order.
var Zones = []Zone{ZoneShoulders, ZoneTorso, ZoneLegs, ZoneFeet}

func (z Zone) String() string {
	switch z {
	case ZoneShoulders:
		return "shoulders"
	case ZoneTorso:
		return "torso"
	case ZoneLegs:
		return "legs"
	case ZoneFeet:
		return "feet"
	case ZoneNone:
		return "none"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// Message is the user-facing hint shown while z is the next unmet zone.
func (z Zone) Message() string {
	switch z {
	case ZoneShoulders:
		return "Place your shoulders in the frame"
	case ZoneTorso:
		return "Align your torso"
	case ZoneLegs:
		return "Show your legs"
	case ZoneFeet:
		return "Include your feet"
	default:
		return ""
	}
}

// Range is an inclusive interval of normalized Y coordinates.
type Range struct {
	Min float64 `json:"min" mapstructure:"min"`
	Max float64 `json:"max" mapstructure:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Config holds the vertical range each landmark pair must fall in. The ranges
// overlap so people of any height can satisfy all four at once.
type Config struct {
	Shoulders Range `json:"shoulders" mapstructure:"shoulders"`
	Torso     Range `json:"torso" mapstructure:"torso"`
	Legs      Range `json:"legs" mapstructure:"legs"`
	Feet      Range `json:"feet" mapstructure:"feet"`
}

// DefaultConfig returns the zone ranges tuned for a phone held upright at chest height.
func DefaultConfig() Config {
	return Config{
		Shoulders: Range{Min: 0.1, Max: 0.4},
		Torso:     Range{Min: 0.3, Max: 0.6},
		Legs:      Range{Min: 0.5, Max: 0.8},
		Feet:      Range{Min: 0.7, Max: 1.0},
	}
}

// Range returns the configured range for z.
func (c Config) Range(z Zone) Range {
	switch z {
	case ZoneShoulders:
		return c.Shoulders
	case ZoneTorso:
		return c.Torso
	case ZoneLegs:
		return c.Legs
	case ZoneFeet:
		return c.Feet
	}
	return Range{}
}

// Validate rejects inverted ranges.
func (c Config) Validate() error {
	for _, z := range Zones {
		if r := c.Range(z); r.Min > r.Max {
			return errors.Errorf("calibration: %s range min %.2f exceeds max %.2f", z, r.Min, r.Max)
		}
	}
	return nil
}
