// Package garment holds garment images, their opaque-pixel bounds, and the wardrobe
// selection the overlay engine reads every frame.
package garment

import (
	"strings"

	"github.com/pkg/errors"
)

// Class is the semantic slot a garment image belongs to.
type Class int

const (
	// Top covers the torso and is anchored at the shoulders.
	Top Class = iota
	// Bottom covers the legs and is anchored at the hips.
	Bottom
	// Shoes holds a left and a right shoe side by side.
	Shoes
	// FullBody is a single image anchored between shoulders and hips.
	FullBody

	numClasses
)

// Classes lists every garment class in draw order.
var Classes = []Class{FullBody, Top, Bottom, Shoes}

func (c Class) String() string {
	switch c {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Shoes:
		return "shoes"
	case FullBody:
		return "fullbody"
	default:
		return "unknown"
	}
}

// ParseClass accepts the lower-case class name or one of the asset folder names.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(s) {
	case "top", "tops":
		return Top, nil
	case "bottom", "bottoms":
		return Bottom, nil
	case "shoes", "shoe":
		return Shoes, nil
	case "fullbody", "outfit", "outfits":
		return FullBody, nil
	}
	return 0, errors.Errorf("unknown garment class %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(b []byte) error {
	parsed, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
