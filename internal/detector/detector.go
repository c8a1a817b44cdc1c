// Package detector runs the body pose model on camera frames.
package detector

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/tryon/internal/pose"
)

// Detector defines the interface for pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the landmarks of the most
	// prominent person. The returned frame is empty when nobody is visible.
	Detect(frame *gocv.Mat) (*pose.Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinDetectionConfidence is the minimum person detection score (0.0-1.0).
	MinDetectionConfidence float64 `json:"min_detection_confidence" mapstructure:"min_detection_confidence"`

	// MinPresenceConfidence is the minimum pose presence score (0.0-1.0).
	MinPresenceConfidence float64 `json:"min_presence_confidence" mapstructure:"min_presence_confidence"`

	// MinTrackingConfidence is the minimum tracking score (0.0-1.0).
	MinTrackingConfidence float64 `json:"min_tracking_confidence" mapstructure:"min_tracking_confidence"`

	// Script overrides the location of pose_service.py.
	Script string `json:"script" mapstructure:"script"`

	// Python overrides the interpreter used to run the script.
	Python string `json:"python" mapstructure:"python"`

	// IdleTimeout stops the model process after this long without frames.
	IdleTimeout time.Duration `json:"idle_timeout" mapstructure:"idle_timeout"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinDetectionConfidence: 0.5,
		MinPresenceConfidence:  0.5,
		MinTrackingConfidence:  0.5,
		IdleTimeout:            30 * time.Second,
	}
}
