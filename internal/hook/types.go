// Package hook runs external executables when try-on events occur.
package hook

import (
	"encoding/json"
	"slices"
)

// Events delivered to hooks.
const (
	// EventCalibrationComplete fires once when every calibration zone is satisfied.
	EventCalibrationComplete = "calibration.complete"
	// EventGarmentChanged fires when the selected garment of a class changes.
	EventGarmentChanged = "garment.changed"
)

// Manifest describes a hook's metadata and the events it subscribes to.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Request is written to a hook's stdin as JSON.
type Request struct {
	Event     string          `json:"event"`
	Timestamp int64           `json:"timestamp"`
	Config    json.RawMessage `json:"config,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Response is read from a hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the hook subscribes to event. "*" matches every event.
func (h *Hook) Handles(event string) bool {
	return slices.Contains(h.Manifest.Events, event) || slices.Contains(h.Manifest.Events, "*")
}
