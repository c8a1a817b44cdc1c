package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/placement"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tryon.json5")
	data := `{
		// comments and unquoted keys are allowed
		log_level: "debug",
		server: { addr: "127.0.0.1:9000" },
		camera: { device: 1, mirror: true },
		detector: { idle_timeout: "1m" },
		placement: { strategy: "single", top_width_factor: 2.75 },
		calibration: { feet: { min: 0.65, max: 1.0 } },
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	want.LogLevel = "debug"
	want.Server.Addr = "127.0.0.1:9000"
	want.Camera.Device = 1
	want.Camera.Mirror = true
	want.Detector.IdleTimeout = time.Minute
	want.Placement.Strategy = placement.StrategySingle
	want.Placement.TopWidthFactor = 2.75
	want.Calibration.Feet = calibration.Range{Min: 0.65, Max: 1.0}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax error", `{ log_level: `},
		{"unknown key", `{ colour: "red" }`},
		{"unknown strategy", `{ placement: { strategy: "diagonal" } }`},
		{"inverted zone", `{ calibration: { legs: { min: 0.9, max: 0.2 } } }`},
		{"bad quality", `{ overlay: { jpeg_quality: 0 } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tryon.json5")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected Load() to fail")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json5"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error = %v, want not-exist", err)
		}
	})
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	cfg.Overlay.JPEGQuality = 500

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("got %d errors, want 2: %v", n, err)
	}
}
