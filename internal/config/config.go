// Package config loads the application configuration from a JSON5 file layered
// over built-in defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"go.uber.org/multierr"

	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/capture"
	"github.com/ayusman/tryon/internal/detector"
	"github.com/ayusman/tryon/internal/placement"
)

// Config is the complete application configuration.
type Config struct {
	LogLevel string `json:"log_level" mapstructure:"log_level"`
	DataDir  string `json:"data_dir" mapstructure:"data_dir"`

	Server   ServerConfig   `json:"server" mapstructure:"server"`
	Wardrobe WardrobeConfig `json:"wardrobe" mapstructure:"wardrobe"`
	Hooks    HooksConfig    `json:"hooks" mapstructure:"hooks"`
	Overlay  OverlayConfig  `json:"overlay" mapstructure:"overlay"`

	Camera      capture.Config     `json:"camera" mapstructure:"camera"`
	Detector    detector.Config    `json:"detector" mapstructure:"detector"`
	Placement   placement.Config   `json:"placement" mapstructure:"placement"`
	Calibration calibration.Config `json:"calibration" mapstructure:"calibration"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string `json:"addr" mapstructure:"addr"`
	StaticDir string `json:"static_dir" mapstructure:"static_dir"`
}

// WardrobeConfig locates the garment assets.
type WardrobeConfig struct {
	Dir   string `json:"dir" mapstructure:"dir"`
	Watch bool   `json:"watch" mapstructure:"watch"`
}

// HooksConfig locates event hooks.
type HooksConfig struct {
	Dir     string        `json:"dir" mapstructure:"dir"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// OverlayConfig tunes the preview stream.
type OverlayConfig struct {
	Skeleton    bool `json:"skeleton" mapstructure:"skeleton"`
	JPEGQuality int  `json:"jpeg_quality" mapstructure:"jpeg_quality"`
}

// DatabasePath returns the sqlite file inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "tryon.db")
}

// Default returns the configuration used when no file is given.
func Default() Config {
	dataDir := ".tryon"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".tryon")
	}

	return Config{
		LogLevel: "info",
		DataDir:  dataDir,
		Server: ServerConfig{
			Addr: ":8080",
		},
		Wardrobe: WardrobeConfig{
			Dir:   filepath.Join(dataDir, "wardrobe"),
			Watch: true,
		},
		Hooks: HooksConfig{
			Dir:     filepath.Join(dataDir, "hooks"),
			Timeout: 5 * time.Second,
		},
		Overlay: OverlayConfig{
			JPEGQuality: 80,
		},
		Camera:      capture.DefaultConfig(),
		Detector:    detector.DefaultConfig(),
		Placement:   placement.DefaultConfig(),
		Calibration: calibration.DefaultConfig(),
	}
}

// Load reads path and overlays it onto Default. An empty path returns the
// defaults. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode parses JSON5 data and overlays the keys it contains onto cfg.
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := json5.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "parse json5")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var err error
	if c.Server.Addr == "" {
		err = multierr.Append(err, errors.New("server.addr is required"))
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		err = multierr.Append(err, errors.New("camera size must not be negative"))
	}
	if q := c.Overlay.JPEGQuality; q < 1 || q > 100 {
		err = multierr.Append(err, errors.Errorf("overlay.jpeg_quality must be in [1,100], got %d", q))
	}
	for name, v := range map[string]float64{
		"detector.min_detection_confidence": c.Detector.MinDetectionConfidence,
		"detector.min_presence_confidence":  c.Detector.MinPresenceConfidence,
		"detector.min_tracking_confidence":  c.Detector.MinTrackingConfidence,
	} {
		if v < 0 || v > 1 {
			err = multierr.Append(err, errors.Errorf("%s must be in [0,1], got %v", name, v))
		}
	}
	err = multierr.Append(err, c.Placement.Validate())
	err = multierr.Append(err, c.Calibration.Validate())
	return err
}
