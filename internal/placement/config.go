package placement

import "github.com/pkg/errors"

// Strategy names accepted by Config.Strategy.
const (
	StrategySlots  = "slots"
	StrategySingle = "single"
)

// Config holds the placement constants. The defaults are tuned against the
// bundled garment art; change them only together with new reference assets.
type Config struct {
	Strategy string `json:"strategy" mapstructure:"strategy"`
	// Mirror flips every garment horizontally, for front-camera previews.
	Mirror bool `json:"mirror" mapstructure:"mirror"`

	TopWidthFactor    float64 `json:"top_width_factor" mapstructure:"top_width_factor"`
	TopNecklineOffset float64 `json:"top_neckline_offset" mapstructure:"top_neckline_offset"`

	BottomWidthFactor float64 `json:"bottom_width_factor" mapstructure:"bottom_width_factor"`
	BottomLegFactor   float64 `json:"bottom_leg_factor" mapstructure:"bottom_leg_factor"`
	BottomWaistOffset float64 `json:"bottom_waist_offset" mapstructure:"bottom_waist_offset"`

	ShoeWidthFactor float64 `json:"shoe_width_factor" mapstructure:"shoe_width_factor"`
	ShoeAboveAnkle  float64 `json:"shoe_above_ankle" mapstructure:"shoe_above_ankle"`
	ShoeBelowAnkle  float64 `json:"shoe_below_ankle" mapstructure:"shoe_below_ankle"`

	SingleReferenceShoulderWidth float64 `json:"single_reference_shoulder_width" mapstructure:"single_reference_shoulder_width"`
	SingleShoulderWeight         float64 `json:"single_shoulder_weight" mapstructure:"single_shoulder_weight"`
	SingleHipWeight              float64 `json:"single_hip_weight" mapstructure:"single_hip_weight"`
}

// DefaultConfig returns the slot-based strategy with the stock constants.
func DefaultConfig() Config {
	return Config{
		Strategy: StrategySlots,

		TopWidthFactor:    2.5,
		TopNecklineOffset: 0.15,

		BottomWidthFactor: 3.0,
		BottomLegFactor:   1.1,
		BottomWaistOffset: 0.1,

		ShoeWidthFactor: 3.0,
		ShoeAboveAnkle:  0.2,
		ShoeBelowAnkle:  0.8,

		SingleReferenceShoulderWidth: 250,
		SingleShoulderWeight:         0.35,
		SingleHipWeight:              0.65,
	}
}

// Validate checks that factors are positive and the strategy is known.
func (c Config) Validate() error {
	if _, err := newStrategy(c); err != nil {
		return err
	}

	positive := map[string]float64{
		"top_width_factor":                c.TopWidthFactor,
		"bottom_width_factor":             c.BottomWidthFactor,
		"bottom_leg_factor":               c.BottomLegFactor,
		"shoe_width_factor":               c.ShoeWidthFactor,
		"single_reference_shoulder_width": c.SingleReferenceShoulderWidth,
	}
	for name, v := range positive {
		if v <= 0 {
			return errors.Errorf("placement: %s must be positive, got %v", name, v)
		}
	}
	if c.ShoeAboveAnkle+c.ShoeBelowAnkle <= 0 {
		return errors.New("placement: shoe_above_ankle + shoe_below_ankle must be positive")
	}
	return nil
}
