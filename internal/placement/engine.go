package placement

import (
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/ayusman/tryon/internal/garment"
	"github.com/ayusman/tryon/internal/pose"
)

// ErrUnknownStrategy is returned for a strategy name other than "slots" or "single".
var ErrUnknownStrategy = errors.New("unknown placement strategy")

func newStrategy(c Config) (Strategy, error) {
	switch c.Strategy {
	case StrategySlots, "":
		return NewSlotBasedStrategy(c), nil
	case StrategySingle:
		return NewSingleImageStrategy(c), nil
	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", c.Strategy)
	}
}

type strategyBox struct {
	Strategy
}

// Engine computes placements with a swappable strategy. It is safe for
// concurrent use; a strategy change applies from the next Place call.
type Engine struct {
	config   Config
	strategy atomic.Pointer[strategyBox]
}

// NewEngine creates an engine using cfg.Strategy.
func NewEngine(cfg Config) (*Engine, error) {
	s, err := newStrategy(cfg)
	if err != nil {
		return nil, err
	}
	e := &Engine{config: cfg}
	e.strategy.Store(&strategyBox{s})
	return e, nil
}

// Config returns the constants the engine was created with.
func (e *Engine) Config() Config {
	return e.config
}

// Strategy returns the active strategy name.
func (e *Engine) Strategy() string {
	return e.strategy.Load().Name()
}

// SetStrategy switches to the named strategy.
func (e *Engine) SetStrategy(name string) error {
	cfg := e.config
	cfg.Strategy = name
	s, err := newStrategy(cfg)
	if err != nil {
		return err
	}
	e.strategy.Store(&strategyBox{s})
	return nil
}

// Place returns the placements for frame on surface in draw order. It returns
// nil when the frame lacks the required landmarks or the surface is empty.
func (e *Engine) Place(frame *pose.Frame, outfit garment.Outfit, surface Surface) []Placement {
	if !surface.Valid() {
		return nil
	}
	sk, ok := frame.Skeleton()
	if !ok {
		return nil
	}

	screen := sk.Screen(float64(surface.Width), float64(surface.Height))
	out := e.strategy.Load().Place(screen, outfit)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}
