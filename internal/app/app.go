// Package app wires camera capture, pose detection, calibration and the garment
// overlay into one pipeline.
package app

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/capture"
	"github.com/ayusman/tryon/internal/config"
	"github.com/ayusman/tryon/internal/detector"
	"github.com/ayusman/tryon/internal/garment"
	"github.com/ayusman/tryon/internal/hook"
	"github.com/ayusman/tryon/internal/placement"
	"github.com/ayusman/tryon/internal/pose"
	"github.com/ayusman/tryon/internal/render"
	"github.com/ayusman/tryon/internal/store"
)

// Phase is the user-facing stage of a session.
type Phase string

const (
	// PhaseCalibrating shows the zone guide until every zone has been satisfied once.
	PhaseCalibrating Phase = "calibrating"
	// PhaseTryingOn draws the selected garments. It lasts until Recalibrate.
	PhaseTryingOn Phase = "trying_on"
)

// Options holds the dependencies of an App. Only Config is required.
type Options struct {
	Config config.Config
	// Store persists garment bounds and settings. May be nil.
	Store *store.Store
	// Camera defaults to the configured capture device.
	Camera capture.Camera
	// Detector defaults to MediaPipe, falling back to a mock that detects nobody.
	Detector detector.Detector
	Logger   *zap.SugaredLogger
}

// sample is one captured image with the pose detected in it.
type sample struct {
	frame *pose.Frame
	image *image.RGBA
}

// App is the try-on pipeline.
type App struct {
	config   config.Config
	store    *store.Store
	logger   *zap.SugaredLogger
	camera   capture.Camera
	detector detector.Detector

	catalog     *garment.Catalog
	wardrobe    *garment.Wardrobe
	calibration *calibration.Machine
	engine      *placement.Engine
	compositor  *render.Compositor
	guide       *render.Guide
	hooks       *hook.Manager
	dispatcher  *hook.Dispatcher

	latest  pose.Latest[sample]
	signal  chan struct{}
	output  atomic.Pointer[Result]
	subs    subscribers
	enabled atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an App. Garments and hooks are not loaded until LoadWardrobe and
// DiscoverHooks are called.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	engine, err := placement.NewEngine(cfg.Placement)
	if err != nil {
		return nil, err
	}

	var index garment.Index
	if opts.Store != nil {
		index = opts.Store.GarmentIndex()
	}
	catalog := garment.NewCatalog(cfg.Wardrobe.Dir, index, logger.Named("wardrobe"))

	camera := opts.Camera
	if camera == nil {
		camera = capture.NewCamera(cfg.Camera)
	}

	det := opts.Detector
	if det == nil {
		if mp, err := detector.NewMediaPipeDetector(cfg.Detector, logger.Named("detector")); err == nil {
			det = mp
			logger.Info("using MediaPipe pose detection")
		} else {
			logger.Warnw("MediaPipe not available, using mock detector", "error", err)
			det = detector.NewMockDetector()
		}
	}

	hooks := hook.NewManager(cfg.Hooks.Dir, logger.Named("hooks"))

	a := &App{
		config:      cfg,
		store:       opts.Store,
		logger:      logger,
		camera:      camera,
		detector:    det,
		catalog:     catalog,
		wardrobe:    garment.NewWardrobe(catalog),
		calibration: calibration.NewMachine(cfg.Calibration),
		engine:      engine,
		compositor:  render.NewCompositor(),
		guide:       &render.Guide{Skeleton: cfg.Overlay.Skeleton},
		hooks:       hooks,
		dispatcher:  hook.NewDispatcher(hooks, hook.NewExecutor(cfg.Hooks.Timeout), logger.Named("hooks")),
		signal:      make(chan struct{}, 1),
		subs:        subscribers{chans: make(map[int]chan Event)},
	}
	a.enabled.Store(true)
	a.calibration.OnComplete(a.onCalibrationComplete)
	a.wardrobe.OnChange(a.onGarmentChanged)

	return a, nil
}

// LoadWardrobe scans the garment directory and restores the persisted selection
// and placement strategy.
func (a *App) LoadWardrobe() error {
	if err := a.catalog.Load(); err != nil {
		return err
	}
	a.restoreSettings()

	for _, class := range garment.Classes {
		a.logger.Debugw("wardrobe loaded", "class", class, "count", len(a.catalog.List(class)))
	}
	return nil
}

func (a *App) restoreSettings() {
	if a.store == nil {
		a.wardrobe.Restore(a.wardrobe.Selection())
		return
	}
	settings := a.store.Settings()

	var sel garment.Selection
	switch err := settings.GetJSON(store.SettingSelection, &sel); {
	case err == nil:
		a.wardrobe.Restore(sel)
	case !errors.Is(err, store.ErrNotFound):
		a.logger.Warnw("failed to restore wardrobe selection", "error", err)
	}

	name, err := settings.Get(store.SettingStrategy)
	switch {
	case err == nil:
		if err := a.engine.SetStrategy(name); err != nil {
			a.logger.Warnw("ignoring saved strategy", "strategy", name, "error", err)
		}
	case !errors.Is(err, store.ErrNotFound):
		a.logger.Warnw("failed to restore placement strategy", "error", err)
	}
}

// DiscoverHooks scans the hooks directory.
func (a *App) DiscoverHooks() error {
	return a.hooks.Discover()
}

// Start opens the camera and runs the capture and processing loops until Stop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return errors.Wrap(err, "open camera")
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.wg.Add(2)
	go a.captureLoop(ctx)
	go a.processLoop(ctx)

	if a.config.Wardrobe.Watch {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.catalog.Watch(ctx, a.onWardrobeReload); err != nil {
				a.logger.Warnw("wardrobe watcher stopped", "error", err)
			}
		}()
	}

	a.logger.Infow("pipeline started", "fps", a.camera.FPS())
	return nil
}

// Stop halts the loops and closes the camera. It is safe to call more than once.
func (a *App) Stop() error {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	a.wg.Wait()

	a.logger.Info("pipeline stopped")
	return errors.Wrap(a.camera.Close(), "close camera")
}

// Close stops the pipeline, waits for running hooks and releases the detector.
func (a *App) Close() error {
	err := a.Stop()
	a.dispatcher.Wait()
	return multierr.Append(err, errors.Wrap(a.detector.Close(), "close detector"))
}

// Running reports whether the loops are active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

// SetEnabled pauses or resumes capture without closing the camera.
func (a *App) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
}

// IsEnabled reports whether capture is active.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Recalibrate returns to the calibration phase.
func (a *App) Recalibrate() {
	a.calibration.Clear()
	a.latest.Clear()
	a.logger.Info("calibration reset")
}

// Phase returns the current session phase.
func (a *App) Phase() Phase {
	if a.calibration.Completed() {
		return PhaseTryingOn
	}
	return PhaseCalibrating
}

// Calibration returns the latest zone state and the zone to guide the user to next.
func (a *App) Calibration() (calibration.State, calibration.Zone) {
	state := a.calibration.State()
	return state, state.NextUnmet()
}

// Strategy returns the active placement strategy name.
func (a *App) Strategy() string {
	return a.engine.Strategy()
}

// SetStrategy switches the placement strategy and persists the choice.
func (a *App) SetStrategy(name string) error {
	if err := a.engine.SetStrategy(name); err != nil {
		return err
	}
	a.logger.Infow("placement strategy changed", "strategy", a.engine.Strategy())

	if a.store == nil {
		return nil
	}
	return a.store.Settings().Set(store.SettingStrategy, a.engine.Strategy())
}

// Wardrobe returns the garment selection.
func (a *App) Wardrobe() *garment.Wardrobe {
	return a.wardrobe
}

// Catalog returns the loaded garments.
func (a *App) Catalog() *garment.Catalog {
	return a.catalog
}

// Hooks returns the hook manager.
func (a *App) Hooks() *hook.Manager {
	return a.hooks
}

// Camera returns the capture device.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the pose detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

func (a *App) onCalibrationComplete() {
	a.logger.Info("calibration complete, showing garments")
	a.dispatcher.Fire(context.Background(), hook.EventCalibrationComplete, map[string]any{
		"timestamp": time.Now().UnixMilli(),
	})
}

// garmentChange is the payload of the garment.changed hook event.
type garmentChange struct {
	Class   garment.Class `json:"class"`
	ID      string        `json:"id,omitempty"`
	Name    string        `json:"name"`
	Visible bool          `json:"visible"`
}

func (a *App) onGarmentChanged(class garment.Class, img *garment.Image) {
	sel := a.wardrobe.Selection()
	change := garmentChange{Class: class, Visible: !sel.Hidden[class]}
	if img != nil && change.Visible {
		change.ID = img.ID
		change.Name = img.Name
	}
	a.logger.Infow("garment changed", "class", class, "name", change.Name, "visible", change.Visible)

	if a.store != nil {
		if err := a.store.Settings().SetJSON(store.SettingSelection, sel); err != nil {
			a.logger.Warnw("failed to save wardrobe selection", "error", err)
		}
	}
	a.dispatcher.Fire(context.Background(), hook.EventGarmentChanged, change)
}

func (a *App) onWardrobeReload() {
	// Clamp indices for classes that lost garments.
	a.wardrobe.Restore(a.wardrobe.Selection())
	a.logger.Info("wardrobe reloaded")
}
