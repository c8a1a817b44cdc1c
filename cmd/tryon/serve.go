package main

import (
	"context"
	"image"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ayusman/tryon/internal/app"
	"github.com/ayusman/tryon/internal/capture"
	"github.com/ayusman/tryon/internal/logging"
	"github.com/ayusman/tryon/internal/placement"
	"github.com/ayusman/tryon/internal/server"
	"github.com/ayusman/tryon/internal/store"
	"github.com/ayusman/tryon/internal/tray"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the camera pipeline and the preview server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagAddr, Usage: "listen `ADDRESS`", EnvVars: []string{"TRYON_ADDR"}},
			&cli.StringFlag{Name: flagDataDir, Usage: "data `DIR` holding the database", EnvVars: []string{"TRYON_DATA_DIR"}},
			&cli.StringFlag{Name: flagWardrobe, Usage: "garment asset `DIR`", EnvVars: []string{"TRYON_WARDROBE"}},
			&cli.StringFlag{Name: flagHooks, Usage: "event hook `DIR`", EnvVars: []string{"TRYON_HOOKS"}},
			&cli.StringFlag{Name: flagStatic, Usage: "static web `DIR`", EnvVars: []string{"TRYON_STATIC"}},
			&cli.IntFlag{Name: flagCamera, Usage: "camera device index", EnvVars: []string{"TRYON_CAMERA"}},
			&cli.BoolFlag{Name: flagFlip, Usage: "mirror the camera image", EnvVars: []string{"TRYON_FLIP"}},
			&cli.StringFlag{Name: flagStrategy, Usage: "placement strategy: slots or single", EnvVars: []string{"TRYON_STRATEGY"}},
			&cli.BoolFlag{Name: flagMirror, Usage: "mirror garment art", EnvVars: []string{"TRYON_MIRROR"}},
			&cli.BoolFlag{Name: flagSkeleton, Usage: "draw the tracked skeleton", EnvVars: []string{"TRYON_SKELETON"}},
			&cli.BoolFlag{Name: flagTray, Usage: "show a system tray menu", EnvVars: []string{"TRYON_TRAY"}},
			&cli.StringSliceFlag{Name: flagPhoto, Usage: "replay still `IMAGE`s instead of opening the camera"},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := logging.New("tryon", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	opts := app.Options{Config: cfg, Store: st, Logger: logger}
	if photos := c.StringSlice(flagPhoto); len(photos) > 0 {
		cam, err := photoCamera(photos, cfg.Camera.Mirror)
		if err != nil {
			return err
		}
		logger.Infow("replaying still photos", "count", len(photos))
		opts.Camera = cam
	}

	a, err := app.New(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warnw("shutdown error", "error", err)
		}
	}()

	if err := a.LoadWardrobe(); err != nil {
		return err
	}
	if err := a.DiscoverHooks(); err != nil {
		logger.Warnw("failed to discover hooks", "error", err)
	}
	if err := a.Start(); err != nil {
		return err
	}

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		logger.Infof("Serving static files from %s", staticDir)
	}
	srv := server.New(server.Config{StaticDir: staticDir, App: a, Logger: logger.Named("http")})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.Bool(flagTray) {
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, cfg.Server.Addr)
		stop()
	}()

	t := newTray(ctx, a, stop, previewURL(cfg.Server.Addr), logger)
	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	// The tray owns the main thread until it quits.
	t.Run()

	stop()
	return <-errCh
}

// photoCamera loads still images into a looping mock camera.
func photoCamera(paths []string, mirror bool) (*capture.MockCamera, error) {
	images := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		img, err := imaging.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open photo %s", path)
		}
		images = append(images, img)
	}
	cam, err := capture.NewMockCameraFromImages(images...)
	if err != nil {
		return nil, err
	}
	cam.SetMirror(mirror)
	return cam, nil
}

// newTray wires the tray menu to the pipeline.
func newTray(ctx context.Context, a *app.App, quit func(), url string, logger *zap.SugaredLogger) *tray.Tray {
	t := tray.New()
	t.SetStrategy(a.Strategy())
	t.OnToggle(a.SetEnabled)
	t.OnRecalibrate(a.Recalibrate)
	t.OnStrategy(func() string {
		next := placement.StrategySingle
		if a.Strategy() == placement.StrategySingle {
			next = placement.StrategySlots
		}
		if err := a.SetStrategy(next); err != nil {
			logger.Warnw("failed to switch strategy", "error", err)
		}
		return a.Strategy()
	})
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			logger.Warnw("failed to open browser", "url", url, "error", err)
		}
	})
	t.OnQuit(quit)

	events, unsubscribe := a.Subscribe()
	go func() {
		defer unsubscribe()
		var phase app.Phase
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Phase != phase {
					phase = ev.Phase
					t.SetStatus(phaseTitle(phase))
				}
			}
		}
	}()
	return t
}

func phaseTitle(p app.Phase) string {
	if p == app.PhaseTryingOn {
		return "Trying on"
	}
	return "Calibrating"
}

func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and <dataDir>/web.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
