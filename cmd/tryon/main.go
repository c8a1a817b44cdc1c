// Package main is the tryon command: the live try-on service plus offline tools
// for tuning garment placement against art assets.
package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayusman/tryon/internal/config"
)

const (
	// Global flags.
	flagConfig   = "config"
	flagLogLevel = "log-level"

	// Shared flags.
	flagStrategy = "strategy"
	flagMirror   = "mirror"
	flagSkeleton = "skeleton"

	// Serve flags.
	flagAddr     = "addr"
	flagDataDir  = "data-dir"
	flagWardrobe = "wardrobe"
	flagHooks    = "hooks"
	flagStatic   = "static"
	flagCamera   = "camera"
	flagFlip     = "flip"
	flagTray     = "tray"
	flagPhoto    = "photo"

	// Render flags.
	flagLandmarks  = "landmarks"
	flagTop        = "top"
	flagBottom     = "bottom"
	flagShoes      = "shoes"
	flagFullBody   = "fullbody"
	flagBackground = "background"
	flagWidth      = "width"
	flagHeight     = "height"
	flagOut        = "out"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "tryon",
		Usage:    "overlay garments on a live camera feed, anchored to the body pose",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE` (JSON5)",
				EnvVars: []string{"TRYON_CONFIG"},
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "log level: debug, info, warn or error",
				EnvVars: []string{"TRYON_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			boundsCommand(),
			renderCommand(),
		},
	}
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return cfg, err
	}

	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.IsSet(flagStrategy) {
		cfg.Placement.Strategy = c.String(flagStrategy)
	}
	if c.IsSet(flagMirror) {
		cfg.Placement.Mirror = c.Bool(flagMirror)
	}
	if c.IsSet(flagSkeleton) {
		cfg.Overlay.Skeleton = c.Bool(flagSkeleton)
	}
	if c.IsSet(flagAddr) {
		cfg.Server.Addr = c.String(flagAddr)
	}
	if c.IsSet(flagStatic) {
		cfg.Server.StaticDir = c.String(flagStatic)
	}
	if c.IsSet(flagDataDir) {
		cfg.DataDir = c.String(flagDataDir)
	}
	if c.IsSet(flagWardrobe) {
		cfg.Wardrobe.Dir = c.String(flagWardrobe)
	}
	if c.IsSet(flagHooks) {
		cfg.Hooks.Dir = c.String(flagHooks)
	}
	if c.IsSet(flagCamera) {
		cfg.Camera.Device = c.Int(flagCamera)
	}
	if c.IsSet(flagFlip) {
		cfg.Camera.Mirror = c.Bool(flagFlip)
	}

	return cfg, cfg.Validate()
}
