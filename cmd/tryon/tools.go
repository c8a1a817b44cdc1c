package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/garment"
	"github.com/ayusman/tryon/internal/placement"
	"github.com/ayusman/tryon/internal/pose"
	"github.com/ayusman/tryon/internal/render"
)

func boundsCommand() *cli.Command {
	return &cli.Command{
		Name:      "bounds",
		Usage:     "print the visible-pixel bounds of garment images",
		ArgsUsage: "<image>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("at least one image is required")
			}
			for _, path := range c.Args().Slice() {
				img, err := imaging.Open(path)
				if err != nil {
					return errors.Wrapf(err, "open %s", path)
				}
				b := garment.ExtractBounds(img)
				fmt.Fprintf(c.App.Writer, "%s: left=%d top=%d right=%d bottom=%d (%dx%d of %dx%d)\n",
					path, b.Left, b.Top, b.Right, b.Bottom, b.Width(), b.Height(),
					img.Bounds().Dx(), img.Bounds().Dy())
			}
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "composite garments over one frame of landmarks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagLandmarks, Usage: "pose frame `FILE` (JSON)", Required: true},
			&cli.StringFlag{Name: flagOut, Usage: "output image `FILE`", Required: true},
			&cli.StringFlag{Name: flagTop, Usage: "top garment `IMAGE`"},
			&cli.StringFlag{Name: flagBottom, Usage: "bottom garment `IMAGE`"},
			&cli.StringFlag{Name: flagShoes, Usage: "shoes garment `IMAGE`"},
			&cli.StringFlag{Name: flagFullBody, Usage: "full-body garment `IMAGE`"},
			&cli.StringFlag{Name: flagBackground, Usage: "background `IMAGE`; defaults to black"},
			&cli.IntFlag{Name: flagWidth, Usage: "surface width without a background", Value: 720},
			&cli.IntFlag{Name: flagHeight, Usage: "surface height without a background", Value: 1280},
			&cli.StringFlag{Name: flagStrategy, Usage: "placement strategy: slots or single"},
			&cli.BoolFlag{Name: flagMirror, Usage: "mirror garment art"},
			&cli.BoolFlag{Name: flagSkeleton, Usage: "draw the skeleton over the result"},
		},
		Action: renderFrame,
	}
}

func loadFrame(path string) (*pose.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read landmarks")
	}
	var frame pose.Frame
	if err := json5.Unmarshal(data, &frame); err != nil {
		return nil, errors.Wrapf(err, "decode landmarks %s", path)
	}
	return &frame, nil
}

func loadGarment(path string, class garment.Class) (*garment.Image, error) {
	if path == "" {
		return nil, nil
	}
	pixels, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s garment", class)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	img := garment.NewImage(garment.IDForPath(path), name, class, pixels)
	img.Path = path
	return img, nil
}

func renderFrame(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	frame, err := loadFrame(c.String(flagLandmarks))
	if err != nil {
		return err
	}

	var outfit garment.Outfit
	for _, g := range []struct {
		flag  string
		class garment.Class
		dst   **garment.Image
	}{
		{flagTop, garment.Top, &outfit.Top},
		{flagBottom, garment.Bottom, &outfit.Bottom},
		{flagShoes, garment.Shoes, &outfit.Shoes},
		{flagFullBody, garment.FullBody, &outfit.FullBody},
	} {
		img, err := loadGarment(c.String(g.flag), g.class)
		if err != nil {
			return err
		}
		*g.dst = img
	}

	var background image.Image
	if path := c.String(flagBackground); path != "" {
		if background, err = imaging.Open(path); err != nil {
			return errors.Wrap(err, "open background")
		}
	} else {
		background = render.Blank(placement.Surface{Width: c.Int(flagWidth), Height: c.Int(flagHeight)}, color.Black)
	}
	b := background.Bounds()
	surface := placement.Surface{Width: b.Dx(), Height: b.Dy()}

	engine, err := placement.NewEngine(cfg.Placement)
	if err != nil {
		return err
	}
	placements := engine.Place(frame, outfit, surface)
	if len(placements) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "warning: no garment placed; check the landmarks and garment images")
	}
	for _, p := range placements {
		fmt.Fprintf(c.App.Writer, "%s: x=%.1f y=%.1f w=%.1f h=%.1f rot=%.3f\n",
			p.Slot, p.Dest.X.Lo, p.Dest.Y.Lo, p.Dest.X.Length(), p.Dest.Y.Length(), p.Rotation)
	}

	out := render.NewCompositor().Render(background, placements)
	if cfg.Overlay.Skeleton {
		g := render.Guide{Skeleton: true}
		g.Draw(out, calibration.State{ShouldersOK: true, TorsoOK: true, LegsOK: true, FeetOK: true}, frame)
	}

	if err := imaging.Save(out, c.String(flagOut)); err != nil {
		return errors.Wrap(err, "save output")
	}
	return nil
}
