package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wren/pkg/config"
	"wren/pkg/engine"
	"wren/pkg/layout"
	"wren/pkg/render"
)

// applyOverrides copies viewport and stylesheet flags onto the
// configuration and validates the result.
func applyOverrides(cmd *cli.Command, cfg *config.Config) error {
	if cmd.IsSet("width") {
		cfg.Viewport.Width = int(cmd.Int("width"))
	}
	if cmd.IsSet("height") {
		cfg.Viewport.Height = int(cmd.Int("height"))
	}
	if cmd.IsSet("scale") {
		cfg.Viewport.Scale = float32(cmd.Float("scale"))
	}
	cfg.Cascade.UserStylesheets = append(cfg.Cascade.UserStylesheets, cmd.StringSlice("user-css")...)
	return config.Validate(cfg)
}

func openPage(ctx context.Context, cmd *cli.Command) (*engine.Page, error) {
	e := envFromContext(ctx)
	source := cmd.Args().Get(0)
	if len(source) == 0 {
		return nil, errors.New("no SOURCE has been specified")
	}
	if err := applyOverrides(cmd, e.cfg); err != nil {
		return nil, err
	}
	eng, err := engine.New(e.log, e.cfg)
	if err != nil {
		return nil, err
	}
	return eng.Open(ctx, source)
}

// layoutPage lays the page out at the configured viewport. Documents that
// need layout the engine does not have yet are reported as errors.
func layoutPage(p *engine.Page) (root layout.Box, err error) {
	defer func() {
		if r := recover(); r != nil {
			u, ok := r.(*layout.UnimplementedError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("unable to lay out document: %w", u)
		}
	}()
	return p.LayoutViewport(), nil
}

func runLayout(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		e.log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	p, err := openPage(ctx, cmd)
	if err != nil {
		return err
	}
	root, err := layoutPage(p)
	if err != nil {
		return err
	}
	return layout.DumpTo(os.Stdout, root)
}

// renderPage opens, lays out and paints the document named by the first
// argument.
func renderPage(ctx context.Context, cmd *cli.Command) (*render.Renderer, layout.Box, error) {
	p, err := openPage(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	root, err := layoutPage(p)
	if err != nil {
		return nil, nil, err
	}
	return p.PaintViewport(root), root, nil
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	dest := cmd.Args().Get(1)
	if len(dest) == 0 {
		return errors.New("no DESTINATION has been specified")
	}
	if !strings.EqualFold(filepath.Ext(dest), ".png") {
		e.log.Warn("Destination does not end in .png, writing PNG anyway", zap.String("file", dest))
	}
	r, root, err := renderPage(ctx, cmd)
	if err != nil {
		return err
	}
	if err := r.SavePNG(dest); err != nil {
		return fmt.Errorf("unable to save image: %w", err)
	}
	vp := e.cfg.Viewport
	e.log.Info("Rendered document",
		zap.String("source", cmd.Args().Get(0)),
		zap.String("file", dest),
		zap.Int("boxes", layout.CountBoxes(root)),
		zap.String("viewport", fmt.Sprintf("%dx%d@%g", vp.Width, vp.Height, vp.Scale)))
	return nil
}

func runCompare(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	reference := cmd.Args().Get(1)
	if len(reference) == 0 {
		return errors.New("no REFERENCE has been specified")
	}
	expected, err := render.LoadPNG(reference)
	if err != nil {
		return err
	}
	r, _, err := renderPage(ctx, cmd)
	if err != nil {
		return err
	}

	diffFile := cmd.String("diff")
	res, err := render.Compare(r.Image(), expected, render.CompareOptions{
		Tolerance:   int(cmd.Int("tolerance")),
		FuzzyRadius: int(cmd.Int("fuzz")),
		Diff:        len(diffFile) > 0,
	})
	if err != nil {
		return err
	}
	if res.Match {
		e.log.Info("Rendering matches reference", zap.String("reference", reference), zap.Int("max difference", res.MaxDifference))
		return nil
	}
	if res.Diff != nil {
		f, err := os.Create(diffFile)
		if err != nil {
			return fmt.Errorf("unable to create diff image: %w", err)
		}
		defer f.Close()
		if err := png.Encode(f, res.Diff); err != nil {
			return fmt.Errorf("unable to write diff image: %w", err)
		}
	}
	return fmt.Errorf("rendering differs from %s: %d of %d pixels, max channel difference %d",
		reference, res.DifferentPixels, res.TotalPixels, res.MaxDifference)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		e.log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(e.cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	e.log.Info("Outputting configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
