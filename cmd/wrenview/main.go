package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wren/pkg/config"
	"wren/pkg/engine"
	"wren/pkg/layout"
	"wren/pkg/values"
)

// viewer owns the loaded page. The raster is regenerated on every resize
// from the page's clean box tree.
type viewer struct {
	log    *zap.Logger
	engine *engine.Engine
	status *widget.Label

	mu   sync.Mutex
	page *engine.Page
}

// draw lays the page out for a canvas of w by h device pixels.
func (v *viewer) draw(w, h int, scale float32) (img image.Image) {
	v.mu.Lock()
	page := v.page
	v.mu.Unlock()

	blank := image.NewRGBA(image.Rect(0, 0, w, h))
	if page == nil || w == 0 || h == 0 {
		return blank
	}
	defer func() {
		if r := recover(); r != nil {
			u, ok := r.(*layout.UnimplementedError)
			if !ok {
				panic(r)
			}
			v.log.Warn("Layout stopped", zap.Error(u))
			fyne.Do(func() { v.status.SetText(u.Error()) })
			img = blank
		}
	}()
	cssW := values.PixelLength(float32(w) / scale)
	cssH := values.PixelLength(float32(h) / scale)
	root := page.Layout(cssW, cssH, scale)
	return v.engine.Paint(root, w, h).Image()
}

func (v *viewer) open(ctx context.Context, source string, done func()) {
	v.status.SetText("Loading " + source + "...")
	go func() {
		page, err := v.engine.Open(ctx, source)
		fyne.Do(func() {
			if err != nil {
				v.log.Error("Unable to open document", zap.String("source", source), zap.Error(err))
				v.status.SetText("Error: " + err.Error())
				return
			}
			v.mu.Lock()
			v.page = page
			v.mu.Unlock()
			v.status.SetText(source)
			done()
		})
	}()
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfiguration(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.Logging.ConsoleLogger.Level = "debug"
	}
	log, closeLog, err := cfg.Logging.Prepare()
	if err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}
	defer closeLog()

	eng, err := engine.New(log, cfg)
	if err != nil {
		return err
	}

	a := app.New()
	w := a.NewWindow("wren")
	w.Resize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)))

	v := &viewer{log: log.Named("view"), engine: eng, status: widget.NewLabel("Enter a path or URL and press Enter")}
	raster := canvas.NewRaster(func(pw, ph int) image.Image {
		return v.draw(pw, ph, w.Canvas().Scale())
	})

	location := widget.NewEntry()
	location.SetPlaceHolder("https://example.com or ./page.html")
	location.OnSubmitted = func(source string) {
		v.open(ctx, source, func() {
			raster.Refresh()
			w.SetTitle("wren - " + source)
		})
	}

	w.SetContent(container.NewBorder(location, v.status, nil, nil, raster))
	// keep focus on the entry, Tab has nowhere else to go
	w.Canvas().Focus(location)

	if source := cmd.Args().First(); source != "" {
		location.SetText(source)
		location.OnSubmitted(source)
	}
	w.ShowAndRun()
	return nil
}

func main() {
	root := &cli.Command{
		Name:      "wrenview",
		Usage:     "shows a document's block layout in a window, re-laid out on resize",
		ArgsUsage: "[SOURCE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything the engine does to the console"},
		},
		Action: run,
	}
	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		os.Exit(1)
	}
}
