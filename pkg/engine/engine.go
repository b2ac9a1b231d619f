// Package engine runs the whole pipeline for a document: parsing, scripts,
// the cascade, computed values, the box tree and layout passes.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wren/pkg/config"
	"wren/pkg/css"
	"wren/pkg/html"
	"wren/pkg/layout"
	"wren/pkg/render"
	"wren/pkg/resource"
	"wren/pkg/script"
	"wren/pkg/style"
	"wren/pkg/values"
)

// Engine holds what every page shares: configuration, the user-agent sheet
// and the user stylesheets.
type Engine struct {
	log    *zap.Logger
	cfg    *config.Config
	parser *css.Parser
	order  []style.Origin

	userAgent *css.Stylesheet
	user      []*css.Stylesheet
}

// New prepares an engine. User stylesheets named by the configuration are
// read and parsed here; a sheet that cannot be read is an error, a sheet
// with bad rules is not.
func New(log *zap.Logger, cfg *config.Config) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	order, err := cfg.Cascade.Origins()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		log:    log.Named("engine"),
		cfg:    cfg,
		parser: css.NewParser(log),
		order:  order,
	}
	e.userAgent = e.parser.UserAgentStylesheet()
	for _, path := range cfg.Cascade.UserStylesheets {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read user stylesheet: %w", err)
		}
		e.user = append(e.user, e.parse(filepath.Base(path), data))
	}
	return e, nil
}

func (e *Engine) parse(name string, data []byte) *css.Stylesheet {
	sheet := e.parser.Parse(name, data)
	if err := sheet.Err(); err != nil {
		e.log.Debug("Stylesheet has dropped declarations",
			zap.String("sheet", name),
			zap.Int("errors", len(multierr.Errors(err))),
			zap.Error(err))
	}
	return sheet
}

// Page is a loaded document together with its clean box tree.
type Page struct {
	Document *html.Document

	engine *Engine
	layout *layout.LayoutEngine
}

// Open loads the document at source, a file path or an HTTP(S) URL.
// Stylesheets it links to are resolved against source.
func (e *Engine) Open(ctx context.Context, source string) (*Page, error) {
	fetcher := resource.NewFetcher(e.log, source)
	body, _, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("unable to load document: %w", err)
	}
	return e.load(ctx, bytes.NewReader(body), fetcher)
}

// Load parses a document, runs its scripts and styles it. Script failures
// and stylesheets that cannot be fetched are logged and do not stop the
// page from loading. Linked stylesheets resolve against the working
// directory.
func (e *Engine) Load(ctx context.Context, r io.Reader) (*Page, error) {
	return e.load(ctx, r, resource.NewFetcher(e.log, ""))
}

func (e *Engine) load(ctx context.Context, r io.Reader, fetcher resource.Fetcher) (*Page, error) {
	doc, err := html.NewParser().Parse(r)
	if err != nil {
		return nil, err
	}
	if err := e.runScripts(ctx, doc); err != nil {
		return nil, err
	}
	e.fetchStylesheets(ctx, doc, fetcher)
	p := &Page{Document: doc, engine: e}
	if err := p.Restyle(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// fetchStylesheets fills in the text of linked stylesheets. Sheets are
// fetched concurrently; one that fails is dropped.
func (e *Engine) fetchStylesheets(ctx context.Context, doc *html.Document, fetcher resource.Fetcher) {
	var g errgroup.Group
	g.SetLimit(4)
	failed := make([]bool, len(doc.Stylesheets))
	for i := range doc.Stylesheets {
		s := &doc.Stylesheets[i]
		if s.Href == "" {
			continue
		}
		g.Go(func() error {
			text, err := resource.FetchCSS(ctx, fetcher, s.Href)
			if err != nil {
				e.log.Warn("Unable to fetch stylesheet", zap.String("href", s.Href), zap.Error(err))
				failed[i] = true
				return nil
			}
			s.Text, s.Href = text, ""
			return nil
		})
	}
	_ = g.Wait()

	kept := doc.Stylesheets[:0]
	for i, s := range doc.Stylesheets {
		if !failed[i] {
			kept = append(kept, s)
		}
	}
	doc.Stylesheets = kept
}

func (e *Engine) runScripts(ctx context.Context, doc *html.Document) error {
	if len(doc.Scripts) == 0 {
		return nil
	}
	if !e.cfg.Scripts.Enabled {
		e.log.Debug("Scripts disabled, skipping", zap.Int("scripts", len(doc.Scripts)))
		return nil
	}
	sctx := ctx
	if e.cfg.Scripts.Timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, e.cfg.Scripts.Timeout)
		defer cancel()
	}
	err := script.New(e.log).Execute(sctx, doc)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		e.log.Warn("Scripts timed out", zap.Duration("timeout", e.cfg.Scripts.Timeout))
	} else if err != nil {
		e.log.Warn("Some scripts failed", zap.Error(err))
	}
	return nil
}

// Restyle throws away the document's declarations and computed values,
// runs the cascade again and rebuilds the clean box tree. Call it after
// changing the document.
func (p *Page) Restyle(ctx context.Context) error {
	e := p.engine
	start := time.Now()
	root := p.Document.Root
	root.ResetStyles()

	cascade, err := css.NewCascade(e.log, css.Options{
		OriginOrder: e.order,
		Parallel:    e.cfg.Cascade.Parallel,
		Workers:     e.cfg.Cascade.Workers,
	})
	if err != nil {
		return err
	}
	origins := css.Origins{
		UserAgent: []*css.Stylesheet{e.userAgent},
		User:      e.user,
	}
	for _, s := range p.Document.Stylesheets {
		sheet := e.parse(s.Name, []byte(s.Text))
		if s.Linked {
			origins.Author = append(origins.Author, sheet)
		} else {
			origins.Embedded = append(origins.Embedded, sheet)
		}
	}
	cascade.ApplyStyles(root, origins)
	if err := cascade.ResolveTree(ctx, root); err != nil {
		return fmt.Errorf("unable to resolve styles: %w", err)
	}

	p.layout = layout.NewLayoutEngine(e.log, layout.BuildBoxTree(root))
	e.log.Debug("Page styled",
		zap.Int("stylesheets", len(p.Document.Stylesheets)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Boxes returns the clean, unlaid-out box tree.
func (p *Page) Boxes() layout.Box {
	return p.layout.Clean()
}

// Layout lays out a copy of the clean box tree in a viewport of the given
// size in CSS pixels. Layout of unsupported content panics with a
// *layout.UnimplementedError.
func (p *Page) Layout(width, height values.PixelLength, scale float32) layout.Box {
	return p.layout.Layout(width.Scale(scale), height.Scale(scale), scale)
}

// LayoutViewport lays the page out at the configured viewport.
func (p *Page) LayoutViewport() layout.Box {
	vp := p.engine.cfg.Viewport
	return p.Layout(values.PixelLength(vp.Width), values.PixelLength(vp.Height), vp.Scale)
}

// Paint renders a laid-out tree onto a canvas of the given device size.
func (e *Engine) Paint(root layout.Box, width, height int) *render.Renderer {
	r := render.NewRenderer(width, height)
	r.SetBackground(e.cfg.Render.BackgroundColor())
	r.Render(root)
	return r
}

// PaintViewport renders a tree laid out by LayoutViewport.
func (p *Page) PaintViewport(root layout.Box) *render.Renderer {
	vp := p.engine.cfg.Viewport
	return p.engine.Paint(root, int(float32(vp.Width)*vp.Scale), int(float32(vp.Height)*vp.Scale))
}
