// Package script runs a document's <script> elements against its DOM before
// the document is styled.
package script

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"wren/pkg/html"
)

// Engine executes JavaScript against an HTML document's DOM.
type Engine struct {
	vm  *goja.Runtime
	log *zap.Logger
}

// New creates a new JS engine with a fresh goja runtime. console output goes
// to log.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("script")
	vm := goja.New()
	e := &Engine{vm: vm, log: log}

	c := &consoleAPI{log: log}
	c.register(vm)

	return e
}

// Execute runs the document's scripts in order. A script that throws does
// not stop the ones after it; all errors are returned together. Cancelling
// ctx interrupts the running script.
func (e *Engine) Execute(ctx context.Context, doc *html.Document) error {
	registerDocument(e.vm, doc)

	stop := context.AfterFunc(ctx, func() {
		e.vm.Interrupt(ctx.Err())
	})
	defer stop()
	defer e.vm.ClearInterrupt()

	var errs error
	for i, src := range doc.Scripts {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		start := time.Now()
		if _, err := e.vm.RunScript(fmt.Sprintf("script#%d", i), src); err != nil {
			e.log.Warn("Script failed", zap.Int("index", i), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("script %d: %w", i, err))
			continue
		}
		e.log.Debug("Script finished", zap.Int("index", i), zap.Duration("elapsed", time.Since(start)))
	}
	return errs
}
