package css

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wren/pkg/html"
	"wren/pkg/style"
	"wren/pkg/values"
)

// ComputeValues resolves one element's computed values from its winning
// declarations. The parent must already be resolved.
func (c *Cascade) ComputeValues(n *html.Node, rootFontSize values.PixelLength) {
	var parent *style.ComputedValues
	if n.Parent != nil {
		if !n.Parent.HasComputedValues() {
			panic(fmt.Sprintf("css: <%s> computed before its parent <%s>", n.TagName, n.Parent.TagName))
		}
		parent = n.Parent.ComputedValues()
	}
	n.SetComputedValues(style.Compute(c.Winners(n), style.ComputeContext{
		Parent:       parent,
		RootFontSize: rootFontSize,
	}))
}

// ResolveTree computes values for every element below and including root,
// parents strictly before children. With Options.Parallel, sibling subtrees
// are computed concurrently.
func (c *Cascade) ResolveTree(ctx context.Context, root *html.Node) error {
	start := time.Now()
	c.ComputeValues(root, 0)
	rootFont := root.ComputedValues().FontSize.Size

	var err error
	if c.opts.Parallel {
		err = c.resolveParallel(ctx, root, rootFont)
	} else {
		err = c.resolveSerial(ctx, root, rootFont)
	}
	c.log.Debug("Resolved computed values",
		zap.Bool("parallel", c.opts.Parallel),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return err
}

func (c *Cascade) resolveSerial(ctx context.Context, n *html.Node, rootFont values.PixelLength) error {
	for _, child := range n.ElementChildren() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.ComputeValues(child, rootFont)
		if err := c.resolveSerial(ctx, child, rootFont); err != nil {
			return err
		}
	}
	return nil
}

// resolveParallel hands each child subtree to the group once its parent is
// resolved. When the group is at its limit the subtree runs inline.
func (c *Cascade) resolveParallel(ctx context.Context, root *html.Node, rootFont values.PixelLength) error {
	g, gctx := errgroup.WithContext(ctx)
	workers := c.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	var visit func(n *html.Node) error
	visit = func(n *html.Node) error {
		for _, child := range n.ElementChildren() {
			task := func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				c.ComputeValues(child, rootFont)
				return visit(child)
			}
			if !g.TryGo(task) {
				if err := task(); err != nil {
					return err
				}
			}
		}
		return nil
	}
	// Subtrees already handed to the group finish before the tree is returned.
	err := visit(root)
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}
