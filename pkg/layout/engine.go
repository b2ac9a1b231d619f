package layout

import (
	"time"

	"go.uber.org/zap"

	"wren/pkg/values"
)

// GlobalLayout lays out the box tree in a viewport of the given device pixel
// size. The root's containing block is the viewport at the origin, in the
// root's own writing mode and direction.
func GlobalLayout(root Box, viewportWidth, viewportHeight values.PixelLength, scaleFactor float32) {
	cv := root.ComputedValues()
	root.Layout(InitialContainingBlock(viewportWidth, viewportHeight, cv.WritingMode, cv.Direction), scaleFactor)
}

// LayoutEngine runs layout passes over a clean box tree. Each pass works on
// its own copy, so the clean tree can be laid out again, e.g. after a
// resize, without rebuilding it from the document.
type LayoutEngine struct {
	log   *zap.Logger
	clean Box
}

func NewLayoutEngine(log *zap.Logger, clean Box) *LayoutEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &LayoutEngine{log: log.Named("layout"), clean: clean}
}

// Clean returns the unlaid-out box tree. Callers must not lay it out.
func (le *LayoutEngine) Clean() Box {
	return le.clean
}

// Layout clones the clean tree and lays the copy out.
func (le *LayoutEngine) Layout(viewportWidth, viewportHeight values.PixelLength, scaleFactor float32) Box {
	start := time.Now()
	tree := Clone(le.clean)
	GlobalLayout(tree, viewportWidth, viewportHeight, scaleFactor)
	le.log.Debug("Layout pass finished",
		zap.Float32("width", viewportWidth.Px()),
		zap.Float32("height", viewportHeight.Px()),
		zap.Float32("scale", scaleFactor),
		zap.Int("boxes", CountBoxes(tree)),
		zap.Duration("elapsed", time.Since(start)))
	return tree
}

// CountBoxes returns the number of boxes in the tree rooted at b.
func CountBoxes(b Box) int {
	n := 1
	for _, c := range b.Children() {
		n += CountBoxes(c)
	}
	return n
}
