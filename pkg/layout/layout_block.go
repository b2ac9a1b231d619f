package layout

import "wren/pkg/values"

// layoutBlockLevel lays out a block-level box and its subtree against cb.
// Sizes are solved first, top-down for inline sizes and bottom-up for block
// sizes; physical positions follow once every size is known, since in
// right-to-left and vertical-rl flows a child's position depends on the
// final size of its parent.
func layoutBlockLevel(b Box, cb ContainingBlock, scaleFactor float32) {
	sizeBlock(b, cb, 0, scaleFactor)
	positionBlock(b, cb)
}

// sizeBlock solves the box's edges and content size and records its content
// offsets. cursor is the block-axis space already taken up by preceding
// siblings.
func sizeBlock(b Box, cb ContainingBlock, cursor values.PixelLength, scaleFactor float32) {
	base := b.base()
	cv := b.ComputedValues()
	if cb.isOrthogonal(cv.WritingMode) {
		unimplemented("orthogonal writing mode", b)
	}
	switch base.fc.Kind {
	case FlexFormatting:
		unimplemented("flex layout", b)
	case GridFormatting:
		unimplemented("grid layout", b)
	}

	base.dims = Dimensions{}
	l := base.dims.Logical(cb.WritingMode, cb.Direction)
	solveInlineAxis(b, l, cb, scaleFactor)
	definite := solveBlockAxis(b, l, cb, scaleFactor)
	base.inlineOffset = l.edgeSum(InlineStart)
	base.blockOffset = cursor + l.edgeSum(BlockStart)

	children := base.children
	if len(children) > 0 && base.fc.Kind == InlineFormatting {
		unimplemented("inline formatting context", b)
	}

	// Axes match the containing block's, so the content rectangle's width
	// and height keep their meaning for the children.
	child := ContainingBlock{
		Rect:                Rect{Width: base.dims.Content.Width, Height: base.dims.Content.Height},
		WritingMode:         cv.WritingMode,
		Direction:           cv.Direction,
		IndefiniteBlockSize: !definite,
	}
	var content values.PixelLength
	for _, c := range children {
		if !c.IsBlockLevel() {
			c.Layout(child, scaleFactor)
		}
		sizeBlock(c, child, content, scaleFactor)
		content += c.base().dims.Logical(child.WritingMode, child.Direction).MarginBoxBlockSize()
	}
	if !definite {
		l.SetBlockSize(content)
	}
}

// positionBlock turns the offsets recorded by sizeBlock into physical
// coordinates, parents before children.
func positionBlock(b Box, cb ContainingBlock) {
	base := b.base()
	cb.position(&base.dims, base.inlineOffset, base.blockOffset)
	cv := b.ComputedValues()
	child := ContainingBlock{
		Rect:        base.dims.Content,
		WritingMode: cv.WritingMode,
		Direction:   cv.Direction,
	}
	for _, c := range base.children {
		positionBlock(c, child)
	}
}
