package layout

import "wren/pkg/values"

// ContainingBlock is the rectangle, writing mode and direction a box is laid
// out against. It is built fresh for every recursion step from the parent's
// content rectangle and never stored on a box.
type ContainingBlock struct {
	Rect        Rect
	WritingMode values.WritingMode
	Direction   values.Direction
	// IndefiniteBlockSize is set while the block size still depends on the
	// children being laid out. Percentage block sizes then behave as auto.
	IndefiniteBlockSize bool
}

// InitialContainingBlock is the viewport-sized block the root is laid out in.
func InitialContainingBlock(width, height values.PixelLength, wm values.WritingMode, direction values.Direction) ContainingBlock {
	return ContainingBlock{
		Rect:        Rect{Width: width, Height: height},
		WritingMode: wm,
		Direction:   direction,
	}
}

func (cb ContainingBlock) InlineSize() values.PixelLength {
	if cb.WritingMode.IsVertical() {
		return cb.Rect.Height
	}
	return cb.Rect.Width
}

func (cb ContainingBlock) BlockSize() values.PixelLength {
	if cb.WritingMode.IsVertical() {
		return cb.Rect.Width
	}
	return cb.Rect.Height
}

func (cb ContainingBlock) side(dir LogicalDirection) values.Side {
	return PhysicalSide(cb.WritingMode, cb.Direction, dir)
}

// position sets the content origin of d from its offsets along both axes,
// measured from the block's inline-start and block-start edges.
func (cb ContainingBlock) position(d *Dimensions, inlineOffset, blockOffset values.PixelLength) {
	r := cb.Rect
	inlineStart := cb.side(InlineStart)
	blockStart := cb.side(BlockStart)
	if cb.WritingMode.IsVertical() {
		d.Content.Y = place(inlineStart, r.Y, r.Height, inlineOffset, d.Content.Height)
		d.Content.X = place(blockStart, r.X, r.Width, blockOffset, d.Content.Width)
	} else {
		d.Content.X = place(inlineStart, r.X, r.Width, inlineOffset, d.Content.Width)
		d.Content.Y = place(blockStart, r.Y, r.Height, blockOffset, d.Content.Height)
	}
}

// isOrthogonal reports whether wm lays out along the other axis.
func (cb ContainingBlock) isOrthogonal(wm values.WritingMode) bool {
	return cb.WritingMode.IsVertical() != wm.IsVertical()
}
