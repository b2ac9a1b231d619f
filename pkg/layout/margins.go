package layout

import "wren/pkg/values"

// scaled resolves a computed length or percentage to device pixels.
// Percentages resolve against reference, which is already in device pixels;
// lengths are multiplied by the scale factor.
func scaled(c values.ComputedLengthPercentage, reference values.PixelLength, scaleFactor float32) values.PixelLength {
	if c.IsPercentage {
		return c.Percentage.PxRelativeTo(reference)
	}
	return c.Length.Scale(scaleFactor)
}

// solveInlineAxis resolves margins, borders, paddings and the content size
// along the inline axis of cb (CSS 2.1 section 10.3.3, in flow-relative
// terms). The result always satisfies
//
//	margin-start + border-start + padding-start + inline-size +
//	padding-end + border-end + margin-end == cb inline size
//
// which may leave the end margin negative when the box overflows.
func solveInlineAxis(b Box, l LogicalDimensions, cb ContainingBlock, scaleFactor float32) {
	cv := b.ComputedValues()
	cbInline := cb.InlineSize()

	var edges values.PixelLength
	for _, dir := range [2]LogicalDirection{InlineStart, InlineEnd} {
		side := l.side(dir)
		border := cv.BorderWidth(side).Scale(scaleFactor)
		padding := scaled(cv.Padding(side), cbInline, scaleFactor)
		l.Set(dir, ComponentBorder, border)
		l.Set(dir, ComponentPadding, padding)
		edges += border + padding
	}

	size := cv.Width
	if cb.WritingMode.IsVertical() {
		size = cv.Height
	}
	marginStart := cv.Margin(l.side(InlineStart))
	marginEnd := cv.Margin(l.side(InlineEnd))

	length := func(v values.ComputedLengthPercentageOrAuto) values.PixelLength {
		if v.IsAuto() {
			return 0
		}
		return scaled(v.ComputedLengthPercentage, cbInline, scaleFactor)
	}
	start, end, inline := length(marginStart), length(marginEnd), length(size)
	startAuto, endAuto := marginStart.IsAuto(), marginEnd.IsAuto()

	total := start + end + inline + edges
	if !size.IsAuto() && total > cbInline {
		// Auto margins are zero when the box does not fit.
		startAuto, endAuto = false, false
	}
	available := cbInline - total

	switch {
	case size.IsAuto():
		if available >= 0 {
			inline = available
		} else {
			end += available
		}
	case !startAuto && !endAuto:
		end += available
	case startAuto && endAuto:
		start = available / 2
		end = available / 2
	case startAuto:
		start = available
	default:
		end = available
	}

	l.Set(InlineStart, ComponentMargin, start)
	l.Set(InlineEnd, ComponentMargin, end)
	l.SetInlineSize(inline)
}

// solveBlockAxis resolves the block-axis edges and, when it does not depend
// on the children, the block size. Auto margins are zero; margins do not
// collapse.
func solveBlockAxis(b Box, l LogicalDimensions, cb ContainingBlock, scaleFactor float32) (definite bool) {
	cv := b.ComputedValues()
	cbInline, cbBlock := cb.InlineSize(), cb.BlockSize()

	for _, dir := range [2]LogicalDirection{BlockStart, BlockEnd} {
		side := l.side(dir)
		l.Set(dir, ComponentBorder, cv.BorderWidth(side).Scale(scaleFactor))
		l.Set(dir, ComponentPadding, scaled(cv.Padding(side), cbBlock, scaleFactor))
		if m := cv.Margin(side); !m.IsAuto() {
			l.Set(dir, ComponentMargin, scaled(m.ComputedLengthPercentage, cbInline, scaleFactor))
		}
	}

	size := cv.Height
	if cb.WritingMode.IsVertical() {
		size = cv.Width
	}
	if size.IsAuto() || (size.IsPercentage && cb.IndefiniteBlockSize) {
		return false
	}
	l.SetBlockSize(scaled(size.ComputedLengthPercentage, cbBlock, scaleFactor))
	return true
}
