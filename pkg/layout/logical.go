package layout

import (
	"fmt"

	"wren/pkg/values"
)

// LogicalDirection is a flow-relative side of a box.
type LogicalDirection uint8

const (
	BlockStart LogicalDirection = iota
	BlockEnd
	InlineStart
	InlineEnd
)

var LogicalDirections = [4]LogicalDirection{BlockStart, BlockEnd, InlineStart, InlineEnd}

func (l LogicalDirection) String() string {
	switch l {
	case BlockStart:
		return "block-start"
	case BlockEnd:
		return "block-end"
	case InlineStart:
		return "inline-start"
	case InlineEnd:
		return "inline-end"
	}
	return "invalid"
}

// physicalSides maps writing mode and direction to the physical side of each
// logical direction, indexed by LogicalDirection. Rows follow CSS Writing
// Modes 3 section 6.
var physicalSides = map[values.WritingMode]map[values.Direction][4]values.Side{
	values.HorizontalTB: {
		values.DirectionLTR: {values.SideTop, values.SideBottom, values.SideLeft, values.SideRight},
		values.DirectionRTL: {values.SideTop, values.SideBottom, values.SideRight, values.SideLeft},
	},
	values.VerticalRL: {
		values.DirectionLTR: {values.SideRight, values.SideLeft, values.SideTop, values.SideBottom},
		values.DirectionRTL: {values.SideRight, values.SideLeft, values.SideBottom, values.SideTop},
	},
	values.VerticalLR: {
		values.DirectionLTR: {values.SideLeft, values.SideRight, values.SideTop, values.SideBottom},
		values.DirectionRTL: {values.SideLeft, values.SideRight, values.SideBottom, values.SideTop},
	},
	values.SidewaysRL: {
		values.DirectionLTR: {values.SideRight, values.SideLeft, values.SideTop, values.SideBottom},
		values.DirectionRTL: {values.SideRight, values.SideLeft, values.SideBottom, values.SideTop},
	},
	values.SidewaysLR: {
		values.DirectionLTR: {values.SideLeft, values.SideRight, values.SideBottom, values.SideTop},
		values.DirectionRTL: {values.SideLeft, values.SideRight, values.SideTop, values.SideBottom},
	},
}

// PhysicalSide returns the physical side that dir names under the given
// writing mode and direction.
func PhysicalSide(wm values.WritingMode, direction values.Direction, dir LogicalDirection) values.Side {
	row, ok := physicalSides[wm][direction]
	if !ok {
		panic(fmt.Sprintf("layout: no side mapping for %s/%s", wm, direction))
	}
	return row[dir]
}

// LogicalDimensions is a flow-relative view over a Dimensions. It holds no
// geometry of its own; every accessor reads or writes the physical fields.
type LogicalDimensions struct {
	d           *Dimensions
	WritingMode values.WritingMode
	Direction   values.Direction
}

// Logical returns a view of d in the given writing mode and direction.
func (d *Dimensions) Logical(wm values.WritingMode, direction values.Direction) LogicalDimensions {
	return LogicalDimensions{d: d, WritingMode: wm, Direction: direction}
}

func (l LogicalDimensions) side(dir LogicalDirection) values.Side {
	return PhysicalSide(l.WritingMode, l.Direction, dir)
}

// Get reads the edge of component c on the logical side dir.
func (l LogicalDimensions) Get(dir LogicalDirection, c BoxComponent) values.PixelLength {
	return l.d.edges(c).Get(l.side(dir))
}

// Set writes the edge of component c on the logical side dir.
func (l LogicalDimensions) Set(dir LogicalDirection, c BoxComponent, v values.PixelLength) {
	l.d.edges(c).Set(l.side(dir), v)
}

// edgeSum adds up padding, border and margin on one logical side.
func (l LogicalDimensions) edgeSum(dir LogicalDirection) values.PixelLength {
	var sum values.PixelLength
	for _, c := range boxComponents {
		sum += l.Get(dir, c)
	}
	return sum
}

func (l LogicalDimensions) InlineSize() values.PixelLength {
	if l.WritingMode.IsVertical() {
		return l.d.Content.Height
	}
	return l.d.Content.Width
}

func (l LogicalDimensions) SetInlineSize(v values.PixelLength) {
	if l.WritingMode.IsVertical() {
		l.d.Content.Height = v
	} else {
		l.d.Content.Width = v
	}
}

func (l LogicalDimensions) BlockSize() values.PixelLength {
	if l.WritingMode.IsVertical() {
		return l.d.Content.Width
	}
	return l.d.Content.Height
}

func (l LogicalDimensions) SetBlockSize(v values.PixelLength) {
	if l.WritingMode.IsVertical() {
		l.d.Content.Width = v
	} else {
		l.d.Content.Height = v
	}
}

// MarginBoxBlockSize is the space the box takes up along the block axis.
func (l LogicalDimensions) MarginBoxBlockSize() values.PixelLength {
	return l.edgeSum(BlockStart) + l.BlockSize() + l.edgeSum(BlockEnd)
}

// InlineStartCoord is the physical coordinate of the content edge on the
// inline-start side.
func (l LogicalDimensions) InlineStartCoord() values.PixelLength {
	return l.startCoord(l.side(InlineStart), l.InlineSize())
}

func (l LogicalDimensions) SetInlineStartCoord(v values.PixelLength) {
	l.setStartCoord(l.side(InlineStart), l.InlineSize(), v)
}

// BlockStartCoord is the physical coordinate of the content edge on the
// block-start side.
func (l LogicalDimensions) BlockStartCoord() values.PixelLength {
	return l.startCoord(l.side(BlockStart), l.BlockSize())
}

func (l LogicalDimensions) SetBlockStartCoord(v values.PixelLength) {
	l.setStartCoord(l.side(BlockStart), l.BlockSize(), v)
}

func (l LogicalDimensions) startCoord(s values.Side, size values.PixelLength) values.PixelLength {
	switch s {
	case values.SideLeft:
		return l.d.Content.X
	case values.SideTop:
		return l.d.Content.Y
	case values.SideRight:
		return l.d.Content.X + size
	default:
		return l.d.Content.Y + size
	}
}

func (l LogicalDimensions) setStartCoord(s values.Side, size, v values.PixelLength) {
	switch s {
	case values.SideLeft:
		l.d.Content.X = v
	case values.SideTop:
		l.d.Content.Y = v
	case values.SideRight:
		l.d.Content.X = v - size
	default:
		l.d.Content.Y = v - size
	}
}

// place returns the physical coordinate of an extent of length size that
// starts offset pixels from the start side of the span [origin,
// origin+span).
func place(start values.Side, origin, span, offset, size values.PixelLength) values.PixelLength {
	if start == values.SideLeft || start == values.SideTop {
		return origin + offset
	}
	return origin + span - offset - size
}
