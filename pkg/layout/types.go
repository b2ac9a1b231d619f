package layout

import "wren/pkg/values"

// Rect is a physical rectangle in device pixels.
type Rect struct {
	X      values.PixelLength
	Y      values.PixelLength
	Width  values.PixelLength
	Height values.PixelLength
}

// ExpandedBy grows the rectangle outwards by e on every side.
func (r Rect) ExpandedBy(e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// EdgeSizes holds one scalar per physical side.
type EdgeSizes struct {
	Top    values.PixelLength
	Right  values.PixelLength
	Bottom values.PixelLength
	Left   values.PixelLength
}

func (e EdgeSizes) Get(s values.Side) values.PixelLength {
	switch s {
	case values.SideTop:
		return e.Top
	case values.SideRight:
		return e.Right
	case values.SideBottom:
		return e.Bottom
	default:
		return e.Left
	}
}

func (e *EdgeSizes) Set(s values.Side, v values.PixelLength) {
	switch s {
	case values.SideTop:
		e.Top = v
	case values.SideRight:
		e.Right = v
	case values.SideBottom:
		e.Bottom = v
	default:
		e.Left = v
	}
}

// Dimensions is the resolved geometry of one box. Content is the content
// rectangle; the edges surround it in padding, border, margin order.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// BoxComponent names one of the three edge layers of a box.
type BoxComponent uint8

const (
	ComponentPadding BoxComponent = iota
	ComponentBorder
	ComponentMargin
)

var boxComponents = [...]BoxComponent{ComponentPadding, ComponentBorder, ComponentMargin}

func (c BoxComponent) String() string {
	switch c {
	case ComponentPadding:
		return "padding"
	case ComponentBorder:
		return "border"
	case ComponentMargin:
		return "margin"
	}
	return "invalid"
}

func (d *Dimensions) edges(c BoxComponent) *EdgeSizes {
	switch c {
	case ComponentPadding:
		return &d.Padding
	case ComponentBorder:
		return &d.Border
	default:
		return &d.Margin
	}
}
