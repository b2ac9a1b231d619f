package style

import (
	"fmt"
	"strings"

	"wren/pkg/values"
)

// FontSize is a computed font size. When the size derives from an absolute
// keyword the keyword and the accumulated factor are kept alongside.
type FontSize struct {
	Size    values.PixelLength
	Keyword values.FontSizeKeyword
	Factor  float32
}

// ComputedValues holds a computed value for every supported property.
type ComputedValues struct {
	BackgroundColor values.RGBA

	BorderTopColor    values.RGBA
	BorderRightColor  values.RGBA
	BorderBottomColor values.RGBA
	BorderLeftColor   values.RGBA

	BorderTopStyle    values.BorderStyle
	BorderRightStyle  values.BorderStyle
	BorderBottomStyle values.BorderStyle
	BorderLeftStyle   values.BorderStyle

	BorderTopWidth    values.PixelLength
	BorderRightWidth  values.PixelLength
	BorderBottomWidth values.PixelLength
	BorderLeftWidth   values.PixelLength

	Color       values.RGBA
	Direction   values.Direction
	Display     values.Display
	FontSize    FontSize
	WritingMode values.WritingMode

	Width  values.ComputedLengthPercentageOrAuto
	Height values.ComputedLengthPercentageOrAuto

	MarginTop    values.ComputedLengthPercentageOrAuto
	MarginRight  values.ComputedLengthPercentageOrAuto
	MarginBottom values.ComputedLengthPercentageOrAuto
	MarginLeft   values.ComputedLengthPercentageOrAuto

	PaddingTop    values.ComputedLengthPercentage
	PaddingRight  values.ComputedLengthPercentage
	PaddingBottom values.ComputedLengthPercentage
	PaddingLeft   values.ComputedLengthPercentage
}

// Default returns the initial computed values. It also serves as the parent
// of the root element.
func Default() *ComputedValues {
	zero := values.ComputedPx(0)
	return &ComputedValues{
		BackgroundColor: values.Transparent,

		BorderTopColor:    values.Black,
		BorderRightColor:  values.Black,
		BorderBottomColor: values.Black,
		BorderLeftColor:   values.Black,

		BorderTopStyle:    values.BorderStyleNone,
		BorderRightStyle:  values.BorderStyleNone,
		BorderBottomStyle: values.BorderStyleNone,
		BorderLeftStyle:   values.BorderStyleNone,

		Color:       values.Black,
		Direction:   values.DirectionLTR,
		Display:     values.DisplayInline,
		FontSize:    FontSize{Size: values.MediumFontSize, Keyword: values.FontSizeMedium, Factor: 1},
		WritingMode: values.HorizontalTB,

		Width:  values.ComputedAuto(),
		Height: values.ComputedAuto(),

		MarginTop:    values.ComputedNotAuto(zero),
		MarginRight:  values.ComputedNotAuto(zero),
		MarginBottom: values.ComputedNotAuto(zero),
		MarginLeft:   values.ComputedNotAuto(zero),

		PaddingTop:    zero,
		PaddingRight:  zero,
		PaddingBottom: zero,
		PaddingLeft:   zero,
	}
}

// Clone returns an independent copy.
func (cv *ComputedValues) Clone() *ComputedValues {
	c := *cv
	return &c
}

func (cv *ComputedValues) Margin(s values.Side) values.ComputedLengthPercentageOrAuto {
	return *cv.marginPtr(s)
}

func (cv *ComputedValues) Padding(s values.Side) values.ComputedLengthPercentage {
	return *cv.paddingPtr(s)
}

func (cv *ComputedValues) BorderWidth(s values.Side) values.PixelLength {
	return *cv.borderWidthPtr(s)
}

func (cv *ComputedValues) BorderStyle(s values.Side) values.BorderStyle {
	return *cv.borderStylePtr(s)
}

func (cv *ComputedValues) BorderColor(s values.Side) values.RGBA {
	return *cv.borderColorPtr(s)
}

func (cv *ComputedValues) marginPtr(s values.Side) *values.ComputedLengthPercentageOrAuto {
	switch s {
	case values.SideTop:
		return &cv.MarginTop
	case values.SideRight:
		return &cv.MarginRight
	case values.SideBottom:
		return &cv.MarginBottom
	}
	return &cv.MarginLeft
}

func (cv *ComputedValues) paddingPtr(s values.Side) *values.ComputedLengthPercentage {
	switch s {
	case values.SideTop:
		return &cv.PaddingTop
	case values.SideRight:
		return &cv.PaddingRight
	case values.SideBottom:
		return &cv.PaddingBottom
	}
	return &cv.PaddingLeft
}

func (cv *ComputedValues) borderWidthPtr(s values.Side) *values.PixelLength {
	switch s {
	case values.SideTop:
		return &cv.BorderTopWidth
	case values.SideRight:
		return &cv.BorderRightWidth
	case values.SideBottom:
		return &cv.BorderBottomWidth
	}
	return &cv.BorderLeftWidth
}

func (cv *ComputedValues) borderStylePtr(s values.Side) *values.BorderStyle {
	switch s {
	case values.SideTop:
		return &cv.BorderTopStyle
	case values.SideRight:
		return &cv.BorderRightStyle
	case values.SideBottom:
		return &cv.BorderBottomStyle
	}
	return &cv.BorderLeftStyle
}

func (cv *ComputedValues) borderColorPtr(s values.Side) *values.RGBA {
	switch s {
	case values.SideTop:
		return &cv.BorderTopColor
	case values.SideRight:
		return &cv.BorderRightColor
	case values.SideBottom:
		return &cv.BorderBottomColor
	}
	return &cv.BorderLeftColor
}

// String lists every property in a stable order, one per line.
func (cv *ComputedValues) String() string {
	var b strings.Builder
	for p := PropertyID(0); p < NumProperties; p++ {
		fmt.Fprintf(&b, "%s: %v\n", p, cv.Get(p))
	}
	return b.String()
}

// Get returns the computed value of a property.
func (cv *ComputedValues) Get(p PropertyID) any {
	switch p {
	case PropColor:
		return cv.Color
	case PropFontSize:
		return cv.FontSize.Size
	case PropWritingMode:
		return cv.WritingMode
	case PropDirection:
		return cv.Direction
	case PropDisplay:
		return cv.Display
	case PropBackgroundColor:
		return cv.BackgroundColor
	case PropWidth:
		return cv.Width
	case PropHeight:
		return cv.Height
	}
	for _, s := range values.Sides {
		switch p {
		case borderStyleProps[s]:
			return cv.BorderStyle(s)
		case borderColorProps[s]:
			return cv.BorderColor(s)
		case borderWidthProps[s]:
			return cv.BorderWidth(s)
		case marginProps[s]:
			return cv.Margin(s)
		case paddingProps[s]:
			return cv.Padding(s)
		}
	}
	panic(fmt.Sprintf("style: no computed value for property %d", p))
}
