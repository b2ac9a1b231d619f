package style

import (
	"fmt"

	"wren/pkg/values"
)

// Cascaded holds the winning declaration for each property, nil where no
// declaration applies.
type Cascaded [NumProperties]*Declaration

// Set records d as the winner for its property.
func (c *Cascaded) Set(d Declaration) {
	c[d.Property] = &d
}

// ComputeContext carries what computing one element's values depends on.
type ComputeContext struct {
	// Parent is the parent element's computed values; nil for the root.
	Parent *ComputedValues
	// RootFontSize resolves rem. Zero means the initial font size.
	RootFontSize values.PixelLength

	computedColor *values.RGBA
}

func (ctx *ComputeContext) fontMetrics(cv *ComputedValues) values.FontMetrics {
	root := ctx.RootFontSize
	if root == 0 {
		root = values.MediumFontSize
	}
	return values.FontMetrics{FontSize: cv.FontSize.Size, RootFontSize: root}
}

// Compute turns cascaded values into computed values. Properties are visited
// in PropertyID order; see PropertyID for why that order matters.
func Compute(cascaded *Cascaded, ctx ComputeContext) *ComputedValues {
	parent := ctx.Parent
	if parent == nil {
		parent = Default()
	}
	cv := Default()
	for p := PropertyID(0); p < NumProperties; p++ {
		var v SpecifiedValue
		if cascaded != nil && cascaded[p] != nil {
			v = cascaded[p].Value
		}
		switch v {
		case nil, KeywordUnset:
			if p.Inherited() {
				inherit(p, cv, parent)
			} else {
				initial(p, cv, &ctx)
			}
		case KeywordInherit:
			inherit(p, cv, parent)
		case KeywordInitial:
			initial(p, cv, &ctx)
		default:
			computeProperty(p, v, cv, parent, &ctx)
		}
		if p == PropColor {
			c := cv.Color
			ctx.computedColor = &c
		}
	}
	for _, s := range values.Sides {
		if cv.BorderStyle(s).HasNoWidth() {
			*cv.borderWidthPtr(s) = 0
		}
	}
	return cv
}

// Anonymous computes the style of a box the box tree synthesizes under
// parent: inherited properties come from parent, the rest are initial.
func Anonymous(parent *ComputedValues, display values.Display) *ComputedValues {
	cv := Compute(nil, ComputeContext{Parent: parent})
	cv.Display = display
	return cv
}

func inherit(p PropertyID, cv, parent *ComputedValues) {
	assign(p, cv, parent)
}

func initial(p PropertyID, cv *ComputedValues, ctx *ComputeContext) {
	for _, s := range values.Sides {
		if p == borderColorProps[s] {
			*cv.borderColorPtr(s) = values.CurrentColor().Compute(ctx.computedColor)
			return
		}
		if p == borderWidthProps[s] {
			*cv.borderWidthPtr(s) = mediumBorderWidth.ToPx(ctx.fontMetrics(cv))
			return
		}
	}
	assign(p, cv, initialValues)
}

var initialValues = Default()

// assign copies property p from src to dst.
func assign(p PropertyID, dst, src *ComputedValues) {
	switch p {
	case PropColor:
		dst.Color = src.Color
		return
	case PropFontSize:
		dst.FontSize = src.FontSize
		return
	case PropWritingMode:
		dst.WritingMode = src.WritingMode
		return
	case PropDirection:
		dst.Direction = src.Direction
		return
	case PropDisplay:
		dst.Display = src.Display
		return
	case PropBackgroundColor:
		dst.BackgroundColor = src.BackgroundColor
		return
	case PropWidth:
		dst.Width = src.Width
		return
	case PropHeight:
		dst.Height = src.Height
		return
	}
	for _, s := range values.Sides {
		switch p {
		case borderStyleProps[s]:
			*dst.borderStylePtr(s) = src.BorderStyle(s)
			return
		case borderColorProps[s]:
			*dst.borderColorPtr(s) = src.BorderColor(s)
			return
		case borderWidthProps[s]:
			*dst.borderWidthPtr(s) = src.BorderWidth(s)
			return
		case marginProps[s]:
			*dst.marginPtr(s) = src.Margin(s)
			return
		case paddingProps[s]:
			*dst.paddingPtr(s) = src.Padding(s)
			return
		}
	}
	panic(fmt.Sprintf("style: cannot assign property %d", p))
}

func computeProperty(p PropertyID, v SpecifiedValue, cv, parent *ComputedValues, ctx *ComputeContext) {
	fm := ctx.fontMetrics(cv)
	switch p {
	case PropColor:
		c := v.(values.ColorUnit)
		if c.CurrentColor {
			// currentcolor on color itself means the inherited color
			cv.Color = parent.Color
		} else {
			cv.Color = c.RGBA
		}
		return
	case PropFontSize:
		cv.FontSize = computeFontSize(v.(FontSizeValue), parent.FontSize, fm.RootFontSize)
		return
	case PropWritingMode:
		cv.WritingMode = v.(values.WritingMode)
		return
	case PropDirection:
		cv.Direction = v.(values.Direction)
		return
	case PropDisplay:
		cv.Display = v.(values.Display)
		return
	case PropBackgroundColor:
		cv.BackgroundColor = v.(values.ColorUnit).Compute(ctx.computedColor)
		return
	case PropWidth:
		cv.Width = v.(values.LengthPercentageOrAuto).Compute(fm)
		return
	case PropHeight:
		cv.Height = v.(values.LengthPercentageOrAuto).Compute(fm)
		return
	}
	for _, s := range values.Sides {
		switch p {
		case borderStyleProps[s]:
			*cv.borderStylePtr(s) = v.(values.BorderStyle)
			return
		case borderColorProps[s]:
			*cv.borderColorPtr(s) = v.(values.ColorUnit).Compute(ctx.computedColor)
			return
		case borderWidthProps[s]:
			*cv.borderWidthPtr(s) = v.(values.NoCalcLength).ToPx(fm)
			return
		case marginProps[s]:
			*cv.marginPtr(s) = v.(values.LengthPercentageOrAuto).Compute(fm)
			return
		case paddingProps[s]:
			*cv.paddingPtr(s) = v.(values.LengthPercentage).Compute(fm)
			return
		}
	}
	panic(fmt.Sprintf("style: cannot compute property %d", p))
}

func computeFontSize(v FontSizeValue, parent FontSize, root values.PixelLength) FontSize {
	switch {
	case v.Keyword == values.FontSizeLarger:
		return FontSize{Size: parent.Size.Scale(values.FontSizeRatio), Keyword: parent.Keyword, Factor: parent.Factor * values.FontSizeRatio}
	case v.Keyword == values.FontSizeSmaller:
		return FontSize{Size: parent.Size.Scale(1 / values.FontSizeRatio), Keyword: parent.Keyword, Factor: parent.Factor / values.FontSizeRatio}
	case v.Keyword != "":
		return FontSize{Size: v.Keyword.Px(), Keyword: v.Keyword, Factor: 1}
	case v.Length.IsPercentage:
		f := float32(v.Length.Percentage)
		return FontSize{Size: parent.Size.Scale(f), Keyword: parent.Keyword, Factor: parent.Factor * f}
	case v.Length.Length.Unit == values.UnitEm:
		f := v.Length.Length.Value
		return FontSize{Size: parent.Size.Scale(f), Keyword: parent.Keyword, Factor: parent.Factor * f}
	}
	// em inside font-size refers to the parent; rem to the root.
	fm := values.FontMetrics{FontSize: parent.Size, RootFontSize: root}
	return FontSize{Size: v.Length.Length.ToPx(fm)}
}
