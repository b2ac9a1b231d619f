package style

import (
	"strings"

	"wren/pkg/values"
)

// PropertyID identifies a supported longhand property. The declaration order
// is also the order properties are computed in: color comes first so that
// currentColor can resolve, font-size comes before anything measured in em,
// and border styles come before border widths.
type PropertyID uint8

const (
	PropColor PropertyID = iota
	PropFontSize
	PropWritingMode
	PropDirection
	PropDisplay
	PropBorderTopStyle
	PropBorderRightStyle
	PropBorderBottomStyle
	PropBorderLeftStyle
	PropBorderTopColor
	PropBorderRightColor
	PropBorderBottomColor
	PropBorderLeftColor
	PropBorderTopWidth
	PropBorderRightWidth
	PropBorderBottomWidth
	PropBorderLeftWidth
	PropBackgroundColor
	PropMarginTop
	PropMarginRight
	PropMarginBottom
	PropMarginLeft
	PropPaddingTop
	PropPaddingRight
	PropPaddingBottom
	PropPaddingLeft
	PropWidth
	PropHeight

	NumProperties
)

var propertyNames = [NumProperties]string{
	PropColor:             "color",
	PropFontSize:          "font-size",
	PropWritingMode:       "writing-mode",
	PropDirection:         "direction",
	PropDisplay:           "display",
	PropBorderTopStyle:    "border-top-style",
	PropBorderRightStyle:  "border-right-style",
	PropBorderBottomStyle: "border-bottom-style",
	PropBorderLeftStyle:   "border-left-style",
	PropBorderTopColor:    "border-top-color",
	PropBorderRightColor:  "border-right-color",
	PropBorderBottomColor: "border-bottom-color",
	PropBorderLeftColor:   "border-left-color",
	PropBorderTopWidth:    "border-top-width",
	PropBorderRightWidth:  "border-right-width",
	PropBorderBottomWidth: "border-bottom-width",
	PropBorderLeftWidth:   "border-left-width",
	PropBackgroundColor:   "background-color",
	PropMarginTop:         "margin-top",
	PropMarginRight:       "margin-right",
	PropMarginBottom:      "margin-bottom",
	PropMarginLeft:        "margin-left",
	PropPaddingTop:        "padding-top",
	PropPaddingRight:      "padding-right",
	PropPaddingBottom:     "padding-bottom",
	PropPaddingLeft:       "padding-left",
	PropWidth:             "width",
	PropHeight:            "height",
}

var propertiesByName = func() map[string]PropertyID {
	m := make(map[string]PropertyID, NumProperties)
	for id, name := range propertyNames {
		m[name] = PropertyID(id)
	}
	return m
}()

func (p PropertyID) String() string {
	if p < NumProperties {
		return propertyNames[p]
	}
	return "unknown"
}

// Inherited reports whether the property inherits by default.
func (p PropertyID) Inherited() bool {
	switch p {
	case PropColor, PropFontSize, PropWritingMode, PropDirection:
		return true
	}
	return false
}

// LookupProperty finds a longhand by its lower-case name.
func LookupProperty(name string) (PropertyID, bool) {
	id, ok := propertiesByName[strings.ToLower(name)]
	return id, ok
}

// Per-side longhands, indexed by values.Side.
var (
	marginProps      = [4]PropertyID{PropMarginTop, PropMarginRight, PropMarginBottom, PropMarginLeft}
	paddingProps     = [4]PropertyID{PropPaddingTop, PropPaddingRight, PropPaddingBottom, PropPaddingLeft}
	borderWidthProps = [4]PropertyID{PropBorderTopWidth, PropBorderRightWidth, PropBorderBottomWidth, PropBorderLeftWidth}
	borderStyleProps = [4]PropertyID{PropBorderTopStyle, PropBorderRightStyle, PropBorderBottomStyle, PropBorderLeftStyle}
	borderColorProps = [4]PropertyID{PropBorderTopColor, PropBorderRightColor, PropBorderBottomColor, PropBorderLeftColor}
)

// shorthands maps each shorthand to the longhands it expands to.
var shorthands = map[string][]PropertyID{
	"margin":        marginProps[:],
	"padding":       paddingProps[:],
	"border-width":  borderWidthProps[:],
	"border-style":  borderStyleProps[:],
	"border-color":  borderColorProps[:],
	"border":        append(append(borderWidthProps[:4:4], borderStyleProps[:]...), borderColorProps[:]...),
	"border-top":    sideBorder(values.SideTop),
	"border-right":  sideBorder(values.SideRight),
	"border-bottom": sideBorder(values.SideBottom),
	"border-left":   sideBorder(values.SideLeft),
}

func sideBorder(s values.Side) []PropertyID {
	return []PropertyID{borderWidthProps[s], borderStyleProps[s], borderColorProps[s]}
}

// IsShorthand reports whether name is a supported shorthand.
func IsShorthand(name string) bool {
	_, ok := shorthands[strings.ToLower(name)]
	return ok
}

// Longhands returns the longhands a property name sets: itself for a
// longhand, its expansion for a shorthand, nil when unknown.
func Longhands(name string) []PropertyID {
	name = strings.ToLower(name)
	if id, ok := propertiesByName[name]; ok {
		return []PropertyID{id}
	}
	return shorthands[name]
}
