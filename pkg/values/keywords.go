package values

import "strings"

// OuterDisplay is how a box participates in its parent's formatting context.
type OuterDisplay string

const (
	OuterBlock  OuterDisplay = "block"
	OuterInline OuterDisplay = "inline"
	OuterNone   OuterDisplay = "none"
)

// InnerDisplay is the formatting context a box establishes for its children.
type InnerDisplay string

const (
	InnerFlow     InnerDisplay = "flow"
	InnerFlowRoot InnerDisplay = "flow-root"
	InnerFlex     InnerDisplay = "flex"
	InnerGrid     InnerDisplay = "grid"
)

// Display is the two-value form of the display property.
type Display struct {
	Outer OuterDisplay
	Inner InnerDisplay
}

var (
	DisplayBlock       = Display{OuterBlock, InnerFlow}
	DisplayInline      = Display{OuterInline, InnerFlow}
	DisplayInlineBlock = Display{OuterInline, InnerFlowRoot}
	DisplayFlowRoot    = Display{OuterBlock, InnerFlowRoot}
	DisplayFlex        = Display{OuterBlock, InnerFlex}
	DisplayInlineFlex  = Display{OuterInline, InnerFlex}
	DisplayGrid        = Display{OuterBlock, InnerGrid}
	DisplayInlineGrid  = Display{OuterInline, InnerGrid}
	DisplayNone        = Display{Outer: OuterNone}
)

var displayKeywords = map[string]Display{
	"block":        DisplayBlock,
	"inline":       DisplayInline,
	"inline-block": DisplayInlineBlock,
	"flow-root":    DisplayFlowRoot,
	"flex":         DisplayFlex,
	"inline-flex":  DisplayInlineFlex,
	"grid":         DisplayGrid,
	"inline-grid":  DisplayInlineGrid,
	"none":         DisplayNone,
}

func ParseDisplay(keyword string) (Display, bool) {
	d, ok := displayKeywords[strings.ToLower(keyword)]
	return d, ok
}

func (d Display) IsNone() bool {
	return d.Outer == OuterNone
}

func (d Display) IsBlockLevel() bool {
	return d.Outer == OuterBlock
}

func (d Display) IsInlineLevel() bool {
	return d.Outer == OuterInline
}

func (d Display) String() string {
	for k, v := range displayKeywords {
		if v == d {
			return k
		}
	}
	return string(d.Outer) + " " + string(d.Inner)
}

// BorderStyle is a border-*-style keyword.
type BorderStyle string

const (
	BorderStyleNone   BorderStyle = "none"
	BorderStyleHidden BorderStyle = "hidden"
	BorderStyleDotted BorderStyle = "dotted"
	BorderStyleDashed BorderStyle = "dashed"
	BorderStyleSolid  BorderStyle = "solid"
	BorderStyleDouble BorderStyle = "double"
	BorderStyleGroove BorderStyle = "groove"
	BorderStyleRidge  BorderStyle = "ridge"
	BorderStyleInset  BorderStyle = "inset"
	BorderStyleOutset BorderStyle = "outset"
)

func ParseBorderStyle(keyword string) (BorderStyle, bool) {
	switch s := BorderStyle(strings.ToLower(keyword)); s {
	case BorderStyleNone, BorderStyleHidden, BorderStyleDotted, BorderStyleDashed, BorderStyleSolid,
		BorderStyleDouble, BorderStyleGroove, BorderStyleRidge, BorderStyleInset, BorderStyleOutset:
		return s, true
	}
	return "", false
}

// HasNoWidth reports whether a border of this style computes to zero width.
func (s BorderStyle) HasNoWidth() bool {
	return s == BorderStyleNone || s == BorderStyleHidden
}

// Direction is the inline base direction.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

func ParseDirection(keyword string) (Direction, bool) {
	switch d := Direction(strings.ToLower(keyword)); d {
	case DirectionLTR, DirectionRTL:
		return d, true
	}
	return "", false
}

// WritingMode orients the block and inline axes.
type WritingMode string

const (
	HorizontalTB WritingMode = "horizontal-tb"
	VerticalRL   WritingMode = "vertical-rl"
	VerticalLR   WritingMode = "vertical-lr"
	SidewaysRL   WritingMode = "sideways-rl"
	SidewaysLR   WritingMode = "sideways-lr"
)

// WritingModes lists every supported writing mode.
var WritingModes = []WritingMode{HorizontalTB, VerticalRL, VerticalLR, SidewaysRL, SidewaysLR}

func ParseWritingMode(keyword string) (WritingMode, bool) {
	w := WritingMode(strings.ToLower(keyword))
	for _, m := range WritingModes {
		if m == w {
			return w, true
		}
	}
	return "", false
}

// IsVertical reports whether the block axis is horizontal.
func (w WritingMode) IsVertical() bool {
	return w != HorizontalTB
}

// IsBlockFlipped reports whether blocks progress right to left.
func (w WritingMode) IsBlockFlipped() bool {
	return w == VerticalRL || w == SidewaysRL
}

// FontSizeKeyword is an absolute or relative font-size keyword.
type FontSizeKeyword string

const (
	FontSizeXXSmall  FontSizeKeyword = "xx-small"
	FontSizeXSmall   FontSizeKeyword = "x-small"
	FontSizeSmall    FontSizeKeyword = "small"
	FontSizeMedium   FontSizeKeyword = "medium"
	FontSizeLarge    FontSizeKeyword = "large"
	FontSizeXLarge   FontSizeKeyword = "x-large"
	FontSizeXXLarge  FontSizeKeyword = "xx-large"
	FontSizeXXXLarge FontSizeKeyword = "xxx-large"
	FontSizeLarger   FontSizeKeyword = "larger"
	FontSizeSmaller  FontSizeKeyword = "smaller"
)

// MediumFontSize is the initial font size.
const MediumFontSize PixelLength = 16

// FontSizeRatio is the factor applied for font-size: larger/smaller.
const FontSizeRatio = 1.2

var absoluteFontSizes = map[FontSizeKeyword]float32{
	FontSizeXXSmall:  3.0 / 5.0,
	FontSizeXSmall:   3.0 / 4.0,
	FontSizeSmall:    8.0 / 9.0,
	FontSizeMedium:   1,
	FontSizeLarge:    6.0 / 5.0,
	FontSizeXLarge:   3.0 / 2.0,
	FontSizeXXLarge:  2,
	FontSizeXXXLarge: 3,
}

func ParseFontSizeKeyword(keyword string) (FontSizeKeyword, bool) {
	k := FontSizeKeyword(strings.ToLower(keyword))
	if _, ok := absoluteFontSizes[k]; ok || k == FontSizeLarger || k == FontSizeSmaller {
		return k, true
	}
	return "", false
}

// IsRelative reports whether the keyword scales the parent's font size.
func (k FontSizeKeyword) IsRelative() bool {
	return k == FontSizeLarger || k == FontSizeSmaller
}

// Ratio is the keyword's factor relative to medium.
func (k FontSizeKeyword) Ratio() float32 {
	return absoluteFontSizes[k]
}

// Px is the keyword's size relative to the medium font size.
func (k FontSizeKeyword) Px() PixelLength {
	return MediumFontSize.Scale(k.Ratio())
}
