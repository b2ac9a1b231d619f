package layout

import (
	"wren/pkg/html"
	"wren/pkg/style"
	"wren/pkg/values"
)

// BoxKind identifies a box variant.
type BoxKind uint8

const (
	KindBlockContainer BoxKind = iota
	KindAnonymousBlock
	KindInlineBox
	KindAnonymousInline
	KindTextRun
)

func (k BoxKind) String() string {
	switch k {
	case KindBlockContainer:
		return "BlockContainer"
	case KindAnonymousBlock:
		return "AnonymousBlock"
	case KindInlineBox:
		return "InlineBox"
	case KindAnonymousInline:
		return "AnonymousInline"
	case KindTextRun:
		return "TextRun"
	}
	return "Unknown"
}

type FormattingContextKind uint8

const (
	BlockFormatting FormattingContextKind = iota
	InlineFormatting
	FlexFormatting
	GridFormatting
)

func (k FormattingContextKind) String() string {
	switch k {
	case BlockFormatting:
		return "block"
	case InlineFormatting:
		return "inline"
	case FlexFormatting:
		return "flex"
	case GridFormatting:
		return "grid"
	}
	return "unknown"
}

// FormattingContext is shared by every box whose content is laid out in it.
type FormattingContext struct {
	Kind FormattingContextKind
}

// Box is a node of the box tree.
type Box interface {
	Kind() BoxKind
	// ComputedValues is the style the box is laid out with. Anonymous boxes
	// carry a synthesized style; text runs share their parent element's.
	ComputedValues() *style.ComputedValues
	Dimensions() Dimensions
	DimensionsMut() *Dimensions
	// FormattingContext is the context the box's content is laid out in.
	FormattingContext() *FormattingContext
	IsRoot() bool
	// Node is the originating element, or for anonymous boxes the element
	// they were synthesized under.
	Node() *html.Node
	Children() []Box
	IsBlockLevel() bool
	// Layout resolves the geometry of the box and its subtree. Paths the
	// engine does not implement panic with *UnimplementedError.
	Layout(cb ContainingBlock, scaleFactor float32)

	base() *boxBase
}

type boxBase struct {
	node     *html.Node
	style    *style.ComputedValues
	fc       *FormattingContext
	dims     Dimensions
	children []Box
	root     bool

	// Content offsets from the containing block's inline-start and
	// block-start edges, kept between sizing and positioning.
	inlineOffset values.PixelLength
	blockOffset  values.PixelLength
}

func (b *boxBase) ComputedValues() *style.ComputedValues { return b.style }
func (b *boxBase) Dimensions() Dimensions { return b.dims }
func (b *boxBase) DimensionsMut() *Dimensions { return &b.dims }
func (b *boxBase) FormattingContext() *FormattingContext { return b.fc }
func (b *boxBase) IsRoot() bool { return b.root }
func (b *boxBase) Node() *html.Node { return b.node }
func (b *boxBase) Children() []Box { return b.children }
func (b *boxBase) base() *boxBase { return b }

// BlockContainer is the principal box of a block-level element.
type BlockContainer struct{ boxBase }

func (*BlockContainer) Kind() BoxKind { return KindBlockContainer }
func (*BlockContainer) IsBlockLevel() bool { return true }

func (b *BlockContainer) Layout(cb ContainingBlock, scaleFactor float32) {
	layoutBlockLevel(b, cb, scaleFactor)
}

// AnonymousBlock wraps a run of inline-level boxes that sits among
// block-level siblings.
type AnonymousBlock struct{ boxBase }

func (*AnonymousBlock) Kind() BoxKind { return KindAnonymousBlock }
func (*AnonymousBlock) IsBlockLevel() bool { return true }

func (b *AnonymousBlock) Layout(cb ContainingBlock, scaleFactor float32) {
	layoutBlockLevel(b, cb, scaleFactor)
}

// InlineBox is the principal box of an inline-level element.
type InlineBox struct{ boxBase }

func (*InlineBox) Kind() BoxKind { return KindInlineBox }
func (*InlineBox) IsBlockLevel() bool { return false }

func (b *InlineBox) Layout(ContainingBlock, float32) {
	unimplemented("inline box layout", b)
}

// AnonymousInline is the root inline box holding the inline-level content
// of a block container.
type AnonymousInline struct{ boxBase }

func (*AnonymousInline) Kind() BoxKind { return KindAnonymousInline }
func (*AnonymousInline) IsBlockLevel() bool { return false }

func (b *AnonymousInline) Layout(ContainingBlock, float32) {
	unimplemented("inline box layout", b)
}

// TextRun is a leaf holding the text of one text node.
type TextRun struct {
	boxBase
	Text string
}

func (*TextRun) Kind() BoxKind { return KindTextRun }
func (*TextRun) IsBlockLevel() bool { return false }

func (b *TextRun) Layout(ContainingBlock, float32) {
	unimplemented("text layout", b)
}

// Clone deep-copies the box tree. Nodes, computed values and formatting
// contexts are shared; geometry and the child lists are not.
func Clone(b Box) Box {
	var c Box
	switch b := b.(type) {
	case *BlockContainer:
		cp := *b
		c = &cp
	case *AnonymousBlock:
		cp := *b
		c = &cp
	case *InlineBox:
		cp := *b
		c = &cp
	case *AnonymousInline:
		cp := *b
		c = &cp
	case *TextRun:
		cp := *b
		c = &cp
	default:
		panic("layout: unknown box type")
	}
	cb := c.base()
	if b.Children() != nil {
		cb.children = make([]Box, len(b.Children()))
		for i, child := range b.Children() {
			cb.children[i] = Clone(child)
		}
	}
	return c
}
