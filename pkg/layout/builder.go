package layout

import (
	"wren/pkg/html"
	"wren/pkg/style"
	"wren/pkg/values"
)

// BuildBoxTree builds the box tree of a styled document. Every element must
// already carry computed values. Elements with display: none are left out
// together with their subtrees, as are whitespace-only text nodes.
//
// A block container ends up with either only block-level or only
// inline-level children: a run of the minority level is moved into a
// trailing anonymous block. Inline-level content of a block container sits
// in one root inline box.
func BuildBoxTree(root *html.Node) Box {
	cv := root.ComputedValues()
	if cv.Display.IsNone() {
		panic(&UnimplementedError{What: "layout of a display: none root", Node: nodeName(root)})
	}
	// The root is always blockified.
	b := &BlockContainer{boxBase{node: root, style: cv, root: true}}
	buildChildren(b, root)
	assignFormattingContexts(b, nil)
	return b
}

func buildChildren(parent Box, n *html.Node) {
	for _, c := range n.Children {
		if c.Type == html.TextNode {
			if !c.IsWhitespace() {
				appendChild(parent, &TextRun{boxBase: boxBase{node: c, style: c.ComputedValues()}, Text: c.Text})
			}
			continue
		}
		cv := c.ComputedValues()
		if cv.Display.IsNone() {
			continue
		}
		var child Box
		if cv.Display.IsBlockLevel() {
			child = &BlockContainer{boxBase{node: c, style: cv}}
		} else {
			child = &InlineBox{boxBase{node: c, style: cv}}
		}
		buildChildren(child, c)
		appendChild(parent, child)
	}
}

func isInlineContainer(b Box) bool {
	switch b.(type) {
	case *InlineBox, *AnonymousInline:
		return true
	}
	return false
}

func newAnonymousBlock(parent Box) *AnonymousBlock {
	return &AnonymousBlock{boxBase{
		node:  parent.Node(),
		style: style.Anonymous(parent.ComputedValues(), values.DisplayBlock),
	}}
}

func newAnonymousInline(parent Box) *AnonymousInline {
	return &AnonymousInline{boxBase{
		node:  parent.Node(),
		style: style.Anonymous(parent.ComputedValues(), values.DisplayInline),
	}}
}

func appendChild(parent Box, child Box) {
	pb := parent.base()
	if !isInlineContainer(parent) && !child.IsBlockLevel() {
		if _, isRoot := child.(*AnonymousInline); !isRoot {
			appendInline(parent, child)
			return
		}
	}
	// Block-level boxes inside inline boxes are kept where they are; inline
	// layout is not implemented, so nothing depends on splitting them out.
	if isInlineContainer(parent) || len(pb.children) == 0 ||
		pb.children[0].IsBlockLevel() == child.IsBlockLevel() {
		pb.children = append(pb.children, child)
		return
	}

	if child.IsBlockLevel() {
		// Everything so far is inline-level.
		wrap := newAnonymousBlock(parent)
		wrap.children = pb.children
		pb.children = []Box{wrap, child}
		return
	}

	if last, ok := pb.children[len(pb.children)-1].(*AnonymousBlock); ok {
		appendChild(last, child)
		return
	}
	wrap := newAnonymousBlock(parent)
	wrap.children = []Box{child}
	pb.children = append(pb.children, wrap)
}

// appendInline adds inline-level content of a block container to its
// single trailing root inline box, creating one when needed.
func appendInline(parent Box, child Box) {
	pb := parent.base()
	if n := len(pb.children); n > 0 {
		switch last := pb.children[n-1].(type) {
		case *AnonymousInline:
			last.children = append(last.children, child)
			return
		case *AnonymousBlock:
			appendInline(last, child)
			return
		}
	}
	root := newAnonymousInline(parent)
	root.children = []Box{child}
	appendChild(parent, root)
}

// assignFormattingContexts records for each box the context its content is
// laid out in. Block containers continue their parent's block formatting
// context unless they have to establish a new one.
func assignFormattingContexts(b Box, parent Box) {
	base := b.base()
	if parent != nil && !b.IsBlockLevel() {
		base.fc = parent.FormattingContext()
	} else {
		base.fc = establishedContext(b, parent)
	}
	for _, c := range base.children {
		assignFormattingContexts(c, b)
	}
}

func establishedContext(b Box, parent Box) *FormattingContext {
	cv := b.ComputedValues()
	switch cv.Display.Inner {
	case values.InnerFlex:
		return &FormattingContext{Kind: FlexFormatting}
	case values.InnerGrid:
		return &FormattingContext{Kind: GridFormatting}
	}
	if children := b.Children(); len(children) > 0 && !children[0].IsBlockLevel() {
		return &FormattingContext{Kind: InlineFormatting}
	}
	if parent == nil || cv.Display.Inner == values.InnerFlowRoot ||
		parent.FormattingContext().Kind != BlockFormatting ||
		parent.ComputedValues().WritingMode != cv.WritingMode {
		return &FormattingContext{Kind: BlockFormatting}
	}
	return parent.FormattingContext()
}
