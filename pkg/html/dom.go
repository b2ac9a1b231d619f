package html

import (
	"fmt"
	"sort"
	"strings"

	"wren/pkg/style"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node

	// Declarations are the cascade inputs gathered for this element.
	Declarations []style.ContextualDeclaration
	computed     *style.ComputedValues
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Document struct {
	// Root is the <html> element.
	Root        *Node
	Stylesheets []Stylesheet
	Scripts     []string
}

// Stylesheet is CSS text found in the document.
type Stylesheet struct {
	// Name identifies the sheet in diagnostics, e.g. "<style>#1".
	Name string
	Text string
	// Linked is set for <link rel="stylesheet"> sheets, which cascade as
	// author style rather than embedded style.
	Linked bool
	// Href is set instead of Text when the sheet has to be fetched.
	Href string
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "html",
			Children: make([]*Node, 0),
		},
	}
}

// NewElement creates a detached element.
func NewElement(tag string, attrs map[string]string) *Node {
	return &Node{Type: ElementNode, TagName: strings.ToLower(tag), Attributes: attrs, Children: make([]*Node, 0)}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// InsertBefore inserts newChild before refChild in this node's children.
// If refChild is nil, appends newChild at the end.
// If newChild already has a parent, it is removed from that parent first.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	// Remove from old parent if re-parenting
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}

	if refChild == nil {
		n.AddChild(newChild)
		return newChild
	}

	for i, c := range n.Children {
		if c == refChild {
			// Insert at position i
			n.Children = append(n.Children, nil)
			copy(n.Children[i+1:], n.Children[i:])
			n.Children[i] = newChild
			newChild.Parent = n
			return newChild
		}
	}

	// refChild not found, append
	n.AddChild(newChild)
	return newChild
}

// CloneNode returns a copy of the node. If deep is true, all descendants
// are cloned recursively. The clone has no parent and no style state.
func (n *Node) CloneNode(deep bool) *Node {
	clone := &Node{
		Type:    n.Type,
		TagName: n.TagName,
		Text:    n.Text,
	}
	if n.Attributes != nil {
		clone.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			clone.Attributes[k] = v
		}
	}
	if deep {
		clone.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			childClone := child.CloneNode(true)
			childClone.Parent = clone
			clone.Children[i] = childClone
		}
	} else {
		clone.Children = make([]*Node, 0)
	}
	return clone
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	if n == other {
		return true
	}
	for _, child := range n.Children {
		if child.Contains(other) {
			return true
		}
	}
	return false
}

// IndexInParent returns the index of this node among its parent's children,
// or -1 if it has no parent.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Serialize returns the innerHTML of this node: the serialized HTML of
// all child nodes, but not the node's own tags.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		serializeNode(&sb, child)
	}
	return sb.String()
}

// SerializeOuter returns the outerHTML of this node: the node's own tags
// plus all descendants.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName)

	// Sort attributes for deterministic output
	if len(n.Attributes) > 0 {
		keys := make([]string, 0, len(n.Attributes))
		for k := range n.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteByte(' ')
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(escapeAttr(n.Attributes[k]))
			sb.WriteByte('"')
		}
	}

	if isVoidElement(n.TagName) {
		sb.WriteString(">")
		return
	}

	sb.WriteByte('>')
	for _, child := range n.Children {
		serializeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteByte('>')
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}

func (n *Node) IsElement() bool {
	return n.Type == ElementNode
}

// ID returns the id attribute.
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// Classes returns the whitespace-separated class list.
func (n *Node) Classes() []string {
	c, _ := n.GetAttribute("class")
	return strings.Fields(c)
}

// HasClass reports whether name is in the class list.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// SetAttribute sets or replaces an attribute.
func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[strings.ToLower(name)] = value
}

// ElementChildren returns the element children, skipping text.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// PreviousElementSibling returns the nearest preceding element sibling.
func (n *Node) PreviousElementSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	for i := n.IndexInParent() - 1; i >= 0; i-- {
		if c := n.Parent.Children[i]; c.IsElement() {
			return c
		}
	}
	return nil
}

// NextElementSibling returns the nearest following element sibling.
func (n *Node) NextElementSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	siblings := n.Parent.Children
	for i := n.IndexInParent() + 1; i < len(siblings); i++ {
		if siblings[i].IsElement() {
			return siblings[i]
		}
	}
	return nil
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

// IsWhitespace reports whether a text node holds only document whitespace.
func (n *Node) IsWhitespace() bool {
	return n.Type == TextNode && strings.TrimLeft(n.Text, " \t\n\r\f") == ""
}

// ComputedValues returns the element's computed style. Text nodes share
// their parent's. Asking before styles have been resolved is a pipeline
// ordering bug and panics.
func (n *Node) ComputedValues() *style.ComputedValues {
	if n.Type == TextNode && n.Parent != nil {
		return n.Parent.ComputedValues()
	}
	if n.computed == nil {
		panic(fmt.Sprintf("html: computed values of <%s> read before they were resolved", n.TagName))
	}
	return n.computed
}

func (n *Node) HasComputedValues() bool {
	if n.Type == TextNode && n.Parent != nil {
		return n.Parent.HasComputedValues()
	}
	return n.computed != nil
}

func (n *Node) SetComputedValues(cv *style.ComputedValues) {
	n.computed = cv
}

// ResetStyles clears declarations and computed values on the subtree so the
// cascade can run again after a mutation.
func (n *Node) ResetStyles() {
	n.Walk(func(c *Node) bool {
		c.Declarations = nil
		c.computed = nil
		return true
	})
}
