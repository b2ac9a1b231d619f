package css

import (
	"strings"

	"wren/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector *Selector) bool {
	if node.Type != html.ElementNode {
		return false
	}

	// Handle complex selector (with multiple parts and combinators)
	if len(selector.Parts) == 0 {
		return false
	}

	// Start matching from the rightmost part (the target element)
	return matchesCompoundSelector(node, selector, len(selector.Parts)-1)
}

// matchesCompoundSelector checks if the node matches the selector at the given part index
// and all ancestor requirements
func matchesCompoundSelector(node *html.Node, selector *Selector, partIndex int) bool {
	// Match the current part against the node
	if !matchesSelectorPart(node, selector.Parts[partIndex]) {
		return false
	}

	// If this is the first part, we're done
	if partIndex == 0 {
		return true
	}

	// Check the combinator with the previous part
	combinator := selector.Combinators[partIndex-1]
	prevPartIndex := partIndex - 1

	switch combinator {
	case DescendantCombinator:
		// Match any ancestor
		return matchesAncestor(node, selector, prevPartIndex)

	case ChildCombinator:
		// Match direct parent only
		if node.Parent != nil && node.Parent.IsElement() {
			return matchesCompoundSelector(node.Parent, selector, prevPartIndex)
		}
		return false

	case AdjacentSiblingCombinator:
		// Match immediate previous sibling
		prevSibling := node.PreviousElementSibling()
		if prevSibling != nil {
			return matchesCompoundSelector(prevSibling, selector, prevPartIndex)
		}
		return false

	case GeneralSiblingCombinator:
		// Match any previous sibling
		return matchesPreviousSibling(node, selector, prevPartIndex)
	}

	return false
}

// matchesSelectorPart checks if a node matches a single selector part
func matchesSelectorPart(node *html.Node, part SelectorPart) bool {
	// Match element
	if part.Element != "" && part.Element != "*" {
		if node.TagName != part.Element {
			return false
		}
	}

	// Match ID
	if part.ID != "" {
		if id, ok := node.GetAttribute("id"); !ok || id != part.ID {
			return false
		}
	}

	// Match classes
	for _, requiredClass := range part.Classes {
		if !node.HasClass(requiredClass) {
			return false
		}
	}

	// Match attributes
	for _, attrSel := range part.Attributes {
		if !matchesAttributeSelector(node, attrSel) {
			return false
		}
	}

	for _, pc := range part.PseudoClasses {
		if !matchesPseudoClass(node, pc) {
			return false
		}
	}

	return true
}

// matchesPseudoClass evaluates the structural pseudo-classes. Dynamic
// pseudo-classes never match in a static renderer.
func matchesPseudoClass(node *html.Node, name string) bool {
	switch name {
	case "root":
		return node.Parent == nil
	case "first-child":
		return node.Parent != nil && node.PreviousElementSibling() == nil
	case "last-child":
		return node.Parent != nil && node.NextElementSibling() == nil
	case "only-child":
		return node.Parent != nil && node.PreviousElementSibling() == nil && node.NextElementSibling() == nil
	case "empty":
		for _, c := range node.Children {
			if c.IsElement() || c.Text != "" {
				return false
			}
		}
		return true
	}
	return false
}

// matchesAttributeSelector checks if a node matches an attribute selector
func matchesAttributeSelector(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}

	// If no operator, just check existence
	if attr.Operator == "" {
		return true
	}

	switch attr.Operator {
	case "=":
		// Exact match
		return value == attr.Value
	case "^=":
		// Starts with
		return strings.HasPrefix(value, attr.Value)
	case "$=":
		// Ends with
		return strings.HasSuffix(value, attr.Value)
	case "*=":
		// Contains
		return strings.Contains(value, attr.Value)
	case "~=":
		// Word match (whitespace-separated)
		words := strings.Fields(value)
		for _, word := range words {
			if word == attr.Value {
				return true
			}
		}
		return false
	case "|=":
		// Language prefix (starts with value or value-)
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}

	return false
}

// matchesAncestor checks if any ancestor matches the selector part
func matchesAncestor(node *html.Node, selector *Selector, partIndex int) bool {
	for ancestor := node.Parent; ancestor != nil; ancestor = ancestor.Parent {
		if ancestor.IsElement() {
			if matchesCompoundSelector(ancestor, selector, partIndex) {
				return true
			}
		}
	}
	return false
}

// matchesPreviousSibling checks if any previous sibling matches the selector part
func matchesPreviousSibling(node *html.Node, selector *Selector, partIndex int) bool {
	for sibling := node.PreviousElementSibling(); sibling != nil; sibling = sibling.PreviousElementSibling() {
		if matchesCompoundSelector(sibling, selector, partIndex) {
			return true
		}
	}
	return false
}

// FindMatchingRules returns the rules of a stylesheet whose selector list
// matches the node, each with the specificity of its most specific matching
// selector.
func FindMatchingRules(node *html.Node, sheet *Stylesheet) []MatchedRule {
	var matches []MatchedRule
	for _, rule := range sheet.Rules {
		if sel := rule.Selectors.MostSpecificMatch(node); sel != nil {
			matches = append(matches, MatchedRule{Rule: rule, Specificity: sel.Specificity})
		}
	}
	return matches
}

// MatchedRule is a rule that applies to a node.
type MatchedRule struct {
	Rule        *StyleRule
	Specificity uint32
}

// QuerySelectorAll returns the elements under root, in document order, that
// match the selector list.
func QuerySelectorAll(root *html.Node, list *SelectorList) []*html.Node {
	var out []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n.IsElement() && list.Matches(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
