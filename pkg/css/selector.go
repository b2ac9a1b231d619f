package css

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"wren/pkg/html"
	"wren/pkg/style"
)

var ErrInvalidSelector = errors.New("invalid selector")

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator      Combinator = iota // A B
	ChildCombinator                             // A > B
	AdjacentSiblingCombinator                   // A + B
	GeneralSiblingCombinator                    // A ~ B
)

func (c Combinator) String() string {
	switch c {
	case ChildCombinator:
		return " > "
	case AdjacentSiblingCombinator:
		return " + "
	case GeneralSiblingCombinator:
		return " ~ "
	}
	return " "
}

// AttributeSelector is [name], [name=value], [name~=value] and friends.
type AttributeSelector struct {
	Name     string
	Operator string
	Value    string
}

// SelectorPart is a compound selector: simple selectors with no combinator.
type SelectorPart struct {
	Element       string
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

func (p SelectorPart) empty() bool {
	return p.Element == "" && p.ID == "" && len(p.Classes) == 0 && len(p.Attributes) == 0 && len(p.PseudoClasses) == 0
}

func (p SelectorPart) String() string {
	var sb strings.Builder
	sb.WriteString(p.Element)
	if p.ID != "" {
		sb.WriteString("#" + p.ID)
	}
	for _, c := range p.Classes {
		sb.WriteString("." + c)
	}
	for _, a := range p.Attributes {
		sb.WriteString("[" + a.Name)
		if a.Operator != "" {
			sb.WriteString(a.Operator + fmt.Sprintf("%q", a.Value))
		}
		sb.WriteString("]")
	}
	for _, pc := range p.PseudoClasses {
		sb.WriteString(":" + pc)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Selector is a complex selector. Combinators[i] joins Parts[i] and
// Parts[i+1]; matching runs right to left.
type Selector struct {
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity uint32
}

func (s *Selector) String() string {
	var sb strings.Builder
	for i, p := range s.Parts {
		if i > 0 {
			sb.WriteString(s.Combinators[i-1].String())
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Specificity components are packed as a<<20 | b<<10 | c, each saturating
// at 1023.
func packSpecificity(a, b, c int) uint32 {
	clamp := func(v int) uint32 {
		if v > 1023 {
			return 1023
		}
		return uint32(v)
	}
	return clamp(a)<<20 | clamp(b)<<10 | clamp(c)
}

// InlineSpecificity ranks style attribute declarations above any selector.
const InlineSpecificity uint32 = 1 << 30

func (s *Selector) computeSpecificity() {
	var a, b, c int
	for _, p := range s.Parts {
		if p.ID != "" {
			a++
		}
		b += len(p.Classes) + len(p.Attributes) + len(p.PseudoClasses)
		if p.Element != "" && p.Element != "*" {
			c++
		}
	}
	s.Specificity = packSpecificity(a, b, c)
}

// SelectorList is a compiled, comma-separated selector group.
type SelectorList struct {
	Selectors []*Selector
}

// Matches reports whether any selector in the list matches n.
func (l *SelectorList) Matches(n *html.Node) bool {
	return l.MostSpecificMatch(n) != nil
}

// Specificity is the highest specificity in the list.
func (l *SelectorList) Specificity() uint32 {
	var max uint32
	for _, s := range l.Selectors {
		if s.Specificity > max {
			max = s.Specificity
		}
	}
	return max
}

// MostSpecificMatch returns the matching selector with the highest
// specificity, or nil when none matches.
func (l *SelectorList) MostSpecificMatch(n *html.Node) *Selector {
	var best *Selector
	for _, s := range l.Selectors {
		if (best == nil || s.Specificity > best.Specificity) && MatchesSelector(n, s) {
			best = s
		}
	}
	return best
}

func (l *SelectorList) String() string {
	parts := make([]string, len(l.Selectors))
	for i, s := range l.Selectors {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// ParseSelectorList compiles selector text such as "div > p.note, #main".
func ParseSelectorList(text string) (*SelectorList, error) {
	return compileSelectorList(style.Tokenize(text))
}

func compileSelectorList(tokens []css.Token) (*SelectorList, error) {
	list := &SelectorList{}
	start := 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].TokenType != css.CommaToken {
			continue
		}
		sel, err := compileSelector(tokens[start:i])
		if err != nil {
			return nil, err
		}
		list.Selectors = append(list.Selectors, sel)
		start = i + 1
	}
	return list, nil
}

var supportedPseudoClasses = map[string]bool{
	"first-child": true,
	"last-child":  true,
	"only-child":  true,
	"root":        true,
	"empty":       true,
	// dynamic pseudo-classes parse but never match in a static renderer
	"hover":   true,
	"focus":   true,
	"active":  true,
	"visited": true,
	"link":    true,
}

func compileSelector(tokens []css.Token) (*Selector, error) {
	sel := &Selector{}
	var (
		part       SelectorPart
		pendingWS  bool
		pendingCmb *Combinator
	)
	invalid := func(format string, args ...any) (*Selector, error) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSelector, fmt.Sprintf(format, args...))
	}
	// boundary closes the current compound when a combinator separates it
	// from the next simple selector.
	boundary := func() bool {
		if part.empty() {
			return pendingCmb == nil
		}
		if pendingCmb == nil && !pendingWS {
			return true
		}
		cmb := DescendantCombinator
		if pendingCmb != nil {
			cmb = *pendingCmb
		}
		sel.Parts = append(sel.Parts, part)
		sel.Combinators = append(sel.Combinators, cmb)
		part, pendingWS, pendingCmb = SelectorPart{}, false, nil
		return true
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		data := string(t.Data)
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			pendingWS = !part.empty()
		case css.DelimToken:
			switch data {
			case ">", "+", "~":
				if part.empty() || pendingCmb != nil {
					return invalid("dangling combinator %q", data)
				}
				c := map[string]Combinator{">": ChildCombinator, "+": AdjacentSiblingCombinator, "~": GeneralSiblingCombinator}[data]
				pendingCmb = &c
			case "*":
				if !boundary() || !part.empty() {
					return invalid("misplaced universal selector")
				}
				part.Element = "*"
			case ".":
				if i+1 >= len(tokens) || tokens[i+1].TokenType != css.IdentToken {
					return invalid("expected class name after '.'")
				}
				boundary()
				i++
				part.Classes = append(part.Classes, string(tokens[i].Data))
			default:
				return invalid("unexpected %q", data)
			}
		case css.IdentToken:
			if !boundary() || !part.empty() {
				return invalid("misplaced type selector %q", data)
			}
			part.Element = strings.ToLower(data)
		case css.HashToken:
			boundary()
			part.ID = data[1:]
		case css.ColonToken:
			if i+1 >= len(tokens) || tokens[i+1].TokenType != css.IdentToken {
				return invalid("unsupported pseudo selector")
			}
			i++
			name := strings.ToLower(string(tokens[i].Data))
			if !supportedPseudoClasses[name] {
				return invalid("unsupported pseudo-class :%s", name)
			}
			boundary()
			part.PseudoClasses = append(part.PseudoClasses, name)
		case css.LeftBracketToken:
			j := i + 1
			for j < len(tokens) && tokens[j].TokenType != css.RightBracketToken {
				j++
			}
			if j == len(tokens) {
				return invalid("unterminated attribute selector")
			}
			attr, err := compileAttribute(tokens[i+1 : j])
			if err != nil {
				return nil, err
			}
			boundary()
			part.Attributes = append(part.Attributes, attr)
			i = j
		default:
			return invalid("unexpected token %q", data)
		}
	}
	if part.empty() || pendingCmb != nil {
		return invalid("empty selector")
	}
	sel.Parts = append(sel.Parts, part)
	sel.computeSpecificity()
	return sel, nil
}

func compileAttribute(tokens []css.Token) (AttributeSelector, error) {
	var sig []css.Token
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			sig = append(sig, t)
		}
	}
	if len(sig) == 0 || sig[0].TokenType != css.IdentToken {
		return AttributeSelector{}, fmt.Errorf("%w: attribute selector needs a name", ErrInvalidSelector)
	}
	attr := AttributeSelector{Name: strings.ToLower(string(sig[0].Data))}
	if len(sig) == 1 {
		return attr, nil
	}
	if len(sig) != 3 {
		return AttributeSelector{}, fmt.Errorf("%w: malformed attribute selector", ErrInvalidSelector)
	}
	switch op := sig[1]; {
	case op.TokenType == css.DelimToken && string(op.Data) == "=":
		attr.Operator = "="
	case op.TokenType == css.IncludeMatchToken,
		op.TokenType == css.DashMatchToken,
		op.TokenType == css.PrefixMatchToken,
		op.TokenType == css.SuffixMatchToken,
		op.TokenType == css.SubstringMatchToken:
		attr.Operator = string(op.Data)
	default:
		return AttributeSelector{}, fmt.Errorf("%w: unknown attribute operator %q", ErrInvalidSelector, op.Data)
	}
	switch v := sig[2]; v.TokenType {
	case css.IdentToken:
		attr.Value = string(v.Data)
	case css.StringToken:
		attr.Value = unquote(string(v.Data))
	default:
		return AttributeSelector{}, fmt.Errorf("%w: bad attribute value %q", ErrInvalidSelector, v.Data)
	}
	return attr, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
