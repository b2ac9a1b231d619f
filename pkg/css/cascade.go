package css

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"wren/pkg/html"
	"wren/pkg/style"
)

// Origins groups stylesheets by cascade origin.
type Origins struct {
	UserAgent []*Stylesheet
	User      []*Stylesheet
	Author    []*Stylesheet
	Embedded  []*Stylesheet
}

func (o Origins) sheets(origin style.Origin) []*Stylesheet {
	switch origin {
	case style.OriginUserAgent:
		return o.UserAgent
	case style.OriginUser:
		return o.User
	case style.OriginAuthor:
		return o.Author
	case style.OriginEmbedded:
		return o.Embedded
	}
	return nil
}

// DefaultOriginOrder is the order origins are walked in, lowest normal
// priority first.
var DefaultOriginOrder = []style.Origin{
	style.OriginUserAgent,
	style.OriginUser,
	style.OriginAuthor,
	style.OriginEmbedded,
}

// Options configures a Cascade.
type Options struct {
	// OriginOrder is a permutation of the four sheet origins. It is the
	// walk order and the normal-declaration priority. Author and embedded
	// sheets share one priority placed where the first of them is listed,
	// so between them only the walk order counts. Inline style shares it
	// too and wins through its specificity.
	OriginOrder []style.Origin
	// Parallel computes sibling subtrees concurrently.
	Parallel bool
	// Workers bounds the goroutines of a parallel pass; 0 means GOMAXPROCS.
	Workers int
}

// Cascade collects, orders and resolves declarations for a document.
type Cascade struct {
	log    *zap.Logger
	parser *Parser
	opts   Options
	rank   [style.OriginInline + 1]int
	ranks  int
}

// isAuthorOrigin reports whether declarations of o come from the document.
func isAuthorOrigin(o style.Origin) bool {
	return o == style.OriginAuthor || o == style.OriginEmbedded || o == style.OriginInline
}

func NewCascade(log *zap.Logger, opts Options) (*Cascade, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.OriginOrder == nil {
		opts.OriginOrder = DefaultOriginOrder
	}
	c := &Cascade{log: log.Named("cascade"), parser: NewParser(log), opts: opts}

	if len(opts.OriginOrder) != len(DefaultOriginOrder) {
		return nil, fmt.Errorf("origin order must list %d origins, got %d", len(DefaultOriginOrder), len(opts.OriginOrder))
	}
	seen := map[style.Origin]bool{}
	authorRank := -1
	for _, o := range opts.OriginOrder {
		if o == style.OriginInline || o > style.OriginInline {
			return nil, fmt.Errorf("origin order: %s cannot be reordered", o)
		}
		if seen[o] {
			return nil, fmt.Errorf("origin order: %s listed twice", o)
		}
		seen[o] = true
		if isAuthorOrigin(o) {
			if authorRank < 0 {
				authorRank = c.ranks
				c.ranks++
			}
			c.rank[o] = authorRank
			continue
		}
		c.rank[o] = c.ranks
		c.ranks++
	}
	c.rank[style.OriginInline] = authorRank
	return c, nil
}

// ApplyStyles walks every element in document order and appends a
// contextual declaration for each declaration of each matching rule, origin
// by origin in the configured order, then the element's style attribute.
func (c *Cascade) ApplyStyles(root *html.Node, sheets Origins) {
	start := time.Now()
	var elements, decls int
	root.Walk(func(n *html.Node) bool {
		if !n.IsElement() {
			return false
		}
		elements++
		for _, origin := range c.opts.OriginOrder {
			for _, sheet := range sheets.sheets(origin) {
				for _, m := range FindMatchingRules(n, sheet) {
					for _, d := range m.Rule.Block.Declarations {
						appendDeclaration(n, d, origin, m.Specificity, m.Rule.Location)
					}
				}
			}
		}
		if block := c.InlineStyleRules(n); block != nil {
			loc := style.SourceLocation{Sheet: "<" + n.TagName + " style>"}
			for _, d := range block.Declarations {
				appendDeclaration(n, d, style.OriginInline, InlineSpecificity, loc)
			}
		}
		decls += len(n.Declarations)
		return true
	})
	c.log.Debug("Applied styles",
		zap.Int("elements", elements),
		zap.Int("declarations", decls),
		zap.Duration("elapsed", time.Since(start)))
}

func appendDeclaration(n *html.Node, d style.Declaration, origin style.Origin, specificity uint32, loc style.SourceLocation) {
	n.Declarations = append(n.Declarations, style.ContextualDeclaration{
		Declaration: d,
		Origin:      origin,
		Specificity: specificity,
		Location:    loc,
		Order:       len(n.Declarations),
	})
}

// InlineStyleRules parses the element's style attribute. Invalid
// declarations are logged and dropped; nil means no attribute.
func (c *Cascade) InlineStyleRules(n *html.Node) *DeclarationBlock {
	text, ok := n.GetAttribute("style")
	if !ok {
		return nil
	}
	block, err := c.parser.ParseInline(text)
	if err != nil {
		c.log.Debug("Dropping inline declarations", zap.String("element", n.TagName), zap.Error(err))
	}
	return block
}

// precedence ranks a declaration's origin and importance, higher wins.
// Normal declarations rank by origin order; important ones in reverse.
func (c *Cascade) precedence(d style.ContextualDeclaration) int {
	r := c.rank[d.Origin]
	if d.Importance == style.Important {
		return 2*c.ranks - 1 - r
	}
	return r
}

// Less orders two declarations from losing to winning: origin and
// importance, then specificity, then source order.
func (c *Cascade) Less(a, b style.ContextualDeclaration) bool {
	if pa, pb := c.precedence(a), c.precedence(b); pa != pb {
		return pa < pb
	}
	if a.Specificity != b.Specificity {
		return a.Specificity < b.Specificity
	}
	return a.Order < b.Order
}

// SortedDeclarations returns the node's declarations ordered from losing to
// winning. The node's own list is left untouched.
func (c *Cascade) SortedDeclarations(n *html.Node) []style.ContextualDeclaration {
	sorted := append([]style.ContextualDeclaration(nil), n.Declarations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.Less(sorted[i], sorted[j])
	})
	return sorted
}

// Winners returns the winning declaration for every property that has one.
func (c *Cascade) Winners(n *html.Node) *style.Cascaded {
	var cascaded style.Cascaded
	for _, d := range c.SortedDeclarations(n) {
		cascaded.Set(d.Declaration)
	}
	return &cascaded
}
