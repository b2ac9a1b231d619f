package html

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parser converts an HTML5 parse tree into the engine's DOM, collecting
// stylesheets and scripts on the way.
type Parser struct {
	doc    *Document
	styles int
}

func NewParser() *Parser {
	return &Parser{doc: &Document{}}
}

func (p *Parser) Parse(r io.Reader) (*Document, error) {
	tree, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("html parse: %w", err)
	}
	var root *xhtml.Node
	for c := tree.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && c.DataAtom == atom.Html {
			root = c
			break
		}
	}
	if root == nil {
		// the HTML5 algorithm always synthesizes <html>
		return nil, fmt.Errorf("html parse: document has no root element")
	}
	p.doc.Root = p.convert(root)
	return p.doc, nil
}

func (p *Parser) convert(src *xhtml.Node) *Node {
	node := NewElement(src.Data, nil)
	if len(src.Attr) > 0 {
		node.Attributes = make(map[string]string, len(src.Attr))
		for _, a := range src.Attr {
			node.Attributes[a.Key] = a.Val
		}
	}

	switch src.DataAtom {
	case atom.Style:
		p.styles++
		p.doc.Stylesheets = append(p.doc.Stylesheets, Stylesheet{
			Name: fmt.Sprintf("<style>#%d", p.styles),
			Text: rawText(src),
		})
	case atom.Script:
		if text := rawText(src); strings.TrimSpace(text) != "" {
			p.doc.Scripts = append(p.doc.Scripts, text)
		}
	case atom.Link:
		if strings.Contains(node.Attributes["rel"], "stylesheet") {
			href := strings.TrimSpace(node.Attributes["href"])
			if href == "" {
				break
			}
			p.styles++
			sheet := Stylesheet{Name: fmt.Sprintf("<link>#%d", p.styles), Linked: true}
			if css, ok := loadDataStylesheet(href); ok {
				sheet.Text = css
			} else {
				sheet.Href = href
			}
			p.doc.Stylesheets = append(p.doc.Stylesheets, sheet)
		}
	}

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.ElementNode:
			node.AddChild(p.convert(c))
		case xhtml.TextNode:
			node.AppendText(c.Data)
		}
	}
	return node
}

func rawText(n *xhtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// loadDataStylesheet decodes a data:text/css href.
func loadDataStylesheet(href string) (string, bool) {
	if !strings.HasPrefix(href, "data:text/css,") {
		return "", false
	}
	encoded := href[len("data:text/css,"):]
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return encoded, true
	}
	return decoded, true
}

func Parse(html string) (*Document, error) {
	return NewParser().Parse(strings.NewReader(html))
}
