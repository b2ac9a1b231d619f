package layout

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"wren/pkg/html"
	"wren/pkg/values"
)

// Dump renders the box tree as text, one box per line, indented two spaces
// per level:
//
//	HTML BlockContainer LayoutBox at (0, 0) size 800x40
//	  BODY BlockContainer LayoutBox at (8, 8) size 784x24
//
// Positions and sizes are those of the border box.
func Dump(b Box) string {
	var sb strings.Builder
	_ = DumpTo(&sb, b)
	return sb.String()
}

// DumpTo writes the dump of b to w.
func DumpTo(w io.Writer, b Box) error {
	return dump(w, b, 0)
}

func dump(w io.Writer, b Box, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	if run, ok := b.(*TextRun); ok {
		_, err = fmt.Fprintf(w, "%s#text TextRun %q\n", indent, truncateString(strings.Join(strings.Fields(run.Text), " "), 40))
	} else {
		r := b.Dimensions().BorderBox()
		_, err = fmt.Fprintf(w, "%s%s %s LayoutBox at (%s, %s) size %sx%s\n",
			indent, strings.ToUpper(b.Node().TagName), b.Kind(),
			formatPx(r.X), formatPx(r.Y), formatPx(r.Width), formatPx(r.Height))
	}
	if err != nil {
		return err
	}
	for _, c := range b.Children() {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func formatPx(v values.PixelLength) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// nodeName returns a debug string for a node.
func nodeName(node *html.Node) string {
	if node == nil {
		return "<nil>"
	}
	if node.Type == html.TextNode {
		return fmt.Sprintf("TEXT(%q)", truncateString(node.Text, 20))
	}
	if id := node.ID(); id != "" {
		return "<" + node.TagName + " id=" + id + ">"
	}
	return "<" + node.TagName + ">"
}

// truncateString truncates a string to maxLen characters.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
