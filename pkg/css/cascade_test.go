package css

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"wren/pkg/html"
	"wren/pkg/style"
	"wren/pkg/values"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type cascadeCase struct {
	doc      string
	ua, user string
	author   string
	embedded string
	order    []style.Origin
}

// resolve runs the cascade and the resolver and returns the element with
// id "t".
func (c cascadeCase) resolve(t *testing.T) *html.Node {
	t.Helper()
	doc := mustParseDoc(t, c.doc)
	p := NewParser(nil)
	sheet := func(name, text string) []*Stylesheet {
		if text == "" {
			return nil
		}
		return []*Stylesheet{p.ParseString(name, text)}
	}
	cascade, err := NewCascade(nil, Options{OriginOrder: c.order})
	require.NoError(t, err)
	cascade.ApplyStyles(doc.Root, Origins{
		UserAgent: sheet("ua", c.ua),
		User:      sheet("user", c.user),
		Author:    sheet("author", c.author),
		Embedded:  sheet("embedded", c.embedded),
	})
	require.NoError(t, cascade.ResolveTree(context.Background(), doc.Root))

	target := QuerySelectorAll(doc.Root, mustSelector(t, "#t"))
	require.Len(t, target, 1)
	return target[0]
}

func widthOf(n *html.Node) float32 {
	return n.ComputedValues().Width.Length.Px()
}

func TestCascadeOrdering(t *testing.T) {
	tests := []struct {
		name string
		c    cascadeCase
		want float32
	}{
		{
			name: "author beats user agent",
			c:    cascadeCase{doc: `<p id="t"></p>`, ua: `p { width: 1px }`, author: `p { width: 2px }`},
			want: 2,
		},
		{
			name: "user beats user agent",
			c:    cascadeCase{doc: `<p id="t"></p>`, ua: `p { width: 1px }`, user: `p { width: 3px }`},
			want: 3,
		},
		{
			name: "author beats user",
			c:    cascadeCase{doc: `<p id="t"></p>`, user: `#t { width: 3px }`, author: `p { width: 2px }`},
			want: 2,
		},
		{
			name: "author and embedded compare by specificity",
			c:    cascadeCase{doc: `<p id="t"></p>`, author: `#t { width: 2px }`, embedded: `p { width: 4px }`},
			want: 2,
		},
		{
			name: "embedded walked after author wins ties",
			c:    cascadeCase{doc: `<p id="t"></p>`, author: `p { width: 2px }`, embedded: `p { width: 4px }`},
			want: 4,
		},
		{
			name: "injected order walks author after embedded",
			c: cascadeCase{
				doc:      `<p id="t"></p>`,
				author:   `p { width: 2px }`,
				embedded: `p { width: 4px }`,
				order:    []style.Origin{style.OriginUserAgent, style.OriginUser, style.OriginEmbedded, style.OriginAuthor},
			},
			want: 2,
		},
		{
			name: "important user agent beats normal author",
			c:    cascadeCase{doc: `<p id="t"></p>`, ua: `p { width: 1px !important }`, author: `#t { width: 2px }`},
			want: 1,
		},
		{
			name: "important origins invert",
			c:    cascadeCase{doc: `<p id="t"></p>`, user: `p { width: 3px !important }`, author: `#t { width: 2px !important }`},
			want: 3,
		},
		{
			name: "important wins within an origin regardless of specificity",
			c:    cascadeCase{doc: `<p id="t"></p>`, author: `p { width: 1px !important } #t { width: 2px }`},
			want: 1,
		},
		{
			name: "specificity beats source order",
			c:    cascadeCase{doc: `<p id="t" class="a"></p>`, author: `.a { width: 5px } p { width: 2px }`},
			want: 5,
		},
		{
			name: "source order breaks ties",
			c:    cascadeCase{doc: `<p id="t" class="a b"></p>`, author: `.a { width: 5px } .b { width: 6px }`},
			want: 6,
		},
		{
			name: "inline beats any selector",
			c:    cascadeCase{doc: `<p id="t" style="width: 7px"></p>`, author: `#t#t { width: 2px }`},
			want: 7,
		},
		{
			name: "important author beats inline",
			c:    cascadeCase{doc: `<p id="t" style="width: 7px"></p>`, author: `p { width: 2px !important }`},
			want: 2,
		},
		{
			name: "inline beats embedded",
			c:    cascadeCase{doc: `<p id="t" style="width: 7px"></p>`, embedded: `#t { width: 4px }`},
			want: 7,
		},
		{
			name: "important inline beats important author",
			c:    cascadeCase{doc: `<p id="t" style="width: 7px !important"></p>`, author: `p { width: 2px !important }`},
			want: 7,
		},
		{
			name: "important inline beats important embedded",
			c:    cascadeCase{doc: `<p id="t" style="width: 7px !important"></p>`, embedded: `p { width: 4px !important }`},
			want: 7,
		},
		{
			name: "important user beats important inline",
			c:    cascadeCase{doc: `<p id="t" style="width: 7px !important"></p>`, user: `p { width: 3px !important }`},
			want: 3,
		},
		{
			name: "important inline beats normal author",
			c:    cascadeCase{doc: `<p id="t" style="width: 7px !important"></p>`, author: `#t { width: 2px }`},
			want: 7,
		},
		{
			name: "injected order ranks user agent above author",
			c: cascadeCase{
				doc:    `<p id="t"></p>`,
				ua:     `p { width: 1px }`,
				author: `#t { width: 2px }`,
				order:  []style.Origin{style.OriginAuthor, style.OriginUser, style.OriginUserAgent, style.OriginEmbedded},
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, widthOf(tt.c.resolve(t)))
		})
	}
}

func TestApplyStylesAttachesContext(t *testing.T) {
	doc := mustParseDoc(t, `<p id="t" class="a" style="color: red"></p>`)
	p := NewParser(nil)
	cascade, err := NewCascade(nil, Options{})
	require.NoError(t, err)
	cascade.ApplyStyles(doc.Root, Origins{
		Author: []*Stylesheet{p.ParseString("author.css", "\n.a { width: 1px; height: 2px }")},
	})

	target := QuerySelectorAll(doc.Root, mustSelector(t, "#t"))[0]
	require.Len(t, target.Declarations, 3)

	first := target.Declarations[0]
	assert.Equal(t, style.OriginAuthor, first.Origin)
	assert.Equal(t, uint32(1<<10), first.Specificity)
	assert.Equal(t, "author.css", first.Location.Sheet)
	assert.Equal(t, 2, first.Location.Line)
	assert.Equal(t, 0, first.Order)

	inline := target.Declarations[2]
	assert.Equal(t, style.OriginInline, inline.Origin)
	assert.Equal(t, InlineSpecificity, inline.Specificity)
	assert.Equal(t, style.PropColor, inline.Property)
}

func TestNewCascadeRejectsBadOrders(t *testing.T) {
	for _, order := range [][]style.Origin{
		{style.OriginAuthor},
		{style.OriginAuthor, style.OriginAuthor, style.OriginUser, style.OriginEmbedded},
		{style.OriginInline, style.OriginAuthor, style.OriginUser, style.OriginEmbedded},
	} {
		_, err := NewCascade(nil, Options{OriginOrder: order})
		assert.Error(t, err, "%v", order)
	}
}

func TestDefaultComputedValues(t *testing.T) {
	doc := mustParseDoc(t, `<p></p>`)
	cascade, err := NewCascade(nil, Options{})
	require.NoError(t, err)
	cascade.ApplyStyles(doc.Root, Origins{})
	require.NoError(t, cascade.ResolveTree(context.Background(), doc.Root))

	want := style.Default()
	if diff := cmp.Diff(want, doc.Root.ComputedValues()); diff != "" {
		t.Errorf("root computed values mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, values.DisplayInline, want.Display)
	assert.Equal(t, values.Black, want.Color)
	assert.Equal(t, values.BorderStyleNone, want.BorderTopStyle)
}

func TestResolveInheritsDownTheTree(t *testing.T) {
	n := cascadeCase{
		doc:    `<div style="color: #00f; font-size: 20px"><p><span id="t"></span></p></div>`,
		author: `span { border: 1px solid; padding: 1em }`,
	}.resolve(t)

	cv := n.ComputedValues()
	blue := values.RGBA{R: 0, G: 0, B: 255, A: 255}
	assert.Equal(t, blue, cv.Color)
	assert.Equal(t, blue, cv.BorderTopColor)
	assert.Equal(t, values.PixelLength(20), cv.PaddingLeft.Length)
}

func TestResolveTreeParallelMatchesSerial(t *testing.T) {
	src := `<div class="a"><p>x</p><p class="b">y</p><section><div class="b"><span>z</span></div></section></div><div class="a"></div>`
	author := `.a { width: 50%; color: red } .b { margin: 1em auto } section { font-size: 2em }`

	resolve := func(parallel bool) *html.Document {
		doc := mustParseDoc(t, src)
		cascade, err := NewCascade(nil, Options{Parallel: parallel, Workers: 2})
		require.NoError(t, err)
		cascade.ApplyStyles(doc.Root, Origins{
			UserAgent: []*Stylesheet{NewParser(nil).UserAgentStylesheet()},
			Author:    []*Stylesheet{NewParser(nil).ParseString("a.css", author)},
		})
		require.NoError(t, cascade.ResolveTree(context.Background(), doc.Root))
		return doc
	}

	var serial, parallel []*style.ComputedValues
	collect := func(doc *html.Document, into *[]*style.ComputedValues) {
		doc.Root.Walk(func(n *html.Node) bool {
			if n.IsElement() {
				*into = append(*into, n.ComputedValues())
			}
			return true
		})
	}
	collect(resolve(false), &serial)
	collect(resolve(true), &parallel)
	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Errorf("parallel resolution differs (-serial +parallel):\n%s", diff)
	}
}

func TestResolveTreeHonoursCancellation(t *testing.T) {
	doc := mustParseDoc(t, `<div><p></p></div>`)
	cascade, err := NewCascade(nil, Options{})
	require.NoError(t, err)
	cascade.ApplyStyles(doc.Root, Origins{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cascade.ResolveTree(ctx, doc.Root), context.Canceled)
}

func TestResolveTreeParallelHonoursCancellation(t *testing.T) {
	doc := mustParseDoc(t, `<div><p></p><p></p></div><div><p></p></div><section><div></div></section>`)
	cascade, err := NewCascade(nil, Options{Parallel: true, Workers: 1})
	require.NoError(t, err)
	cascade.ApplyStyles(doc.Root, Origins{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cascade.ResolveTree(ctx, doc.Root), context.Canceled)
}

func TestComputeValuesRequiresParent(t *testing.T) {
	doc := mustParseDoc(t, `<p></p>`)
	cascade, err := NewCascade(nil, Options{})
	require.NoError(t, err)
	body := doc.Root.ElementChildren()[1]
	assert.Panics(t, func() { cascade.ComputeValues(body, 0) })
}
