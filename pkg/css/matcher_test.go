package css

import (
	"testing"

	"wren/pkg/html"
)

const matcherDoc = `
<div id="main" class="box wide">
  <p class="note">one</p>
  <p lang="en-US" data-kind="prefix-middle-suffix">two</p>
  <span>three</span>
</div>`

func mustParseDoc(t *testing.T, src string) *html.Document {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustSelector(t *testing.T, text string) *SelectorList {
	t.Helper()
	l, err := ParseSelectorList(text)
	if err != nil {
		t.Fatalf("ParseSelectorList(%q): %v", text, err)
	}
	return l
}

func TestMatchesSelector(t *testing.T) {
	doc := mustParseDoc(t, matcherDoc)
	count := func(sel string) int {
		return len(QuerySelectorAll(doc.Root, mustSelector(t, sel)))
	}

	tests := []struct {
		selector string
		want     int
	}{
		{"p", 2},
		{"*", 7},
		{"#main", 1},
		{".box.wide", 1},
		{".box.narrow", 0},
		{"div > p", 2},
		{"body > p", 0},
		{"body p", 2},
		{"p + p", 1},
		{"p ~ span", 1},
		{"span ~ p", 0},
		{"p:first-child", 1},
		{"span:last-child", 1},
		{":root", 1},
		{"html:root > body", 1},
		{"[lang]", 1},
		{"[lang|=en]", 1},
		{"[lang=en]", 0},
		{`[data-kind^="prefix"]`, 1},
		{`[data-kind$="suffix"]`, 1},
		{`[data-kind*="middle"]`, 1},
		{"[class~=wide]", 1},
		{"p.note, span", 2},
		{"a:hover", 0},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			if got := count(tt.selector); got != tt.want {
				t.Errorf("%q matched %d elements, want %d", tt.selector, got, tt.want)
			}
		})
	}
}

func TestSpecificity(t *testing.T) {
	tests := []struct {
		selector string
		want     uint32
	}{
		{"*", 0},
		{"p", 1},
		{"div p", 2},
		{".a", 1 << 10},
		{"p.a[href]:first-child", 3<<10 | 1},
		{"#x", 1 << 20},
		{"#x .a > p", 1<<20 | 1<<10 | 1},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			l := mustSelector(t, tt.selector)
			if got := l.Specificity(); got != tt.want {
				t.Errorf("specificity of %q = %d, want %d", tt.selector, got, tt.want)
			}
		})
	}
}

func TestMostSpecificMatch(t *testing.T) {
	doc := mustParseDoc(t, matcherDoc)
	note := QuerySelectorAll(doc.Root, mustSelector(t, ".note"))[0]

	l := mustSelector(t, "p, div .note, #nothing")
	best := l.MostSpecificMatch(note)
	if best == nil || best.String() != "div .note" {
		t.Fatalf("expected div .note to be the most specific match, got %v", best)
	}
	if l.MostSpecificMatch(doc.Root) != nil {
		t.Error("html should not match")
	}
}

func TestInvalidSelectors(t *testing.T) {
	for _, sel := range []string{"", "> p", "p >", "p::before", "p:nth-child(2)", "a:unknown", "[=x]", "p..a", "p,"} {
		if _, err := ParseSelectorList(sel); err == nil {
			t.Errorf("expected %q to be rejected", sel)
		}
	}
}
