package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wren/pkg/style"
	"wren/pkg/values"
)

func parseSheet(t *testing.T, text string) *Stylesheet {
	t.Helper()
	return NewParser(nil).ParseString("test.css", text)
}

func fontSize(px float32) style.SpecifiedValue {
	return style.FontSizeValue{Length: values.LengthPx(px)}
}

func TestDeclarationBlockKeepsLatest(t *testing.T) {
	var block DeclarationBlock
	for _, v := range []float32{12, 16, 24} {
		block.Add(style.Declaration{Property: style.PropFontSize, Value: fontSize(v)})
	}
	require.Equal(t, 1, block.Len())
	d, ok := block.Get(style.PropFontSize)
	require.True(t, ok)
	assert.Equal(t, fontSize(24), d.Value)
}

func TestDeclarationBlockImportantSurvives(t *testing.T) {
	var block DeclarationBlock
	block.Add(style.Declaration{Property: style.PropFontSize, Value: fontSize(12), Importance: style.Important})
	block.Add(style.Declaration{Property: style.PropFontSize, Value: fontSize(16)})
	d, _ := block.Get(style.PropFontSize)
	assert.Equal(t, fontSize(12), d.Value)

	block.Add(style.Declaration{Property: style.PropFontSize, Value: fontSize(20), Importance: style.Important})
	d, _ = block.Get(style.PropFontSize)
	assert.Equal(t, fontSize(20), d.Value)
}

func TestParseDuplicateDeclarations(t *testing.T) {
	ss := parseSheet(t, `.a { font-size: 12px; font-size: 16px; font-size: 24px; }`)
	require.Len(t, ss.Rules, 1)
	require.Equal(t, 1, ss.Rules[0].Block.Len())
	d, _ := ss.Rules[0].Block.Get(style.PropFontSize)
	assert.Equal(t, fontSize(24), d.Value)
}

func TestAddRuleCollapsesIdenticalSelectors(t *testing.T) {
	ss := parseSheet(t, `
		.a { font-size: 12px; }
		p { width: 1px; }
		.a { font-size: 16px; }
	`)
	require.Len(t, ss.Rules, 2, "the first .a rule is emptied and deleted")
	assert.Equal(t, "p", ss.Rules[0].Selectors.String())
	d, ok := ss.Rules[1].Block.Get(style.PropFontSize)
	require.True(t, ok)
	assert.Equal(t, fontSize(16), d.Value)
}

func TestAddRuleKeepsOtherProperties(t *testing.T) {
	ss := parseSheet(t, `
		.a { font-size: 12px; width: 5px; }
		.a { font-size: 16px; }
	`)
	require.Len(t, ss.Rules, 2)
	_, ok := ss.Rules[0].Block.Get(style.PropFontSize)
	assert.False(t, ok, "overridden declaration is removed from the earlier rule")
	_, ok = ss.Rules[0].Block.Get(style.PropWidth)
	assert.True(t, ok)
}

func TestAddRuleImportantBeatsLaterNormal(t *testing.T) {
	ss := parseSheet(t, `
		.a { font-size: 12px !important; }
		.a { font-size: 16px; }
	`)
	require.Len(t, ss.Rules, 1)
	d, _ := ss.Rules[0].Block.Get(style.PropFontSize)
	assert.Equal(t, fontSize(12), d.Value)
	assert.Equal(t, style.Important, d.Importance)
}

func TestParseShorthandInRule(t *testing.T) {
	ss := parseSheet(t, `div { margin: 0 auto; border: 2px solid red }`)
	require.Len(t, ss.Rules, 1)
	assert.Equal(t, 16, ss.Rules[0].Block.Len())
	d, _ := ss.Rules[0].Block.Get(style.PropMarginLeft)
	assert.Equal(t, values.Auto(), d.Value)
}

func TestErrorRecovery(t *testing.T) {
	tests := []struct {
		name          string
		css           string
		expectedRules int
		expectedErr   error
	}{
		{
			name:          "unknown property dropped",
			css:           `p { colour: red; width: 10px; }`,
			expectedRules: 1,
			expectedErr:   style.ErrUnknownProperty,
		},
		{
			name:          "invalid value dropped",
			css:           `p { width: red; } h1 { width: 1px; }`,
			expectedRules: 1,
			expectedErr:   style.ErrInvalidValue,
		},
		{
			name:          "unsupported selector skips the rule",
			css:           `p:nth-child(2) { width: 1px; } h1 { width: 2px; }`,
			expectedRules: 1,
			expectedErr:   ErrInvalidSelector,
		},
		{
			name:          "unknown at-rule skipped",
			css:           `@three-dee { @background-lighting { azimuth: 30deg; } h1 { color: red; } } .nose { width: 0; }`,
			expectedRules: 1,
		},
		{
			name:          "media block skipped",
			css:           `@media screen { p { color: red; } } h1 { width: 1px; }`,
			expectedRules: 1,
		},
		{
			name:          "comments ignored",
			css:           `/* c1 */ body { color: red; } /* c2 */ p { /* inner */ color: blue; }`,
			expectedRules: 2,
		},
		{
			name:          "unclosed block closed at end of input",
			css:           `p { color: red; } h1 { width: 20px`,
			expectedRules: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := parseSheet(t, tt.css)
			assert.Len(t, ss.Rules, tt.expectedRules, ss.String())
			if tt.expectedErr != nil {
				assert.ErrorIs(t, ss.Err(), tt.expectedErr)
			}
		})
	}
}

func TestParseInline(t *testing.T) {
	block, err := NewParser(nil).ParseInline(`width: auto; color: blue !important; bogus: 1`)
	assert.ErrorIs(t, err, style.ErrUnknownProperty)
	require.Equal(t, 2, block.Len())
	d, _ := block.Get(style.PropColor)
	assert.Equal(t, style.Important, d.Importance)
}

func TestRuleLocation(t *testing.T) {
	ss := parseSheet(t, "\n\np { width: 1px }")
	require.Len(t, ss.Rules, 1)
	assert.Equal(t, "test.css", ss.Rules[0].Location.Sheet)
	assert.Equal(t, 3, ss.Rules[0].Location.Line)
}

func TestUserAgentStylesheetParsesCleanly(t *testing.T) {
	ua := NewParser(nil).UserAgentStylesheet()
	assert.NoError(t, ua.Err())
	assert.NotEmpty(t, ua.Rules)
}
