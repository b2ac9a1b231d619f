package style

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"wren/pkg/values"
)

// component is one significant token of a value, with the argument tokens
// attached when it opens a function.
type component struct {
	tok  css.Token
	args []css.Token
}

func (c component) ident() string {
	if c.tok.TokenType != css.IdentToken {
		return ""
	}
	return strings.ToLower(string(c.tok.Data))
}

func (c component) String() string {
	if c.tok.TokenType != css.FunctionToken {
		return string(c.tok.Data)
	}
	var b strings.Builder
	b.Write(c.tok.Data)
	for _, a := range c.args {
		b.Write(a.Data)
	}
	b.WriteByte(')')
	return b.String()
}

// components groups tokens into components, dropping whitespace and
// comments. An unterminated function swallows the rest of the input.
func components(tokens []css.Token) []component {
	var out []component
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.FunctionToken:
			c := component{tok: t}
			depth := 1
			for i++; i < len(tokens); i++ {
				a := tokens[i]
				if a.TokenType == css.FunctionToken || a.TokenType == css.LeftParenthesisToken {
					depth++
				} else if a.TokenType == css.RightParenthesisToken {
					depth--
					if depth == 0 {
						break
					}
				}
				if a.TokenType != css.WhitespaceToken {
					c.args = append(c.args, a)
				}
			}
			out = append(out, c)
		default:
			out = append(out, component{tok: t})
		}
	}
	return out
}

// splitImportance strips a trailing "! important".
func splitImportance(cs []component) ([]component, Importance) {
	n := len(cs)
	if n >= 2 && cs[n-2].tok.TokenType == css.DelimToken && string(cs[n-2].tok.Data) == "!" &&
		cs[n-1].ident() == "important" {
		return cs[:n-2], Important
	}
	return cs, Normal
}

// ParseDeclaration parses the value tokens of one declaration into longhand
// declarations. Shorthands expand to every longhand they cover. A trailing
// !important in the tokens is honoured.
func ParseDeclaration(name string, tokens []css.Token) ([]Declaration, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	longhands := Longhands(name)
	if longhands == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}

	cs, importance := splitImportance(components(tokens))
	if len(cs) == 0 {
		return nil, fmt.Errorf("%w: %s: empty value", ErrInvalidValue, name)
	}

	if len(cs) == 1 {
		switch kw := CSSWideKeyword(cs[0].ident()); kw {
		case KeywordInherit, KeywordInitial, KeywordUnset:
			decls := make([]Declaration, 0, len(longhands))
			for _, p := range longhands {
				decls = append(decls, Declaration{Property: p, Value: kw, Importance: importance})
			}
			return decls, nil
		}
	}

	var (
		vals []SpecifiedValue
		ok   bool
	)
	if len(longhands) == 1 && !IsShorthand(name) {
		var v SpecifiedValue
		if len(cs) == 1 {
			v, ok = parseLonghand(longhands[0], cs[0])
		}
		vals = []SpecifiedValue{v}
	} else {
		vals, ok = parseShorthand(name, cs)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q", ErrInvalidValue, name, joinComponents(cs))
	}

	decls := make([]Declaration, len(longhands))
	for i, p := range longhands {
		decls[i] = Declaration{Property: p, Value: vals[i], Importance: importance}
	}
	return decls, nil
}

// ParseDeclarationString tokenizes value and parses it as name's value.
func ParseDeclarationString(name, value string) ([]Declaration, error) {
	return ParseDeclaration(name, Tokenize(value))
}

// Tokenize runs the CSS lexer over a bare value.
func Tokenize(value string) []css.Token {
	l := css.NewLexer(parse.NewInputString(value))
	var tokens []css.Token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return tokens
		}
		tokens = append(tokens, css.Token{TokenType: tt, Data: bytes.Clone(data)})
	}
}

func joinComponents(cs []component) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func parseLonghand(p PropertyID, c component) (SpecifiedValue, bool) {
	switch p {
	case PropColor, PropBackgroundColor,
		PropBorderTopColor, PropBorderRightColor, PropBorderBottomColor, PropBorderLeftColor:
		return nilIfFalse(parseColor(c))
	case PropFontSize:
		return nilIfFalse(parseFontSize(c))
	case PropWritingMode:
		return nilIfFalse(values.ParseWritingMode(c.ident()))
	case PropDirection:
		return nilIfFalse(values.ParseDirection(c.ident()))
	case PropDisplay:
		return nilIfFalse(values.ParseDisplay(c.ident()))
	case PropBorderTopStyle, PropBorderRightStyle, PropBorderBottomStyle, PropBorderLeftStyle:
		return nilIfFalse(values.ParseBorderStyle(c.ident()))
	case PropBorderTopWidth, PropBorderRightWidth, PropBorderBottomWidth, PropBorderLeftWidth:
		return nilIfFalse(parseBorderWidth(c))
	case PropMarginTop, PropMarginRight, PropMarginBottom, PropMarginLeft:
		return nilIfFalse(parseLengthPercentageOrAuto(c))
	case PropWidth, PropHeight:
		v, ok := parseLengthPercentageOrAuto(c)
		if ok && !v.Auto && v.IsNegative() {
			return nil, false
		}
		return v, ok
	case PropPaddingTop, PropPaddingRight, PropPaddingBottom, PropPaddingLeft:
		v, ok := parseLengthPercentage(c)
		if ok && v.IsNegative() {
			return nil, false
		}
		return v, ok
	}
	return nil, false
}

func nilIfFalse[T any](v T, ok bool) (SpecifiedValue, bool) {
	if !ok {
		return nil, false
	}
	return v, true
}

func parseShorthand(name string, cs []component) ([]SpecifiedValue, bool) {
	switch name {
	case "margin":
		return parseBoxSides(marginProps, cs)
	case "padding":
		return parseBoxSides(paddingProps, cs)
	case "border-width":
		return parseBoxSides(borderWidthProps, cs)
	case "border-style":
		return parseBoxSides(borderStyleProps, cs)
	case "border-color":
		return parseBoxSides(borderColorProps, cs)
	case "border":
		w, s, c, ok := parseBorderTriple(cs)
		if !ok {
			return nil, false
		}
		return []SpecifiedValue{w, w, w, w, s, s, s, s, c, c, c, c}, true
	case "border-top", "border-right", "border-bottom", "border-left":
		w, s, c, ok := parseBorderTriple(cs)
		if !ok {
			return nil, false
		}
		return []SpecifiedValue{w, s, c}, true
	}
	return nil, false
}

// parseBoxSides expands the one-to-four value top/right/bottom/left form.
func parseBoxSides(props [4]PropertyID, cs []component) ([]SpecifiedValue, bool) {
	if len(cs) < 1 || len(cs) > 4 {
		return nil, false
	}
	vs := make([]SpecifiedValue, len(cs))
	for i, c := range cs {
		v, ok := parseLonghand(props[i], c)
		if !ok {
			return nil, false
		}
		vs[i] = v
	}
	switch len(vs) {
	case 1:
		return []SpecifiedValue{vs[0], vs[0], vs[0], vs[0]}, true
	case 2:
		return []SpecifiedValue{vs[0], vs[1], vs[0], vs[1]}, true
	case 3:
		return []SpecifiedValue{vs[0], vs[1], vs[2], vs[1]}, true
	}
	return vs, true
}

// parseBorderTriple reads width, style and color in any order, each at most
// once. Omitted parts are reset to their initial values.
func parseBorderTriple(cs []component) (SpecifiedValue, SpecifiedValue, SpecifiedValue, bool) {
	if len(cs) < 1 || len(cs) > 3 {
		return nil, nil, nil, false
	}
	var (
		width SpecifiedValue = mediumBorderWidth
		style SpecifiedValue = values.BorderStyleNone
		color SpecifiedValue = values.CurrentColor()

		haveWidth, haveStyle, haveColor bool
	)
	for _, c := range cs {
		if w, ok := parseBorderWidth(c); ok && !haveWidth {
			width, haveWidth = w, true
			continue
		}
		if s, ok := values.ParseBorderStyle(c.ident()); ok && !haveStyle {
			style, haveStyle = s, true
			continue
		}
		if col, ok := parseColor(c); ok && !haveColor {
			color, haveColor = col, true
			continue
		}
		return nil, nil, nil, false
	}
	return width, style, color, true
}

var (
	thinBorderWidth   = values.NoCalcLength{Value: 1, Unit: values.UnitPx}
	mediumBorderWidth = values.NoCalcLength{Value: 3, Unit: values.UnitPx}
	thickBorderWidth  = values.NoCalcLength{Value: 5, Unit: values.UnitPx}
)

func parseBorderWidth(c component) (values.NoCalcLength, bool) {
	switch c.ident() {
	case "thin":
		return thinBorderWidth, true
	case "medium":
		return mediumBorderWidth, true
	case "thick":
		return thickBorderWidth, true
	}
	l, ok := parseLength(c)
	if !ok || l.Value < 0 {
		return values.NoCalcLength{}, false
	}
	return l, true
}

// splitNumber separates the numeric prefix of a number, percentage or
// dimension token from its unit.
func splitNumber(data []byte) (float32, string, bool) {
	i := 0
	if i < len(data) && (data[i] == '+' || data[i] == '-') {
		i++
	}
	for i < len(data) && (data[i] >= '0' && data[i] <= '9' || data[i] == '.') {
		i++
	}
	if i+1 < len(data) && (data[i] == 'e' || data[i] == 'E') {
		j := i + 1
		if data[j] == '+' || data[j] == '-' {
			j++
		}
		if j < len(data) && data[j] >= '0' && data[j] <= '9' {
			for j < len(data) && data[j] >= '0' && data[j] <= '9' {
				j++
			}
			i = j
		}
	}
	f, err := strconv.ParseFloat(string(data[:i]), 32)
	if err != nil {
		return 0, "", false
	}
	return float32(f), string(data[i:]), true
}

func parseLength(c component) (values.NoCalcLength, bool) {
	switch c.tok.TokenType {
	case css.NumberToken:
		// unitless zero is the only number accepted as a length
		v, _, ok := splitNumber(c.tok.Data)
		if !ok || v != 0 {
			return values.NoCalcLength{}, false
		}
		return values.NoCalcLength{Unit: values.UnitPx}, true
	case css.DimensionToken:
		v, unit, ok := splitNumber(c.tok.Data)
		if !ok {
			return values.NoCalcLength{}, false
		}
		u, ok := values.ParseUnit(unit)
		if !ok {
			return values.NoCalcLength{}, false
		}
		return values.NoCalcLength{Value: v, Unit: u}, true
	}
	return values.NoCalcLength{}, false
}

func parsePercentage(c component) (values.Percentage, bool) {
	if c.tok.TokenType != css.PercentageToken {
		return 0, false
	}
	v, _, ok := splitNumber(c.tok.Data)
	return values.Percentage(v / 100), ok
}

func parseLengthPercentage(c component) (values.LengthPercentage, bool) {
	if p, ok := parsePercentage(c); ok {
		return values.LengthPercentage{Percentage: p, IsPercentage: true}, true
	}
	l, ok := parseLength(c)
	return values.LengthPercentage{Length: l}, ok
}

func parseLengthPercentageOrAuto(c component) (values.LengthPercentageOrAuto, bool) {
	if c.ident() == "auto" {
		return values.Auto(), true
	}
	lp, ok := parseLengthPercentage(c)
	return values.NotAuto(lp), ok
}

// FontSizeValue is a specified font-size: a keyword or a length-percentage.
type FontSizeValue struct {
	Keyword values.FontSizeKeyword
	Length  values.LengthPercentage
}

func (f FontSizeValue) String() string {
	if f.Keyword != "" {
		return string(f.Keyword)
	}
	return f.Length.String()
}

func parseFontSize(c component) (FontSizeValue, bool) {
	if kw, ok := values.ParseFontSizeKeyword(c.ident()); ok {
		return FontSizeValue{Keyword: kw}, true
	}
	lp, ok := parseLengthPercentage(c)
	if !ok || lp.IsNegative() {
		return FontSizeValue{}, false
	}
	return FontSizeValue{Length: lp}, true
}

func parseColor(c component) (values.ColorUnit, bool) {
	switch c.tok.TokenType {
	case css.HashToken:
		rgba, ok := values.ParseHexColor(string(c.tok.Data))
		return values.ColorRGBA(rgba), ok
	case css.IdentToken:
		name := c.ident()
		if name == "currentcolor" {
			return values.CurrentColor(), true
		}
		rgba, ok := values.NamedColor(name)
		return values.ColorRGBA(rgba), ok
	case css.FunctionToken:
		fn := strings.ToLower(string(c.tok.Data))
		if fn != "rgb(" && fn != "rgba(" {
			return values.ColorUnit{}, false
		}
		rgba, ok := parseRGBArgs(c.args)
		return values.ColorRGBA(rgba), ok
	}
	return values.ColorUnit{}, false
}

// parseRGBArgs accepts both the comma and the space-and-slash syntaxes.
func parseRGBArgs(args []css.Token) (values.RGBA, bool) {
	var nums []css.Token
	for _, a := range args {
		if a.TokenType == css.CommaToken || (a.TokenType == css.DelimToken && string(a.Data) == "/") {
			continue
		}
		nums = append(nums, a)
	}
	if len(nums) != 3 && len(nums) != 4 {
		return values.RGBA{}, false
	}
	var ch [4]uint8
	ch[3] = 255
	for i, t := range nums {
		v, _, ok := splitNumber(t.Data)
		if !ok {
			return values.RGBA{}, false
		}
		var scaled float32
		switch {
		case t.TokenType == css.PercentageToken:
			scaled = v / 100 * 255
		case t.TokenType == css.NumberToken && i == 3:
			scaled = v * 255
		case t.TokenType == css.NumberToken:
			scaled = v
		default:
			return values.RGBA{}, false
		}
		ch[i] = clampChannel(scaled)
	}
	return values.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, true
}

func clampChannel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
