package css

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"wren/pkg/style"
)

// Parser parses CSS text into stylesheets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses a stylesheet. Malformed rules and declarations are dropped
// and collected in the returned sheet's Err.
func (p *Parser) Parse(name string, data []byte) *Stylesheet {
	sheet := NewStylesheet(name)
	p.log.Debug("Parsing CSS", zap.String("source", name), zap.Int("bytes", len(data)))

	parser := css.NewParser(parse.NewInputBytes(data), false)
	for {
		gt, _, tok := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() {
				p.recordErr(sheet, parser.Err())
				continue
			}
			p.log.Debug("Parsed CSS", zap.String("source", name), zap.Int("rules", len(sheet.Rules)), zap.Error(sheet.Err()))
			return sheet

		case css.BeginAtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(tok)))
			p.skipAtRuleBlock(parser, sheet)

		case css.AtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(tok)))

		case css.BeginRulesetGrammar:
			line, col, _ := parse.Position(bytes.NewReader(data), parser.Offset())
			loc := style.SourceLocation{Sheet: name, Line: line, Col: col}
			selectors, selErr := compileSelectorList(parser.Values())
			block := p.parseDeclarations(parser, sheet)
			if selErr != nil {
				p.recordErr(sheet, fmt.Errorf("%s: %w", loc, selErr))
				continue
			}
			sheet.AddRule(&StyleRule{Selectors: selectors, Block: block, Location: loc})
		}
	}
}

func (p *Parser) ParseString(name, text string) *Stylesheet {
	return p.Parse(name, []byte(text))
}

// ParseInline parses the body of a style attribute.
func (p *Parser) ParseInline(text string) (*DeclarationBlock, error) {
	sheet := NewStylesheet("style attribute")
	parser := css.NewParser(parse.NewInputString(text), true)
	block := p.parseDeclarations(parser, sheet)
	return block, sheet.Err()
}

// parseDeclarations parses property declarations until the end of the
// current block.
func (p *Parser) parseDeclarations(parser *css.Parser, sheet *Stylesheet) *DeclarationBlock {
	block := &DeclarationBlock{}
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				return block
			}
			p.recordErr(sheet, parser.Err())

		case css.EndRulesetGrammar:
			return block

		case css.DeclarationGrammar:
			decls, err := style.ParseDeclaration(string(data), parser.Values())
			if err != nil {
				p.recordErr(sheet, err)
				continue
			}
			for _, d := range decls {
				block.Add(d)
			}

		case css.CustomPropertyGrammar:
			// custom properties are not supported
			continue
		}
	}
}

// skipAtRuleBlock consumes grammar up to the end of the at-rule just opened.
func (p *Parser) skipAtRuleBlock(parser *css.Parser, sheet *Stylesheet) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				return
			}
			p.recordErr(sheet, parser.Err())
		}
	}
}

func (p *Parser) recordErr(sheet *Stylesheet, err error) {
	p.log.Debug("Dropping CSS", zap.String("source", sheet.Name), zap.Error(err))
	sheet.appendErr(err)
}
