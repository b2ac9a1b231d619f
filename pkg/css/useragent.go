package css

import (
	_ "embed"
)

//go:embed useragent.css
var userAgentCSS []byte

// UserAgentStylesheet parses the built-in default stylesheet.
func (p *Parser) UserAgentStylesheet() *Stylesheet {
	return p.Parse("user-agent", userAgentCSS)
}
