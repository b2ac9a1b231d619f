package css

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"wren/pkg/style"
)

// DeclarationBlock holds at most one declaration per longhand.
type DeclarationBlock struct {
	Declarations []style.Declaration
}

// Add stores d, replacing an earlier declaration of the same property. An
// earlier !important declaration survives a later normal one.
func (b *DeclarationBlock) Add(d style.Declaration) {
	for i, old := range b.Declarations {
		if old.Property != d.Property {
			continue
		}
		if old.Importance == style.Important && d.Importance == style.Normal {
			return
		}
		b.Declarations = append(b.Declarations[:i], b.Declarations[i+1:]...)
		break
	}
	b.Declarations = append(b.Declarations, d)
}

// Get returns the declaration for p, if any.
func (b *DeclarationBlock) Get(p style.PropertyID) (style.Declaration, bool) {
	for _, d := range b.Declarations {
		if d.Property == p {
			return d, true
		}
	}
	return style.Declaration{}, false
}

// Remove deletes the declaration for p and reports whether there was one.
func (b *DeclarationBlock) Remove(p style.PropertyID) bool {
	for i, d := range b.Declarations {
		if d.Property == p {
			b.Declarations = append(b.Declarations[:i], b.Declarations[i+1:]...)
			return true
		}
	}
	return false
}

func (b *DeclarationBlock) Len() int {
	return len(b.Declarations)
}

func (b *DeclarationBlock) String() string {
	parts := make([]string, len(b.Declarations))
	for i, d := range b.Declarations {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}

// StyleRule pairs a compiled selector list with its declarations. Rules are
// not modified once the stylesheet is built.
type StyleRule struct {
	Selectors *SelectorList
	Block     *DeclarationBlock
	Location  style.SourceLocation
}

func (r *StyleRule) String() string {
	return fmt.Sprintf("%s { %s }", r.Selectors, r.Block)
}

// Stylesheet is an ordered list of rules from one source.
type Stylesheet struct {
	Name  string
	Rules []*StyleRule

	errs error
}

func NewStylesheet(name string) *Stylesheet {
	return &Stylesheet{Name: name}
}

// AddRule appends r. Declarations of earlier rules with the same selector
// text that r overrides are removed, and rules left empty are deleted.
func (s *Stylesheet) AddRule(r *StyleRule) {
	key := r.Selectors.String()
	kept := s.Rules[:0]
	for _, old := range s.Rules {
		if old.Selectors.String() == key {
			for _, d := range append([]style.Declaration(nil), r.Block.Declarations...) {
				prev, ok := old.Block.Get(d.Property)
				if !ok {
					continue
				}
				if prev.Importance == style.Important && d.Importance == style.Normal {
					r.Block.Remove(d.Property)
				} else {
					old.Block.Remove(d.Property)
				}
			}
			if old.Block.Len() == 0 {
				continue
			}
		}
		kept = append(kept, old)
	}
	s.Rules = kept
	if r.Block.Len() > 0 {
		s.Rules = append(s.Rules, r)
	}
}

// Err returns every recoverable error met while parsing the sheet, combined.
func (s *Stylesheet) Err() error {
	return s.errs
}

func (s *Stylesheet) appendErr(err error) {
	s.errs = multierr.Append(s.errs, err)
}

func (s *Stylesheet) String() string {
	var sb strings.Builder
	for _, r := range s.Rules {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
