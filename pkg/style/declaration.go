package style

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrInvalidValue    = errors.New("invalid property value")
)

// Importance is the !important flag of a declaration.
type Importance bool

const (
	Normal    Importance = false
	Important Importance = true
)

// CSSWideKeyword is a value every property accepts.
type CSSWideKeyword string

const (
	KeywordInherit CSSWideKeyword = "inherit"
	KeywordInitial CSSWideKeyword = "initial"
	KeywordUnset   CSSWideKeyword = "unset"
)

// SpecifiedValue is the parsed value of a longhand. Its concrete type
// depends on the property:
//
//	color, *-color              values.ColorUnit
//	font-size                   FontSizeValue
//	writing-mode                values.WritingMode
//	direction                   values.Direction
//	display                     values.Display
//	border-*-style              values.BorderStyle
//	border-*-width              values.NoCalcLength
//	margin-*, width, height     values.LengthPercentageOrAuto
//	padding-*                   values.LengthPercentage
//
// and CSSWideKeyword for any property.
type SpecifiedValue any

// Declaration is a single longhand with its specified value.
type Declaration struct {
	Property   PropertyID
	Value      SpecifiedValue
	Importance Importance
}

func (d Declaration) String() string {
	s := fmt.Sprintf("%s: %v", d.Property, d.Value)
	if d.Importance == Important {
		s += " !important"
	}
	return s
}

// Origin is where a declaration came from.
type Origin uint8

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
	OriginEmbedded
	OriginInline
)

var originNames = [...]string{
	OriginUserAgent: "user-agent",
	OriginUser:      "user",
	OriginAuthor:    "author",
	OriginEmbedded:  "embedded",
	OriginInline:    "inline",
}

func (o Origin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return "unknown"
}

// ParseOrigin maps a configuration name to an Origin.
func ParseOrigin(name string) (Origin, bool) {
	for o, n := range originNames {
		if n == name {
			return Origin(o), true
		}
	}
	return 0, false
}

// SourceLocation pins a declaration to its place in a stylesheet.
type SourceLocation struct {
	Sheet string
	Line  int
	Col   int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Sheet, l.Line, l.Col)
}

// ContextualDeclaration is a declaration together with everything the cascade
// needs to rank it against the others applying to the same element.
type ContextualDeclaration struct {
	Declaration
	Origin      Origin
	Specificity uint32
	Location    SourceLocation
	// Order is the global source order: sheet index, then position within it.
	Order int
}

func (d ContextualDeclaration) String() string {
	return fmt.Sprintf("%s (%s, specificity %d, %s)", d.Declaration, d.Origin, d.Specificity, d.Location)
}
