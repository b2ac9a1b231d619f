package values

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PxPerInch is the fixed ratio every absolute unit is converted through.
const PxPerInch = 96

// PixelLength is a computed length in CSS pixels.
type PixelLength float32

func Px(v float32) PixelLength {
	return PixelLength(v)
}

func (l PixelLength) Px() float32 {
	return float32(l)
}

func (l PixelLength) Add(o PixelLength) PixelLength {
	return l + o
}

func (l PixelLength) Sub(o PixelLength) PixelLength {
	return l - o
}

// Scale multiplies the length, e.g. by a device pixel ratio.
func (l PixelLength) Scale(f float32) PixelLength {
	return PixelLength(float32(l) * f)
}

func (l PixelLength) Min(o PixelLength) PixelLength {
	if o < l {
		return o
	}
	return l
}

func (l PixelLength) Max(o PixelLength) PixelLength {
	if o > l {
		return o
	}
	return l
}

// ClampNonNegative returns zero for negative lengths.
func (l PixelLength) ClampNonNegative() PixelLength {
	return l.Max(0)
}

func (l PixelLength) String() string {
	return strconv.FormatFloat(float64(l), 'f', -1, 32) + "px"
}

// Percentage is a computed percentage stored as a fraction (0.5 == 50%).
type Percentage float32

// PxRelativeTo resolves the percentage against a reference length.
func (p Percentage) PxRelativeTo(reference PixelLength) PixelLength {
	return PixelLength(float32(p) * float32(reference))
}

func (p Percentage) String() string {
	return strconv.FormatFloat(float64(p)*100, 'f', -1, 32) + "%"
}

// Unit is a length unit that needs no calc() to resolve.
type Unit uint8

const (
	UnitPx Unit = iota
	UnitIn
	UnitCm
	UnitMm
	UnitQ
	UnitPt
	UnitPc
	UnitEm
	UnitRem
)

var unitNames = map[string]Unit{
	"px":  UnitPx,
	"in":  UnitIn,
	"cm":  UnitCm,
	"mm":  UnitMm,
	"q":   UnitQ,
	"pt":  UnitPt,
	"pc":  UnitPc,
	"em":  UnitEm,
	"rem": UnitRem,
}

// ParseUnit maps a (case-insensitive) unit name to a Unit.
func ParseUnit(name string) (Unit, bool) {
	u, ok := unitNames[strings.ToLower(name)]
	return u, ok
}

func (u Unit) String() string {
	for name, v := range unitNames {
		if v == u {
			return name
		}
	}
	return fmt.Sprintf("Unit(%d)", u)
}

// IsAbsolute reports whether the unit converts to pixels without context.
func (u Unit) IsAbsolute() bool {
	return u <= UnitPc
}

// IsFontRelative reports whether the unit depends on a font size.
func (u Unit) IsFontRelative() bool {
	return u == UnitEm || u == UnitRem
}

// pxPerUnit holds the fixed absolute ratios relative to 96px/in.
var pxPerUnit = [...]float32{
	UnitPx: 1,
	UnitIn: PxPerInch,
	UnitCm: PxPerInch / 2.54,
	UnitMm: PxPerInch / 25.4,
	UnitQ:  PxPerInch / 101.6,
	UnitPt: PxPerInch / 72.0,
	UnitPc: PxPerInch / 6.0,
}

// AbsoluteToPx converts an absolute length to pixels.
func AbsoluteToPx(v float32, u Unit) PixelLength {
	if !u.IsAbsolute() {
		panic(fmt.Sprintf("values: %s is not an absolute unit", u))
	}
	return PixelLength(v * pxPerUnit[u])
}

// FontMetrics is the font context font-relative units resolve against.
type FontMetrics struct {
	FontSize     PixelLength
	RootFontSize PixelLength
}

// NoCalcLength is a specified length: a number and a unit.
type NoCalcLength struct {
	Value float32
	Unit  Unit
}

// ToPx converts the length using the font metrics for em/rem.
func (l NoCalcLength) ToPx(fm FontMetrics) PixelLength {
	switch l.Unit {
	case UnitEm:
		return PixelLength(l.Value * float32(fm.FontSize))
	case UnitRem:
		return PixelLength(l.Value * float32(fm.RootFontSize))
	default:
		return AbsoluteToPx(l.Value, l.Unit)
	}
}

func (l NoCalcLength) String() string {
	return strconv.FormatFloat(float64(l.Value), 'f', -1, 32) + l.Unit.String()
}

// LengthPercentage is a specified <length-percentage>.
type LengthPercentage struct {
	Length       NoCalcLength
	Percentage   Percentage
	IsPercentage bool
}

func LengthPx(v float32) LengthPercentage {
	return LengthPercentage{Length: NoCalcLength{Value: v, Unit: UnitPx}}
}

func LengthOf(v float32, u Unit) LengthPercentage {
	return LengthPercentage{Length: NoCalcLength{Value: v, Unit: u}}
}

// Pct builds a specified percentage from a fraction.
func Pct(fraction float32) LengthPercentage {
	return LengthPercentage{Percentage: Percentage(fraction), IsPercentage: true}
}

// IsNegative is used by properties (padding) that reject negative values.
func (lp LengthPercentage) IsNegative() bool {
	if lp.IsPercentage {
		return lp.Percentage < 0
	}
	return lp.Length.Value < 0
}

func (lp LengthPercentage) Compute(fm FontMetrics) ComputedLengthPercentage {
	if lp.IsPercentage {
		return ComputedLengthPercentage{Percentage: lp.Percentage, IsPercentage: true}
	}
	return ComputedLengthPercentage{Length: lp.Length.ToPx(fm)}
}

func (lp LengthPercentage) String() string {
	if lp.IsPercentage {
		return lp.Percentage.String()
	}
	return lp.Length.String()
}

// LengthPercentageOrAuto is a specified <length-percentage> | auto.
type LengthPercentageOrAuto struct {
	LengthPercentage
	Auto bool
}

func Auto() LengthPercentageOrAuto {
	return LengthPercentageOrAuto{Auto: true}
}

func NotAuto(lp LengthPercentage) LengthPercentageOrAuto {
	return LengthPercentageOrAuto{LengthPercentage: lp}
}

func (l LengthPercentageOrAuto) Compute(fm FontMetrics) ComputedLengthPercentageOrAuto {
	if l.Auto {
		return ComputedLengthPercentageOrAuto{Auto: true}
	}
	return ComputedLengthPercentageOrAuto{ComputedLengthPercentage: l.LengthPercentage.Compute(fm)}
}

func (l LengthPercentageOrAuto) String() string {
	if l.Auto {
		return "auto"
	}
	return l.LengthPercentage.String()
}

// ComputedLengthPercentage is either an absolute pixel length or a
// percentage left for layout to resolve.
type ComputedLengthPercentage struct {
	Length       PixelLength
	Percentage   Percentage
	IsPercentage bool
}

func ComputedPx(v float32) ComputedLengthPercentage {
	return ComputedLengthPercentage{Length: PixelLength(v)}
}

func ComputedPct(fraction float32) ComputedLengthPercentage {
	return ComputedLengthPercentage{Percentage: Percentage(fraction), IsPercentage: true}
}

// ToPx resolves a percentage against containing; lengths are returned as is.
func (c ComputedLengthPercentage) ToPx(containing PixelLength) PixelLength {
	if c.IsPercentage {
		return c.Percentage.PxRelativeTo(containing)
	}
	return c.Length
}

func (c ComputedLengthPercentage) String() string {
	if c.IsPercentage {
		return c.Percentage.String()
	}
	return c.Length.String()
}

// ComputedLengthPercentageOrAuto is a computed <length-percentage> | auto.
type ComputedLengthPercentageOrAuto struct {
	ComputedLengthPercentage
	Auto bool
}

func ComputedAuto() ComputedLengthPercentageOrAuto {
	return ComputedLengthPercentageOrAuto{Auto: true}
}

func ComputedNotAuto(c ComputedLengthPercentage) ComputedLengthPercentageOrAuto {
	return ComputedLengthPercentageOrAuto{ComputedLengthPercentage: c}
}

func (c ComputedLengthPercentageOrAuto) IsAuto() bool {
	return c.Auto
}

// ToPx resolves the value against containing and treats auto as zero.
// That is only right where auto has no layout meaning of its own; callers
// that solve auto (widths, horizontal margins) must check IsAuto first.
func (c ComputedLengthPercentageOrAuto) ToPx(containing PixelLength) PixelLength {
	if c.Auto {
		return 0
	}
	return c.ComputedLengthPercentage.ToPx(containing)
}

func (c ComputedLengthPercentageOrAuto) String() string {
	if c.Auto {
		return "auto"
	}
	return c.ComputedLengthPercentage.String()
}

// ApproxEqual compares two lengths with a tolerance suited to float32 layout.
func ApproxEqual(a, b PixelLength) bool {
	return math.Abs(float64(a-b)) < 1e-3
}
