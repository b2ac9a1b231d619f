package values

// Side is a physical box side.
type Side uint8

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// Sides lists the physical sides in CSS shorthand order.
var Sides = [4]Side{SideTop, SideRight, SideBottom, SideLeft}

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	}
	return "invalid"
}

// IsHorizontal reports whether the side bounds the box on the x axis.
func (s Side) IsHorizontal() bool {
	return s == SideLeft || s == SideRight
}
