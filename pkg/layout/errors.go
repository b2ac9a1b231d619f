package layout

import "fmt"

// UnimplementedError is the panic value for layout paths the engine does not
// support yet: inline-level boxes, flex and grid containers, orthogonal
// writing modes and a display: none root. Producing geometry for them
// silently would be wrong, so layout stops instead.
type UnimplementedError struct {
	What string
	Node string
}

func (e *UnimplementedError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("layout: %s is not implemented", e.What)
	}
	return fmt.Sprintf("layout: %s is not implemented (%s)", e.What, e.Node)
}

func unimplemented(what string, b Box) {
	panic(&UnimplementedError{What: what, Node: nodeName(b.Node())})
}
