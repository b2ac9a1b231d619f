package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	"wren/pkg/layout"
	"wren/pkg/values"
)

// Renderer paints a laid-out box tree: backgrounds over the padding box and
// borders around it. It is a debugging aid, not a display list.
type Renderer struct {
	context    *gg.Context
	background values.RGBA
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), background: values.White}
}

// SetBackground changes the color the canvas is cleared to.
func (r *Renderer) SetBackground(c values.RGBA) {
	r.background = c
}

// Render clears the canvas to the background color and paints root and its
// descendants in tree order.
func (r *Renderer) Render(root layout.Box) {
	r.setColor(r.background)
	r.context.Clear()
	r.drawTree(root)
}

func (r *Renderer) drawTree(box layout.Box) {
	// Text runs have no geometry until inline layout exists.
	if box.Kind() != layout.KindTextRun {
		r.drawBox(box)
	}
	for _, c := range box.Children() {
		r.drawTree(c)
	}
}

func (r *Renderer) setColor(c values.RGBA) {
	r.context.SetRGBA(c.Floats())
}

func (r *Renderer) drawBox(box layout.Box) {
	cv := box.ComputedValues()
	d := box.Dimensions()

	// Background covers content + padding (but not margin or border)
	if bg := cv.BackgroundColor; !bg.IsTransparent() {
		p := d.PaddingBox()
		if p.Width > 0 && p.Height > 0 {
			r.setColor(bg)
			r.context.DrawRectangle(f(p.X), f(p.Y), f(p.Width), f(p.Height))
			r.context.Fill()
		}
	}
	r.drawBorder(box)
}

func f(v values.PixelLength) float64 {
	return float64(v)
}

// drawBorder draws each side as a trapezoid so that corners are mitered.
func (r *Renderer) drawBorder(box layout.Box) {
	cv := box.ComputedValues()
	d := box.Dimensions()
	if d.Border == (layout.EdgeSizes{}) {
		return
	}

	outer := d.BorderBox()
	inner := d.PaddingBox()
	outerLeft, outerTop := f(outer.X), f(outer.Y)
	outerRight, outerBottom := f(outer.X+outer.Width), f(outer.Y+outer.Height)
	innerLeft, innerTop := f(inner.X), f(inner.Y)
	innerRight, innerBottom := f(inner.X+inner.Width), f(inner.Y+inner.Height)

	for _, side := range values.Sides {
		width := d.Border.Get(side)
		style := cv.BorderStyle(side)
		color := cv.BorderColor(side)
		if width <= 0 || style.HasNoWidth() || color.IsTransparent() {
			continue
		}
		r.setColor(color)

		switch style {
		case values.BorderStyleDashed, values.BorderStyleDotted, values.BorderStyleDouble:
			var x, y, w, h float64
			switch side {
			case values.SideTop:
				x, y, w, h = outerLeft, outerTop, outerRight-outerLeft, innerTop-outerTop
			case values.SideBottom:
				x, y, w, h = outerLeft, innerBottom, outerRight-outerLeft, outerBottom-innerBottom
			case values.SideLeft:
				x, y, w, h = outerLeft, outerTop, innerLeft-outerLeft, outerBottom-outerTop
			case values.SideRight:
				x, y, w, h = innerRight, outerTop, outerRight-innerRight, outerBottom-outerTop
			}
			r.drawBorderSide(x, y, w, h, style, !side.IsHorizontal())
			continue
		}

		switch side {
		case values.SideTop:
			r.context.MoveTo(outerLeft, outerTop)
			r.context.LineTo(outerRight, outerTop)
			r.context.LineTo(innerRight, innerTop)
			r.context.LineTo(innerLeft, innerTop)
		case values.SideRight:
			r.context.MoveTo(outerRight, outerTop)
			r.context.LineTo(outerRight, outerBottom)
			r.context.LineTo(innerRight, innerBottom)
			r.context.LineTo(innerRight, innerTop)
		case values.SideBottom:
			r.context.MoveTo(outerLeft, outerBottom)
			r.context.LineTo(outerRight, outerBottom)
			r.context.LineTo(innerRight, innerBottom)
			r.context.LineTo(innerLeft, innerBottom)
		case values.SideLeft:
			r.context.MoveTo(outerLeft, outerTop)
			r.context.LineTo(outerLeft, outerBottom)
			r.context.LineTo(innerLeft, innerBottom)
			r.context.LineTo(innerLeft, innerTop)
		}
		r.context.ClosePath()
		r.context.Fill()
	}
}

// drawBorderSide draws one border strip with a dashed, dotted or double
// style. horizontal is true for the top and bottom sides.
func (r *Renderer) drawBorderSide(x, y, width, height float64, style values.BorderStyle, horizontal bool) {
	thickness := height
	if !horizontal {
		thickness = width
	}
	switch style {
	case values.BorderStyleDashed, values.BorderStyleDotted:
		r.context.SetLineWidth(thickness)
		if style == values.BorderStyleDashed {
			r.context.SetDash(3*thickness, 2*thickness)
		} else {
			r.context.SetDash(thickness, thickness)
		}
		if horizontal {
			r.context.DrawLine(x, y+height/2, x+width, y+height/2)
		} else {
			r.context.DrawLine(x+width/2, y, x+width/2, y+height)
		}
		r.context.Stroke()
		r.context.SetDash()

	case values.BorderStyleDouble:
		spacing := thickness / 3
		if horizontal {
			r.context.DrawRectangle(x, y, width, spacing)
			r.context.DrawRectangle(x, y+height-spacing, width, spacing)
		} else {
			r.context.DrawRectangle(x, y, spacing, height)
			r.context.DrawRectangle(x+width-spacing, y, spacing, height)
		}
		r.context.Fill()
	}
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}

// Image returns the canvas; it aliases the renderer's pixels.
func (r *Renderer) Image() *image.RGBA {
	return r.context.Image().(*image.RGBA)
}
