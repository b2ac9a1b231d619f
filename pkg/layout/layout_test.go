package layout

import (
	"errors"
	"fmt"
	"testing"

	"wren/pkg/html"
	"wren/pkg/style"
	"wren/pkg/values"
)

func px(v float32) values.ComputedLengthPercentageOrAuto {
	return values.ComputedNotAuto(values.ComputedPx(v))
}

func pct(f float32) values.ComputedLengthPercentageOrAuto {
	return values.ComputedNotAuto(values.ComputedPct(f))
}

var auto = values.ComputedAuto()

func blockStyle(modify func(cv *style.ComputedValues)) *style.ComputedValues {
	cv := style.Default()
	cv.Display = values.DisplayBlock
	if modify != nil {
		modify(cv)
	}
	return cv
}

func newBlock(cv *style.ComputedValues, children ...Box) *BlockContainer {
	return &BlockContainer{boxBase{node: html.NewElement("div", nil), style: cv, children: children}}
}

// layoutRoot lays out root as the root of a tree in a viewport.
func layoutRoot(root *BlockContainer, width, height values.PixelLength, scale float32) {
	root.root = true
	assignFormattingContexts(root, nil)
	GlobalLayout(root, width, height, scale)
}

func approx(t *testing.T, name string, got, want values.PixelLength) {
	t.Helper()
	if !values.ApproxEqual(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestPhysicalSideIsBijection(t *testing.T) {
	for _, wm := range values.WritingModes {
		for _, dir := range []values.Direction{values.DirectionLTR, values.DirectionRTL} {
			seen := map[values.Side]LogicalDirection{}
			for _, ld := range LogicalDirections {
				side := PhysicalSide(wm, dir, ld)
				if prev, ok := seen[side]; ok {
					t.Errorf("%s/%s: %s and %s both map to %s", wm, dir, prev, ld, side)
				}
				seen[side] = ld
			}
		}
	}
}

func TestPhysicalSideTable(t *testing.T) {
	tests := []struct {
		wm   values.WritingMode
		dir  values.Direction
		want [4]values.Side // block-start, block-end, inline-start, inline-end
	}{
		{values.HorizontalTB, values.DirectionLTR, [4]values.Side{values.SideTop, values.SideBottom, values.SideLeft, values.SideRight}},
		{values.HorizontalTB, values.DirectionRTL, [4]values.Side{values.SideTop, values.SideBottom, values.SideRight, values.SideLeft}},
		{values.VerticalRL, values.DirectionLTR, [4]values.Side{values.SideRight, values.SideLeft, values.SideTop, values.SideBottom}},
		{values.VerticalLR, values.DirectionRTL, [4]values.Side{values.SideLeft, values.SideRight, values.SideBottom, values.SideTop}},
		{values.SidewaysLR, values.DirectionLTR, [4]values.Side{values.SideLeft, values.SideRight, values.SideBottom, values.SideTop}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.wm, tt.dir), func(t *testing.T) {
			for i, ld := range LogicalDirections {
				if got := PhysicalSide(tt.wm, tt.dir, ld); got != tt.want[i] {
					t.Errorf("%s maps to %s, want %s", ld, got, tt.want[i])
				}
			}
		})
	}
}

func TestLogicalRoundTrip(t *testing.T) {
	for _, wm := range values.WritingModes {
		for _, dir := range []values.Direction{values.DirectionLTR, values.DirectionRTL} {
			for _, ld := range LogicalDirections {
				for _, c := range boxComponents {
					var d Dimensions
					l := d.Logical(wm, dir)
					l.Set(ld, c, 7)
					if got := l.Get(ld, c); got != 7 {
						t.Errorf("%s/%s %s %s: got %v after set 7", wm, dir, ld, c, got)
					}
					if got := d.edges(c).Get(PhysicalSide(wm, dir, ld)); got != 7 {
						t.Errorf("%s/%s %s %s: physical side holds %v", wm, dir, ld, c, got)
					}
				}
			}
			var d Dimensions
			l := d.Logical(wm, dir)
			l.SetInlineSize(30)
			l.SetBlockSize(40)
			l.SetInlineStartCoord(100)
			l.SetBlockStartCoord(200)
			if l.InlineSize() != 30 || l.BlockSize() != 40 {
				t.Errorf("%s/%s: sizes %v %v", wm, dir, l.InlineSize(), l.BlockSize())
			}
			if l.InlineStartCoord() != 100 || l.BlockStartCoord() != 200 {
				t.Errorf("%s/%s: coords %v %v", wm, dir, l.InlineStartCoord(), l.BlockStartCoord())
			}
		}
	}
}

func TestDerivedBoxes(t *testing.T) {
	d := Dimensions{
		Content: Rect{X: 10, Y: 10, Width: 100, Height: 50},
		Padding: EdgeSizes{Top: 1, Right: 2, Bottom: 3, Left: 4},
		Border:  EdgeSizes{Top: 1, Right: 1, Bottom: 1, Left: 1},
		Margin:  EdgeSizes{Top: 5, Left: 5},
	}
	if got, want := d.PaddingBox(), (Rect{X: 6, Y: 9, Width: 106, Height: 54}); got != want {
		t.Errorf("padding box = %+v, want %+v", got, want)
	}
	if got, want := d.BorderBox(), (Rect{X: 5, Y: 8, Width: 108, Height: 56}); got != want {
		t.Errorf("border box = %+v, want %+v", got, want)
	}
	if got, want := d.MarginBox(), (Rect{X: 0, Y: 3, Width: 113, Height: 61}); got != want {
		t.Errorf("margin box = %+v, want %+v", got, want)
	}
}

func TestInlineSizeEquationTotals(t *testing.T) {
	tests := []struct {
		name                 string
		width, mLeft, mRight values.ComputedLengthPercentageOrAuto
		padding              float32
		border               values.PixelLength
		dir                  values.Direction
	}{
		{"all auto", auto, auto, auto, 0, 0, values.DirectionLTR},
		{"fixed width", px(300), px(10), px(20), 5, 2, values.DirectionLTR},
		{"fixed width rtl", px(300), px(10), px(20), 5, 2, values.DirectionRTL},
		{"percent width", pct(0.5), px(0), auto, 0, 1, values.DirectionLTR},
		{"auto width with margins", auto, px(100), pct(0.1), 10, 3, values.DirectionLTR},
		{"centered", px(500), auto, auto, 4, 0, values.DirectionRTL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := blockStyle(func(cv *style.ComputedValues) {
				cv.Width, cv.MarginLeft, cv.MarginRight = tt.width, tt.mLeft, tt.mRight
				cv.PaddingLeft, cv.PaddingRight = values.ComputedPx(tt.padding), values.ComputedPx(tt.padding)
				cv.BorderLeftWidth, cv.BorderRightWidth = tt.border, tt.border
				cv.Direction = tt.dir
			})
			root := newBlock(cv)
			layoutRoot(root, 1000, 600, 1)
			d := root.Dimensions()
			total := d.Margin.Left + d.Border.Left + d.Padding.Left + d.Content.Width +
				d.Padding.Right + d.Border.Right + d.Margin.Right
			approx(t, "total", total, 1000)
		})
	}
}

func TestAutoMarginsCenter(t *testing.T) {
	root := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.Width, cv.MarginLeft, cv.MarginRight = px(600), auto, auto
	}))
	layoutRoot(root, 1000, 600, 1)
	d := root.Dimensions()
	approx(t, "margin-left", d.Margin.Left, 200)
	approx(t, "margin-right", d.Margin.Right, 200)
	approx(t, "x", d.Content.X, 200)
}

func TestSingleAutoMarginAbsorbs(t *testing.T) {
	root := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.Width, cv.MarginLeft, cv.MarginRight = px(600), auto, px(100)
	}))
	layoutRoot(root, 1000, 600, 1)
	approx(t, "margin-left", root.Dimensions().Margin.Left, 300)
}

func TestOverConstrainedEndMarginAbsorbs(t *testing.T) {
	tests := []struct {
		dir        values.Direction
		start, end func(EdgeSizes) values.PixelLength
	}{
		{values.DirectionLTR, func(e EdgeSizes) values.PixelLength { return e.Left }, func(e EdgeSizes) values.PixelLength { return e.Right }},
		{values.DirectionRTL, func(e EdgeSizes) values.PixelLength { return e.Right }, func(e EdgeSizes) values.PixelLength { return e.Left }},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			root := newBlock(blockStyle(func(cv *style.ComputedValues) {
				cv.Direction = tt.dir
				cv.Width = px(100)
				cv.MarginLeft, cv.MarginRight = px(20), px(20)
			}))
			layoutRoot(root, 110, 600, 1)
			m := root.Dimensions().Margin
			approx(t, "start margin", tt.start(m), 20)
			approx(t, "end margin", tt.end(m), -10)
		})
	}
}

func TestOverConstrainedAutoMarginsBecomeZero(t *testing.T) {
	root := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.Width = px(150)
		cv.MarginLeft, cv.MarginRight = auto, auto
	}))
	layoutRoot(root, 100, 600, 1)
	m := root.Dimensions().Margin
	approx(t, "margin-left", m.Left, 0)
	approx(t, "margin-right", m.Right, -50)
}

func TestAutoWidthClampsAtZero(t *testing.T) {
	root := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.MarginLeft, cv.MarginRight = px(80), px(40)
	}))
	layoutRoot(root, 100, 600, 1)
	d := root.Dimensions()
	approx(t, "width", d.Content.Width, 0)
	approx(t, "margin-right", d.Margin.Right, 20)
}

func TestHeightAccumulatesChildren(t *testing.T) {
	child := func() Box {
		return newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = px(40) }))
	}
	root := newBlock(blockStyle(nil), child(), child(), child())
	layoutRoot(root, 800, 600, 1)

	approx(t, "parent height", root.Dimensions().Content.Height, 120)
	for i, c := range root.Children() {
		approx(t, fmt.Sprintf("child %d y", i), c.Dimensions().Content.Y, values.PixelLength(40*i))
		approx(t, fmt.Sprintf("child %d width", i), c.Dimensions().Content.Width, 800)
	}
}

func TestExplicitHeightWins(t *testing.T) {
	child := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = px(400) }))
	root := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = px(100) }), child)
	layoutRoot(root, 800, 600, 1)
	approx(t, "height", root.Dimensions().Content.Height, 100)
}

func TestPercentageHeightAgainstIndefiniteParentIsAuto(t *testing.T) {
	grandchild := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = px(30) }))
	child := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = pct(0.5) }), grandchild)
	root := newBlock(blockStyle(nil), child)
	layoutRoot(root, 800, 600, 1)
	approx(t, "child height", child.Dimensions().Content.Height, 30)

	sized := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = pct(0.5) }))
	layoutRoot(newBlock(blockStyle(nil), sized), 800, 600, 1)
	approx(t, "viewport-relative height", sized.Dimensions().Content.Height, 0)

	root = newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = px(200) }), child)
	layoutRoot(root, 800, 600, 1)
	approx(t, "definite parent", child.Dimensions().Content.Height, 100)
}

func TestEdgesOffsetContent(t *testing.T) {
	child := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.MarginTop, cv.MarginLeft = px(10), px(5)
		cv.BorderTopWidth, cv.BorderLeftWidth = 2, 2
		cv.PaddingTop, cv.PaddingLeft = values.ComputedPx(3), values.ComputedPct(0.01)
		cv.MarginBottom = auto
		cv.Height = px(20)
	}))
	root := newBlock(blockStyle(nil), child)
	layoutRoot(root, 800, 600, 1)

	d := child.Dimensions()
	approx(t, "x", d.Content.X, 5+2+8)
	approx(t, "y", d.Content.Y, 10+2+3)
	approx(t, "auto block margin", d.Margin.Bottom, 0)
	approx(t, "parent height", root.Dimensions().Content.Height, 10+2+3+20)
}

func TestScaleFactorAppliesBeforePositioning(t *testing.T) {
	first := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.Height = px(10.5)
		cv.MarginTop = px(1.25)
		cv.Width = px(100)
	}))
	second := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.Height = px(10)
		cv.Width = pct(0.5)
	}))
	root := newBlock(blockStyle(nil), first, second)
	layoutRoot(root, 800, 600, 2)

	approx(t, "first y", first.Dimensions().Content.Y, 2.5)
	approx(t, "first width", first.Dimensions().Content.Width, 200)
	approx(t, "second y", second.Dimensions().Content.Y, 2.5+21)
	approx(t, "percentage against device pixels", second.Dimensions().Content.Width, 400)
	approx(t, "root height", root.Dimensions().Content.Height, 2.5+21+20)
}

func TestRightToLeftPlacesFromRightEdge(t *testing.T) {
	child := newBlock(blockStyle(func(cv *style.ComputedValues) {
		cv.Direction = values.DirectionRTL
		cv.Width = px(100)
		cv.MarginRight = px(10)
	}))
	root := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Direction = values.DirectionRTL }), child)
	layoutRoot(root, 800, 600, 1)
	approx(t, "x", child.Dimensions().Content.X, 690)
	approx(t, "margin-left", child.Dimensions().Margin.Left, 690)
}

func TestVerticalRLStacksRightToLeft(t *testing.T) {
	vertical := func(cv *style.ComputedValues) { cv.WritingMode = values.VerticalRL }
	col := func(w float32) *BlockContainer {
		return newBlock(blockStyle(func(cv *style.ComputedValues) {
			vertical(cv)
			cv.Width = px(w)
		}))
	}
	a, b := col(50), col(30)
	root := newBlock(blockStyle(vertical), a, b)
	layoutRoot(root, 800, 600, 1)

	rd := root.Dimensions()
	approx(t, "root block size", rd.Content.Width, 80)
	approx(t, "root inline size", rd.Content.Height, 600)
	approx(t, "root x", rd.Content.X, 720)
	approx(t, "first column x", a.Dimensions().Content.X, 750)
	approx(t, "second column x", b.Dimensions().Content.X, 720)
	approx(t, "column height", a.Dimensions().Content.Height, 600)
}

func TestVerticalLRStacksLeftToRight(t *testing.T) {
	vertical := func(cv *style.ComputedValues) { cv.WritingMode = values.VerticalLR }
	a := newBlock(blockStyle(func(cv *style.ComputedValues) { vertical(cv); cv.Width = px(50) }))
	b := newBlock(blockStyle(func(cv *style.ComputedValues) { vertical(cv); cv.Width = px(30); cv.Height = px(100) }))
	root := newBlock(blockStyle(vertical), a, b)
	layoutRoot(root, 800, 600, 1)
	approx(t, "first x", a.Dimensions().Content.X, 0)
	approx(t, "second x", b.Dimensions().Content.X, 50)
	approx(t, "second margin-bottom", b.Dimensions().Margin.Bottom, 500)
}

func TestSidewaysLRInlineStartsAtBottom(t *testing.T) {
	sideways := func(cv *style.ComputedValues) { cv.WritingMode = values.SidewaysLR }
	child := newBlock(blockStyle(func(cv *style.ComputedValues) { sideways(cv); cv.Height = px(100); cv.Width = px(10) }))
	root := newBlock(blockStyle(sideways), child)
	layoutRoot(root, 800, 600, 1)
	approx(t, "y", child.Dimensions().Content.Y, 500)
	approx(t, "top margin is the inline-end margin", child.Dimensions().Margin.Top, 500)
}

func expectUnimplemented(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for %s", what)
		}
		err, ok := r.(error)
		var ue *UnimplementedError
		if !ok || !errors.As(err, &ue) {
			t.Fatalf("expected *UnimplementedError, got %#v", r)
		}
		if ue.What != what {
			t.Errorf("unimplemented %q, want %q", ue.What, what)
		}
	}()
	fn()
}

func TestUnimplementedPathsPanic(t *testing.T) {
	t.Run("inline box", func(t *testing.T) {
		b := &InlineBox{boxBase{node: html.NewElement("span", nil), style: style.Default()}}
		expectUnimplemented(t, "inline box layout", func() { b.Layout(ContainingBlock{}, 1) })
	})
	t.Run("inline formatting context", func(t *testing.T) {
		span := &InlineBox{boxBase{node: html.NewElement("span", nil), style: style.Default()}}
		root := newBlock(blockStyle(nil), span)
		expectUnimplemented(t, "inline formatting context", func() { layoutRoot(root, 800, 600, 1) })
	})
	t.Run("flex", func(t *testing.T) {
		root := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Display = values.DisplayFlex }))
		expectUnimplemented(t, "flex layout", func() { layoutRoot(root, 800, 600, 1) })
	})
	t.Run("grid", func(t *testing.T) {
		child := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Display = values.DisplayGrid }))
		expectUnimplemented(t, "grid layout", func() { layoutRoot(newBlock(blockStyle(nil), child), 800, 600, 1) })
	})
	t.Run("orthogonal flow", func(t *testing.T) {
		child := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.WritingMode = values.VerticalRL }))
		expectUnimplemented(t, "orthogonal writing mode", func() { layoutRoot(newBlock(blockStyle(nil), child), 800, 600, 1) })
	})
}

func TestCloneIsIndependent(t *testing.T) {
	child := newBlock(blockStyle(func(cv *style.ComputedValues) { cv.Height = px(10) }))
	clean := newBlock(blockStyle(nil), child)
	clean.root = true
	assignFormattingContexts(clean, nil)

	le := NewLayoutEngine(nil, clean)
	wide := le.Layout(800, 600, 1)
	narrow := le.Layout(300, 600, 1)

	if got := wide.Children()[0].Dimensions().Content.Width; got != 800 {
		t.Errorf("first pass width = %v, want 800", got)
	}
	if got := narrow.Children()[0].Dimensions().Content.Width; got != 300 {
		t.Errorf("second pass width = %v, want 300", got)
	}
	if clean.Dimensions() != (Dimensions{}) || child.Dimensions() != (Dimensions{}) {
		t.Error("layout passes wrote to the clean tree")
	}
	if wide.Children()[0].Node() != child.Node() {
		t.Error("clone should share the originating node")
	}
	if CountBoxes(wide) != 2 {
		t.Errorf("CountBoxes = %d, want 2", CountBoxes(wide))
	}
}
