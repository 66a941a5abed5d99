package render

import (
	"github.com/fogleman/gg"

	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/view"
)

// ggCanvas adapts a gg context to symbol.Canvas. Symbol-local coordinates
// are rotated, moved to the object position and projected into the widget.
type ggCanvas struct {
	dc    *gg.Context
	state view.State
	pos   geom.Point
	rot   geom.Rotation
}

func (c *ggCanvas) project(x, y float64) geom.Point {
	p := geom.RotatePoint(geom.Pt(x, y), c.rot).Add(c.pos)
	return c.state.ToWidget(p)
}

func (c *ggCanvas) MoveTo(x, y float64) {
	p := c.project(x, y)
	c.dc.MoveTo(p.X, p.Y)
}

func (c *ggCanvas) LineTo(x, y float64) {
	p := c.project(x, y)
	c.dc.LineTo(p.X, p.Y)
}

// Rect projects each corner so the object rotation applies.
func (c *ggCanvas) Rect(x, y, w, h float64) {
	corners := [4]geom.Point{
		c.project(x, y),
		c.project(x+w, y),
		c.project(x+w, y+h),
		c.project(x, y+h),
	}
	c.dc.NewSubPath()
	c.dc.MoveTo(corners[0].X, corners[0].Y)
	for _, p := range corners[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
}

func (c *ggCanvas) Circle(x, y, r float64) {
	p := c.project(x, y)
	c.dc.DrawCircle(p.X, p.Y, r*c.state.Scale())
}

func (c *ggCanvas) Text(x, y float64, s string) {
	p := c.project(x, y)
	c.dc.DrawStringAnchored(s, p.X, p.Y, 0.5, 0.5)
}

func (c *ggCanvas) Stroke() { c.dc.Stroke() }

func (c *ggCanvas) Fill() { c.dc.Fill() }
