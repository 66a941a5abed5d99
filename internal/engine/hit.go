package engine

import (
	"math"

	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/symbol"
)

// Terminal is a connection candidate: a symbol terminal or a connection
// endpoint, in diagram units.
type Terminal struct {
	Object *diagram.Object
	Index  int
	Pos    geom.Point
}

// geometry resolves the symbol class of obj. Unknown classes are warned
// about once and then skipped silently.
func (e *Engine) geometry(obj *diagram.Object) (symbol.Geometry, bool) {
	class := obj.Class()
	g, ok := e.symbols.FindSymbol(class)
	if ok {
		return g, true
	}
	if _, warned := e.missing[class]; !warned {
		e.missing[class] = struct{}{}
		e.logger.Warn("unknown symbol class", zap.String("class", class), zap.Stringer("object", obj))
	}
	return nil, false
}

// Area returns the bounds of obj in diagram units. Symbols use their
// rotated library area; connections the bounds of their points; other
// objects are a point at their position. ok is false when the symbol
// class is unknown or a connection has fewer than two points.
func (e *Engine) Area(obj *diagram.Object) (geom.Rect, bool) {
	switch obj.Kind() {
	case diagram.KindSymbol:
		g, ok := e.geometry(obj)
		if !ok {
			return geom.Rect{}, false
		}
		return geom.RotateRect(g.BoundingArea(), obj.Rotation()).Translate(obj.Pos()), true
	case diagram.KindConnection:
		pts := obj.AbsolutePoints()
		if len(pts) < 2 {
			return geom.Rect{}, false
		}
		return geom.BoundsOf(pts)
	default:
		p := obj.Pos()
		return geom.R(p.X, p.Y, 0, 0), true
	}
}

// ScreenArea returns the bounds of obj in widget pixels.
func (e *Engine) ScreenArea(obj *diagram.Object) (geom.Rect, bool) {
	a, ok := e.Area(obj)
	if !ok {
		return geom.Rect{}, false
	}
	return e.view.RectToWidget(a), true
}

// ExtendedScreenArea returns the screen bounds of obj grown by the hit
// tolerance. It is used for hit tests, selection containment and redraw.
func (e *Engine) ExtendedScreenArea(obj *diagram.Object) (geom.Rect, bool) {
	a, ok := e.ScreenArea(obj)
	if !ok {
		return geom.Rect{}, false
	}
	return a.Extend(e.tolerance(obj)), true
}

func (e *Engine) tolerance(obj *diagram.Object) float64 {
	if obj.Kind() == diagram.KindConnection {
		return e.wireTolerance
	}
	return e.hitTolerance
}

// Hit reports whether the widget point p touches obj.
func (e *Engine) Hit(obj *diagram.Object, p geom.Point) bool {
	if obj.Kind() != diagram.KindConnection {
		a, ok := e.ExtendedScreenArea(obj)
		return ok && a.Contains(p)
	}
	pts := obj.AbsolutePoints()
	if len(pts) < 2 {
		return false
	}
	screen := make([]geom.Point, len(pts))
	for i, q := range pts {
		screen[i] = e.view.ToWidget(q)
	}
	return geom.PolylineDistance(p, screen) <= e.wireTolerance
}

// ObjectAt returns the topmost object under the widget point p, or nil.
func (e *Engine) ObjectAt(p geom.Point) *diagram.Object {
	objs := e.diagram.Objects()
	for i := len(objs) - 1; i >= 0; i-- {
		if e.Hit(objs[i], p) {
			return objs[i]
		}
	}
	return nil
}

// ObjectsIn returns the objects whose extended screen area lies fully
// inside the widget rectangle r, in z-order.
func (e *Engine) ObjectsIn(r geom.Rect) []*diagram.Object {
	var out []*diagram.Object
	for _, o := range e.diagram.Objects() {
		a, ok := e.ExtendedScreenArea(o)
		if ok && r.ContainsRect(a) {
			out = append(out, o)
		}
	}
	return out
}

// Terminals returns the connection candidates of obj in diagram units.
// Symbol terminals are rotated and translated; connections offer their
// two endpoints, or nothing when they have fewer than two points.
func (e *Engine) Terminals(obj *diagram.Object) []Terminal {
	switch obj.Kind() {
	case diagram.KindSymbol:
		g, ok := e.geometry(obj)
		if !ok {
			return nil
		}
		local := g.Terminals()
		rot := obj.Rotation()
		pos := obj.Pos()
		out := make([]Terminal, len(local))
		for i, t := range local {
			out[i] = Terminal{Object: obj, Index: i, Pos: geom.RotatePoint(t, rot).Add(pos)}
		}
		return out
	case diagram.KindConnection:
		pts := obj.AbsolutePoints()
		if len(pts) < 2 {
			return nil
		}
		last := len(pts) - 1
		return []Terminal{
			{Object: obj, Index: 0, Pos: pts[0]},
			{Object: obj, Index: last, Pos: pts[last]},
		}
	default:
		return nil
	}
}

// TerminalAt returns the terminal nearest to the widget point p within
// the snap radius, or nil. Ties go to the topmost object.
func (e *Engine) TerminalAt(p geom.Point) *Terminal {
	var best *Terminal
	bestDist := math.Inf(1)
	objs := e.diagram.Objects()
	for i := len(objs) - 1; i >= 0; i-- {
		for _, t := range e.Terminals(objs[i]) {
			d := p.Dist(e.view.ToWidget(t.Pos))
			if d <= e.snapRadius && d < bestDist {
				t := t
				best, bestDist = &t, d
			}
		}
	}
	return best
}

// hoverArea is the redraw area of a hovered terminal marker.
func (e *Engine) hoverArea(t *Terminal) geom.Rect {
	c := e.view.ToWidget(t.Pos)
	r := e.snapRadius + 1
	return geom.R(c.X-r, c.Y-r, 2*r, 2*r)
}
