package engine

import (
	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/symbol"
	"github.com/dshills/wirecanvas/internal/view"
)

// Frame is everything a renderer needs to paint one redraw: the view
// transform, the objects bottom to top with resolved geometry, and the
// transient geometry of the active operation.
type Frame struct {
	View      view.State
	Operation Op
	Objects   []FrameObject

	// Pending is the object being placed, when visible.
	Pending *FrameObject

	// Wire is the connection being drawn.
	Wire *FrameObject

	// SelectionRect is the rubber band in widget pixels.
	SelectionRect *geom.Rect

	// Hovered is the terminal under the pointer.
	Hovered *Terminal
}

// FrameObject is one object with its geometry resolved.
type FrameObject struct {
	Object   *diagram.Object
	Kind     diagram.Kind
	Class    string
	Pos      geom.Point
	Rotation geom.Rotation

	// Geometry is the symbol definition; nil for other kinds.
	Geometry symbol.Geometry

	// Area is the bounds in diagram units.
	Area geom.Rect

	// Points are a connection's absolute points.
	Points []geom.Point

	Selected bool
}

// Frame builds a snapshot of the current state. Symbols of unknown class,
// connections with fewer than two points and objects outside the view
// are left out.
func (e *Engine) Frame() Frame {
	f := Frame{
		View:      e.view.State(),
		Operation: e.op.kind,
		Hovered:   e.HoveredTerminal(),
	}
	objs := e.diagram.Objects()
	visible := e.view.Visible()
	f.Objects = make([]FrameObject, 0, len(objs))
	for _, o := range objs {
		fo, ok := e.frameObject(o)
		if !ok || !visible.Intersects(fo.Area) {
			continue
		}
		f.Objects = append(f.Objects, fo)
	}

	switch e.op.kind {
	case OpAddObject:
		if e.op.visible {
			if fo, ok := e.frameObject(e.op.pending); ok {
				f.Pending = &fo
			}
		}
	case OpConnect:
		if fo, ok := e.frameObject(e.op.conn); ok {
			f.Wire = &fo
		}
	case OpRectSelect:
		r := e.op.rect()
		f.SelectionRect = &r
	}
	return f
}

func (e *Engine) frameObject(o *diagram.Object) (FrameObject, bool) {
	fo := FrameObject{
		Object:   o,
		Kind:     o.Kind(),
		Pos:      o.Pos(),
		Selected: e.diagram.IsSelected(o),
	}
	switch o.Kind() {
	case diagram.KindSymbol:
		g, ok := e.geometry(o)
		if !ok {
			return FrameObject{}, false
		}
		fo.Class = o.Class()
		fo.Rotation = o.Rotation()
		fo.Geometry = g
		fo.Area = geom.RotateRect(g.BoundingArea(), fo.Rotation).Translate(fo.Pos)
	case diagram.KindConnection:
		area, ok := e.Area(o)
		if !ok {
			return FrameObject{}, false
		}
		fo.Points = o.AbsolutePoints()
		fo.Area = area
	default:
		fo.Area = geom.R(fo.Pos.X, fo.Pos.Y, 0, 0)
	}
	return fo, true
}
