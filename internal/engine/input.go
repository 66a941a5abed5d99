package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/dirty"
	"github.com/dshills/wirecanvas/internal/geom"
)

// PointerDown handles a button press. Only the primary button starts or
// completes operations.
func (e *Engine) PointerDown(ev PointerEvent) {
	e.track(ev.Pos)
	if ev.Button != ButtonPrimary {
		return
	}

	switch e.op.kind {
	case OpIdle:
		e.pressIdle(ev)
	case OpAddObject:
		e.placePending()
	}
}

func (e *Engine) pressIdle(ev PointerEvent) {
	under := e.ObjectAt(ev.Pos)

	// A hovered terminal wins unless the press lands on the selection,
	// which the user is about to drag.
	if e.hovered != nil && (under == nil || !e.diagram.IsSelected(under)) {
		e.startConnect(e.hovered.Pos)
		return
	}

	if under == nil {
		e.startRectSelect(ev)
		return
	}

	if e.diagram.IsSelected(under) {
		if ev.Mods.Any() {
			e.diagram.Unselect(under)
			return
		}
	} else if ev.Mods.Any() {
		e.diagram.Select(under)
	} else {
		e.diagram.SetSelection([]*diagram.Object{under})
	}
	e.startMove(ev.Pos)
}

// PointerMove handles pointer motion.
func (e *Engine) PointerMove(ev PointerEvent) {
	e.track(ev.Pos)

	switch e.op.kind {
	case OpAddObject:
		e.op.visible = true
		e.movePending(ev.Pos)
	case OpConnect:
		e.routeWire()
	case OpRectSelect:
		e.dragRect(ev.Pos)
	case OpMoveSelection:
		e.dragSelection(ev.Pos)
	}
}

// PointerUp handles a button release and completes the drag operations.
func (e *Engine) PointerUp(ev PointerEvent) {
	e.track(ev.Pos)
	if ev.Button != ButtonPrimary {
		return
	}

	switch e.op.kind {
	case OpConnect:
		e.finishConnect()
	case OpRectSelect:
		e.dirty.Mark(e.op.rect().Extend(1), dirty.ReasonPreview)
		e.setOp(OpIdle)
	case OpMoveSelection:
		e.diagram.EndUserAction()
		e.setOp(OpIdle)
	}
}

// PointerLeave handles the pointer leaving the widget. A pending object is
// hidden until the pointer comes back.
func (e *Engine) PointerLeave() {
	e.inside = false
	e.setHovered(nil)
	if e.op.kind == OpAddObject && e.op.visible {
		e.op.visible = false
		e.markTransient(e.op.pending)
	}
}

// Cancel aborts the active operation and returns to idle.
//
// A pending object is discarded. A connection with a non-degenerate path
// is kept; otherwise it is discarded. A rectangle selection keeps the
// selection it has reached. Moves already applied are kept as one undo
// entry.
func (e *Engine) Cancel() {
	switch e.op.kind {
	case OpIdle:
		return
	case OpAddObject:
		if e.op.visible {
			e.markTransient(e.op.pending)
		}
	case OpConnect:
		e.finishConnect()
		return
	case OpRectSelect:
		e.dirty.Mark(e.op.rect().Extend(1), dirty.ReasonPreview)
	case OpMoveSelection:
		e.diagram.EndUserAction()
	}
	e.setOp(OpIdle)
}

// BeginAddObject arms placement of obj, a standalone object, on the next
// press. Any active operation is cancelled first.
func (e *Engine) BeginAddObject(obj *diagram.Object) error {
	if obj == nil {
		return diagram.ErrNilObject
	}
	if obj.Diagram() != nil {
		return diagram.ErrForeignObject
	}
	e.Cancel()
	e.setOp(OpAddObject)
	e.op.pending = obj
	e.op.visible = e.inside
	if e.inside {
		e.movePending(e.pointer)
	}
	return nil
}

// track records the pointer position and refreshes the hovered terminal.
func (e *Engine) track(p geom.Point) {
	e.pointer = p
	e.inside = true
	e.updateHover()
}

func (e *Engine) updateHover() {
	if e.op.kind == OpMoveSelection || e.op.kind == OpRectSelect || e.op.kind == OpAddObject {
		e.setHovered(nil)
		return
	}
	e.setHovered(e.TerminalAt(e.pointer))
}

func (e *Engine) setHovered(t *Terminal) {
	if t == nil && e.hovered == nil {
		return
	}
	if t != nil && e.hovered != nil && *t == *e.hovered {
		return
	}
	if e.hovered != nil {
		e.dirty.Mark(e.hoverArea(e.hovered), dirty.ReasonPreview)
	}
	e.hovered = t
	if t != nil {
		e.dirty.Mark(e.hoverArea(t), dirty.ReasonPreview)
	}
}

func (e *Engine) setOp(kind Op) {
	if e.op.kind != kind {
		e.logger.Debug("operation", zap.Stringer("from", e.op.kind), zap.Stringer("to", kind))
	}
	e.op = operation{kind: kind}
}

// snapped converts a widget point to the nearest grid point.
func (e *Engine) snapped(p geom.Point) geom.Point {
	return geom.SnapToGrid(e.view.ToDiagram(p))
}

// markTransient marks the screen area of an object that is not part of
// the diagram, such as the pending object or the wire being drawn.
func (e *Engine) markTransient(obj *diagram.Object) {
	if a, ok := e.ExtendedScreenArea(obj); ok {
		e.dirty.Mark(a.Extend(1), dirty.ReasonPreview)
	}
}

// AddObject

func (e *Engine) movePending(p geom.Point) {
	obj := e.op.pending
	pos := e.snapped(p)
	if pos == obj.Pos() {
		e.markTransient(obj)
		return
	}
	e.markTransient(obj)
	_ = obj.SetPos(pos)
	e.markTransient(obj)
}

func (e *Engine) placePending() {
	obj := e.op.pending
	visible := e.op.visible
	_ = obj.SetPos(e.snapped(e.pointer))
	if visible {
		e.markTransient(obj)
	}
	e.setOp(OpIdle)
	if err := e.diagram.AddObject(obj); err != nil {
		e.logger.Warn("add object failed", zap.Stringer("object", obj), zap.Error(err))
		return
	}
	e.diagram.SetSelection([]*diagram.Object{obj})
}

// Connect

func (e *Engine) startConnect(origin geom.Point) {
	e.setOp(OpConnect)
	e.op.origin = origin
	e.op.conn = diagram.NewConnection(origin, geom.Route(geom.Point{}))
}

// routeWire re-routes the wire to the hovered terminal, or to the grid
// point under the pointer.
func (e *Engine) routeWire() {
	end := e.snapped(e.pointer)
	if e.hovered != nil {
		end = e.hovered.Pos
	}
	pts := geom.Route(end.Sub(e.op.origin))
	e.markTransient(e.op.conn)
	_ = e.op.conn.SetPoints(pts)
	e.markTransient(e.op.conn)
}

// finishConnect commits the wire when its end differs from its origin and
// discards it otherwise.
func (e *Engine) finishConnect() {
	conn := e.op.conn
	e.markTransient(conn)
	e.setOp(OpIdle)

	pts := conn.Points()
	if len(pts) < 2 || pts[len(pts)-1].IsZero() {
		e.logger.Debug("discarding zero-length connection")
		return
	}
	if err := e.diagram.AddObject(conn); err != nil {
		e.logger.Warn("add connection failed", zap.Error(err))
	}
}

// RectSelect

func (e *Engine) startRectSelect(ev PointerEvent) {
	e.setOp(OpRectSelect)
	e.op.anchor = ev.Pos
	e.op.current = ev.Pos
	if ev.Mods.Any() {
		e.op.base = e.diagram.Selection()
	} else {
		e.diagram.UnselectAll()
	}
}

func (e *Engine) dragRect(p geom.Point) {
	old := e.op.rect()
	e.op.current = p
	cur := e.op.rect()
	e.dirty.Mark(old.Union(cur).Extend(1), dirty.ReasonPreview)

	sel := append([]*diagram.Object(nil), e.op.base...)
	sel = append(sel, e.ObjectsIn(cur)...)
	e.diagram.SetSelection(sel)
}

// MoveSelection

func (e *Engine) startMove(p geom.Point) {
	e.setOp(OpMoveSelection)
	e.op.anchor = e.snapped(p)
	e.diagram.BeginUserAction("Move selection")
}

// dragSelection moves the selection by whole grid steps. Each step is
// a nested group inside the action opened by startMove.
func (e *Engine) dragSelection(p geom.Point) {
	pos := e.snapped(p)
	delta := pos.Sub(e.op.anchor)
	if delta.IsZero() {
		return
	}
	e.op.anchor = pos
	for _, o := range e.diagram.Selection() {
		if err := o.MoveBy(delta); err != nil {
			e.logger.Warn("move failed", zap.Stringer("object", o), zap.Error(err))
		}
	}
}
