// Package engine is the interaction layer between a host widget and a
// diagram. It converts pointer samples in widget pixels into diagram edits
// through a small state machine:
//
//	Idle ──press on empty space──────────▶ RectSelect ──release──▶ Idle
//	Idle ──press on object───────────────▶ MoveSelection ──release──▶ Idle
//	Idle ──press on hovered terminal─────▶ Connect ──release──▶ Idle
//	BeginAddObject ─▶ AddObject ──press──▶ Idle
//
// Cancel leaves any state for Idle. Every edit goes through the diagram, so
// it is undoable; a drag of the selection is one undo entry.
//
// The engine also answers geometric questions for the host (hit testing,
// terminal snapping, object areas), tracks which screen regions need
// repainting, and hands renderers a Frame snapshot.
//
// Basic usage:
//
//	d := diagram.New()
//	e := engine.New(d, library, engine.WithLogger(logger))
//	defer e.Close()
//
//	e.PointerDown(engine.PointerEvent{Pos: p, Button: engine.ButtonPrimary})
//	e.PointerMove(engine.PointerEvent{Pos: q})
//	e.PointerUp(engine.PointerEvent{Pos: q, Button: engine.ButtonPrimary})
//
//	regions, full := e.TakeDirty()
//	frame := e.Frame()
package engine
