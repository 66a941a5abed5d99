package engine

import (
	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/geom"
)

// Op identifies the active interaction mode.
type Op uint8

const (
	// OpIdle waits for the next press.
	OpIdle Op = iota
	// OpAddObject places a pending object on the next press.
	OpAddObject
	// OpConnect drags a new connection from a terminal.
	OpConnect
	// OpRectSelect drags a selection rectangle.
	OpRectSelect
	// OpMoveSelection drags the selected objects on the grid.
	OpMoveSelection
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpIdle:
		return "idle"
	case OpAddObject:
		return "add-object"
	case OpConnect:
		return "connect"
	case OpRectSelect:
		return "rect-select"
	case OpMoveSelection:
		return "move-selection"
	default:
		return "unknown"
	}
}

// operation carries the state of the active mode between pointer events.
// Only the fields of the current kind are meaningful.
type operation struct {
	kind Op

	// OpAddObject
	pending *diagram.Object
	visible bool

	// OpConnect: conn is not yet part of the diagram; origin is in
	// diagram units.
	conn   *diagram.Object
	origin geom.Point

	// OpRectSelect: anchor and current are widget pixels; base is the
	// selection that was kept because a modifier was held.
	// OpMoveSelection: anchor is the last applied grid point.
	anchor  geom.Point
	current geom.Point
	base    []*diagram.Object
}

// rect returns the selection rectangle in widget pixels.
func (o *operation) rect() geom.Rect {
	return geom.RectFromPoints(o.anchor, o.current)
}

// Modifier is a bit set of held keyboard modifiers.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether m includes all bits of o.
func (m Modifier) Has(o Modifier) bool { return m&o == o }

// Any reports whether any modifier is held.
func (m Modifier) Any() bool { return m != 0 }

// Button identifies a pointer button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a pointer sample in widget pixels.
type PointerEvent struct {
	Pos    geom.Point
	Button Button
	Mods   Modifier
}
