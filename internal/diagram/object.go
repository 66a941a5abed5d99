package diagram

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/attr"
	"github.com/dshills/wirecanvas/internal/geom"
)

// Well-known attribute keys.
const (
	KeyX        = "x"
	KeyY        = "y"
	KeyClass    = "class"
	KeyRotation = "rotation"
	KeyPoints   = "points"
	KeyLabel    = "label"
)

// Kind is the closed set of object variants.
type Kind uint8

const (
	// KindGeneric is a plain object with a position and attributes.
	KindGeneric Kind = iota
	// KindSymbol is an instance of a library symbol.
	KindSymbol
	// KindConnection is a polyline wire.
	KindConnection
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindConnection:
		return "connection"
	default:
		return "object"
	}
}

// ParseKind parses a kind name. Unknown names map to KindGeneric.
func ParseKind(s string) Kind {
	switch s {
	case "symbol":
		return KindSymbol
	case "connection":
		return KindConnection
	default:
		return KindGeneric
	}
}

// Object is a diagram element. It exclusively owns its attribute store; all
// typed fields (position, class, rotation, points) live in that store.
type Object struct {
	id    uuid.UUID
	kind  Kind
	attrs *attr.Store

	// owner is set while the object is contained in a diagram.
	owner *Diagram
}

// NewObject creates a standalone generic object at the origin.
func NewObject() *Object {
	return &Object{id: uuid.New(), kind: KindGeneric, attrs: attr.New()}
}

// NewSymbol creates a standalone symbol of the given class.
func NewSymbol(class string, pos geom.Point) *Object {
	o := &Object{id: uuid.New(), kind: KindSymbol, attrs: attr.New()}
	_, _ = o.attrs.Set(KeyClass, class)
	_, _ = o.attrs.Set(KeyX, pos.X)
	_, _ = o.attrs.Set(KeyY, pos.Y)
	return o
}

// NewConnection creates a standalone connection at origin with points
// relative to that origin.
func NewConnection(origin geom.Point, points []geom.Point) *Object {
	o := &Object{id: uuid.New(), kind: KindConnection, attrs: attr.New()}
	_, _ = o.attrs.Set(KeyX, origin.X)
	_, _ = o.attrs.Set(KeyY, origin.Y)
	if len(points) > 0 {
		_, _ = o.attrs.Set(KeyPoints, points)
	}
	return o
}

// Restore rebuilds an object from persisted state.
func Restore(id uuid.UUID, kind Kind, attrs *attr.Store) *Object {
	if id == uuid.Nil {
		id = uuid.New()
	}
	if attrs == nil {
		attrs = attr.New()
	}
	return &Object{id: id, kind: kind, attrs: attrs}
}

// ID returns the object's identifier.
func (o *Object) ID() uuid.UUID { return o.id }

// Kind returns the object's variant.
func (o *Object) Kind() Kind { return o.kind }

// Diagram returns the containing diagram, or nil for standalone objects.
func (o *Object) Diagram() *Diagram { return o.owner }

// Attrs returns a copy of the attribute store.
func (o *Object) Attrs() *attr.Store { return o.attrs.Clone() }

// Get reads an attribute.
func (o *Object) Get(path string) (attr.Value, bool) {
	return o.attrs.Lookup(path)
}

// Set writes an attribute. When the object belongs to a diagram the change
// is recorded for undo and announced. A nil value deletes the attribute.
func (o *Object) Set(path string, value any) error {
	ch, err := o.attrs.Set(path, value)
	if err != nil {
		o.logger().Warn("attribute write failed",
			zap.Stringer("object", o.id), zap.String("path", path), zap.Error(err))
		return err
	}
	if !ch.IsNoop() && o.owner != nil {
		o.owner.objectChanged(o, ch)
	}
	return nil
}

// apply replays a captured value without recording it.
func (o *Object) apply(path string, v attr.Value) error {
	ch, err := o.attrs.Restore(path, v)
	if err != nil {
		return err
	}
	if !ch.IsNoop() && o.owner != nil {
		o.owner.objectChanged(o, ch)
	}
	return nil
}

// Float reads a number, falling back to def when the attribute is missing or
// holds another kind. Shape mismatches are logged.
func (o *Object) Float(path string, def float64) float64 {
	f, err := o.attrs.Float(path)
	if err != nil {
		o.readFailed(path, err)
		return def
	}
	return f
}

// Text reads a string with the same fallback rules as Float.
func (o *Object) Text(path string, def string) string {
	s, err := o.attrs.String(path)
	if err != nil {
		o.readFailed(path, err)
		return def
	}
	return s
}

func (o *Object) readFailed(path string, err error) {
	if errors.Is(err, attr.ErrNotFound) {
		return
	}
	o.logger().Warn("attribute read failed, using default",
		zap.Stringer("object", o.id), zap.String("path", path), zap.Error(err))
}

// Pos returns the object's origin.
func (o *Object) Pos() geom.Point {
	return geom.Point{X: o.Float(KeyX, 0), Y: o.Float(KeyY, 0)}
}

// SetPos moves the object's origin. Inside a diagram both coordinates are
// recorded as one undo entry.
func (o *Object) SetPos(p geom.Point) error {
	return o.batch("Move", func() error {
		if err := o.Set(KeyX, p.X); err != nil {
			return err
		}
		return o.Set(KeyY, p.Y)
	})
}

// MoveBy translates the object.
func (o *Object) MoveBy(d geom.Point) error {
	if d.IsZero() {
		return nil
	}
	return o.SetPos(o.Pos().Add(d))
}

// Class returns the symbol class name.
func (o *Object) Class() string {
	return o.Text(KeyClass, "")
}

// SetClass changes the symbol class.
func (o *Object) SetClass(class string) error {
	return o.Set(KeyClass, class)
}

// Rotation returns the symbol orientation.
func (o *Object) Rotation() geom.Rotation {
	return geom.NormalizeRotation(int(o.Float(KeyRotation, 0)))
}

// SetRotation sets the orientation. Zero removes the attribute.
func (o *Object) SetRotation(r geom.Rotation) error {
	r = geom.NormalizeRotation(int(r))
	if r == geom.Rot0 {
		return o.Set(KeyRotation, nil)
	}
	return o.Set(KeyRotation, int(r))
}

// Rotate turns the symbol a quarter turn.
func (o *Object) Rotate() error {
	return o.SetRotation(o.Rotation().Next())
}

// Points returns the connection's points relative to its origin.
func (o *Object) Points() []geom.Point {
	v, ok := o.attrs.Lookup(KeyPoints)
	if !ok {
		return nil
	}
	if v.Kind() != attr.KindArray {
		o.readFailed(KeyPoints, &attr.ShapeError{Path: KeyPoints, Got: v.Kind(), Want: attr.KindArray})
		return nil
	}
	items := v.Array()
	pts := make([]geom.Point, 0, len(items))
	for i, it := range items {
		x, okX := it.Get(KeyX).Float()
		y, okY := it.Get(KeyY).Float()
		if !okX || !okY {
			o.readFailed(fmt.Sprintf("%s.%d", KeyPoints, i),
				&attr.ShapeError{Path: KeyPoints, Got: it.Kind(), Want: attr.KindMap})
			return nil
		}
		pts = append(pts, geom.Point{X: x, Y: y})
	}
	return pts
}

// SetPoints replaces the connection's points. An empty slice removes them.
func (o *Object) SetPoints(pts []geom.Point) error {
	if len(pts) == 0 {
		return o.Set(KeyPoints, nil)
	}
	return o.Set(KeyPoints, pts)
}

// AbsolutePoints returns the connection's points in diagram coordinates.
func (o *Object) AbsolutePoints() []geom.Point {
	pts := o.Points()
	origin := o.Pos()
	for i := range pts {
		pts[i] = pts[i].Add(origin)
	}
	return pts
}

// Clone returns a standalone copy with a fresh ID.
func (o *Object) Clone() *Object {
	return &Object{id: uuid.New(), kind: o.kind, attrs: o.attrs.Clone()}
}

// String implements fmt.Stringer.
func (o *Object) String() string {
	if o.kind == KindSymbol {
		return fmt.Sprintf("%s(%s %s)", o.kind, o.Class(), o.id)
	}
	return fmt.Sprintf("%s(%s)", o.kind, o.id)
}

func (o *Object) batch(name string, fn func() error) error {
	if o.owner == nil {
		return fn()
	}
	return o.owner.Transaction(name, fn)
}

func (o *Object) logger() *zap.Logger {
	if o.owner != nil {
		return o.owner.logger
	}
	return zap.L()
}
