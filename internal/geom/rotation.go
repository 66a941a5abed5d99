package geom

import "fmt"

// Rotation is a quarter-turn orientation in degrees.
type Rotation int

// Supported rotations.
const (
	Rot0   Rotation = 0
	Rot90  Rotation = 90
	Rot180 Rotation = 180
	Rot270 Rotation = 270
)

// NormalizeRotation maps any multiple of 90 degrees (negative included) into
// [0, 360). Other angles snap to the nearest quarter turn.
func NormalizeRotation(deg int) Rotation {
	q := ((deg % 360) + 360) % 360
	q = ((q + 45) / 90 * 90) % 360
	return Rotation(q)
}

// Valid reports whether r is one of the four quarter turns.
func (r Rotation) Valid() bool {
	return r == Rot0 || r == Rot90 || r == Rot180 || r == Rot270
}

// Next returns the rotation one quarter turn further.
func (r Rotation) Next() Rotation {
	return NormalizeRotation(int(r) + 90)
}

// String returns e.g. "90°".
func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r))
}

// RotatePoint turns p about the origin.
// At 90°: (x, y) -> (-y, x).
func RotatePoint(p Point, rot Rotation) Point {
	switch NormalizeRotation(int(rot)) {
	case Rot90:
		return Point{X: -p.Y, Y: p.X}
	case Rot180:
		return Point{X: -p.X, Y: -p.Y}
	case Rot270:
		return Point{X: p.Y, Y: -p.X}
	default:
		return p
	}
}

// RotatePoints turns every point about the origin.
func RotatePoints(pts []Point, rot Rotation) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = RotatePoint(p, rot)
	}
	return out
}

// RotateRect turns an axis-aligned rectangle about the origin:
//
//	90°:  x' = -(y+h), y' = x,        w/h swapped
//	180°: x' = -(x+w), y' = -(y+h)
//	270°: x' = y,      y' = -(x+w),   w/h swapped
func RotateRect(r Rect, rot Rotation) Rect {
	switch NormalizeRotation(int(rot)) {
	case Rot90:
		return Rect{X: -(r.Y + r.H), Y: r.X, W: r.H, H: r.W}
	case Rot180:
		return Rect{X: -(r.X + r.W), Y: -(r.Y + r.H), W: r.W, H: r.H}
	case Rot270:
		return Rect{X: r.Y, Y: -(r.X + r.W), W: r.H, H: r.W}
	default:
		return r
	}
}
