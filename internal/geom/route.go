package geom

import "math"

// Route returns the orthogonal path from the origin to end.
//
// A point on either axis gives the straight two-point segment. Otherwise the
// path bends at the midpoint of the axis with the larger displacement; when
// |x| > |y| the bend points are (x/2, 0) and (x/2, y), else (0, y/2) and
// (x, y/2). Equal displacements take the second form.
func Route(end Point) []Point {
	origin := Point{}
	if end.X == 0 || end.Y == 0 {
		return []Point{origin, end}
	}
	if math.Abs(end.X) > math.Abs(end.Y) {
		mx := end.X / 2
		return []Point{origin, {X: mx, Y: 0}, {X: mx, Y: end.Y}, end}
	}
	my := end.Y / 2
	return []Point{origin, {X: 0, Y: my}, {X: end.X, Y: my}, end}
}
