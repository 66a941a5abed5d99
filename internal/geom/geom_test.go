package geom

import (
	"math"
	"reflect"
	"testing"
)

func TestRouteStraight(t *testing.T) {
	tests := []struct {
		name string
		end  Point
		want []Point
	}{
		{"horizontal", Pt(10, 0), []Point{{0, 0}, {10, 0}}},
		{"vertical", Pt(0, -7), []Point{{0, 0}, {0, -7}}},
		{"zero", Pt(0, 0), []Point{{0, 0}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(tt.end); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Route(%v) = %v, want %v", tt.end, got, tt.want)
			}
		})
	}
}

func TestRouteBends(t *testing.T) {
	tests := []struct {
		name string
		end  Point
		want []Point
	}{
		{"wide", Pt(10, 4), []Point{{0, 0}, {5, 0}, {5, 4}, {10, 4}}},
		{"tall", Pt(4, 10), []Point{{0, 0}, {0, 5}, {4, 5}, {4, 10}}},
		{"negative wide", Pt(-8, 2), []Point{{0, 0}, {-4, 0}, {-4, 2}, {-8, 2}}},
		// |x| > |y| is false on a tie, so the Y-midpoint rule applies.
		{"tie", Pt(10, 10), []Point{{0, 0}, {0, 5}, {10, 5}, {10, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(tt.end); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Route(%v) = %v, want %v", tt.end, got, tt.want)
			}
		})
	}
}

func TestRouteIsOrthogonal(t *testing.T) {
	for _, end := range []Point{{3, 9}, {-12, 5}, {7, -7}, {1, 100}} {
		pts := Route(end)
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			if a.X != b.X && a.Y != b.Y {
				t.Errorf("Route(%v) segment %v-%v is diagonal", end, a, b)
			}
		}
		if pts[len(pts)-1] != end {
			t.Errorf("Route(%v) ends at %v", end, pts[len(pts)-1])
		}
	}
}

func TestRotateRect(t *testing.T) {
	r := R(1, 2, 4, 3)
	tests := []struct {
		rot  Rotation
		want Rect
	}{
		{Rot0, R(1, 2, 4, 3)},
		{Rot90, R(-5, 1, 3, 4)},
		{Rot180, R(-5, -5, 4, 3)},
		{Rot270, R(2, -5, 3, 4)},
	}
	for _, tt := range tests {
		if got := RotateRect(r, tt.rot); got != tt.want {
			t.Errorf("RotateRect(%v, %v) = %v, want %v", r, tt.rot, got, tt.want)
		}
	}
}

func TestRotateRectMatchesCorners(t *testing.T) {
	r := R(-2, -1, 4, 2)
	for _, rot := range []Rotation{Rot0, Rot90, Rot180, Rot270} {
		corners := []Point{r.Min(), r.Max(), {r.X, r.Bottom()}, {r.Right(), r.Y}}
		want, _ := BoundsOf(RotatePoints(corners, rot))
		if got := RotateRect(r, rot); got != want {
			t.Errorf("rotation %v: RotateRect = %v, corner bounds = %v", rot, got, want)
		}
	}
}

func TestRotationRoundTrip(t *testing.T) {
	r := R(-3, -1, 6, 2)
	pts := []Point{{-3, 0}, {3, 0}, {0, -1}}

	gotR := r
	gotP := pts
	for i := 0; i < 4; i++ {
		gotR = RotateRect(gotR, Rot90)
		gotP = RotatePoints(gotP, Rot90)
	}
	if gotR != r {
		t.Errorf("4x90 rect = %v, want %v", gotR, r)
	}
	if !reflect.DeepEqual(gotP, pts) {
		t.Errorf("4x90 points = %v, want %v", gotP, pts)
	}

	if got := RotateRect(RotateRect(r, Rot90), Rot270); got != r {
		t.Errorf("270 does not invert 90: %v", got)
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in   int
		want Rotation
	}{
		{0, Rot0}, {90, Rot90}, {450, Rot90}, {-90, Rot270}, {360, Rot0}, {181, Rot180}, {359, Rot0},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); got != tt.want {
			t.Errorf("NormalizeRotation(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Rot270.Next() != Rot0 {
		t.Error("Rot270.Next() should wrap to 0")
	}
}

func TestRectContainsRect(t *testing.T) {
	drag := R(0, 0, 100, 100)
	if !drag.ContainsRect(R(10, 10, 20, 20)) {
		t.Error("fully inside rect should be contained")
	}
	if drag.ContainsRect(R(90, 90, 30, 30)) {
		t.Error("partially overlapping rect should not be contained")
	}
	if !drag.Intersects(R(90, 90, 30, 30)) {
		t.Error("partially overlapping rect should intersect")
	}
}

func TestRectFromPointsAndUnion(t *testing.T) {
	r := RectFromPoints(Pt(10, 2), Pt(4, 8))
	if r != R(4, 2, 6, 6) {
		t.Errorf("RectFromPoints = %v", r)
	}
	u := R(0, 0, 2, 2).Union(R(5, -1, 1, 1))
	if u != R(0, -1, 6, 3) {
		t.Errorf("Union = %v", u)
	}
	if e := R(0, 0, 2, 2).Extend(1); e != R(-1, -1, 4, 4) {
		t.Errorf("Extend = %v", e)
	}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"on segment", Pt(5, 0), 0},
		{"above middle", Pt(5, 3), 3},
		{"beyond end", Pt(13, 4), 5},
		{"before start", Pt(-3, 0), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentDistance(tt.p, Pt(0, 0), Pt(10, 0))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SegmentDistance = %v, want %v", got, tt.want)
			}
		})
	}

	if d := PolylineDistance(Pt(0, 0), []Point{{1, 1}}); !math.IsInf(d, 1) {
		t.Errorf("single point polyline distance = %v, want +Inf", d)
	}
}

func TestSnapToGrid(t *testing.T) {
	if got := SnapToGrid(Pt(1.4, -2.6)); got != Pt(1, -3) {
		t.Errorf("SnapToGrid = %v", got)
	}
}
