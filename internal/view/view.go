// Package view maps between widget pixels and diagram units.
//
// The transform is a uniform scale about the view center:
//
//	scale = baseUnitPixels * zoom
//	widget = scale*(diagram-center) + size/2
//
// ToDiagram and ToWidget are exact inverses at every zoom level.
package view

import (
	"math"

	"github.com/dshills/wirecanvas/internal/geom"
)

// Default view parameters.
const (
	DefaultZoomMin        = 0.1
	DefaultZoomMax        = 20.0
	DefaultZoomStep       = 1.25
	DefaultBaseUnitPixels = 10.0
)

// View is the pan/zoom state of a canvas widget.
type View struct {
	center geom.Point
	zoom   float64

	zoomMin  float64
	zoomMax  float64
	zoomStep float64

	baseUnitPixels float64

	width  float64
	height float64
}

// Option configures a View.
type Option func(*View)

// WithZoomRange sets the zoom bounds. Invalid ranges are ignored.
func WithZoomRange(lo, hi float64) Option {
	return func(v *View) {
		if lo > 0 && hi >= lo {
			v.zoomMin, v.zoomMax = lo, hi
		}
	}
}

// WithZoomStep sets the multiplicative zoom factor per step. Must be > 1.
func WithZoomStep(step float64) Option {
	return func(v *View) {
		if step > 1 {
			v.zoomStep = step
		}
	}
}

// WithBaseUnitPixels sets the pixel length of one diagram unit at zoom 1.
func WithBaseUnitPixels(px float64) Option {
	return func(v *View) {
		if px > 0 {
			v.baseUnitPixels = px
		}
	}
}

// New creates a view of the given widget size centered on the origin at
// zoom 1 (clamped into the zoom range).
func New(width, height float64, opts ...Option) *View {
	v := &View{
		zoom:           1,
		zoomMin:        DefaultZoomMin,
		zoomMax:        DefaultZoomMax,
		zoomStep:       DefaultZoomStep,
		baseUnitPixels: DefaultBaseUnitPixels,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.SetSize(width, height)
	v.zoom = v.clamp(v.zoom)
	return v
}

// BaseUnitPixelsForDPI derives the pixel length of one diagram unit from a
// display resolution, given the physical size of a unit in millimetres.
func BaseUnitPixelsForDPI(dpi, unitMM float64) float64 {
	if dpi <= 0 || unitMM <= 0 {
		return DefaultBaseUnitPixels
	}
	return dpi * unitMM / 25.4
}

// Center returns the diagram point shown at the middle of the widget.
func (v *View) Center() geom.Point { return v.center }

// Zoom returns the zoom factor.
func (v *View) Zoom() float64 { return v.zoom }

// ZoomRange returns the zoom bounds.
func (v *View) ZoomRange() (lo, hi float64) { return v.zoomMin, v.zoomMax }

// BaseUnitPixels returns the pixel length of one unit at zoom 1.
func (v *View) BaseUnitPixels() float64 { return v.baseUnitPixels }

// Scale returns pixels per diagram unit.
func (v *View) Scale() float64 { return v.baseUnitPixels * v.zoom }

// Size returns the widget size in pixels.
func (v *View) Size() (width, height float64) { return v.width, v.height }

// Bounds returns the widget rectangle in widget coordinates.
func (v *View) Bounds() geom.Rect { return geom.R(0, 0, v.width, v.height) }

// SetSize updates the widget size. Negative values are treated as zero.
func (v *View) SetSize(width, height float64) {
	v.width = math.Max(width, 0)
	v.height = math.Max(height, 0)
}

// SetCenter moves the view center.
func (v *View) SetCenter(c geom.Point) { v.center = c }

// SetBaseUnitPixels changes the unit size, e.g. when the widget moves to a
// display with a different resolution. Non-positive values are ignored.
func (v *View) SetBaseUnitPixels(px float64) {
	if px > 0 {
		v.baseUnitPixels = px
	}
}

// SetZoom sets the zoom factor, clamped to the zoom range.
func (v *View) SetZoom(z float64) { v.zoom = v.clamp(z) }

func (v *View) clamp(z float64) float64 {
	return math.Min(math.Max(z, v.zoomMin), v.zoomMax)
}

// ToDiagram converts a widget point to diagram coordinates.
func (v *View) ToDiagram(w geom.Point) geom.Point {
	s := v.Scale()
	return geom.Point{
		X: v.center.X + (w.X-v.width/2)/s,
		Y: v.center.Y + (w.Y-v.height/2)/s,
	}
}

// ToWidget converts a diagram point to widget coordinates.
func (v *View) ToWidget(d geom.Point) geom.Point {
	s := v.Scale()
	return geom.Point{
		X: s*(d.X-v.center.X) + v.width/2,
		Y: s*(d.Y-v.center.Y) + v.height/2,
	}
}

// RectToWidget converts a diagram rectangle to widget coordinates.
func (v *View) RectToWidget(r geom.Rect) geom.Rect {
	return geom.RectFromPoints(v.ToWidget(r.Min()), v.ToWidget(r.Max()))
}

// RectToDiagram converts a widget rectangle to diagram coordinates.
func (v *View) RectToDiagram(r geom.Rect) geom.Rect {
	return geom.RectFromPoints(v.ToDiagram(r.Min()), v.ToDiagram(r.Max()))
}

// Visible returns the diagram area currently shown.
func (v *View) Visible() geom.Rect {
	return v.RectToDiagram(v.Bounds())
}

// Pan scrolls the view by a widget-pixel delta. Content moves with the
// delta, so the center moves against it.
func (v *View) Pan(dx, dy float64) {
	s := v.Scale()
	v.center.X -= dx / s
	v.center.Y -= dy / s
}

// ZoomAt changes the zoom by steps (positive zooms in) while keeping the
// diagram point under the widget point p fixed. It reports whether the zoom
// changed.
func (v *View) ZoomAt(p geom.Point, steps int) bool {
	if steps == 0 {
		return false
	}
	next := v.clamp(v.zoom * math.Pow(v.zoomStep, float64(steps)))
	if next == v.zoom {
		return false
	}
	anchor := v.ToDiagram(p)
	v.zoom = next
	s := v.Scale()
	v.center.X = anchor.X - (p.X-v.width/2)/s
	v.center.Y = anchor.Y - (p.Y-v.height/2)/s
	return true
}

// ZoomIn zooms one step about the widget center.
func (v *View) ZoomIn() bool {
	return v.ZoomAt(geom.Pt(v.width/2, v.height/2), 1)
}

// ZoomOut zooms out one step about the widget center.
func (v *View) ZoomOut() bool {
	return v.ZoomAt(geom.Pt(v.width/2, v.height/2), -1)
}

// Fit centers r and picks the largest zoom that shows all of it, leaving
// margin pixels on each side.
func (v *View) Fit(r geom.Rect, margin float64) {
	v.center = geom.Pt(r.X+r.W/2, r.Y+r.H/2)
	if r.W <= 0 || r.H <= 0 || v.width <= 2*margin || v.height <= 2*margin {
		return
	}
	zx := (v.width - 2*margin) / (r.W * v.baseUnitPixels)
	zy := (v.height - 2*margin) / (r.H * v.baseUnitPixels)
	v.zoom = v.clamp(math.Min(zx, zy))
}

// State is a copyable snapshot of the view for renderers.
type State struct {
	Center         geom.Point
	Zoom           float64
	BaseUnitPixels float64
	Width, Height  float64
}

// State returns the current transform.
func (v *View) State() State {
	return State{
		Center:         v.center,
		Zoom:           v.zoom,
		BaseUnitPixels: v.baseUnitPixels,
		Width:          v.width,
		Height:         v.height,
	}
}

// Scale returns pixels per diagram unit for the snapshot.
func (s State) Scale() float64 { return s.BaseUnitPixels * s.Zoom }

// ToWidget converts a diagram point using the snapshot.
func (s State) ToWidget(d geom.Point) geom.Point {
	sc := s.Scale()
	return geom.Point{
		X: sc*(d.X-s.Center.X) + s.Width/2,
		Y: sc*(d.Y-s.Center.Y) + s.Height/2,
	}
}
