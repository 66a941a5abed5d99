// Package symbol defines how the interaction engine learns the shape of a
// symbol class: its bounding area, its terminals and a draw routine, all in
// symbol-local unrotated coordinates.
//
// Definitions come from YAML library files (this package) or Lua scripts
// (package symbol/lua) and are collected in a Library, which the engine
// consults through the Resolver interface.
package symbol

import "github.com/dshills/wirecanvas/internal/geom"

// Canvas is the drawing surface handed to a symbol's draw routine.
// Coordinates are symbol-local diagram units; the renderer applies the
// object's rotation, position and the view transform.
type Canvas interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(x, y, w, h float64)
	Circle(x, y, r float64)
	Text(x, y float64, s string)
	Stroke()
	Fill()
}

// Geometry describes one symbol class.
type Geometry interface {
	// BoundingArea is relative to the symbol origin, unrotated.
	BoundingArea() geom.Rect

	// Terminals are connection points relative to the symbol origin, unrotated.
	Terminals() []geom.Point

	// Draw paints the symbol onto c.
	Draw(c Canvas) error
}

// Definition is a Geometry that knows its class name.
type Definition interface {
	Geometry
	Class() string
}

// Resolver looks up geometry by class name.
type Resolver interface {
	FindSymbol(class string) (Geometry, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(class string) (Geometry, bool)

// FindSymbol calls f.
func (f ResolverFunc) FindSymbol(class string) (Geometry, bool) {
	return f(class)
}

// Chain resolves a class with the first resolver that knows it.
type Chain []Resolver

// FindSymbol implements Resolver.
func (c Chain) FindSymbol(class string) (Geometry, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if g, ok := r.FindSymbol(class); ok {
			return g, true
		}
	}
	return nil, false
}
