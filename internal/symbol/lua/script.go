package lua

import (
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/symbol"
)

// Script is a symbol registered by a Lua script. It implements
// symbol.Definition and io.Closer.
type Script struct {
	state *State

	class     string
	category  string
	area      geom.Rect
	terminals []geom.Point
	draw      *lua.LFunction

	closeOnce sync.Once
}

// Class implements symbol.Definition.
func (s *Script) Class() string { return s.class }

// Category returns the optional library category.
func (s *Script) Category() string { return s.category }

// BoundingArea implements symbol.Geometry.
func (s *Script) BoundingArea() geom.Rect { return s.area }

// Terminals implements symbol.Geometry.
func (s *Script) Terminals() []geom.Point {
	out := make([]geom.Point, len(s.terminals))
	copy(out, s.terminals)
	return out
}

// Draw implements symbol.Geometry. Symbols without a draw function outline
// their bounding area.
func (s *Script) Draw(c symbol.Canvas) error {
	if s.draw == nil {
		c.Rect(s.area.X, s.area.Y, s.area.W, s.area.H)
		c.Stroke()
		return nil
	}
	return s.state.draw(s.draw, c)
}

// Close releases this script's hold on the Lua state.
func (s *Script) Close() error {
	s.closeOnce.Do(s.state.release)
	return nil
}
