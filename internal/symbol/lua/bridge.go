package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/symbol"
)

const canvasTypeName = "wirecanvas.canvas"

// registerCanvasType installs the metatable shared by every canvas userdata.
func registerCanvasType(L *lua.LState) {
	mt := L.NewTypeMetatable(canvasTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"move_to": canvasMoveTo,
		"line_to": canvasLineTo,
		"rect":    canvasRect,
		"circle":  canvasCircle,
		"text":    canvasText,
		"stroke":  canvasStroke,
		"fill":    canvasFill,
	}))
}

// newCanvas wraps c for one draw call. The caller clears ud.Value afterwards
// so a canvas retained by the script cannot be used later.
func newCanvas(L *lua.LState, c symbol.Canvas) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = c
	L.SetMetatable(ud, L.GetTypeMetatable(canvasTypeName))
	return ud
}

func checkCanvas(L *lua.LState) symbol.Canvas {
	ud := L.CheckUserData(1)
	c, ok := ud.Value.(symbol.Canvas)
	if !ok {
		L.ArgError(1, "canvas expected (is it used outside draw?)")
		return nil
	}
	return c
}

func num(L *lua.LState, n int) float64 {
	return float64(L.CheckNumber(n))
}

func canvasMoveTo(L *lua.LState) int {
	checkCanvas(L).MoveTo(num(L, 2), num(L, 3))
	return 0
}

func canvasLineTo(L *lua.LState) int {
	checkCanvas(L).LineTo(num(L, 2), num(L, 3))
	return 0
}

func canvasRect(L *lua.LState) int {
	checkCanvas(L).Rect(num(L, 2), num(L, 3), num(L, 4), num(L, 5))
	return 0
}

func canvasCircle(L *lua.LState) int {
	checkCanvas(L).Circle(num(L, 2), num(L, 3), num(L, 4))
	return 0
}

func canvasText(L *lua.LState) int {
	checkCanvas(L).Text(num(L, 2), num(L, 3), L.CheckString(4))
	return 0
}

func canvasStroke(L *lua.LState) int {
	checkCanvas(L).Stroke()
	return 0
}

func canvasFill(L *lua.LState) int {
	checkCanvas(L).Fill()
	return 0
}

// luaSymbol implements the global symbol{...} registration function.
func (s *State) luaSymbol(L *lua.LState) int {
	t := L.CheckTable(1)

	class, ok := t.RawGetString("class").(lua.LString)
	if !ok || class == "" {
		L.ArgError(1, "symbol needs a class string")
		return 0
	}

	areaTbl, ok := t.RawGetString("area").(*lua.LTable)
	if !ok {
		L.ArgError(1, "symbol "+string(class)+" needs an area table")
		return 0
	}
	area, ok := tableRect(areaTbl)
	if !ok || area.W <= 0 || area.H <= 0 {
		L.ArgError(1, "symbol "+string(class)+": area needs numeric x, y and positive w, h")
		return 0
	}

	var terminals []geom.Point
	switch v := t.RawGetString("terminals").(type) {
	case *lua.LNilType:
	case *lua.LTable:
		for i := 1; i <= v.Len(); i++ {
			pt, ok := v.RawGetInt(i).(*lua.LTable)
			if !ok {
				L.ArgError(1, "symbol "+string(class)+": terminals must be point tables")
				return 0
			}
			p, ok := tablePoint(pt)
			if !ok {
				L.ArgError(1, "symbol "+string(class)+": terminal needs numeric x and y")
				return 0
			}
			terminals = append(terminals, p)
		}
	default:
		L.ArgError(1, "symbol "+string(class)+": terminals must be a table")
		return 0
	}

	var draw *lua.LFunction
	switch v := t.RawGetString("draw").(type) {
	case *lua.LNilType:
	case *lua.LFunction:
		draw = v
	default:
		L.ArgError(1, "symbol "+string(class)+": draw must be a function")
		return 0
	}

	category, _ := t.RawGetString("category").(lua.LString)

	sc := &Script{
		state:     s,
		class:     string(class),
		category:  string(category),
		area:      area,
		terminals: terminals,
		draw:      draw,
	}
	s.scripts = append(s.scripts, sc)
	s.refs++
	return 0
}

// field reads a number by name, falling back to an array position.
func field(t *lua.LTable, name string, pos int) (float64, bool) {
	v := t.RawGetString(name)
	if v == lua.LNil {
		v = t.RawGetInt(pos)
	}
	n, ok := v.(lua.LNumber)
	return float64(n), ok
}

func tablePoint(t *lua.LTable) (geom.Point, bool) {
	x, okX := field(t, "x", 1)
	y, okY := field(t, "y", 2)
	return geom.Point{X: x, Y: y}, okX && okY
}

func tableRect(t *lua.LTable) (geom.Rect, bool) {
	x, okX := field(t, "x", 1)
	y, okY := field(t, "y", 2)
	w, okW := field(t, "w", 3)
	h, okH := field(t, "h", 4)
	return geom.Rect{X: x, Y: y, W: w, H: h}, okX && okY && okW && okH
}
