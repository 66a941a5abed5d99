package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wirecanvas/internal/geom"
)

func TestNewSymbol(t *testing.T) {
	s := NewSymbol("and2", geom.Pt(3, 4))
	assert.Equal(t, KindSymbol, s.Kind())
	assert.Equal(t, "and2", s.Class())
	assert.Equal(t, geom.Pt(3, 4), s.Pos())
	assert.Equal(t, geom.Rot0, s.Rotation())
}

func TestRotationAttribute(t *testing.T) {
	s := NewSymbol("and2", geom.Pt(0, 0))
	require.NoError(t, s.Rotate())
	assert.Equal(t, geom.Rot90, s.Rotation())

	require.NoError(t, s.SetRotation(geom.Rot0))
	_, ok := s.Get(KeyRotation)
	assert.False(t, ok, "zero rotation is stored as absence")

	require.NoError(t, s.Set(KeyRotation, 260))
	assert.Equal(t, geom.Rot270, s.Rotation())
}

func TestConnectionPoints(t *testing.T) {
	c := NewConnection(geom.Pt(10, 10), []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 3}})
	assert.Equal(t, KindConnection, c.Kind())
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 3}}, c.Points())
	assert.Equal(t, []geom.Point{{X: 10, Y: 10}, {X: 15, Y: 10}, {X: 15, Y: 13}}, c.AbsolutePoints())

	require.NoError(t, c.SetPoints(nil))
	assert.Nil(t, c.Points())
}

func TestMalformedPointsFallBack(t *testing.T) {
	c := NewConnection(geom.Pt(0, 0), nil)
	require.NoError(t, c.Set(KeyPoints, "oops"))
	assert.Nil(t, c.Points())

	require.NoError(t, c.Set(KeyPoints, []any{map[string]any{"x": 1}}))
	assert.Nil(t, c.Points())
}

func TestReadFallbacks(t *testing.T) {
	o := NewObject()
	assert.Equal(t, 9.0, o.Float("missing", 9))

	require.NoError(t, o.Set("label", map[string]any{"text": "a"}))
	assert.Equal(t, "dflt", o.Text("label", "dflt"))
	assert.Equal(t, -1.0, o.Float("label", -1))
}

func TestMoveBy(t *testing.T) {
	o := NewSymbol("x", geom.Pt(1, 1))
	require.NoError(t, o.MoveBy(geom.Pt(2, -1)))
	assert.Equal(t, geom.Pt(3, 0), o.Pos())
}

func TestCloneIsIndependent(t *testing.T) {
	d := New()
	o := NewSymbol("x", geom.Pt(1, 1))
	require.NoError(t, d.AddObject(o))

	c := o.Clone()
	assert.NotEqual(t, o.ID(), c.ID())
	assert.Nil(t, c.Diagram())

	require.NoError(t, c.SetPos(geom.Pt(9, 9)))
	assert.Equal(t, geom.Pt(1, 1), o.Pos())
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindGeneric, KindSymbol, KindConnection} {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Equal(t, KindGeneric, ParseKind("blob"))
}
