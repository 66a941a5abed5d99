package persist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/geom"
)

func sampleObjects(t *testing.T) []*diagram.Object {
	t.Helper()
	sym := diagram.NewSymbol("and2", geom.Pt(3, 4))
	require.NoError(t, sym.SetRotation(geom.Rot90))
	require.NoError(t, sym.Set("label", "U1"))
	require.NoError(t, sym.Set("props.delay", 2.5))

	conn := diagram.NewConnection(geom.Pt(1, 1), geom.Route(geom.Pt(4, 2)))

	gen := diagram.NewObject()
	require.NoError(t, gen.Set("note", "hello"))
	return []*diagram.Object{sym, conn, gen}
}

func TestRoundTrip(t *testing.T) {
	objs := sampleObjects(t)

	data, err := Marshal(objs)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := range objs {
		assert.Equal(t, objs[i].ID(), got[i].ID())
		assert.Equal(t, objs[i].Kind(), got[i].Kind())
		assert.Nil(t, got[i].Diagram())
	}

	sym := got[0]
	assert.Equal(t, "and2", sym.Class())
	assert.Equal(t, geom.Pt(3, 4), sym.Pos())
	assert.Equal(t, geom.Rot90, sym.Rotation())
	assert.Equal(t, "U1", sym.Text("label", ""))
	assert.Equal(t, 2.5, sym.Float("props.delay", 0))

	assert.Equal(t, objs[1].AbsolutePoints(), got[1].AbsolutePoints())
	assert.Equal(t, "hello", got[2].Text("note", ""))
}

func TestDecodeEmpty(t *testing.T) {
	objs, err := Unmarshal(nil)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	_, err := Unmarshal([]byte("version: 99\nobjects: []\n"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Unmarshal([]byte("objects: [ {"))
	assert.Error(t, err)
}

func TestDecodeFixesIDs(t *testing.T) {
	doc := `
version: 1
objects:
  - id: not-a-uuid
    kind: symbol
    attrs: {class: res, x: 1, y: 2}
  - id: 6f1c2f4e-3f0a-4a43-9a8e-0a5c2b7f9d11
    kind: symbol
  - id: 6f1c2f4e-3f0a-4a43-9a8e-0a5c2b7f9d11
    kind: wire
`
	objs, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	require.Len(t, objs, 3)

	assert.NotEqual(t, "not-a-uuid", objs[0].ID().String())
	assert.Equal(t, geom.Pt(1, 2), objs[0].Pos())
	assert.Equal(t, "6f1c2f4e-3f0a-4a43-9a8e-0a5c2b7f9d11", objs[1].ID().String())
	assert.NotEqual(t, objs[1].ID(), objs[2].ID(), "duplicate IDs must be replaced")
	assert.Equal(t, diagram.KindGeneric, objs[2].Kind())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.yaml")

	src := diagram.New()
	for _, o := range sampleObjects(t) {
		require.NoError(t, src.AddObject(o))
	}
	require.True(t, src.Modified())

	require.NoError(t, Save(src, path))
	assert.False(t, src.Modified())
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "version: 1"))

	dst := diagram.New()
	require.NoError(t, dst.AddObject(diagram.NewObject()))
	require.NoError(t, Load(dst, path))

	assert.Equal(t, 3, dst.Len())
	assert.False(t, dst.CanUndo())
	assert.False(t, dst.Modified())
	assert.Equal(t, src.At(0).ID(), dst.At(0).ID())
	assert.Same(t, dst, dst.At(0).Diagram())
}

func TestLoadMissingFile(t *testing.T) {
	d := diagram.New()
	err := Load(d, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Equal(t, 0, d.Len())
}
