package diagram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/history"
)

func TestInsertAndRemove(t *testing.T) {
	d := New()
	a, b, c := NewObject(), NewObject(), NewObject()

	require.NoError(t, d.AddObject(a))
	require.NoError(t, d.AddObject(c))
	require.NoError(t, d.InsertObject(b, 1))

	assert.Equal(t, []*Object{a, b, c}, d.Objects())
	assert.Equal(t, d, b.Diagram())
	assert.Equal(t, 1, d.IndexOf(b))

	// Re-inserting is a no-op.
	require.NoError(t, d.InsertObject(b, 0))
	assert.Equal(t, 3, d.Len())

	assert.True(t, d.RemoveObject(b))
	assert.False(t, d.RemoveObject(b))
	assert.Nil(t, b.Diagram())
	assert.Equal(t, []*Object{a, c}, d.Objects())
}

func TestInsertErrors(t *testing.T) {
	d1, d2 := New(), New()
	obj := NewObject()
	require.NoError(t, d1.AddObject(obj))

	assert.ErrorIs(t, d2.AddObject(obj), ErrForeignObject)
	assert.ErrorIs(t, d2.AddObject(nil), ErrNilObject)
}

func TestUndoInsertRemove(t *testing.T) {
	d := New()
	a, b := NewObject(), NewObject()
	require.NoError(t, d.AddObject(a))
	require.NoError(t, d.AddObject(b))
	d.RemoveObject(a)

	require.NoError(t, d.Undo())
	assert.Equal(t, []*Object{a, b}, d.Objects())

	require.NoError(t, d.Undo())
	require.NoError(t, d.Undo())
	assert.Zero(t, d.Len())
	assert.False(t, d.CanUndo())

	require.NoError(t, d.Redo())
	require.NoError(t, d.Redo())
	require.NoError(t, d.Redo())
	assert.Equal(t, []*Object{b}, d.Objects())
}

func TestAttributeWritesAreRecorded(t *testing.T) {
	d := New()
	obj := NewSymbol("res", geom.Pt(0, 0))
	require.NoError(t, d.AddObject(obj))

	require.NoError(t, obj.Set("label", "R1"))
	require.NoError(t, obj.Set("label", "R2"))
	assert.Equal(t, 3, d.History().UndoCount())

	require.NoError(t, d.Undo())
	assert.Equal(t, "R1", obj.Text("label", ""))
	require.NoError(t, d.Undo())
	_, ok := obj.Get("label")
	assert.False(t, ok, "label should be absent after undoing its creation")

	// Replay must not record anything new.
	assert.Equal(t, 1, d.History().UndoCount())
	assert.Equal(t, 2, d.History().RedoCount())
}

func TestNoopWriteIsNotRecorded(t *testing.T) {
	d := New()
	obj := NewObject()
	require.NoError(t, d.AddObject(obj))
	require.NoError(t, obj.Set("x", 5.0))
	before := d.History().UndoCount()

	require.NoError(t, obj.Set("x", 5.0))
	assert.Equal(t, before, d.History().UndoCount())
}

func TestStandaloneWritesAreNotRecorded(t *testing.T) {
	d := New()
	obj := NewObject()
	require.NoError(t, obj.Set("x", 3.0))
	require.NoError(t, d.AddObject(obj))

	assert.Equal(t, 1, d.History().UndoCount())
	assert.Equal(t, 3.0, obj.Float("x", 0))
}

func TestGroupedActionIsAtomic(t *testing.T) {
	d := New()
	obj := NewObject()

	d.BeginUserAction("Add")
	require.NoError(t, d.AddObject(obj))
	require.NoError(t, obj.Set("x", 1.0))
	require.NoError(t, obj.Set("x", 2.0))
	d.EndUserAction()

	require.Equal(t, 1, d.History().UndoCount())

	require.NoError(t, d.Undo())
	assert.False(t, d.Contains(obj))
	assert.Zero(t, d.Len())

	require.NoError(t, d.Redo())
	assert.True(t, d.Contains(obj))
	assert.Equal(t, 2.0, obj.Float("x", 0))
}

func TestUndoRefusedInsideUserAction(t *testing.T) {
	d := New()
	obj := NewObject()
	require.NoError(t, d.AddObject(obj))

	d.BeginUserAction("drag")
	assert.False(t, d.CanUndo())
	assert.ErrorIs(t, d.Undo(), history.ErrGroupOpen)
	d.EndUserAction()
	assert.True(t, d.CanUndo())
}

func TestSetPosIsOneEntry(t *testing.T) {
	d := New()
	obj := NewSymbol("res", geom.Pt(0, 0))
	require.NoError(t, d.AddObject(obj))
	n := d.History().UndoCount()

	require.NoError(t, obj.SetPos(geom.Pt(4, 5)))
	assert.Equal(t, n+1, d.History().UndoCount())

	require.NoError(t, d.Undo())
	assert.Equal(t, geom.Pt(0, 0), obj.Pos())
}

func TestSelection(t *testing.T) {
	d := New()
	a, b := NewObject(), NewObject()
	require.NoError(t, d.AddObject(a))
	require.NoError(t, d.AddObject(b))

	// Objects outside the diagram cannot be selected.
	assert.False(t, d.Select(NewObject()))

	assert.True(t, d.Select(b))
	assert.False(t, d.Select(b))
	assert.True(t, d.IsSelected(b))

	d.SelectAll()
	assert.Equal(t, []*Object{a, b}, d.Selection())

	d.RemoveObject(a)
	assert.False(t, d.IsSelected(a), "removal must drop the object from the selection")
	assert.Equal(t, 1, d.SelectionCount())

	d.UnselectAll()
	assert.Zero(t, d.SelectionCount())
}

func TestSetSelectionIgnoresForeignObjects(t *testing.T) {
	d := New()
	a := NewObject()
	require.NoError(t, d.AddObject(a))

	var events int
	d.Subscribe(func(ev Event) {
		if ev.Type == EventSelectionChanged {
			events++
		}
	})

	d.SetSelection([]*Object{a, NewObject()})
	d.SetSelection([]*Object{a})
	assert.Equal(t, []*Object{a}, d.Selection())
	assert.Equal(t, 1, events)
}

func TestRemoveSelectionUndo(t *testing.T) {
	d := New()
	a, b, c := NewObject(), NewObject(), NewObject()
	for _, o := range []*Object{a, b, c} {
		require.NoError(t, d.AddObject(o))
	}
	d.Select(a)
	d.Select(c)

	assert.Equal(t, 2, d.RemoveSelection())
	assert.Equal(t, []*Object{b}, d.Objects())

	require.NoError(t, d.Undo())
	assert.Equal(t, []*Object{a, b, c}, d.Objects())
}

func TestNotificationsAreSynchronousAndOrdered(t *testing.T) {
	d := New()
	obj := NewObject()

	var log []string
	d.Subscribe(func(ev Event) { log = append(log, "first "+ev.Kind.String()) })
	sub := d.Subscribe(func(ev Event) { log = append(log, "second "+ev.Kind.String()) })

	require.NoError(t, d.AddObject(obj))
	assert.Equal(t, []string{"first insert", "second insert"}, log)

	sub.Unsubscribe()
	sub.Unsubscribe()
	log = nil
	require.NoError(t, obj.Set("x", 1.0))
	assert.Equal(t, []string{"first attribute"}, log)
}

func TestChangeEventCarriesValues(t *testing.T) {
	d := New()
	obj := NewObject()
	require.NoError(t, d.AddObject(obj))

	var got []Event
	d.Subscribe(func(ev Event) { got = append(got, ev) })

	require.NoError(t, obj.Set("x", 7.0))
	require.NoError(t, d.Undo())

	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].Attr.Path)
	assert.Equal(t, 7.0, got[0].Attr.New.Interface())
	assert.False(t, got[0].Replay)
	assert.True(t, got[1].Replay)
	assert.False(t, got[1].Attr.New.Exists())
}

func TestModifiedFlag(t *testing.T) {
	d := New()
	assert.False(t, d.Modified())
	require.NoError(t, d.AddObject(NewObject()))
	assert.True(t, d.Modified())
	d.SetModified(false)
	d.Select(d.At(0))
	assert.False(t, d.Modified(), "selection is not a content change")
}

func TestResetClearsHistory(t *testing.T) {
	d := New()
	old := NewObject()
	require.NoError(t, d.AddObject(old))
	d.Select(old)

	fresh := NewObject()
	require.NoError(t, d.Reset([]*Object{fresh}))
	assert.Equal(t, []*Object{fresh}, d.Objects())
	assert.Nil(t, old.Diagram())
	assert.False(t, d.CanUndo())
	assert.Zero(t, d.SelectionCount())
	assert.False(t, d.Modified())
}

func TestHistoryLimit(t *testing.T) {
	d := New(WithHistoryLimit(2))
	for i := 0; i < 4; i++ {
		require.NoError(t, d.AddObject(NewObject()))
	}
	assert.Equal(t, 2, d.History().UndoCount())
}

func TestClearIsUndoable(t *testing.T) {
	d := New()
	a, b := NewObject(), NewObject()
	require.NoError(t, d.AddObject(a))
	require.NoError(t, d.AddObject(b))

	d.Clear()
	assert.Zero(t, d.Len())

	require.NoError(t, d.Undo())
	assert.Equal(t, []*Object{a, b}, d.Objects())
}

func TestDuplicate(t *testing.T) {
	d := New()
	src := NewSymbol("res", geom.Pt(1, 2))
	require.NoError(t, d.AddObject(src))
	n := d.History().UndoCount()

	dups := d.Duplicate([]*Object{src}, geom.Pt(2, 2))
	require.Len(t, dups, 1)
	assert.Equal(t, geom.Pt(3, 4), dups[0].Pos())
	assert.Equal(t, "res", dups[0].Class())
	assert.Equal(t, []*Object{dups[0]}, d.Selection())
	assert.Equal(t, n+1, d.History().UndoCount())

	require.NoError(t, d.Undo())
	assert.Equal(t, []*Object{src}, d.Objects())
	assert.Zero(t, d.SelectionCount())
}

func TestTransactionRevertsOnError(t *testing.T) {
	d := New()
	obj := NewObject()
	require.NoError(t, d.AddObject(obj))
	require.NoError(t, obj.Set("x", 1.0))
	d.History().Clear()
	boom := errors.New("boom")

	err := d.Transaction("Edit", func() error {
		require.NoError(t, obj.Set("x", 5.0))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, obj.Float("x", 0))
	assert.False(t, d.CanUndo())
	assert.False(t, d.InUserAction())

	require.NoError(t, d.Transaction("Edit", func() error { return obj.Set("x", 2.0) }))
	info, ok := d.History().PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "Edit", info.Description)
	assert.Equal(t, 1, d.History().UndoCount())
}

func TestUserActionScope(t *testing.T) {
	d := New()
	func() {
		defer d.UserAction("Batch").End()
		require.NoError(t, d.AddObject(NewObject()))
		require.NoError(t, d.AddObject(NewObject()))
		assert.True(t, d.InUserAction())
	}()
	assert.False(t, d.InUserAction())
	assert.Equal(t, 1, d.History().UndoCount())
}
