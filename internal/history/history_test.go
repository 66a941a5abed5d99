package history

import (
	"errors"
	"fmt"
	"testing"
)

// setAction records an assignment to *target so tests can undo/redo it.
func setAction(target *int, from, to int) *Func {
	return NewFunc(fmt.Sprintf("set %d", to),
		func() error { *target = from; return nil },
		func() error { *target = to; return nil },
	)
}

// apply performs an assignment and records it.
func apply(h *History, target *int, to int) {
	from := *target
	*target = to
	h.Push(setAction(target, from, to))
}

// Compound Tests

func TestCompoundOrder(t *testing.T) {
	var log []string
	mk := func(name string) *Func {
		return NewFunc(name,
			func() error { log = append(log, "undo "+name); return nil },
			func() error { log = append(log, "redo "+name); return nil },
		)
	}
	c := NewCompound("both", mk("a"), mk("b"))

	if err := c.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if err := c.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}

	want := []string{"undo b", "undo a", "redo a", "redo b"}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", log, want)
	}
}

func TestCompoundRedoRollsBack(t *testing.T) {
	v := 0
	boom := errors.New("boom")
	c := NewCompound("broken",
		setAction(&v, 0, 1),
		NewFunc("fail", nil, func() error { return boom }),
	)
	err := c.Redo()
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if v != 0 {
		t.Errorf("partial redo not rolled back: v = %d", v)
	}
}

func TestCompoundDescription(t *testing.T) {
	tests := []struct {
		name string
		c    *Compound
		want string
	}{
		{"named", NewCompound("Move"), "Move"},
		{"single", NewCompound("", NewFunc("set x", nil, nil)), "set x"},
		{"many", NewCompound("", NewFunc("a", nil, nil), NewFunc("b", nil, nil)), "2 operations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Description(); got != tt.want {
				t.Errorf("Description() = %q, want %q", got, tt.want)
			}
		})
	}
}

// History Tests

func TestHistoryUndoRedoLinear(t *testing.T) {
	h := New(0)
	v := 0
	for i := 1; i <= 5; i++ {
		apply(h, &v, i*10)
	}

	for i := 0; i < 5; i++ {
		if err := h.Undo(); err != nil {
			t.Fatalf("Undo %d failed: %v", i, err)
		}
		if !h.CanRedo() {
			t.Fatal("CanRedo should be true after undo")
		}
	}
	if v != 0 {
		t.Errorf("after undoing everything v = %d, want 0", v)
	}
	if h.CanUndo() {
		t.Error("CanUndo should be false")
	}

	for i := 0; i < 5; i++ {
		if err := h.Redo(); err != nil {
			t.Fatalf("Redo %d failed: %v", i, err)
		}
	}
	if v != 50 {
		t.Errorf("after redoing everything v = %d, want 50", v)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := New(0)
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on empty = %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo on empty = %v, want ErrNothingToRedo", err)
	}
}

func TestHistoryPushClearsRedo(t *testing.T) {
	h := New(0)
	v := 0
	apply(h, &v, 1)
	apply(h, &v, 2)
	_ = h.Undo()

	if h.RedoCount() != 1 {
		t.Fatalf("RedoCount = %d, want 1", h.RedoCount())
	}

	apply(h, &v, 3)
	if h.CanRedo() {
		t.Error("new action should clear redo stack")
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount = %d, want 2", h.UndoCount())
	}
}

func TestHistoryDiscardOnRedoClear(t *testing.T) {
	h := New(0)
	v := 0
	discarded := 0
	a := setAction(&v, 0, 1)
	a.Teardown = func() { discarded++ }
	v = 1
	h.Push(a)
	_ = h.Undo()

	apply(h, &v, 5)
	if discarded != 1 {
		t.Errorf("teardown ran %d times, want 1", discarded)
	}
}

func TestHistoryGroupAtomic(t *testing.T) {
	h := New(0)
	v := 0

	h.BeginGroup("drag")
	apply(h, &v, 1)
	apply(h, &v, 2)
	apply(h, &v, 3)
	h.EndGroup()

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", h.UndoCount())
	}
	if err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if v != 0 {
		t.Errorf("v = %d, want 0", v)
	}
	if err := h.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if v != 3 {
		t.Errorf("v = %d, want 3", v)
	}
}

func TestHistoryNestedGroups(t *testing.T) {
	h := New(0)
	v := 0

	h.BeginGroup("outer")
	apply(h, &v, 1)
	h.BeginGroup("inner")
	apply(h, &v, 2)
	h.EndGroup()

	if !h.IsGrouping() || h.Depth() != 1 {
		t.Fatalf("inner EndGroup should leave outer open, depth = %d", h.Depth())
	}
	if h.UndoCount() != 0 {
		t.Fatal("nothing should be recorded before the outer group closes")
	}

	apply(h, &v, 3)
	h.EndGroup()

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", h.UndoCount())
	}
	info, _ := h.PeekUndo()
	if info.Description != "outer" {
		t.Errorf("description = %q, want outer", info.Description)
	}
	_ = h.Undo()
	if v != 0 {
		t.Errorf("v = %d, want 0", v)
	}
}

func TestHistoryUndoRefusedWhileGrouping(t *testing.T) {
	h := New(0)
	v := 0
	apply(h, &v, 1)

	h.BeginGroup("g")
	if h.CanUndo() {
		t.Error("CanUndo should be false while grouping")
	}
	if err := h.Undo(); !errors.Is(err, ErrGroupOpen) {
		t.Errorf("Undo while grouping = %v, want ErrGroupOpen", err)
	}
	h.EndGroup()

	if !h.CanUndo() {
		t.Error("CanUndo should be true after the group closes")
	}
}

func TestHistoryEmptyGroupRecordsNothing(t *testing.T) {
	h := New(0)
	v := 0
	apply(h, &v, 1)
	_ = h.Undo()

	h.BeginGroup("nothing")
	h.EndGroup()

	if h.UndoCount() != 0 {
		t.Errorf("UndoCount = %d, want 0", h.UndoCount())
	}
	if !h.CanRedo() {
		t.Error("an empty group must not clear redo")
	}
}

func TestHistoryGroupClearsRedo(t *testing.T) {
	h := New(0)
	v := 0
	apply(h, &v, 1)
	_ = h.Undo()

	h.BeginGroup("g")
	apply(h, &v, 7)
	h.EndGroup()

	if h.CanRedo() {
		t.Error("recording inside a group should clear redo")
	}
}

func TestHistoryCancelGroup(t *testing.T) {
	h := New(0)
	v := 0
	h.BeginGroup("a")
	h.BeginGroup("b")
	apply(h, &v, 4)
	h.CancelGroup()

	if h.IsGrouping() {
		t.Error("CancelGroup should reset depth")
	}
	if h.UndoCount() != 0 {
		t.Error("CancelGroup should not record")
	}
	if v != 4 {
		t.Error("CancelGroup should not revert applied edits")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := New(3)
	v := 0
	for i := 1; i <= 5; i++ {
		apply(h, &v, i)
	}
	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount = %d, want 3", h.UndoCount())
	}
	for h.CanUndo() {
		_ = h.Undo()
	}
	if v != 2 {
		t.Errorf("oldest surviving state v = %d, want 2", v)
	}
	if h.MaxEntries() != 3 {
		t.Errorf("MaxEntries = %d", h.MaxEntries())
	}
}

func TestHistoryUnbounded(t *testing.T) {
	h := New(0)
	v := 0
	for i := 0; i < 5000; i++ {
		apply(h, &v, i)
	}
	if h.UndoCount() != 5000 {
		t.Errorf("UndoCount = %d, want 5000", h.UndoCount())
	}
}

func TestHistoryFailedUndoStays(t *testing.T) {
	h := New(0)
	boom := errors.New("boom")
	h.Push(NewFunc("bad", func() error { return boom }, nil))

	if err := h.Undo(); !errors.Is(err, boom) {
		t.Fatalf("Undo = %v, want boom", err)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Error("failed undo should leave stacks unchanged")
	}
}

func TestHistoryInfo(t *testing.T) {
	h := New(0)
	v := 0
	apply(h, &v, 1)
	apply(h, &v, 2)
	_ = h.Undo()

	undo, ok := h.PeekUndo()
	if !ok || undo.Description != "set 1" {
		t.Errorf("PeekUndo = %+v, %v", undo, ok)
	}
	redo, ok := h.PeekRedo()
	if !ok || redo.Description != "set 2" {
		t.Errorf("PeekRedo = %+v, %v", redo, ok)
	}
	if redo.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
}

// Group helpers

func TestGroupScope(t *testing.T) {
	h := New(0)
	v := 0
	func() {
		defer h.GroupScope("scoped").End()
		apply(h, &v, 1)
		apply(h, &v, 2)
	}()

	if h.IsGrouping() {
		t.Error("scope should close the group")
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", h.UndoCount())
	}
}

func TestTransactionRollsBack(t *testing.T) {
	h := New(0)
	v := 0
	boom := errors.New("boom")
	err := h.Transaction("tx", func() error {
		apply(h, &v, 9)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction = %v", err)
	}
	if v != 0 {
		t.Errorf("failed transaction left v = %d", v)
	}
	if h.UndoCount() != 0 {
		t.Error("failed transaction should record nothing")
	}

	if err := h.Transaction("ok", func() error { apply(h, &v, 3); return nil }); err != nil {
		t.Fatal(err)
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", h.UndoCount())
	}
}
