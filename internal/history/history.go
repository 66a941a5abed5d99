package history

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrGroupOpen     = errors.New("user action in progress")
)

// entry wraps an action with metadata.
type entry struct {
	action    Action
	timestamp time.Time
}

// Info provides read-only info about a recorded action.
// Used for displaying undo/redo history to users.
type Info struct {
	Description string
	Timestamp   time.Time
}

// History manages undo/redo state for a diagram.
// It is not safe for concurrent use; the owning diagram serialises access.
type History struct {
	undoStack []*entry
	redoStack []*entry

	// Grouping state
	depth int
	group *Compound

	// 0 means unbounded
	maxEntries int
}

// New creates a history. maxEntries <= 0 keeps every entry.
func New(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{maxEntries: maxEntries}
}

// Push records an action that has already been applied.
// While a group is open the action is absorbed into the group.
func (h *History) Push(a Action) {
	if a == nil {
		return
	}

	if h.depth > 0 {
		if h.group.IsEmpty() {
			// The document diverged from the redo branch.
			h.clearRedo()
		}
		h.group.Add(a)
		return
	}

	h.push(a)
}

// push adds an entry, clearing the redo stack and enforcing the cap.
func (h *History) push(a Action) {
	h.clearRedo()
	h.undoStack = append(h.undoStack, &entry{
		action:    a,
		timestamp: time.Now(),
	})
	h.trim()
}

func (h *History) trim() {
	if h.maxEntries <= 0 || len(h.undoStack) <= h.maxEntries {
		return
	}
	excess := len(h.undoStack) - h.maxEntries
	for _, e := range h.undoStack[:excess] {
		discard(e.action)
	}
	h.undoStack = append([]*entry(nil), h.undoStack[excess:]...)
}

func (h *History) clearRedo() {
	for _, e := range h.redoStack {
		discard(e.action)
	}
	h.redoStack = nil
}

// Undo reverts the last action and moves it to the redo stack.
// If the action fails it stays on the undo stack.
func (h *History) Undo() error {
	if h.depth > 0 {
		return ErrGroupOpen
	}
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}

	e := h.undoStack[len(h.undoStack)-1]
	if err := e.action.Undo(); err != nil {
		return err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return nil
}

// Redo re-applies the last undone action.
func (h *History) Redo() error {
	if h.depth > 0 {
		return ErrGroupOpen
	}
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}

	e := h.redoStack[len(h.redoStack)-1]
	if err := e.action.Redo(); err != nil {
		return err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.depth == 0 && len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.depth == 0 && len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// BeginGroup opens a group, or deepens the current one. The name of the
// outermost group wins.
func (h *History) BeginGroup(name string) {
	h.depth++
	if h.depth == 1 {
		h.group = NewCompound(name)
	}
}

// EndGroup closes one nesting level. Closing the outermost level pushes the
// collected actions as a single entry; an empty group records nothing.
func (h *History) EndGroup() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}

	group := h.group
	h.group = nil
	if group.IsEmpty() {
		return
	}
	h.undoStack = append(h.undoStack, &entry{
		action:    group,
		timestamp: time.Now(),
	})
	h.trim()
}

// CancelGroup drops every nesting level without recording anything.
// Note: edits already applied stay applied.
func (h *History) CancelGroup() {
	if h.group != nil {
		h.group.Discard()
	}
	h.depth = 0
	h.group = nil
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	return h.depth > 0
}

// Depth returns the group nesting depth.
func (h *History) Depth() int {
	return h.depth
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	for _, e := range h.undoStack {
		discard(e.action)
	}
	h.clearRedo()
	h.undoStack = nil
	h.CancelGroup()
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History) PeekUndo() (Info, bool) {
	if len(h.undoStack) == 0 {
		return Info{}, false
	}
	e := h.undoStack[len(h.undoStack)-1]
	return Info{Description: e.action.Description(), Timestamp: e.timestamp}, true
}

// PeekRedo returns info about the next redo entry without removing it.
func (h *History) PeekRedo() (Info, bool) {
	if len(h.redoStack) == 0 {
		return Info{}, false
	}
	e := h.redoStack[len(h.redoStack)-1]
	return Info{Description: e.action.Description(), Timestamp: e.timestamp}, true
}

// MaxEntries returns the cap (0 = unbounded).
func (h *History) MaxEntries() int {
	return h.maxEntries
}
