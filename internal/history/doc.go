// Package history provides undo/redo for diagram edits.
//
// The history system records reversible actions on two stacks. Key concepts:
//
// # Actions
//
// An Action is one atomic, reversible edit. It knows how to Undo and Redo
// itself and carries whatever captured state it needs (for example the old
// and new value of an attribute):
//
//	h.Push(history.NewFunc("Move R1", undoFn, redoFn))
//
// Actions are recorded after the edit has already been applied. Push never
// calls Redo.
//
// # History Stack
//
// The History type manages the undo and redo stacks:
//
//	h := history.New(0) // unbounded
//	h.Undo()
//	h.Redo()
//
// Recording a new action clears the redo stack, so history is linear.
//
// # Grouping
//
// Several actions can be recorded as a single undo unit. Groups nest; only
// the outermost EndGroup pushes the composite:
//
//	h.BeginGroup("Drag selection")
//	// ... many attribute writes ...
//	h.EndGroup()
//
// Undo and Redo are refused while a group is open.
package history
