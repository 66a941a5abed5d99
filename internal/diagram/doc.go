// Package diagram holds the document model: an ordered sequence of objects,
// the current selection, and an undo history that records every change.
//
// Objects are created standalone and become part of a diagram through
// InsertObject. From then on every attribute write is intercepted: it is
// pushed onto the history as an undoable action and announced to observers
// before Set returns.
//
// Related changes can be grouped:
//
//	d.BeginUserAction("Move")
//	obj.Set("x", 10)
//	obj.Set("y", 20)
//	d.EndUserAction()
//
// A single Undo then reverts both writes. Groups nest; only the outermost
// EndUserAction records the entry.
package diagram
