package diagram

import "github.com/dshills/wirecanvas/internal/attr"

// EventType distinguishes the two notification channels.
type EventType int

const (
	// EventChanged reports a content change: an attribute write, an insert
	// or a removal.
	EventChanged EventType = iota

	// EventSelectionChanged reports a change in selection membership.
	EventSelectionChanged
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventChanged:
		return "changed"
	case EventSelectionChanged:
		return "selection-changed"
	default:
		return "unknown"
	}
}

// ChangeKind details an EventChanged.
type ChangeKind int

const (
	// ChangeAttribute is an attribute write on a contained object.
	ChangeAttribute ChangeKind = iota
	// ChangeInsert is an object entering the diagram.
	ChangeInsert
	// ChangeRemove is an object leaving the diagram.
	ChangeRemove
	// ChangeReset replaces the whole object sequence.
	ChangeReset
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAttribute:
		return "attribute"
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to observers after the mutation it
// describes has completed.
type Event struct {
	Type EventType

	// Kind is set for EventChanged.
	Kind ChangeKind

	// Object is the object concerned. Nil for resets and bulk selection
	// changes.
	Object *Object

	// Attr holds the before/after pair for ChangeAttribute.
	Attr attr.Change

	// Index is the sequence position for inserts and removals.
	Index int

	// Replay is true when the change comes from undo or redo.
	Replay bool
}

// Observer is called when the diagram changes.
type Observer func(ev Event)

// Subscription represents an active observer subscription.
type Subscription struct {
	id      uint64
	diagram *Diagram
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.diagram != nil {
		s.diagram.unsubscribe(s.id)
		s.diagram = nil
	}
}

type subscriber struct {
	id       uint64
	observer Observer
}
