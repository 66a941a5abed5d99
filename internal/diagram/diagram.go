package diagram

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/attr"
	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/history"
)

// Errors returned by diagram operations.
var (
	// ErrNilObject is returned when a nil object is passed.
	ErrNilObject = errors.New("nil object")

	// ErrForeignObject is returned when inserting an object owned by another diagram.
	ErrForeignObject = errors.New("object belongs to another diagram")
)

// Diagram owns an ordered object sequence (z-order: later objects draw on
// top), a selection and the undo history for both.
//
// A Diagram is single-threaded: every call runs to completion and emits its
// notifications before returning.
type Diagram struct {
	objects   []*Object
	selection map[*Object]struct{}

	history   *history.History
	replaying int

	subscribers []subscriber
	nextSubID   uint64

	modified bool
	logger   *zap.Logger
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithLogger sets the logger used for data-shape warnings.
func WithLogger(l *zap.Logger) Option {
	return func(d *Diagram) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithHistoryLimit caps the number of undo entries. 0 keeps everything.
func WithHistoryLimit(n int) Option {
	return func(d *Diagram) {
		d.history = history.New(n)
	}
}

// New creates an empty diagram.
func New(opts ...Option) *Diagram {
	d := &Diagram{
		selection: make(map[*Object]struct{}),
		history:   history.New(0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Len returns the number of objects.
func (d *Diagram) Len() int {
	return len(d.objects)
}

// Objects returns the object sequence in z-order (bottom first).
// The slice is a copy.
func (d *Diagram) Objects() []*Object {
	out := make([]*Object, len(d.objects))
	copy(out, d.objects)
	return out
}

// At returns the object at index i.
func (d *Diagram) At(i int) *Object {
	return d.objects[i]
}

// IndexOf returns the position of obj in the sequence, or -1.
func (d *Diagram) IndexOf(obj *Object) int {
	if obj == nil || obj.owner != d {
		return -1
	}
	for i, o := range d.objects {
		if o == obj {
			return i
		}
	}
	return -1
}

// Contains reports whether obj is part of the diagram.
func (d *Diagram) Contains(obj *Object) bool {
	return d.IndexOf(obj) >= 0
}

// Find returns the object with the given ID string.
func (d *Diagram) Find(id string) *Object {
	for _, o := range d.objects {
		if o.id.String() == id {
			return o
		}
	}
	return nil
}

// InsertObject adds obj at index; a negative or out-of-range index appends.
// Inserting an object already in the diagram is a no-op.
func (d *Diagram) InsertObject(obj *Object, index int) error {
	if obj == nil {
		return ErrNilObject
	}
	if obj.owner == d {
		return nil
	}
	if obj.owner != nil {
		return ErrForeignObject
	}
	if index < 0 || index > len(d.objects) {
		index = len(d.objects)
	}

	d.insertAt(obj, index)
	d.record(history.NewFunc(fmt.Sprintf("Add %s", obj.kind),
		func() error { d.removeAt(index); return nil },
		func() error { d.insertAt(obj, index); return nil },
	))
	return nil
}

// AddObject appends obj.
func (d *Diagram) AddObject(obj *Object) error {
	return d.InsertObject(obj, -1)
}

// RemoveObject removes obj from the diagram and from the selection.
// It returns false when obj is not contained.
func (d *Diagram) RemoveObject(obj *Object) bool {
	index := d.IndexOf(obj)
	if index < 0 {
		return false
	}
	d.removeAt(index)
	d.record(history.NewFunc(fmt.Sprintf("Delete %s", obj.kind),
		func() error { d.insertAt(obj, index); return nil },
		func() error { d.removeAt(index); return nil },
	))
	return true
}

// RemoveSelection deletes every selected object as one undo entry.
func (d *Diagram) RemoveSelection() int {
	sel := d.Selection()
	if len(sel) == 0 {
		return 0
	}
	defer d.UserAction("Delete selection").End()
	// Topmost first so the recorded indices stay valid on undo.
	for i := len(sel) - 1; i >= 0; i-- {
		d.RemoveObject(sel[i])
	}
	return len(sel)
}

// Clear removes every object as one undo entry.
func (d *Diagram) Clear() {
	if len(d.objects) == 0 {
		return
	}
	defer d.UserAction("Clear").End()
	for len(d.objects) > 0 {
		d.RemoveObject(d.objects[len(d.objects)-1])
	}
}

// Duplicate inserts clones of objs translated by offset, on top of the
// sequence, and selects them. The whole paste is one undo entry.
func (d *Diagram) Duplicate(objs []*Object, offset geom.Point) []*Object {
	if len(objs) == 0 {
		return nil
	}
	defer d.UserAction("Duplicate").End()

	clones := make([]*Object, 0, len(objs))
	for _, o := range objs {
		if o == nil {
			continue
		}
		c := o.Clone()
		_ = c.MoveBy(offset)
		if err := d.AddObject(c); err != nil {
			continue
		}
		clones = append(clones, c)
	}
	d.SetSelection(clones)
	return clones
}

// Reset replaces the whole object sequence, clearing selection and history.
// Used when loading a document; it is not undoable.
func (d *Diagram) Reset(objs []*Object) error {
	for _, o := range objs {
		if o == nil {
			return ErrNilObject
		}
		if o.owner != nil && o.owner != d {
			return ErrForeignObject
		}
	}
	for _, o := range d.objects {
		o.owner = nil
	}
	d.objects = make([]*Object, 0, len(objs))
	for _, o := range objs {
		if o.owner == d {
			continue
		}
		o.owner = d
		d.objects = append(d.objects, o)
	}
	hadSelection := len(d.selection) > 0
	d.selection = make(map[*Object]struct{})
	d.history.Clear()
	d.emit(Event{Type: EventChanged, Kind: ChangeReset})
	d.modified = false
	if hadSelection {
		d.emit(Event{Type: EventSelectionChanged})
	}
	return nil
}

func (d *Diagram) insertAt(obj *Object, index int) {
	if index > len(d.objects) {
		index = len(d.objects)
	}
	d.objects = append(d.objects, nil)
	copy(d.objects[index+1:], d.objects[index:])
	d.objects[index] = obj
	obj.owner = d
	d.emit(Event{Type: EventChanged, Kind: ChangeInsert, Object: obj, Index: index, Replay: d.replaying > 0})
}

func (d *Diagram) removeAt(index int) {
	obj := d.objects[index]
	copy(d.objects[index:], d.objects[index+1:])
	d.objects[len(d.objects)-1] = nil
	d.objects = d.objects[:len(d.objects)-1]

	_, wasSelected := d.selection[obj]
	delete(d.selection, obj)
	obj.owner = nil

	d.emit(Event{Type: EventChanged, Kind: ChangeRemove, Object: obj, Index: index, Replay: d.replaying > 0})
	if wasSelected {
		d.emit(Event{Type: EventSelectionChanged, Object: obj})
	}
}

// objectChanged is the interception point for attribute writes on contained
// objects: record first, then notify.
func (d *Diagram) objectChanged(obj *Object, ch attr.Change) {
	d.record(history.NewFunc(fmt.Sprintf("Set %s", ch.Path),
		func() error { return obj.apply(ch.Path, ch.Old) },
		func() error { return obj.apply(ch.Path, ch.New) },
	))
	d.emit(Event{Type: EventChanged, Kind: ChangeAttribute, Object: obj, Attr: ch, Replay: d.replaying > 0})
}

// record pushes an action unless it is being replayed by undo/redo.
func (d *Diagram) record(a history.Action) {
	if d.replaying > 0 {
		return
	}
	d.history.Push(a)
}

// Selection

// Select adds obj to the selection. Only contained objects can be selected.
func (d *Diagram) Select(obj *Object) bool {
	if !d.Contains(obj) {
		return false
	}
	if _, ok := d.selection[obj]; ok {
		return false
	}
	d.selection[obj] = struct{}{}
	d.emit(Event{Type: EventSelectionChanged, Object: obj})
	return true
}

// Unselect removes obj from the selection.
func (d *Diagram) Unselect(obj *Object) bool {
	if _, ok := d.selection[obj]; !ok {
		return false
	}
	delete(d.selection, obj)
	d.emit(Event{Type: EventSelectionChanged, Object: obj})
	return true
}

// SelectAll selects every object.
func (d *Diagram) SelectAll() {
	changed := false
	for _, o := range d.objects {
		if _, ok := d.selection[o]; !ok {
			d.selection[o] = struct{}{}
			changed = true
		}
	}
	if changed {
		d.emit(Event{Type: EventSelectionChanged})
	}
}

// UnselectAll clears the selection.
func (d *Diagram) UnselectAll() {
	if len(d.selection) == 0 {
		return
	}
	d.selection = make(map[*Object]struct{})
	d.emit(Event{Type: EventSelectionChanged})
}

// SetSelection replaces the selection with objs, ignoring objects that are
// not contained. One notification is emitted if membership changed.
func (d *Diagram) SetSelection(objs []*Object) {
	next := make(map[*Object]struct{}, len(objs))
	for _, o := range objs {
		if d.Contains(o) {
			next[o] = struct{}{}
		}
	}
	if sameMembers(next, d.selection) {
		return
	}
	d.selection = next
	d.emit(Event{Type: EventSelectionChanged})
}

// IsSelected reports whether obj is selected.
func (d *Diagram) IsSelected(obj *Object) bool {
	_, ok := d.selection[obj]
	return ok
}

// SelectionCount returns the number of selected objects.
func (d *Diagram) SelectionCount() int {
	return len(d.selection)
}

// Selection returns the selected objects in z-order.
func (d *Diagram) Selection() []*Object {
	out := make([]*Object, 0, len(d.selection))
	for _, o := range d.objects {
		if _, ok := d.selection[o]; ok {
			out = append(out, o)
		}
	}
	return out
}

func sameMembers(a, b map[*Object]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for o := range a {
		if _, ok := b[o]; !ok {
			return false
		}
	}
	return true
}

// History

// BeginUserAction opens (or deepens) a grouped user action.
func (d *Diagram) BeginUserAction(name string) {
	d.history.BeginGroup(name)
}

// EndUserAction closes one level of the current user action.
func (d *Diagram) EndUserAction() {
	d.history.EndGroup()
}

// UserAction opens a user action that the returned scope closes.
func (d *Diagram) UserAction(name string) *history.GroupScope {
	return d.history.GroupScope(name)
}

// Transaction runs fn as one user action. If fn fails, the edits it made
// are reverted and nothing is recorded.
func (d *Diagram) Transaction(name string, fn func() error) error {
	failed := false
	err := d.history.Transaction(name, func() error {
		if err := fn(); err != nil {
			failed = true
			d.replaying++
			return err
		}
		return nil
	})
	if failed {
		d.replaying--
	}
	return err
}

// CancelUserAction drops the open user action without recording it.
func (d *Diagram) CancelUserAction() {
	d.history.CancelGroup()
}

// InUserAction reports whether a user action is open.
func (d *Diagram) InUserAction() bool {
	return d.history.IsGrouping()
}

// CanUndo reports whether Undo is permitted.
func (d *Diagram) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo reports whether Redo is permitted.
func (d *Diagram) CanRedo() bool {
	return d.history.CanRedo()
}

// Undo reverts the last recorded action.
func (d *Diagram) Undo() error {
	d.replaying++
	defer func() { d.replaying-- }()
	return d.history.Undo()
}

// Redo re-applies the last undone action.
func (d *Diagram) Redo() error {
	d.replaying++
	defer func() { d.replaying-- }()
	return d.history.Redo()
}

// History exposes the undo history for inspection.
func (d *Diagram) History() *history.History {
	return d.history
}

// Modified reports whether the diagram changed since the flag was reset.
func (d *Diagram) Modified() bool {
	return d.modified
}

// SetModified sets or resets the modified flag, e.g. after saving.
func (d *Diagram) SetModified(m bool) {
	d.modified = m
}

// Notifications

// Subscribe registers an observer for all events. Observers run in
// subscription order, synchronously, after the diagram's own reaction.
func (d *Diagram) Subscribe(observer Observer) *Subscription {
	d.nextSubID++
	id := d.nextSubID
	d.subscribers = append(d.subscribers, subscriber{id: id, observer: observer})
	return &Subscription{id: id, diagram: d}
}

func (d *Diagram) unsubscribe(id uint64) {
	for i, s := range d.subscribers {
		if s.id == id {
			d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
			return
		}
	}
}

func (d *Diagram) emit(ev Event) {
	if ev.Type == EventChanged {
		d.modified = true
	}
	subs := d.subscribers
	for _, s := range subs {
		s.observer(ev)
	}
}
