package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/dirty"
	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/symbol"
	"github.com/dshills/wirecanvas/internal/view"
)

// Default pixel tolerances.
const (
	DefaultHitTolerance  = 4.0
	DefaultWireTolerance = 4.0
	DefaultSnapRadius    = 8.0
)

// Errors returned by engine commands.
var (
	// ErrNothingToUndo is returned by Undo when no action can be reverted.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when no action can be re-applied.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrEmptySelection is returned by commands that act on the selection.
	ErrEmptySelection = errors.New("selection is empty")
)

// Engine turns pointer input into diagram edits. It owns the view
// transform, the active operation and the dirty-region bookkeeping, and
// reads symbol geometry through a Resolver.
//
// An Engine is single-threaded, like the Diagram it drives.
type Engine struct {
	diagram *diagram.Diagram
	symbols symbol.Resolver
	view    *view.View
	dirty   *dirty.Tracker
	logger  *zap.Logger

	hitTolerance  float64
	wireTolerance float64
	snapRadius    float64
	pasteOffset   geom.Point

	maxRegions      int
	redrawThreshold float64

	op      operation
	pointer geom.Point
	inside  bool
	hovered *Terminal

	// areas caches each contained object's last extended screen area so
	// a change can mark both where it was and where it is.
	areas map[*diagram.Object]geom.Rect

	missing map[string]struct{}
	sub     *diagram.Subscription
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithView replaces the default view.
func WithView(v *view.View) Option {
	return func(e *Engine) {
		if v != nil {
			e.view = v
		}
	}
}

// WithHitTolerance sets the border in pixels added around symbol areas.
func WithHitTolerance(px float64) Option {
	return func(e *Engine) {
		if px >= 0 {
			e.hitTolerance = px
		}
	}
}

// WithWireTolerance sets the maximum pixel distance for a connection hit.
func WithWireTolerance(px float64) Option {
	return func(e *Engine) {
		if px >= 0 {
			e.wireTolerance = px
		}
	}
}

// WithSnapRadius sets the pixel radius within which a terminal is hovered.
func WithSnapRadius(px float64) Option {
	return func(e *Engine) {
		if px >= 0 {
			e.snapRadius = px
		}
	}
}

// WithPasteOffset sets the diagram-unit offset applied to pasted objects.
func WithPasteOffset(p geom.Point) Option {
	return func(e *Engine) {
		e.pasteOffset = p
	}
}

// WithRedrawLimits sets how many dirty regions are kept apart and the
// dirty screen fraction above which the whole widget is repainted.
// Zero values keep the tracker defaults.
func WithRedrawLimits(maxRegions int, threshold float64) Option {
	return func(e *Engine) {
		e.maxRegions = maxRegions
		e.redrawThreshold = threshold
	}
}

// New creates an engine for d. A nil resolver resolves nothing; every
// symbol is then skipped like an unknown class.
func New(d *diagram.Diagram, symbols symbol.Resolver, opts ...Option) *Engine {
	if symbols == nil {
		symbols = symbol.Chain(nil)
	}
	e := &Engine{
		diagram:       d,
		symbols:       symbols,
		view:          view.New(800, 600),
		logger:        zap.NewNop(),
		hitTolerance:  DefaultHitTolerance,
		wireTolerance: DefaultWireTolerance,
		snapRadius:    DefaultSnapRadius,
		pasteOffset:   geom.Pt(1, 1),
		areas:         make(map[*diagram.Object]geom.Rect),
		missing:       make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	w, h := e.view.Size()
	e.dirty = dirty.NewTracker(w, h)
	if e.maxRegions > 0 {
		e.dirty.SetMaxRegions(e.maxRegions)
	}
	if e.redrawThreshold > 0 {
		e.dirty.SetThreshold(e.redrawThreshold)
	}
	e.refreshAreas()
	e.sub = d.Subscribe(e.onDiagramEvent)
	return e
}

// Close detaches the engine from its diagram.
func (e *Engine) Close() {
	e.sub.Unsubscribe()
}

// Diagram returns the edited diagram.
func (e *Engine) Diagram() *diagram.Diagram { return e.diagram }

// View returns the view transform.
func (e *Engine) View() *view.View { return e.view }

// Operation returns the active operation.
func (e *Engine) Operation() Op { return e.op.kind }

// HoveredTerminal returns the terminal under the pointer, or nil.
func (e *Engine) HoveredTerminal() *Terminal {
	if e.hovered == nil {
		return nil
	}
	t := *e.hovered
	return &t
}

// SelectionRect returns the rubber band in widget pixels while a
// rectangle selection is active.
func (e *Engine) SelectionRect() (geom.Rect, bool) {
	if e.op.kind != OpRectSelect {
		return geom.Rect{}, false
	}
	return e.op.rect(), true
}

// Pending returns the object waiting to be placed and whether it is shown.
func (e *Engine) Pending() (*diagram.Object, bool) {
	if e.op.kind != OpAddObject {
		return nil, false
	}
	return e.op.pending, e.op.visible
}

// Wire returns the connection being drawn, not yet part of the diagram.
func (e *Engine) Wire() *diagram.Object {
	if e.op.kind != OpConnect {
		return nil
	}
	return e.op.conn
}

// View changes

// SetSize resizes the widget.
func (e *Engine) SetSize(width, height float64) {
	e.view.SetSize(width, height)
	e.dirty.SetScreenSize(width, height)
	e.viewChanged()
}

// ZoomStep zooms by steps around the widget point pos.
func (e *Engine) ZoomStep(pos geom.Point, steps int) {
	if e.view.ZoomAt(pos, steps) {
		e.viewChanged()
	}
}

// ZoomIn zooms one step about the widget center.
func (e *Engine) ZoomIn() {
	if e.view.ZoomIn() {
		e.viewChanged()
	}
}

// ZoomOut zooms out one step about the widget center.
func (e *Engine) ZoomOut() {
	if e.view.ZoomOut() {
		e.viewChanged()
	}
}

// SetViewport centers the view on the diagram point c at zoom z. The
// zoom is clamped to the configured range.
func (e *Engine) SetViewport(c geom.Point, z float64) {
	e.view.SetCenter(c)
	e.view.SetZoom(z)
	e.viewChanged()
}

// PanBy scrolls the view by a pixel delta.
func (e *Engine) PanBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	e.view.Pan(dx, dy)
	e.viewChanged()
}

// Fit centers and zooms the view on every object.
func (e *Engine) Fit(margin float64) {
	var r geom.Rect
	found := false
	for _, o := range e.diagram.Objects() {
		a, ok := e.Area(o)
		if !ok {
			continue
		}
		if !found {
			r, found = a, true
			continue
		}
		r = r.Union(a)
	}
	if !found {
		return
	}
	e.view.Fit(r, margin)
	e.viewChanged()
}

func (e *Engine) viewChanged() {
	e.dirty.Mark(e.view.Bounds(), dirty.ReasonView)
	e.refreshAreas()
	if e.inside {
		e.updateHover()
	}
}

// Commands

// Undo cancels the active operation and reverts the last user action.
func (e *Engine) Undo() error {
	e.Cancel()
	if !e.diagram.CanUndo() {
		return ErrNothingToUndo
	}
	return e.diagram.Undo()
}

// Redo cancels the active operation and re-applies the last undone action.
func (e *Engine) Redo() error {
	e.Cancel()
	if !e.diagram.CanRedo() {
		return ErrNothingToRedo
	}
	return e.diagram.Redo()
}

// DeleteSelection removes the selected objects as one undo entry.
func (e *Engine) DeleteSelection() int {
	e.Cancel()
	return e.diagram.RemoveSelection()
}

// RotateSelection turns every selected symbol a quarter turn clockwise
// as one undo entry. If any rotation fails, none is kept.
func (e *Engine) RotateSelection() error {
	e.Cancel()
	sel := e.diagram.Selection()
	if len(sel) == 0 {
		return ErrEmptySelection
	}
	return e.diagram.Transaction("Rotate", func() error {
		for _, o := range sel {
			if o.Kind() != diagram.KindSymbol {
				continue
			}
			if err := o.Rotate(); err != nil {
				return err
			}
		}
		return nil
	})
}

// SelectAll selects every object.
func (e *Engine) SelectAll() {
	e.diagram.SelectAll()
}

// Redraw bookkeeping

// NeedsRedraw reports whether anything was marked since the last
// TakeDirty.
func (e *Engine) NeedsRedraw() bool {
	return e.dirty.IsDirty()
}

// TakeDirty returns the areas to repaint since the last call and resets
// the tracker. full is true when the whole widget must be repainted.
func (e *Engine) TakeDirty() (regions []geom.Rect, full bool) {
	full = e.dirty.NeedsFullRedraw()
	regions = e.dirty.Take()
	return regions, full
}

// DirtyStats reports the pending redraw state.
func (e *Engine) DirtyStats() dirty.Stats {
	return e.dirty.Stats()
}

func (e *Engine) onDiagramEvent(ev diagram.Event) {
	switch ev.Type {
	case diagram.EventChanged:
		switch ev.Kind {
		case diagram.ChangeInsert:
			if a, ok := e.ExtendedScreenArea(ev.Object); ok {
				e.areas[ev.Object] = a
				e.dirty.Mark(a, dirty.ReasonObject)
			}
		case diagram.ChangeRemove:
			if a, ok := e.areas[ev.Object]; ok {
				e.dirty.Mark(a, dirty.ReasonObject)
				delete(e.areas, ev.Object)
			}
			if e.hovered != nil && e.hovered.Object == ev.Object {
				e.setHovered(nil)
			}
		case diagram.ChangeAttribute:
			old, hadOld := e.areas[ev.Object]
			cur, ok := e.ExtendedScreenArea(ev.Object)
			switch {
			case hadOld && ok:
				e.dirty.MarkMove(old, cur)
			case hadOld:
				e.dirty.Mark(old, dirty.ReasonObject)
			case ok:
				e.dirty.Mark(cur, dirty.ReasonObject)
			}
			if ok {
				e.areas[ev.Object] = cur
			} else {
				delete(e.areas, ev.Object)
			}
		case diagram.ChangeReset:
			e.hovered = nil
			e.refreshAreas()
			e.dirty.MarkFullRedraw()
			return
		}
		// Undo and redo move terminals without any pointer motion.
		if e.inside {
			e.updateHover()
		}
	case diagram.EventSelectionChanged:
		if ev.Object != nil {
			if a, ok := e.areas[ev.Object]; ok {
				e.dirty.Mark(a, dirty.ReasonSelection)
			}
			return
		}
		for _, a := range e.areas {
			e.dirty.Mark(a, dirty.ReasonSelection)
		}
	}
}

func (e *Engine) refreshAreas() {
	clear(e.areas)
	for _, o := range e.diagram.Objects() {
		if a, ok := e.ExtendedScreenArea(o); ok {
			e.areas[o] = a
		}
	}
}
