// Package term hosts an engine in a terminal using tcell. Each character
// cell stands for a fixed block of widget pixels, so the engine works in
// the same pixel space as any other host.
package term

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/engine"
	"github.com/dshills/wirecanvas/internal/geom"
)

// Default cell size in widget pixels.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// PanStep is how many cells an arrow key pans the view.
const PanStep = 4

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Host connects a tcell screen to an engine.
type Host struct {
	screen  tcell.Screen
	engine  *engine.Engine
	logger  *zap.Logger
	clip    Clipboard
	classes []string

	cellW, cellH float64
	buttons      tcell.ButtonMask
	pointer      geom.Point
	status       string
	shown        string
	quit         bool
	confirmQuit  bool
	onSave       func() error
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(h *Host) {
		if c != nil {
			h.clip = c
		}
	}
}

// WithCellSize sets how many widget pixels one cell covers.
func WithCellSize(w, h float64) Option {
	return func(host *Host) {
		if w > 0 && h > 0 {
			host.cellW, host.cellH = w, h
		}
	}
}

// WithClasses lists the symbol classes bound to keys 1 to 9.
func WithClasses(classes []string) Option {
	return func(h *Host) { h.classes = classes }
}

// WithSave binds ctrl-s.
func WithSave(fn func() error) Option {
	return func(h *Host) { h.onSave = fn }
}

// New creates a host on an initialized screen.
func New(screen tcell.Screen, e *engine.Engine, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		engine: e,
		logger: zap.NewNop(),
		clip:   systemClipboard{},
		cellW:  DefaultCellWidth,
		cellH:  DefaultCellHeight,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.resize()
	return h
}

// Run processes screen events until the user quits or ctx is done. The
// caller posts an interrupt event to wake it on cancellation.
func (h *Host) Run(ctx context.Context) {
	h.screen.EnableMouse()
	h.Draw()
	for !h.quit && ctx.Err() == nil {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		h.HandleEvent(ev)
		h.Draw()
	}
}

// Quit reports whether the user asked to leave.
func (h *Host) Quit() bool { return h.quit }

// Status returns the last status message.
func (h *Host) Status() string { return h.status }

// HandleEvent dispatches one tcell event to the engine.
func (h *Host) HandleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
		h.resize()
	case *tcell.EventMouse:
		h.handleMouse(e)
	case *tcell.EventKey:
		h.handleKey(e)
	case *tcell.EventFocus:
		if !e.Focused {
			h.engine.PointerLeave()
		}
	}
}

func (h *Host) resize() {
	w, ht := h.screen.Size()
	h.engine.SetSize(float64(w)*h.cellW, float64(ht)*h.cellH)
}

// toWidget returns the pixel at the center of cell (x, y).
func (h *Host) toWidget(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*h.cellW, (float64(y)+0.5)*h.cellH)
}

// toCell returns the cell holding widget pixel p.
func (h *Host) toCell(p geom.Point) (int, int) {
	return floor(p.X / h.cellW), floor(p.Y / h.cellH)
}

func floor(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}

func modifiers(m tcell.ModMask) engine.Modifier {
	var out engine.Modifier
	if m&tcell.ModShift != 0 {
		out |= engine.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= engine.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= engine.ModAlt
	}
	return out
}

// handleMouse turns button state transitions into pointer events. tcell
// reports the current button mask on every event, so presses and releases
// are found by comparing with the previous mask.
func (h *Host) handleMouse(e *tcell.EventMouse) {
	x, y := e.Position()
	h.pointer = h.toWidget(x, y)
	mods := modifiers(e.Modifiers())
	btns := e.Buttons()

	switch {
	case btns&tcell.WheelUp != 0:
		h.engine.ZoomStep(h.pointer, 1)
		return
	case btns&tcell.WheelDown != 0:
		h.engine.ZoomStep(h.pointer, -1)
		return
	}

	prev := h.buttons
	h.buttons = btns & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	ev := engine.PointerEvent{Pos: h.pointer, Mods: mods}
	pressed := h.buttons &^ prev
	released := prev &^ h.buttons
	switch {
	case pressed != 0:
		ev.Button = button(pressed)
		h.engine.PointerDown(ev)
	case released != 0:
		ev.Button = button(released)
		h.engine.PointerUp(ev)
	default:
		h.engine.PointerMove(ev)
	}
}

func button(m tcell.ButtonMask) engine.Button {
	switch {
	case m&tcell.Button1 != 0:
		return engine.ButtonPrimary
	case m&tcell.Button2 != 0:
		return engine.ButtonSecondary
	case m&tcell.Button3 != 0:
		return engine.ButtonMiddle
	}
	return engine.ButtonNone
}

func (h *Host) handleKey(e *tcell.EventKey) {
	if e.Key() != tcell.KeyRune || e.Rune() != 'q' {
		h.confirmQuit = false
	}
	switch e.Key() {
	case tcell.KeyEscape:
		h.engine.Cancel()
		h.status = ""
	case tcell.KeyCtrlC:
		h.quit = true
	case tcell.KeyCtrlS:
		h.save()
	case tcell.KeyUp:
		h.engine.PanBy(0, PanStep*h.cellH)
	case tcell.KeyDown:
		h.engine.PanBy(0, -PanStep*h.cellH)
	case tcell.KeyLeft:
		h.engine.PanBy(PanStep*h.cellW, 0)
	case tcell.KeyRight:
		h.engine.PanBy(-PanStep*h.cellW, 0)
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		n := h.engine.DeleteSelection()
		h.status = fmt.Sprintf("deleted %d", n)
	case tcell.KeyRune:
		if e.Modifiers()&tcell.ModCtrl != 0 {
			h.handleCtrl(e.Rune())
			return
		}
		h.handleRune(e.Rune())
	}
}

// handleCtrl covers terminals that report ctrl chords as runes.
func (h *Host) handleCtrl(r rune) {
	switch r {
	case 'c':
		h.quit = true
	case 's':
		h.save()
	}
}

func (h *Host) handleRune(r rune) {
	switch r {
	case 'q':
		h.requestQuit()
	case '+', '=':
		h.engine.ZoomIn()
	case '-':
		h.engine.ZoomOut()
	case 'f':
		h.engine.Fit(2 * h.cellW)
	case 'u':
		h.undo()
	case 'r':
		h.redo()
	case 'R':
		h.report(h.engine.RotateSelection())
	case 'a':
		h.engine.SelectAll()
	case 'c':
		h.copy()
	case 'v':
		h.paste()
	default:
		if r >= '1' && r <= '9' {
			h.addClass(int(r - '1'))
		}
	}
}

// requestQuit leaves at once unless there are unsaved edits, which take
// a second q to discard.
func (h *Host) requestQuit() {
	if h.onSave != nil && h.engine.Diagram().Modified() && !h.confirmQuit {
		h.confirmQuit = true
		h.status = "unsaved changes, q again to quit"
		return
	}
	h.quit = true
}

func (h *Host) undo() {
	if !h.report(h.engine.Undo()) {
		return
	}
	if info, ok := h.engine.Diagram().History().PeekRedo(); ok {
		h.status = "undid " + info.Description
	}
}

func (h *Host) redo() {
	if !h.report(h.engine.Redo()) {
		return
	}
	if info, ok := h.engine.Diagram().History().PeekUndo(); ok {
		h.status = "redid " + info.Description
	}
}

func (h *Host) addClass(i int) {
	if i >= len(h.classes) {
		return
	}
	class := h.classes[i]
	obj := diagram.NewSymbol(class, h.engine.View().ToDiagram(h.pointer))
	if h.report(h.engine.BeginAddObject(obj)) {
		h.status = "placing " + class
	}
}

func (h *Host) copy() {
	data, err := h.engine.CopySelection()
	if !h.report(err) {
		return
	}
	if !h.report(h.clip.WriteAll(string(data))) {
		return
	}
	h.status = "copied"
}

func (h *Host) paste() {
	text, err := h.clip.ReadAll()
	if !h.report(err) {
		return
	}
	objs, err := h.engine.Paste([]byte(text))
	if !h.report(err) {
		return
	}
	h.status = fmt.Sprintf("pasted %d", len(objs))
}

func (h *Host) save() {
	if h.onSave == nil {
		return
	}
	if h.report(h.onSave()) {
		h.status = "saved"
	}
}

// report shows err on the status line and returns whether it was nil.
func (h *Host) report(err error) bool {
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, engine.ErrNothingToUndo), errors.Is(err, engine.ErrNothingToRedo),
		errors.Is(err, engine.ErrEmptySelection):
	default:
		h.logger.Warn("command failed", zap.Error(err))
	}
	h.status = err.Error()
	return false
}
