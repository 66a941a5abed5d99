package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/engine"
	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/view"
)

var (
	styleNormal   = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePreview  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHover    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// Draw paints the current frame when something changed.
func (h *Host) Draw() {
	if !h.engine.NeedsRedraw() && h.status == h.shown {
		return
	}
	stats := h.engine.DirtyStats()
	h.logger.Debug("redraw",
		zap.Int("regions", stats.RegionCount),
		zap.Bool("full", stats.FullRedraw),
		zap.Float64("ratio", stats.DirtyRatio))
	h.engine.TakeDirty()
	h.shown = h.status
	h.drawFrame(h.engine.Frame())
	h.screen.Show()
}

func (h *Host) drawFrame(f engine.Frame) {
	h.screen.Clear()
	for i := range f.Objects {
		fo := &f.Objects[i]
		style := styleNormal
		if fo.Selected {
			style = styleSelected
		}
		h.drawObject(f.View, fo, style)
	}
	if f.Pending != nil {
		h.drawObject(f.View, f.Pending, stylePreview)
	}
	if f.Wire != nil {
		h.drawObject(f.View, f.Wire, stylePreview)
	}
	if f.SelectionRect != nil {
		h.drawBox(*f.SelectionRect, stylePreview, '┄', '┆')
	}
	if f.Hovered != nil {
		x, y := h.toCell(f.View.ToWidget(f.Hovered.Pos))
		h.screen.SetContent(x, y, '●', nil, styleHover)
	}
	h.drawStatus(f)
}

func (h *Host) drawObject(vs view.State, fo *engine.FrameObject, style tcell.Style) {
	switch fo.Kind {
	case diagram.KindConnection:
		for i := 1; i < len(fo.Points); i++ {
			h.drawSegment(vs.ToWidget(fo.Points[i-1]), vs.ToWidget(fo.Points[i]), style)
		}
	case diagram.KindSymbol:
		r := geom.RectFromPoints(vs.ToWidget(fo.Area.Min()), vs.ToWidget(fo.Area.Max()))
		h.drawBox(r, style, '─', '│')
		label := fo.Object.Text(diagram.KeyLabel, fo.Class)
		x, y := h.toCell(r.Min())
		h.drawText(x+1, y+1, label, style)
	default:
		x, y := h.toCell(vs.ToWidget(fo.Pos))
		h.screen.SetContent(x, y, '+', nil, style)
	}
}

// drawBox outlines the cells covered by the widget rectangle r.
func (h *Host) drawBox(r geom.Rect, style tcell.Style, horiz, vert rune) {
	x0, y0 := h.toCell(r.Min())
	x1, y1 := h.toCell(r.Max())
	if x0 == x1 && y0 == y1 {
		h.screen.SetContent(x0, y0, '□', nil, style)
		return
	}
	for x := x0 + 1; x < x1; x++ {
		h.screen.SetContent(x, y0, horiz, nil, style)
		h.screen.SetContent(x, y1, horiz, nil, style)
	}
	for y := y0 + 1; y < y1; y++ {
		h.screen.SetContent(x0, y, vert, nil, style)
		h.screen.SetContent(x1, y, vert, nil, style)
	}
	h.screen.SetContent(x0, y0, '┌', nil, style)
	h.screen.SetContent(x1, y0, '┐', nil, style)
	h.screen.SetContent(x0, y1, '└', nil, style)
	h.screen.SetContent(x1, y1, '┘', nil, style)
}

// drawSegment plots a wire segment cell by cell.
func (h *Host) drawSegment(a, b geom.Point, style tcell.Style) {
	x0, y0 := h.toCell(a)
	x1, y1 := h.toCell(b)
	ch := '·'
	switch {
	case y0 == y1:
		ch = '─'
	case x0 == x1:
		ch = '│'
	}
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		h.screen.SetContent(x0, y0, '·', nil, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(t*float64(dx)))
		y := y0 + int(math.Round(t*float64(dy)))
		h.screen.SetContent(x, y, ch, nil, style)
	}
}

func (h *Host) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (h *Host) drawStatus(f engine.Frame) {
	w, ht := h.screen.Size()
	if ht == 0 {
		return
	}
	y := ht - 1
	for x := 0; x < w; x++ {
		h.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	line := fmt.Sprintf(" %s  zoom %.2f  %d objects", f.Operation, f.View.Zoom, h.engine.Diagram().Len())
	if h.status != "" {
		line += "  " + h.status
	}
	h.drawText(0, y, line, styleStatus)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
