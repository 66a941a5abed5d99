// Package render paints engine frames into raster images with gg. It is
// the reference renderer used for PNG export and tests; interactive hosts
// may draw frames their own way.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/engine"
	"github.com/dshills/wirecanvas/internal/geom"
)

// LabelKey is the attribute drawn under an object when labels are on.
const LabelKey = diagram.KeyLabel

// ErrEmptyFrame is returned when a frame has no drawable area.
var ErrEmptyFrame = errors.New("frame has zero size")

// Options controls colors and strokes.
type Options struct {
	Background color.Color
	Foreground color.Color
	Selection  color.Color
	Preview    color.Color
	Hover      color.Color

	LineWidth float64
	FontSize  float64
	Labels    bool
}

// DefaultOptions returns black on white with blue selection.
func DefaultOptions() Options {
	return Options{
		Background: color.White,
		Foreground: color.Black,
		Selection:  color.RGBA{R: 0x1e, G: 0x64, B: 0xd2, A: 0xff},
		Preview:    color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
		Hover:      color.RGBA{R: 0xd2, G: 0x3c, B: 0x1e, A: 0xff},
		LineWidth:  1.5,
		FontSize:   12,
		Labels:     true,
	}
}

// Renderer paints frames.
type Renderer struct {
	opts   Options
	face   font.Face
	logger *zap.Logger
}

// New creates a renderer. The label font is Go Mono.
func New(opts Options, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &Renderer{opts: opts, face: face, logger: logger}, nil
}

// Raster paints f into a new image the size of its view.
func (r *Renderer) Raster(f engine.Frame) (image.Image, error) {
	w, h := int(f.View.Width), int(f.View.Height)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyFrame
	}
	dc := gg.NewContext(w, h)
	r.Draw(dc, f)
	return dc.Image(), nil
}

// SavePNG paints f and writes it to path.
func (r *Renderer) SavePNG(f engine.Frame, path string) error {
	w, h := int(f.View.Width), int(f.View.Height)
	if w <= 0 || h <= 0 {
		return ErrEmptyFrame
	}
	dc := gg.NewContext(w, h)
	r.Draw(dc, f)
	return dc.SavePNG(path)
}

// Draw paints f onto dc: objects bottom to top, then selection marks and
// the transient geometry of the active operation.
func (r *Renderer) Draw(dc *gg.Context, f engine.Frame) {
	dc.SetColor(r.opts.Background)
	dc.Clear()
	dc.SetFontFace(r.face)
	dc.SetLineWidth(r.opts.LineWidth)

	for i := range f.Objects {
		r.drawObject(dc, f, &f.Objects[i], r.opts.Foreground)
	}
	for i := range f.Objects {
		if f.Objects[i].Selected {
			r.drawSelected(dc, f, &f.Objects[i])
		}
	}

	if f.Pending != nil {
		r.drawObject(dc, f, f.Pending, r.opts.Preview)
	}
	if f.Wire != nil {
		r.drawObject(dc, f, f.Wire, r.opts.Preview)
	}
	if f.SelectionRect != nil {
		sr := *f.SelectionRect
		dc.SetColor(r.opts.Selection)
		dc.SetDash(4, 3)
		dc.DrawRectangle(sr.X, sr.Y, sr.W, sr.H)
		dc.Stroke()
		dc.SetDash()
	}
	if f.Hovered != nil {
		p := f.View.ToWidget(f.Hovered.Pos)
		dc.SetColor(r.opts.Hover)
		dc.DrawCircle(p.X, p.Y, 4)
		dc.Stroke()
	}
}

func (r *Renderer) drawObject(dc *gg.Context, f engine.Frame, o *engine.FrameObject, c color.Color) {
	dc.SetColor(c)
	switch o.Kind {
	case diagram.KindSymbol:
		cv := &ggCanvas{dc: dc, state: f.View, pos: o.Pos, rot: o.Rotation}
		if err := o.Geometry.Draw(cv); err != nil {
			r.logger.Warn("symbol draw failed", zap.String("class", o.Class), zap.Error(err))
			dc.ClearPath()
			r.strokeRect(dc, f, o.Area)
		}
	case diagram.KindConnection:
		if len(o.Points) < 2 {
			return
		}
		p := f.View.ToWidget(o.Points[0])
		dc.MoveTo(p.X, p.Y)
		for _, q := range o.Points[1:] {
			p = f.View.ToWidget(q)
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	default:
		p := f.View.ToWidget(o.Pos)
		dc.DrawCircle(p.X, p.Y, 2)
		dc.Fill()
	}

	if r.opts.Labels && o.Object != nil {
		if label := o.Object.Text(LabelKey, ""); label != "" {
			a := f.View.ToWidget(geom.Pt(o.Area.X+o.Area.W/2, o.Area.Bottom()))
			dc.DrawStringAnchored(label, a.X, a.Y+2, 0.5, 1)
		}
	}
}

func (r *Renderer) drawSelected(dc *gg.Context, f engine.Frame, o *engine.FrameObject) {
	dc.SetColor(r.opts.Selection)
	if o.Kind == diagram.KindConnection && len(o.Points) > 1 {
		dc.SetLineWidth(r.opts.LineWidth * 2)
		p := f.View.ToWidget(o.Points[0])
		dc.MoveTo(p.X, p.Y)
		for _, q := range o.Points[1:] {
			p = f.View.ToWidget(q)
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
		dc.SetLineWidth(r.opts.LineWidth)
		return
	}
	dc.SetDash(3, 2)
	r.strokeRect(dc, f, o.Area)
	dc.SetDash()
}

func (r *Renderer) strokeRect(dc *gg.Context, f engine.Frame, area geom.Rect) {
	sr := geom.RectFromPoints(f.View.ToWidget(area.Min()), f.View.ToWidget(area.Max())).Extend(2)
	dc.DrawRectangle(sr.X, sr.Y, sr.W, sr.H)
	dc.Stroke()
}
