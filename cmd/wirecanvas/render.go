package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/render"
)

type renderOptions struct {
	output   string
	width    float64
	height   float64
	margin   float64
	zoom     float64
	center   []float64
	noLabels bool
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <diagram>",
		Short: "Render a diagram to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "diagram.png", "output PNG path")
	f.Float64Var(&opts.width, "width", 0, "image width in pixels (default from config)")
	f.Float64Var(&opts.height, "height", 0, "image height in pixels (default from config)")
	f.Float64Var(&opts.margin, "margin", 20, "margin around the diagram in pixels")
	f.Float64Var(&opts.zoom, "zoom", 0, "zoom factor; fits the diagram when 0")
	f.Float64SliceVar(&opts.center, "center", []float64{0, 0}, "diagram point at the image center, used with --zoom")
	f.BoolVar(&opts.noLabels, "no-labels", false, "do not draw object labels")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, path string, opts *renderOptions) error {
	if len(opts.center) != 2 {
		return fmt.Errorf("--center wants x,y, got %d values", len(opts.center))
	}
	resolver, _, err := a.loadSymbols()
	if err != nil {
		return err
	}
	d, err := a.openDiagram(path, false)
	if err != nil {
		return err
	}

	e := a.newEngine(d, resolver)
	defer e.Close()

	w, h := e.View().Size()
	if opts.width > 0 {
		w = opts.width
	}
	if opts.height > 0 {
		h = opts.height
	}
	e.SetSize(w, h)
	if opts.zoom > 0 {
		e.SetViewport(geom.Pt(opts.center[0], opts.center[1]), opts.zoom)
	} else {
		e.Fit(opts.margin)
	}

	ro := render.DefaultOptions()
	ro.Labels = !opts.noLabels
	r, err := render.New(ro, a.logger.Named("render"))
	if err != nil {
		return err
	}
	if err := r.SavePNG(e.Frame(), opts.output); err != nil {
		return err
	}
	a.logger.Info("diagram rendered",
		zap.String("diagram", path),
		zap.String("output", opts.output),
		zap.Int("objects", d.Len()))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.output)
	return nil
}
