package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/config"
	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/engine"
	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/logging"
	"github.com/dshills/wirecanvas/internal/persist"
	"github.com/dshills/wirecanvas/internal/symbol"
	"github.com/dshills/wirecanvas/internal/symbol/lua"
	"github.com/dshills/wirecanvas/internal/view"
)

// app holds what every subcommand shares: flags, configuration and logger.
type app struct {
	configPath  string
	logLevel    string
	symbolPaths []string

	cfg    *config.Config
	logger *zap.Logger
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	cfg.Symbols.Paths = append(cfg.Symbols.Paths, a.symbolPaths...)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// loaders returns the file loaders for symbol libraries: YAML and Lua.
func (a *app) loaders() map[string]symbol.FileLoader {
	return lua.Register(symbol.DefaultLoaders(),
		lua.WithExecutionTimeout(a.cfg.Symbols.ScriptTimeout),
		lua.WithLogger(a.logger.Named("lua")),
	)
}

// library is one loaded symbol directory.
type library struct {
	dir string
	lib *symbol.Library
}

// loadSymbols reads every configured directory. Earlier directories win
// when two define the same class.
func (a *app) loadSymbols() (symbol.Chain, []library, error) {
	loaders := a.loaders()
	var (
		chain symbol.Chain
		libs  []library
	)
	for _, dir := range a.cfg.Symbols.Paths {
		lib := symbol.NewLibrary()
		n, err := lib.LoadDir(dir, loaders)
		if err != nil {
			return nil, nil, fmt.Errorf("loading symbols from %s: %w", dir, err)
		}
		a.logger.Info("symbol library loaded", zap.String("dir", dir), zap.Int("classes", n))
		chain = append(chain, lib)
		libs = append(libs, library{dir: dir, lib: lib})
	}
	return chain, libs, nil
}

func (a *app) newView() *view.View {
	vc := a.cfg.View
	px := vc.BaseUnitPixels
	if px == 0 && vc.DPI > 0 && vc.UnitMM > 0 {
		px = view.BaseUnitPixelsForDPI(vc.DPI, vc.UnitMM)
	}
	opts := []view.Option{
		view.WithZoomRange(vc.ZoomMin, vc.ZoomMax),
		view.WithZoomStep(vc.ZoomStep),
	}
	if px > 0 {
		opts = append(opts, view.WithBaseUnitPixels(px))
	}
	return view.New(vc.Width, vc.Height, opts...)
}

func (a *app) newDiagram() *diagram.Diagram {
	return diagram.New(
		diagram.WithLogger(a.logger.Named("diagram")),
		diagram.WithHistoryLimit(a.cfg.History.MaxEntries),
	)
}

// openDiagram loads path into a new diagram. A missing file gives an
// empty diagram when allowMissing is set.
func (a *app) openDiagram(path string, allowMissing bool) (*diagram.Diagram, error) {
	d := a.newDiagram()
	if path == "" {
		return d, nil
	}
	err := persist.Load(d, path)
	if err != nil && allowMissing && errors.Is(err, os.ErrNotExist) {
		a.logger.Info("starting new diagram", zap.String("path", path))
		return d, nil
	}
	return d, err
}

func (a *app) newEngine(d *diagram.Diagram, resolver symbol.Resolver) *engine.Engine {
	ic := a.cfg.Interaction
	return engine.New(d, resolver,
		engine.WithLogger(a.logger.Named("engine")),
		engine.WithView(a.newView()),
		engine.WithHitTolerance(ic.HitTolerance),
		engine.WithWireTolerance(ic.WireTolerance),
		engine.WithSnapRadius(ic.SnapRadius),
		engine.WithPasteOffset(geom.Pt(ic.PasteOffset, ic.PasteOffset)),
		engine.WithRedrawLimits(a.cfg.View.RedrawMaxRegions, a.cfg.View.RedrawThreshold),
	)
}
