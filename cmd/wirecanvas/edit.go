package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/host/term"
	"github.com/dshills/wirecanvas/internal/persist"
	"github.com/dshills/wirecanvas/internal/symbol"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [diagram]",
		Short: "Edit a diagram in the terminal",
		Long: `Opens the diagram in an interactive terminal editor. A missing file
starts an empty diagram that ctrl-s writes to that path.

Keys: 1-9 place a symbol, esc cancels, +/- zoom, arrows pan, f fits,
u/r undo and redo, R rotates, a selects all, del deletes, c/v copy and
paste, q quits (twice with unsaved changes), ctrl-c quits at once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runEdit(cmd.Context(), a, path)
		},
	}
}

func runEdit(ctx context.Context, a *app, path string) error {
	// The screen owns the terminal; logs only go to a file.
	if a.cfg.Logging.File == "" {
		a.logger = zap.NewNop()
	}

	resolver, libs, err := a.loadSymbols()
	if err != nil {
		return err
	}
	d, err := a.openDiagram(path, true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if a.cfg.Symbols.Watch {
		loaders := a.loaders()
		for _, l := range libs {
			go func(l library) {
				if err := symbol.Watch(ctx, l.lib, l.dir, loaders, a.cfg.Symbols.ReloadDelay, a.logger.Named("symbols")); err != nil {
					a.logger.Warn("symbol watch stopped", zap.String("dir", l.dir), zap.Error(err))
				}
			}(l)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	e := a.newEngine(d, resolver)
	defer e.Close()

	opts := []term.Option{
		term.WithLogger(a.logger.Named("term")),
		term.WithClasses(classes(libs)),
	}
	if path != "" {
		opts = append(opts, term.WithSave(func() error { return persist.Save(d, path) }))
	}
	host := term.New(screen, e, opts...)

	go func() {
		<-ctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
	host.Run(ctx)
	return nil
}

// classes lists every known class, the first library's classes first.
func classes(libs []library) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range libs {
		for _, n := range l.lib.Classes() {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
