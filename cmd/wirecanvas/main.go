// Command wirecanvas edits, renders and checks wiring diagrams.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "wirecanvas",
		Short:        "Edit and render wiring diagrams",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a .toml or .yaml configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	flags.StringSliceVarP(&a.symbolPaths, "symbols", "s", nil, "extra symbol library directories")

	root.AddCommand(
		newEditCmd(a),
		newRenderCmd(a),
		newCheckCmd(a),
		newRouteCmd(),
	)
	return root
}
