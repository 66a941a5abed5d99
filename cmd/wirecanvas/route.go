package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/wirecanvas/internal/geom"
)

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "route <dx> <dy>",
		Short:   "Print the orthogonal route from the origin to an end offset",
		Example: `  wirecanvas route 4 3
  wirecanvas route -- -4 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dx, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid dx %q: %w", args[0], err)
			}
			dy, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid dy %q: %w", args[1], err)
			}
			pts := geom.Route(geom.Pt(dx, dy))
			parts := make([]string, len(pts))
			for i, p := range pts {
				parts[i] = fmt.Sprintf("(%g,%g)", p.X, p.Y)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return nil
		},
	}
}
