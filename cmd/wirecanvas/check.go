package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/symbol"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// errCheckFailed is returned when check found problems.
var errCheckFailed = errors.New("check failed")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [diagram...]",
		Short: "Validate symbol libraries and diagrams",
		Long: `Loads every configured symbol directory and reports the classes found.
Each diagram given is then checked for symbols of unknown class and
connections with fewer than two points.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), a, args)
		},
	}
}

func runCheck(out io.Writer, a *app, paths []string) error {
	problems := 0
	loaders := a.loaders()

	fmt.Fprintln(out, headingStyle.Render("Symbol libraries"))
	if len(a.cfg.Symbols.Paths) == 0 {
		fmt.Fprintln(out, dimStyle.Render("  none configured"))
	}
	var chain symbol.Chain
	for _, dir := range a.cfg.Symbols.Paths {
		lib := symbol.NewLibrary()
		n, err := lib.LoadDir(dir, loaders)
		if err != nil {
			problems++
			fmt.Fprintf(out, "  %s %s: %v\n", failStyle.Render("FAIL"), dir, err)
			continue
		}
		chain = append(chain, lib)
		fmt.Fprintf(out, "  %s %s %s\n", okStyle.Render("ok"), dir, dimStyle.Render(fmt.Sprintf("(%d classes)", n)))
	}

	for _, path := range paths {
		fmt.Fprintln(out, headingStyle.Render("Diagram "+path))
		d, err := a.openDiagram(path, false)
		if err != nil {
			problems++
			fmt.Fprintf(out, "  %s %v\n", failStyle.Render("FAIL"), err)
			continue
		}
		issues := checkDiagram(d, chain)
		for _, issue := range issues {
			fmt.Fprintf(out, "  %s %s\n", warnStyle.Render("WARN"), issue)
		}
		problems += len(issues)
		if len(issues) == 0 {
			fmt.Fprintf(out, "  %s %d objects\n", okStyle.Render("ok"), d.Len())
		}
	}

	if problems > 0 {
		return fmt.Errorf("%w: %d problems", errCheckFailed, problems)
	}
	return nil
}

// checkDiagram lists objects the engine would skip when drawing.
func checkDiagram(d *diagram.Diagram, symbols symbol.Resolver) []string {
	var issues []string
	for _, o := range d.Objects() {
		switch o.Kind() {
		case diagram.KindSymbol:
			if _, ok := symbols.FindSymbol(o.Class()); !ok {
				issues = append(issues, fmt.Sprintf("%s: unknown symbol class %q", o.ID(), o.Class()))
			}
		case diagram.KindConnection:
			if n := len(o.Points()); n < 2 {
				issues = append(issues, fmt.Sprintf("%s: connection has %d points", o.ID(), n))
			}
		}
	}
	return issues
}
