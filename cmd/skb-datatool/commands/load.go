package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"skb-datatool/internal/engine"
	"skb-datatool/internal/errors"
)

func newLoadCmd(g *globals) *cobra.Command {
	var showProblems, strict bool

	cmd := &cobra.Command{
		Use:   "load [type...]",
		Short: "Load entity types and report what was read",
		Long: `Load the given entity types (all types when none are given) together with
the types they require, and print a summary per loaded type.

Problems in single records or files are reported and counted; they do not
make the command fail unless --strict is given. The command fails when a
requested type cannot be loaded at all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := g.newEngine(g.cfg, nil, nil)

			_, loadErr := g.loadAll(eng, args)

			if err := printSummary(cmd, eng); err != nil {
				return err
			}

			if showProblems {
				printProblems(cmd, eng)
			}

			if loadErr != nil {
				return loadErr
			}

			if diags := eng.Diagnostics(); strict && diags.HasErrors() {
				return errors.WithHint(
					errors.Wrapf(diags.Error(), "%d record problems", diags.ErrorCount()),
					"run with --problems to list them")
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&showProblems, "problems", "p", false, "List every error and warning")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any record or file has an error")

	return cmd
}

func printSummary(cmd *cobra.Command, eng *engine.Engine) error {
	data := pterm.TableData{{"#", "TYPE", "ENTRIES", "FILES", "ERRORS", "WARNINGS"}}

	for _, l := range eng.Registry().All() {
		data = append(data, []string{
			strconv.Itoa(l.Seq),
			l.Type.Name,
			strconv.Itoa(l.DataSet.Len()),
			strconv.Itoa(l.DataSet.FileCount()),
			strconv.Itoa(l.Diagnostics.ErrorCount()),
			strconv.Itoa(len(l.Diagnostics.Warnings)),
		})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(cmd.OutOrStdout()).
		WithData(data).
		Render()
}

func printProblems(cmd *cobra.Command, eng *engine.Engine) {
	diags := eng.Diagnostics()
	out := cmd.OutOrStdout()

	for _, d := range diags.Errors {
		fmt.Fprintf(out, "%s %s\n", pterm.Red("error"), d)
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(out, "%s %s\n", pterm.Yellow("warning"), d)
	}
}
