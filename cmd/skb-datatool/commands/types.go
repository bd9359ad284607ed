package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newTypesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "types [type]",
		Short: "List entity types in load order",
		Long: `List all entity types in load order. Given a type, list only that type
and the types it transitively requires.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := g.catalog.Order()

			if len(args) == 1 {
				if _, err := g.catalog.Get(args[0]); err != nil {
					return err
				}

				names = g.catalog.Closure(args[0])
			}

			data := pterm.TableData{{"TYPE", "EXT", "REQUIRES", "TARGETS", "SECONDARY"}}

			for _, name := range names {
				t, _ := g.catalog.Lookup(name)
				data = append(data, []string{
					t.Name,
					t.Extension,
					dashIfEmpty(strings.Join(t.Requires, ", ")),
					strings.Join(t.TargetNames(), ", "),
					dashIfEmpty(t.Secondary),
				})
			}

			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(data).
				Render()
		},
	}
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
