package commands

import (
	"bytes"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"skb-datatool/internal/errors"
	"skb-datatool/internal/export"
	"skb-datatool/internal/render"
)

func newExportCmd(g *globals) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [type...]",
		Short: "Export loaded entity types as YAML, JSON, a dump or SQLite",
		Long: `Load the given entity types (all types when none are given) and write
them in a machine-readable format. Links are written as the key of the
entry they point to.

The sqlite format writes one table per entity type into a new database
file and needs --output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg

			if cmd.Flags().Changed("format") {
				cfg.Export.Format = format
			}

			if cmd.Flags().Changed("output") {
				cfg.Export.Output = output
			}

			eng := g.newEngine(cfg, nil, nil)

			sets, err := g.loadAll(eng, args)
			if err != nil {
				return err
			}

			toStdout := cfg.Export.Output == "" || cfg.Export.Output == "-"

			if cfg.Export.Format == export.FormatSQLite {
				if toStdout {
					return errors.WithHint(
						errors.New("the sqlite format needs an output file"),
						"pass --output skb.db")
				}

				if err := export.SQLiteFile(cmd.Context(), cfg.Export.Output, sets); err != nil {
					return err
				}

				pterm.Success.Printf("Exported %d types to %s\n", len(sets), cfg.Export.Output)

				return nil
			}

			var buf bytes.Buffer
			if err := export.Write(&buf, cfg.Export.Format, sets); err != nil {
				return err
			}

			if toStdout {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			return render.WriteFile(cfg.Export.Output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Format: "+strings.Join(export.Formats(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")

	return cmd
}
