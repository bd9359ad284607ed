package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := g.cfg.TOML()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if g.cfg.File != "" {
				fmt.Fprintf(w, "# read from %s\n", g.cfg.File)
			} else {
				fmt.Fprintln(w, "# no configuration file, defaults and environment only")
			}

			_, err = w.Write(out)

			return err
		},
	})

	return cmd
}
