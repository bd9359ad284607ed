package commands

import (
	"bytes"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/config"
	"skb-datatool/internal/dataset"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/logger"
	"skb-datatool/internal/render"
	"skb-datatool/internal/translate"
	"skb-datatool/internal/watch"
)

type renderFlags struct {
	target  string
	output  string
	watch   bool
	charmap bool
}

// apply overrides the render settings of cfg with the flags given.
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("target") {
		cfg.Render.Target = f.target
	}

	if cmd.Flags().Changed("output") {
		cfg.Render.Output = f.output
	}

	if cmd.Flags().Changed("charmap") {
		cfg.Render.Charmap = f.charmap
	}
}

func newRenderCmd(g *globals) *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render <type>",
		Short: "Render an entity type for a target",
		Long: `Render one entity type through the template of a target (latex, html,
sql, java or text). Output goes to stdout unless --output names a file.

With --charmap the loaded encodings extend the character translation of
the target. With --watch the input directory is watched and the type is
rendered again after every change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, g.cfg)

			if err := renderType(cmd, g, g.cfg, args[0]); err != nil {
				return err
			}

			if !f.watch {
				return nil
			}

			return watchAndRender(cmd, g, &f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Target: latex, html, sql, java, text")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file, - for stdout")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Render again when input files change")
	cmd.Flags().BoolVar(&f.charmap, "charmap", false, "Extend the translation with the loaded encodings")

	return cmd
}

// renderType runs one complete render with a fresh engine.
func renderType(cmd *cobra.Command, g *globals, cfg *config.Config, typeName string) error {
	typ, err := g.catalog.Get(typeName)
	if err != nil {
		return err
	}

	target, err := render.LookupTarget(cfg.Render.Target)
	if err != nil {
		return err
	}

	excludes := append(append([]string{}, target.Exclude...), cfg.Excludes(target.Name)...)

	tr := target.Translator()
	if cfg.Render.Charmap {
		chars, err := charmap(g, cfg, target, excludes)
		if err != nil {
			return err
		}

		tr = translate.Extend(tr, chars)
	}

	eng := g.newEngine(cfg, map[string][]string{typ.Name: excludes}, tr)

	if _, err := eng.Load(typ.Name); err != nil {
		return err
	}

	if typ.Secondary != "" {
		if err := eng.LoadType(typ.Secondary); err != nil {
			return err
		}
	}

	var buf bytes.Buffer

	lookup := func(name string) (*dataset.DataSet, bool) {
		l, ok := eng.Registry().Get(name)
		if !ok {
			return nil, false
		}

		return l.DataSet, true
	}

	if err := render.Type(&buf, typ, target, lookup); err != nil {
		return err
	}

	diags := eng.Diagnostics()
	logger.Infow("rendered", "type", typ.Name, "target", target.Name, "loaded", eng.Summary(),
		"errors", diags.ErrorCount())

	if diags.HasErrors() {
		logger.Warnw("records with errors were left out", "count", diags.ErrorCount())
	}

	if cfg.Render.Output == "" || cfg.Render.Output == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := render.WriteFile(cfg.Render.Output, buf.Bytes()); err != nil {
		return err
	}

	pterm.Success.Printf("Rendered %s (%s) to %s\n", typ.Name, target.Name, cfg.Render.Output)

	return nil
}

// charmap loads the encodings and maps each character to its replacement
// for target. Excluded characters keep the target's own translation.
func charmap(g *globals, cfg *config.Config, target *render.Target, excludes []string) (map[string]string, error) {
	eng := g.newEngine(cfg, map[string][]string{catalog.Encodings: excludes}, nil)

	ds, err := eng.Load(catalog.Encodings)
	if err != nil {
		return nil, errors.Wrap(err, "loading character map")
	}

	field := catalog.KeyEncText.Name

	switch target.Name {
	case catalog.TargetLaTeX:
		field = catalog.KeyEncLaTeX.Name
	case catalog.TargetHTML:
		field = catalog.KeyEncHTML.Name
	}

	chars := make(map[string]string, ds.Len())

	for _, e := range ds.Sorted() {
		if repl := e.Text(field); repl != "" {
			chars[e.Text(catalog.KeyEncChar.Name)] = repl
		}
	}

	logger.Debugw("character map loaded", "target", target.Name, "characters", len(chars))

	return chars, nil
}

// watchAndRender renders typeName again after every debounced change below
// the input directory. The configuration is read again for every run.
func watchAndRender(cmd *cobra.Command, g *globals, f *renderFlags, typeName string) error {
	w, err := watch.New(g.cfg.Input.Dir, g.cfg.Watch.Debounce, ".json", config.FileName)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printf("Watching %s (press Ctrl+C to stop)\n", g.cfg.Input.Dir)

	return w.Run(ctx, func() error {
		cfg, err := g.loadConfig(cmd)
		if err != nil {
			return err
		}

		f.apply(cmd, cfg)

		return renderType(cmd, g, cfg, typeName)
	})
}
