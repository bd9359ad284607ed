// Package commands implements the skb-datatool command line.
package commands

import (
	"github.com/spf13/cobra"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/config"
	"skb-datatool/internal/dataset"
	"skb-datatool/internal/engine"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/logger"
)

// globals are the persistent flags plus the configuration they resolve to.
type globals struct {
	configFile string
	inputDir   string
	separator  string
	jsonLogs   bool

	cfg     *config.Config
	catalog *catalog.Catalog
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{catalog: catalog.Default()}

	root := &cobra.Command{
		Use:   "skb-datatool",
		Short: "Load, validate and render SKB data sets",
		Long: `skb-datatool loads entity records from JSON files, resolves the links
between them and renders or exports the result.

Input files are named <name>.<ext>.json, where ext selects the entity type.
Every file holds a JSON array of objects; comments and trailing commas are
accepted.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (SKB_* prefix)
3. Project config (skb.toml, searched upwards from the working directory)
4. Default values

Examples:
  skb-datatool types                          # List entity types
  skb-datatool load -i data countries         # Load and report problems
  skb-datatool render acronyms -t latex       # Render acronyms for LaTeX
  skb-datatool export -f sqlite -o skb.db     # Export everything to SQLite`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			logger.Cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	flags.StringVar(&g.configFile, "config", "", "Configuration file (default: skb.toml in a parent directory)")
	flags.BoolVar(&g.jsonLogs, "json-logs", false, "Write logs as JSON")
	flags.StringVarP(&g.inputDir, "input", "i", "", "Input directory")
	flags.StringVar(&g.separator, "separator", "", "Key separator")

	root.AddCommand(
		newTypesCmd(g),
		newLoadCmd(g),
		newRenderCmd(g),
		newExportCmd(g),
		newConfigCmd(g),
	)

	return root
}

func (g *globals) setup(cmd *cobra.Command) error {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if cfg.Log.Verbosity > verbosity {
		verbosity = cfg.Log.Verbosity
	}

	if err := logger.Initialize(verbosity, g.jsonLogs || cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	g.cfg = cfg

	if cfg.File != "" {
		logger.Debugw("configuration loaded", "file", cfg.File)
	}

	return nil
}

// loadConfig reads the configuration and applies flag overrides. It runs
// again for every watch cycle.
func (g *globals) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("input") {
		cfg.Input.Dir = g.inputDir
	}

	if cmd.Flags().Changed("separator") {
		cfg.Input.Separator = g.separator
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// newEngine returns an engine reading from the configured input directory.
func (g *globals) newEngine(cfg *config.Config, exclude map[string][]string, tr entry.Translator) *engine.Engine {
	return engine.New(g.catalog, engine.Options{
		InputDir:   cfg.Input.Dir,
		Separator:  cfg.Input.Separator,
		Exclude:    exclude,
		Translator: tr,
	})
}

// loadAll loads names (every entity type when empty) and returns the data
// sets in the order given. The first failing type aborts.
func (g *globals) loadAll(eng *engine.Engine, names []string) ([]*dataset.DataSet, error) {
	if len(names) == 0 {
		names = g.catalog.Order()
	}

	sets := make([]*dataset.DataSet, 0, len(names))

	for _, name := range names {
		if _, err := g.catalog.Get(name); err != nil {
			return nil, err
		}

		ds, err := eng.Load(name)
		if err != nil {
			return nil, err
		}

		sets = append(sets, ds)
	}

	return sets, nil
}
