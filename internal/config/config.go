// Package config loads skb-datatool settings with Viper.
//
// Sources, lowest precedence first: built-in defaults, the project file
// skb.toml (found by walking up from the working directory, or given
// explicitly) and SKB_* environment variables (SKB_INPUT_DIR,
// SKB_INPUT_SEPARATOR, ...).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"skb-datatool/internal/errors"
)

// FileName is the project configuration file searched for.
const FileName = "skb.toml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "SKB"

// Config is the effective configuration of one invocation.
type Config struct {
	Input  InputConfig  `mapstructure:"input" toml:"input"`
	Render RenderConfig `mapstructure:"render" toml:"render"`
	Export ExportConfig `mapstructure:"export" toml:"export"`
	Watch  WatchConfig  `mapstructure:"watch" toml:"watch"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-" toml:"-"`
}

// InputConfig locates the JSON records.
type InputConfig struct {
	Dir       string `mapstructure:"dir" toml:"dir"`
	Separator string `mapstructure:"separator" toml:"separator"`
}

// RenderConfig controls the render command.
type RenderConfig struct {
	Target string `mapstructure:"target" toml:"target"`
	Output string `mapstructure:"output" toml:"output"`
	// Exclude maps a target name to compare strings dropped for it.
	Exclude map[string][]string `mapstructure:"exclude" toml:"exclude"`
	// Charmap extends the target translator with the loaded encodings.
	Charmap bool `mapstructure:"charmap" toml:"charmap"`
}

// ExportConfig controls the export command.
type ExportConfig struct {
	Format string `mapstructure:"format" toml:"format"`
	Output string `mapstructure:"output" toml:"output"`
}

// WatchConfig controls render --watch.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" toml:"debounce"`
}

// LogConfig controls logging.
type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"`
	JSON      bool `mapstructure:"json" toml:"json"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", ".")
	v.SetDefault("input.separator", ":")

	v.SetDefault("render.target", "text")
	v.SetDefault("render.output", "-")
	v.SetDefault("render.exclude", map[string][]string{})
	v.SetDefault("render.charmap", false)

	v.SetDefault("export.format", "yaml")
	v.SetDefault("export.output", "-")

	v.SetDefault("watch.debounce", 500*time.Millisecond)

	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)
}

// NewViper returns a Viper instance with defaults, environment binding and
// the configuration file applied. An empty file searches for skb.toml.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if file == "" {
		file = FindProjectConfig("")
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", file)
		}
	}

	return v, nil
}

// Load builds and validates the configuration.
func Load(file string) (*Config, error) {
	v, err := NewViper(file)
	if err != nil {
		return nil, err
	}

	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindProjectConfig walks up from start (the working directory if empty)
// and returns the first skb.toml found, or "".
func FindProjectConfig(start string) string {
	dir := start
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}

		dir = wd
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return errors.New("input.dir must not be empty")
	}

	sep := c.Input.Separator
	if len([]rune(sep)) != 1 {
		return errors.WithHint(
			errors.Newf("input.separator must be a single character, got %q", sep),
			"the default separator is \":\"")
	}

	if strings.ContainsAny(sep, " %/") {
		return errors.Newf("input.separator %q is not allowed in keys", sep)
	}

	if c.Watch.Debounce < 0 {
		return errors.New("watch.debounce must not be negative")
	}

	return nil
}

// Excludes returns the compare strings excluded for target.
func (c *Config) Excludes(target string) []string {
	return c.Render.Exclude[target]
}

// TOML renders the effective configuration.
func (c *Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding config")
	}

	return out, nil
}
