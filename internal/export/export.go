// Package export writes loaded data sets in machine-readable formats:
// YAML, JSON, a Go value dump and SQLite databases.
package export

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"skb-datatool/internal/dataset"
	"skb-datatool/internal/errors"
)

// Supported formats.
const (
	FormatYAML   = "yaml"
	FormatJSON   = "json"
	FormatDump   = "dump"
	FormatSQLite = "sqlite"
)

// Formats returns all format names.
func Formats() []string {
	return []string{FormatDump, FormatJSON, FormatSQLite, FormatYAML}
}

// Collection is the exported form of one data set.
type Collection struct {
	Type    string   `yaml:"type" json:"type"`
	Files   int      `yaml:"files" json:"files"`
	Entries []Record `yaml:"entries" json:"entries"`
}

// Record is the exported form of one entry. Links are written as the key
// of their target.
type Record struct {
	Key     string         `yaml:"key" json:"key"`
	Compare string         `yaml:"compare" json:"compare"`
	Fields  map[string]any `yaml:"fields" json:"fields"`
}

// Collect converts data sets into collections with sorted entries.
func Collect(sets []*dataset.DataSet) []Collection {
	out := make([]Collection, 0, len(sets))

	for _, ds := range sets {
		c := Collection{Type: ds.Type(), Files: ds.FileCount()}
		for _, e := range ds.Sorted() {
			c.Entries = append(c.Entries, Record{Key: e.Key(), Compare: e.CompareString(), Fields: e.Map()})
		}

		out = append(out, c)
	}

	return out
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Write streams sets to w in a text format (yaml, json or dump).
func Write(w io.Writer, format string, sets []*dataset.DataSet) error {
	cols := Collect(sets)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(cols); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}

		return enc.Close()

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)

		return errors.Wrap(enc.Encode(cols), "encoding json")

	case FormatDump:
		dumpConfig.Fdump(w, cols)
		return nil

	case FormatSQLite:
		return errors.Newf("format %s writes a database file, not a stream", format)
	}

	return errors.WithHintf(
		errors.Wrapf(errors.ErrNotFound, "export format %q", format),
		"known formats: %s", strings.Join(Formats(), ", "))
}

// IsStream reports whether format can be written to a stream.
func IsStream(format string) bool {
	return format != FormatSQLite && slices.Contains(Formats(), format)
}
