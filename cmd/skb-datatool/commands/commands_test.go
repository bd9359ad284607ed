package commands

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skb-datatool/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// run executes the command line args inside dir and returns its output.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	pterm.DisableColor()

	var out bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

const acronyms = `[
	// comments are fine
	{"s":"WHO","l":"World Health Organization"},
	{"s":"EU","l":"Europäische Union"},
]`

func TestTypes(t *testing.T) {
	out, err := run(t, t.TempDir(), "types")
	require.NoError(t, err)

	for _, name := range []string{"continents", "countries", "cities", "acronyms", "affiliation-types", "affiliations", "encodings"} {
		assert.Contains(t, out, name)
	}

	assert.Less(t, strings.Index(out, "continents"), strings.Index(out, "cities"))
}

func TestTypes_Closure(t *testing.T) {
	out, err := run(t, t.TempDir(), "types", "cities")
	require.NoError(t, err)

	for _, name := range []string{"continents", "countries", "cities"} {
		assert.Contains(t, out, name)
	}

	assert.NotContains(t, out, "acronyms")
	assert.NotContains(t, out, "encodings")
	assert.Less(t, strings.Index(out, "countries"), strings.Index(out, "cities"))

	_, err = run(t, t.TempDir(), "types", "planets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLoad_ReportsProblems(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "demo.acr.json", `[
		{"s":"NATO","l":"North Atlantic Treaty Organization"},
		{"s":"NATO","l":"North Atlantic Treaty Organization"},
		{"s":""}
	]`)

	out, err := run(t, dir, "load", "acronyms", "--problems")
	require.NoError(t, err)

	assert.Contains(t, out, "acronyms")
	assert.Contains(t, out, "demo.acr.json#1")
	assert.Contains(t, out, "[duplicate_key]")
	assert.Contains(t, out, "[schema_violation]")
}

func TestLoad_Strict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "demo.acr.json", `[
		{"s":"NATO","l":"North Atlantic Treaty Organization"},
		{"s":"NATO","l":"North Atlantic Treaty Organization"}
	]`)
	writeFile(t, dir, "later.acr.json", `[]`)

	out, err := run(t, dir, "load", "acronyms", "--problems")
	require.NoError(t, err)
	assert.Contains(t, out, "[empty_file]")

	_, err = run(t, dir, "load", "acronyms", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 record problems")
	assert.Contains(t, err.Error(), "[duplicate_key]")
}

func TestLoad_UnknownType(t *testing.T) {
	_, err := run(t, t.TempDir(), "load", "planets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLoad_MissingInputDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "load", "-i", filepath.Join(dir, "missing"), "continents")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDirectoryLoad))
}

func TestRender_LaTeXToStdout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.acr.json", acronyms)

	out, err := run(t, dir, "render", "acronyms", "-t", "latex")
	require.NoError(t, err)

	assert.Equal(t, `% acronyms: 2 entries
\newacronym{x:EU}{EU}{Europ\"{a}ische Union}
\newacronym{x:WHO}{WHO}{World Health Organization}
`, out)
}

func TestRender_CharmapToFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.acr.json", acronyms)
	writeFile(t, dir, "chars.enc.json", `[{"name":"a-diaeresis","char":"ä","codepoint":228,"text":"ae"}]`)

	target := filepath.Join(dir, "out", "acronyms.txt")

	_, err := run(t, dir, "render", "acronyms", "-t", "text", "--charmap", "-o", target)
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(got), "l: Europaeische Union")
}

func TestRender_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/x.acr.json", acronyms)
	writeFile(t, dir, "skb.toml", `
[input]
dir = "data"
separator = "."

[render]
target = "text"
`)

	out, err := run(t, dir, "render", "acronyms")
	require.NoError(t, err)
	assert.Contains(t, out, "x.WHO\n")
	assert.Contains(t, out, "  s: WHO\n")
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "w.cont.json", `[{"code":"EU","name":"Europe"}]`)

	tests := []struct {
		name string
		args []string
	}{
		{"unsupported target", []string{"render", "continents", "-t", "latex"}},
		{"unknown target", []string{"render", "continents", "-t", "pdf"}},
		{"unknown type", []string{"render", "planets"}},
		{"invalid separator", []string{"render", "continents", "--separator", "::"}},
		{"missing argument", []string{"render"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dir, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestExport_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "w.cont.json", `[{"code":"EU","name":"Europe"}]`)
	writeFile(t, dir, "w.ctry.json", `[{"iso2":"DE","name":"Germany","continent":"w/EU"}]`)

	out, err := run(t, dir, "export", "-f", "json", "countries", "continents")
	require.NoError(t, err)

	var got []struct {
		Type    string `json:"type"`
		Entries []struct {
			Key    string         `json:"key"`
			Fields map[string]any `json:"fields"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	require.Len(t, got, 2)
	assert.Equal(t, "countries", got[0].Type)
	assert.Equal(t, "w:EU", got[0].Entries[0].Fields["continent"])
	assert.Equal(t, "continents", got[1].Type)
}

func TestExport_SQLite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.acr.json", acronyms)

	_, err := run(t, dir, "export", "-f", "sqlite", "acronyms")
	require.Error(t, err)

	path := filepath.Join(dir, "skb.db")
	_, err = run(t, dir, "export", "-f", "sqlite", "-o", path, "acronyms")
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM acronyms`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skb.toml", "[input]\ndir = \"records\"\n")

	out, err := run(t, dir, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "# read from")
	assert.Contains(t, out, "[input]")
	assert.Contains(t, out, "records")
	assert.Contains(t, out, "[render]")
}
