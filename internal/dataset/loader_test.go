package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skb-datatool/internal/diagnostic"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/schema"
)

var (
	shortKey = schema.Text("s", "short form")
	longKey  = schema.Text("l", "long form")

	acronymBuilder = &entry.Builder{
		Type:   "acronyms",
		Schema: schema.New("acronym", schema.Required(shortKey), schema.Required(longKey)),
		ID:     shortKey,
		Duplicate: func(a, b *entry.Entry) bool {
			return a.Text("s") == b.Text("s") && a.Text("l") == b.Text("l")
		},
	}
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func newLoader() *Loader {
	return &Loader{
		Builder:   acronymBuilder,
		Records:   &entry.Loader{},
		Extension: "acr",
		Separator: ":",
	}
}

func TestLoader_DemoFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "demo.acr.json", `[
		{"s":"NATO","l":"North Atlantic Treaty Organization"},
		{"s":"NATO","l":"North Atlantic Treaty Organization"},
		{"s":""}
	]`)

	ds, diags, err := newLoader().LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 1, ds.FileCount())
	assert.Equal(t, []string{"demo:NATO"}, ds.Keys())

	e, ok := ds.Get("demo:NATO")
	require.True(t, ok)
	assert.Equal(t, "North Atlantic Treaty Organization", e.Text("l"))

	assert.Equal(t, 2, diags.ErrorCount())
	assert.Equal(t, 1, diags.CountCode(diagnostic.CodeDuplicateKey))
	assert.Equal(t, 1, diags.CountCode(diagnostic.CodeSchemaViolation))

	dup := diags.Errors[0]
	assert.Equal(t, "acronyms", dup.Type)
	assert.Equal(t, "demo.acr.json", dup.File)
	assert.Equal(t, 1, dup.Index)
}

func TestLoader_KeyPrefixFromNestedPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "demo.acr.json", `[{"s":"NATO","l":"North Atlantic Treaty Organization"}]`)
	writeFile(t, dir, "org/eu.acr.json", `[{"s":"EU","l":"European Union"}]`)

	ds, diags, err := newLoader().LoadDir(dir)
	require.NoError(t, err)
	require.True(t, diags.IsValid())

	assert.Equal(t, 2, ds.FileCount())
	assert.ElementsMatch(t, []string{"demo:NATO", "org:eu:EU"}, ds.Keys())
}

func TestLoader_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.acr.json", `[
		{"s":"A","l":"Alpha"},
		{"s":"B"},
		"not an object",
		{"s":"C","l":"Charlie","x":"unknown"},
		{"s":"D","l":"Delta"}
	]`)
	writeFile(t, dir, "broken.acr.json", `[{"s":"E",`)

	ds, diags, err := newLoader().LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a:A", "a:D"}, ds.Keys())
	assert.Equal(t, 1, ds.FileCount())
	assert.Equal(t, 2, diags.CountCode(diagnostic.CodeSchemaViolation))
	assert.Equal(t, 1, diags.CountCode(diagnostic.CodeNotAnObject))
	assert.Equal(t, 1, diags.CountCode(diagnostic.CodeJSONParse))
	assert.Equal(t, 4, diags.ErrorCount())
}

func TestLoader_CommentsAndTrailingCommas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.acr.json", `[
		// first entry
		{"s":"UN","l":"United Nations",},
		/* second */ {"s":"WHO","l":"World Health Organization"},
	]`)

	ds, diags, err := newLoader().LoadDir(dir)
	require.NoError(t, err)
	assert.True(t, diags.IsValid())
	assert.Equal(t, 2, ds.Len())
}

func TestLoader_NotAnArray(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.acr.json", `{"s":"UN","l":"United Nations"}`)

	ds, diags, err := newLoader().LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 0, ds.FileCount())
	assert.Equal(t, 1, diags.CountCode(diagnostic.CodeJSONParse))
}

func TestLoader_UnreadableFile(t *testing.T) {
	dir := t.TempDir()

	ds, diags := newLoader().Load([]string{filepath.Join(dir, "missing.acr.json")})
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 1, diags.CountCode(diagnostic.CodeReadFailed))
}

func TestLoader_Exclusion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.acr.json", `[
		{"s":"UN","l":"United Nations"},
		{"s":"WHO","l":"World Health Organization"}
	]`)

	l := newLoader()
	l.Exclude = []string{"UN"}

	ds, diags, err := l.LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"x:WHO"}, ds.Keys())
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Infos, 1)
	assert.Equal(t, diagnostic.CodeExcluded, diags.Infos[0].Code)
}

func TestLoader_SemanticDuplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.acr.json", `[{"s":"UN","l":"United Nations"}]`)
	writeFile(t, dir, "b.acr.json", `[{"s":"UN","l":"United Nations"}, {"s":"UN","l":"Unnamed"}]`)

	ds, diags, err := newLoader().LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a:UN", "b:UN"}, ds.Keys())
	assert.Equal(t, 1, diags.CountCode(diagnostic.CodeDuplicateEntry))
	assert.Equal(t, 1, diags.ErrorCount())

	first, _ := ds.Get("a:UN")
	second, _ := ds.Get("b:UN")
	assert.Equal(t, "United Nations", first.Text("l"))
	assert.Equal(t, "Unnamed", second.Text("l"))
}

func TestLoader_EmptyFileWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.acr.json", "[ /* nothing yet */ ]")
	writeFile(t, dir, "full.acr.json", `[{"s":"UN","l":"United Nations"}]`)

	ds, diags, err := newLoader().LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.FileCount())
	assert.Equal(t, 1, ds.Len())
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeEmptyFile, diags.Warnings[0].Code)
	assert.Equal(t, "empty.acr.json", diags.Warnings[0].File)
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"schema", errors.Wrap(errors.ErrSchemaViolation, "x"), diagnostic.CodeSchemaViolation},
		{"link", errors.Wrap(errors.ErrLinkResolution, "x"), diagnostic.CodeLinkUnresolved},
		{"key", errors.Wrap(errors.ErrInvalidKey, "x"), diagnostic.CodeInvalidKey},
		{"value", errors.Wrap(errors.ErrInvalidValue, "x"), diagnostic.CodeInvalidValue},
		{"other", errors.New("disk on fire"), diagnostic.CodeLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codeFor(tt.err))
		})
	}
}

func TestLoader_Sorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.acr.json", `[
		{"s":"WHO","l":"World Health Organization"},
		{"s":"EU","l":"European Union"},
		{"s":"UN","l":"United Nations"}
	]`)

	ds, _, err := newLoader().LoadDir(dir)
	require.NoError(t, err)

	var got []string
	for _, e := range ds.Sorted() {
		got = append(got, e.Key())
	}

	assert.Equal(t, []string{"x:EU", "x:UN", "x:WHO"}, got)
	assert.Equal(t, "x:WHO", ds.Entries()[0].Key())
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.acr.json", "[]")
	writeFile(t, dir, "sub/a.acr.json", "[]")
	writeFile(t, dir, "c.city.json", "[]")
	writeFile(t, dir, "acr.json", "[]")

	files, err := FindFiles(dir, "acr")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "b.acr.json", filepath.Base(files[0]))
	assert.Equal(t, "a.acr.json", filepath.Base(files[1]))
}

func TestFindFiles_DirectoryError(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "plain.txt", "")

	tests := []struct {
		name string
		dir  string
	}{
		{"missing", filepath.Join(dir, "nope")},
		{"not a directory", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindFiles(tt.dir, "acr")
			require.Error(t, err)

			var de *DirectoryError
			require.ErrorAs(t, err, &de)
			assert.True(t, errors.Is(err, errors.ErrDirectoryLoad))
		})
	}
}

func TestKeyPrefix(t *testing.T) {
	tests := []struct {
		root, file, want string
	}{
		{"/in", "/in/demo.acr.json", "demo:"},
		{"/in", "/in/org/eu.acr.json", "org:eu:"},
		{"/in", "/in/a/b/c.acr.json", "a:b:c:"},
		{"/in", "/in/.acr.json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyPrefix(filepath.FromSlash(tt.root), filepath.FromSlash(tt.file), "acr", ":"))
		})
	}
}
