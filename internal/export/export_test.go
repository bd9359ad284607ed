package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/dataset"
	"skb-datatool/internal/engine"
	"skb-datatool/internal/errors"
)

func fixture(t *testing.T) []*dataset.DataSet {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w.cont.json"),
		[]byte(`[{"code":"EU","name":"Europe"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w.ctry.json"), []byte(`[
		{"iso2":"DE","numeric":276,"name":"Germany","continent":"w/EU","links":{"url":"https://de.example"}},
		{"iso2":"FR","name":"France"}
	]`), 0o644))

	e := engine.New(catalog.Default(), engine.Options{InputDir: dir})

	ds, err := e.Load(catalog.Countries)
	require.NoError(t, err)

	return []*dataset.DataSet{ds}
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, fixture(t)))

	var back []Collection
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 1)

	assert.Equal(t, catalog.Countries, back[0].Type)
	assert.Equal(t, 1, back[0].Files)
	require.Len(t, back[0].Entries, 2)
	assert.Equal(t, "w:FR", back[0].Entries[0].Key)
	assert.Equal(t, "w:DE", back[0].Entries[1].Key)
	assert.Equal(t, "w:EU", back[0].Entries[1].Fields["continent"])
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, fixture(t)))

	var back []Collection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 1)
	assert.Equal(t, float64(276), back[0].Entries[1].Fields["numeric"])
	assert.Equal(t, map[string]any{"url": "https://de.example"}, back[0].Entries[1].Fields["links"])
}

func TestWrite_Dump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatDump, fixture(t)))

	out := buf.String()
	assert.Contains(t, out, `Key: (string) (len=4) "w:DE"`)
	assert.NotContains(t, out, "0x")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	assert.Error(t, Write(&bytes.Buffer{}, FormatSQLite, nil))
	assert.False(t, IsStream(FormatSQLite))
	assert.True(t, IsStream(FormatYAML))
}

func TestColumns(t *testing.T) {
	sets := fixture(t)

	cols := Columns(sets[0].Sorted())
	assert.Equal(t, []Column{
		{Field: "continent", Name: "continent", Type: "TEXT"},
		{Field: "iso2", Name: "iso2", Type: "TEXT"},
		{Field: "links.url", Name: "links_url", Type: "TEXT"},
		{Field: "name", Name: "name", Type: "TEXT"},
		{Field: "numeric", Name: "numeric", Type: "INTEGER"},
	}, cols)
}

func TestWriteSQLite_Statements(t *testing.T) {
	sets := fixture(t)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "countries"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "countries" ("skb_key" TEXT PRIMARY KEY, "continent" TEXT, "iso2" TEXT, ` +
		`"links_url" TEXT, "name" TEXT, "numeric" INTEGER)`).WillReturnResult(sqlmock.NewResult(0, 0))

	prep := mock.ExpectPrepare(`INSERT INTO "countries" ("skb_key", "continent", "iso2", "links_url", "name", "numeric") ` +
		`VALUES (?, ?, ?, ?, ?, ?)`)
	prep.ExpectExec().
		WithArgs("w:FR", nil, "FR", nil, "France", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("w:DE", "w:EU", "DE", "https://de.example", "Germany", int64(276)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, WriteSQLite(context.Background(), db, sets))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteSQLite_RollbackOnError(t *testing.T) {
	sets := fixture(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = WriteSQLite(context.Background(), db, sets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporting countries")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skb.db")
	require.NoError(t, SQLiteFile(context.Background(), path, fixture(t)))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	var numeric int64
	require.NoError(t, db.QueryRow(`SELECT name, numeric FROM countries WHERE skb_key = ?`, "w:DE").Scan(&name, &numeric))
	assert.Equal(t, "Germany", name)
	assert.Equal(t, int64(276), numeric)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM countries`).Scan(&count))
	assert.Equal(t, 2, count)
}
