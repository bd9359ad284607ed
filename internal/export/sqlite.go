package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"skb-datatool/internal/dataset"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/logger"
)

// KeyColumn holds the entry key in every exported table.
const KeyColumn = "skb_key"

// Column is one table column derived from entry fields.
type Column struct {
	Field string
	Name  string
	Type  string
}

// Columns derives the columns of a table from entries: the union of all
// flattened field names, sorted. A column is INTEGER when every value in it
// is an integer, TEXT otherwise.
func Columns(es []*entry.Entry) []Column {
	integer := map[string]bool{}

	for _, e := range es {
		for k, v := range e.Flat() {
			_, isInt := v.(int64)
			if seen, ok := integer[k]; ok {
				integer[k] = seen && isInt
			} else {
				integer[k] = isInt
			}
		}
	}

	out := make([]Column, 0, len(integer))
	for k, isInt := range integer {
		typ := "TEXT"
		if isInt {
			typ = "INTEGER"
		}

		out = append(out, Column{Field: k, Name: strings.NewReplacer(".", "_", "-", "_").Replace(k), Type: typ})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })

	return out
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// OpenSQLite opens (and creates) the database file at path. An existing
// file is replaced.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "removing %s", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	return db, nil
}

// SQLiteFile writes sets into a new SQLite database at path.
func SQLiteFile(ctx context.Context, path string, sets []*dataset.DataSet) error {
	db, err := OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return WriteSQLite(ctx, db, sets)
}

// WriteSQLite writes one table per data set in a single transaction.
// Existing tables of the same name are dropped.
func WriteSQLite(ctx context.Context, db *sql.DB, sets []*dataset.DataSet) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	for _, ds := range sets {
		if err := writeTable(ctx, tx, ds); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "exporting %s", ds.Type())
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing export")
	}

	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, ds *dataset.DataSet) error {
	entries := ds.Sorted()
	cols := Columns(entries)
	table := quoteIdent(ds.Type())

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return err
	}

	defs := []string{quoteIdent(KeyColumn) + " TEXT PRIMARY KEY"}
	names := []string{quoteIdent(KeyColumn)}
	marks := []string{"?"}

	for _, c := range cols {
		defs = append(defs, quoteIdent(c.Name)+" "+c.Type)
		names = append(names, quoteIdent(c.Name))
		marks = append(marks, "?")
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return err
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", "))

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		flat := e.Flat()

		args := make([]any, 0, len(cols)+1)
		args = append(args, e.Key())

		for _, c := range cols {
			args = append(args, flat[c.Field])
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Wrapf(err, "inserting %s", e.Key())
		}
	}

	logger.Debugw("exported table", "type", ds.Type(), "rows", len(entries), "columns", len(cols)+1)

	return nil
}
