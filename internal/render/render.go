// Package render turns loaded entries into target-specific text through
// text/template. Entries are always handed to templates sorted by their
// compare string.
package render

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/dataset"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Data is what a template sees.
type Data struct {
	Type   string
	Target string
	// Entries is the primary sequence.
	Entries []*entry.Entry
	// Secondary holds further named sequences for dual-input targets.
	Secondary map[string][]*entry.Entry
}

// Columns returns the sorted field names used by any primary entry.
func (d *Data) Columns() []string {
	return columns(d.Entries)
}

// Lookup returns the loaded data set of an entity type.
type Lookup func(typeName string) (*dataset.DataSet, bool)

// Render executes template name for target. Entries are sorted first; the
// caller's slices are not modified.
func Render(w io.Writer, target *Target, name string, data Data) error {
	tmpl, ok := templates[name]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "template %q", name)
	}

	data.Target = target.Name
	data.Entries = sorted(data.Entries)

	if len(data.Secondary) > 0 {
		sec := make(map[string][]*entry.Entry, len(data.Secondary))
		for k, es := range data.Secondary {
			sec[k] = sorted(es)
		}

		data.Secondary = sec
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, &data); err != nil {
		return errors.Wrapf(err, "executing template %s", name)
	}

	_, err := w.Write(buf.Bytes())

	return err
}

// Type renders entity type typ for target, taking its data sets from lookup.
func Type(w io.Writer, typ *catalog.Type, target *Target, lookup Lookup) error {
	name, ok := typ.Template(target.Name)
	if !ok {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrNotFound, "entity type %s has no %s target", typ.Name, target.Name),
			"supported targets: %v", typ.TargetNames())
	}

	primary, ok := lookup(typ.Name)
	if !ok {
		return errors.Newf("entity type %s is not loaded", typ.Name)
	}

	data := Data{Type: typ.Name, Entries: primary.Entries()}

	if typ.Secondary != "" {
		sec, ok := lookup(typ.Secondary)
		if !ok {
			return errors.Newf("secondary entity type %s is not loaded", typ.Secondary)
		}

		data.Secondary = map[string][]*entry.Entry{typ.Secondary: sec.Entries()}
	}

	return Render(w, target, name, data)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return errors.Wrapf(err, "writing file %s", path)
	}

	return nil
}

func sorted(es []*entry.Entry) []*entry.Entry {
	out := make([]*entry.Entry, len(es))
	copy(out, es)
	dataset.SortEntries(out)

	return out
}
