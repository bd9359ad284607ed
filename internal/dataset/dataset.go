// Package dataset holds the loaded entries of one entity type and loads
// them from a directory of JSON files.
//
// Keys are derived from the location of the file a record came from: the
// path relative to the common directory of all input files, stripped of its
// ".<ext>.json" suffix, with path separators replaced by the key separator.
// A record identified as "NATO" in <input>/demo.acr.json therefore gets the
// key "demo:NATO".
package dataset

import (
	"sort"

	"skb-datatool/internal/entry"
)

// DataSet is the collection of entries of one entity type, keyed by their
// generated key. It is read-only once its loader returns.
type DataSet struct {
	typ       string
	separator string
	entries   map[string]*entry.Entry
	order     []string
	files     int
}

// New returns an empty data set.
func New(typeName, separator string) *DataSet {
	return &DataSet{
		typ:       typeName,
		separator: separator,
		entries:   make(map[string]*entry.Entry),
	}
}

// Type returns the entity type name.
func (d *DataSet) Type() string {
	return d.typ
}

// Separator returns the key separator used for generated keys.
func (d *DataSet) Separator() string {
	return d.separator
}

// Len returns the number of entries.
func (d *DataSet) Len() int {
	return len(d.order)
}

// FileCount returns the number of files that contributed to the data set.
func (d *DataSet) FileCount() int {
	return d.files
}

// Get returns the entry stored under key.
func (d *DataSet) Get(key string) (*entry.Entry, bool) {
	e, ok := d.entries[key]
	return e, ok
}

// Keys returns all keys in load order.
func (d *DataSet) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)

	return out
}

// Entries returns all entries in load order.
func (d *DataSet) Entries() []*entry.Entry {
	out := make([]*entry.Entry, len(d.order))
	for i, k := range d.order {
		out[i] = d.entries[k]
	}

	return out
}

// Sorted returns all entries ordered by compare string, then key.
func (d *DataSet) Sorted() []*entry.Entry {
	out := d.Entries()
	SortEntries(out)

	return out
}

// SortEntries orders entries by compare string, then key.
func SortEntries(es []*entry.Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].CompareString() != es[j].CompareString() {
			return es[i].CompareString() < es[j].CompareString()
		}

		return es[i].Key() < es[j].Key()
	})
}

// add stores e unless its key is taken. It reports whether e was stored.
func (d *DataSet) add(e *entry.Entry) bool {
	if _, ok := d.entries[e.Key()]; ok {
		return false
	}

	d.entries[e.Key()] = e
	d.order = append(d.order, e.Key())

	return true
}

// findDuplicate returns the first stored entry that dup reports as a
// duplicate of e.
func (d *DataSet) findDuplicate(e *entry.Entry, dup func(a, b *entry.Entry) bool) (*entry.Entry, bool) {
	for _, k := range d.order {
		if other := d.entries[k]; dup(other, e) {
			return other, true
		}
	}

	return nil, false
}
