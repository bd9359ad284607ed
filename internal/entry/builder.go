package entry

import (
	"skb-datatool/internal/schema"
)

// Builder describes how records of one entity type become entries: which
// schema they follow, which field identifies them, how they are ordered and
// which records count as duplicates of each other. One Builder is declared
// per entity type and passed explicitly to the Loader.
type Builder struct {
	// Type is the entity type name stamped on every entry.
	Type string
	// Schema is the record schema.
	Schema *schema.Schema
	// ID is the text field whose raw value identifies the record locally.
	ID *schema.Key
	// KeyOverride is an optional text field that replaces ID in the key.
	KeyOverride *schema.Key
	// Compare derives the compare string; nil uses the ID field's value.
	Compare func(e *Entry) string
	// Duplicate reports whether two entries with different keys describe the
	// same thing. Nil disables the check.
	Duplicate func(a, b *Entry) bool
}

// CompareString computes the compare string for e.
func (b *Builder) CompareString(e *Entry) string {
	if b.Compare != nil {
		return b.Compare(e)
	}

	v, _ := e.Get(b.ID)
	s, _ := v.Text()

	return s
}

// IsDuplicate runs the type-specific duplicate test.
func (b *Builder) IsDuplicate(a, c *Entry) bool {
	return b.Duplicate != nil && b.Duplicate(a, c)
}
