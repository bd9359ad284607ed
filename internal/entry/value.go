package entry

import (
	"strconv"

	"skb-datatool/internal/schema"
)

// Value is a resolved field value. Exactly one variant is set, selected by
// Kind; the constructors are the only way to build one.
type Value struct {
	kind    schema.Kind
	text    string
	integer int64
	object  *Object
	link    *Entry
}

// TextValue wraps a text value.
func TextValue(s string) Value {
	return Value{kind: schema.KindText, text: s}
}

// IntegerValue wraps an integer value.
func IntegerValue(i int64) Value {
	return Value{kind: schema.KindInteger, integer: i}
}

// ObjectValue wraps a nested object.
func ObjectValue(o *Object) Value {
	return Value{kind: schema.KindObject, object: o}
}

// LinkValue wraps a resolved link target.
func LinkValue(e *Entry) Value {
	return Value{kind: schema.KindLink, link: e}
}

// Kind returns the variant held.
func (v Value) Kind() schema.Kind {
	return v.kind
}

// Text returns the text variant.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == schema.KindText
}

// Integer returns the integer variant.
func (v Value) Integer() (int64, bool) {
	return v.integer, v.kind == schema.KindInteger
}

// Object returns the nested object variant.
func (v Value) Object() (*Object, bool) {
	return v.object, v.kind == schema.KindObject && v.object != nil
}

// Link returns the resolved link target.
func (v Value) Link() (*Entry, bool) {
	return v.link, v.kind == schema.KindLink && v.link != nil
}

// String renders the value for logs and plain exports.
// Links render as the key of their target.
func (v Value) String() string {
	switch v.kind {
	case schema.KindText:
		return v.text
	case schema.KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case schema.KindLink:
		if v.link != nil {
			return v.link.Key()
		}
	case schema.KindObject:
		if v.object != nil {
			return "{" + v.object.schema.Name() + "}"
		}
	}

	return ""
}
