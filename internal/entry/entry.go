package entry

import (
	"skb-datatool/internal/errors"
	"skb-datatool/internal/schema"
)

// Object is a loaded structured value: a schema plus the resolved values of
// the fields that were present in the source.
type Object struct {
	schema *schema.Schema
	values map[*schema.Key]Value
}

// NewObject returns an empty object for s.
func NewObject(s *schema.Schema) *Object {
	return &Object{schema: s, values: make(map[*schema.Key]Value)}
}

// Schema returns the object's schema.
func (o *Object) Schema() *schema.Schema {
	return o.schema
}

// Set stores v under k. The key must belong to the schema and the value
// must be of the key's kind.
func (o *Object) Set(k *schema.Key, v Value) error {
	if !o.schema.Has(k) {
		return errors.AssertionFailedf("key %q is not part of schema %s", k.Name, o.schema.Name())
	}

	if v.Kind() != k.Kind {
		return &TypeError{Key: k.Name, Want: k.Kind, Got: v.Kind().String()}
	}

	o.values[k] = v

	return nil
}

// Get returns the value stored under k.
func (o *Object) Get(k *schema.Key) (Value, bool) {
	v, ok := o.values[k]
	return v, ok
}

// Len returns the number of fields set.
func (o *Object) Len() int {
	return len(o.values)
}

// Has reports whether the field with the given wire name is set.
func (o *Object) Has(name string) bool {
	_, ok := o.byName(name)
	return ok
}

// Text returns the text stored under a wire name, or "".
func (o *Object) Text(name string) string {
	v, _ := o.byName(name)
	s, _ := v.Text()

	return s
}

// Integer returns the integer stored under a wire name, or 0.
func (o *Object) Integer(name string) int64 {
	v, _ := o.byName(name)
	i, _ := v.Integer()

	return i
}

// Nested returns the nested object stored under a wire name, or nil.
func (o *Object) Nested(name string) *Object {
	v, _ := o.byName(name)
	n, _ := v.Object()

	return n
}

// Link returns the resolved link target stored under a wire name, or nil.
func (o *Object) Link(name string) *Entry {
	v, _ := o.byName(name)
	e, _ := v.Link()

	return e
}

func (o *Object) byName(name string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}

	f, ok := o.schema.Lookup(name)
	if !ok {
		return Value{}, false
	}

	v, ok := o.values[f.Key]

	return v, ok
}

// Map returns a plain representation in schema order, suitable for
// serialization. Links become the key of their target; nested objects
// become nested maps.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.values))

	for _, f := range o.schema.Fields() {
		v, ok := o.values[f.Key]
		if !ok {
			continue
		}

		switch v.Kind() {
		case schema.KindText:
			out[f.Key.Name] = v.text
		case schema.KindInteger:
			out[f.Key.Name] = v.integer
		case schema.KindObject:
			out[f.Key.Name] = v.object.Map()
		case schema.KindLink:
			out[f.Key.Name] = v.link.Key()
		}
	}

	return out
}

// Flat is like Map but flattens nested objects into dotted names
// ("links.url").
func (o *Object) Flat() map[string]any {
	out := map[string]any{}
	flatten("", o.Map(), out)

	return out
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			flatten(prefix+k+".", nested, out)
			continue
		}

		out[prefix+k] = v
	}
}

// Entry is one loaded, validated record of an entity type. It is immutable
// once returned by the Loader.
type Entry struct {
	*Object

	typ     string
	key     string
	compare string
}

// Type returns the entity type name.
func (e *Entry) Type() string {
	return e.typ
}

// Key returns the generated key, unique within the entry's data set.
func (e *Entry) Key() string {
	return e.key
}

// CompareString returns the string used for ordering and exclusion.
func (e *Entry) CompareString() string {
	return e.compare
}

// String returns "type(key)" for logs.
func (e *Entry) String() string {
	return e.typ + "(" + e.key + ")"
}
