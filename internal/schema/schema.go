package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Field is a key together with its required flag.
type Field struct {
	Key      *Key
	Required bool
}

// Required declares a mandatory field.
func Required(k *Key) Field {
	return Field{Key: k, Required: true}
}

// Optional declares an optional field.
func Optional(k *Key) Field {
	return Field{Key: k}
}

// Schema is the fixed set of fields permitted for one entity type or nested
// object. It is immutable once built.
type Schema struct {
	name   string
	fields []Field
	byName map[string]Field
}

// New builds a schema. It panics on wiring bugs: nil or duplicate keys,
// invalid kinds, links without a scheme and objects without a nested schema.
func New(name string, fields ...Field) *Schema {
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]Field, len(fields)),
	}

	for _, f := range fields {
		k := f.Key
		if k == nil {
			panic(fmt.Sprintf("schema %s: nil key", name))
		}

		if k.Name == "" {
			panic(fmt.Sprintf("schema %s: key with empty name", name))
		}

		if !k.Kind.IsValid() {
			panic(fmt.Sprintf("schema %s: key %q has invalid kind %d", name, k.Name, int(k.Kind)))
		}

		if k.Kind == KindLink && k.LinkScheme == "" {
			panic(fmt.Sprintf("schema %s: link key %q has no scheme", name, k.Name))
		}

		if k.Kind == KindObject && k.Object == nil {
			panic(fmt.Sprintf("schema %s: object key %q has no nested schema", name, k.Name))
		}

		if _, dup := s.byName[k.Name]; dup {
			panic(fmt.Sprintf("schema %s: duplicate wire name %q", name, k.Name))
		}

		s.fields = append(s.fields, f)
		s.byName[k.Name] = f
	}

	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)

	return out
}

// Lookup returns the field declared under a wire name.
func (s *Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Has reports whether k (by identity) is part of the schema.
func (s *Schema) Has(k *Key) bool {
	f, ok := s.byName[k.Name]
	return ok && f.Key == k
}

// IsRequired reports whether k is a mandatory field of the schema.
func (s *Schema) IsRequired(k *Key) bool {
	f, ok := s.byName[k.Name]
	return ok && f.Key == k && f.Required
}

// ViolationCode classifies a schema violation.
type ViolationCode string

const (
	ViolationMissing ViolationCode = "missing"
	ViolationEmpty   ViolationCode = "empty"
	ViolationUnknown ViolationCode = "unknown"
)

// Violation is a single schema conformance problem of a raw record.
type Violation struct {
	Code ViolationCode
	Key  string
}

// String returns a human-readable description.
func (v Violation) String() string {
	switch v.Code {
	case ViolationMissing:
		return fmt.Sprintf("missing mandatory key %q", v.Key)
	case ViolationEmpty:
		return fmt.Sprintf("mandatory key %q is empty", v.Key)
	case ViolationUnknown:
		return fmt.Sprintf("unknown key %q", v.Key)
	default:
		return fmt.Sprintf("%s key %q", v.Code, v.Key)
	}
}

// Validate checks raw against the schema. It does not modify raw.
func (s *Schema) Validate(raw map[string]any) []Violation {
	var out []Violation

	for _, f := range s.fields {
		if !f.Required {
			continue
		}

		v, ok := raw[f.Key.Name]
		if !ok {
			out = append(out, Violation{Code: ViolationMissing, Key: f.Key.Name})
			continue
		}

		if isEmpty(v) {
			out = append(out, Violation{Code: ViolationEmpty, Key: f.Key.Name})
		}
	}

	var unknown []string

	for name := range raw {
		if _, ok := s.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}

	sort.Strings(unknown)

	for _, name := range unknown {
		out = append(out, Violation{Code: ViolationUnknown, Key: name})
	}

	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// FormatViolations joins violations into one line.
func FormatViolations(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}

	return strings.Join(parts, "; ")
}
