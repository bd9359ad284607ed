package entry

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"skb-datatool/internal/errors"
	"skb-datatool/internal/schema"
)

// LinkResolver de-references a link value. The scheme is the one declared by
// the field ("skb://countries"); resolvers use it for bare values and to
// reject links into the wrong entity type.
type LinkResolver interface {
	Resolve(raw, scheme string) (*Entry, error)
}

// Translator converts text for a rendering target.
type Translator interface {
	Translate(s string) string
}

// Loader turns raw JSON objects into entries.
type Loader struct {
	// Links resolves link fields. A nil resolver fails every link.
	Links LinkResolver
	// Translator is applied to translated text fields. Nil keeps text as is.
	Translator Translator
}

// invalidKeyChars must not appear in generated keys.
const invalidKeyChars = " %"

// Load validates raw against b.Schema, resolves every field and generates
// the entry key as keyPrefix followed by the explicit key override or the
// identifying field.
func (l *Loader) Load(b *Builder, raw map[string]any, keyPrefix string) (*Entry, error) {
	obj, err := l.LoadObject(b.Schema, raw)
	if err != nil {
		return nil, err
	}

	local, err := localKey(b, raw)
	if err != nil {
		return nil, err
	}

	key := keyPrefix + local
	if strings.ContainsAny(key, invalidKeyChars) {
		return nil, &InvalidKeyError{Key: key, Reason: "must not contain a space or '%'"}
	}

	e := &Entry{Object: obj, typ: b.Type, key: key}
	e.compare = b.CompareString(e)

	return e, nil
}

func localKey(b *Builder, raw map[string]any) (string, error) {
	if b.KeyOverride != nil {
		if v, ok := raw[b.KeyOverride.Name]; ok {
			s, ok := v.(string)
			if !ok {
				return "", &TypeError{Key: b.KeyOverride.Name, Want: schema.KindText, Got: jsonType(v)}
			}

			if s != "" {
				return s, nil
			}
		}
	}

	if b.ID == nil {
		return "", &InvalidKeyError{Reason: "entity type " + b.Type + " declares no identifying field"}
	}

	s, _ := raw[b.ID.Name].(string)
	if s == "" {
		return "", &InvalidKeyError{Reason: fmt.Sprintf("identifying field %q is not set", b.ID.Name)}
	}

	return s, nil
}

// LoadObject validates raw against s and resolves every present field.
// Validation, including every nested object, happens before any resolution.
func (l *Loader) LoadObject(s *schema.Schema, raw map[string]any) (*Object, error) {
	if vs := validate(s, raw); len(vs) > 0 {
		return nil, &SchemaViolationError{Schema: s.Name(), Violations: vs}
	}

	obj := NewObject(s)

	for _, f := range s.Fields() {
		rv, ok := raw[f.Key.Name]
		if !ok {
			continue
		}

		v, err := l.resolve(f.Key, rv)
		if err != nil {
			return nil, err
		}

		obj.values[f.Key] = v
	}

	return obj, nil
}

// validate checks raw and the nested objects in it. Nested violation keys
// are qualified with the parent field.
func validate(s *schema.Schema, raw map[string]any) []schema.Violation {
	out := s.Validate(raw)

	for _, f := range s.Fields() {
		if f.Key.Kind != schema.KindObject {
			continue
		}

		m, ok := raw[f.Key.Name].(map[string]any)
		if !ok {
			continue
		}

		for _, v := range validate(f.Key.Object, m) {
			out = append(out, schema.Violation{Code: v.Code, Key: f.Key.Name + "." + v.Key})
		}
	}

	return out
}

func (l *Loader) resolve(k *schema.Key, rv any) (Value, error) {
	switch k.Kind {
	case schema.KindLink:
		s, ok := rv.(string)
		if !ok {
			return Value{}, &TypeError{Key: k.Name, Want: k.Kind, Got: jsonType(rv)}
		}

		if l.Links == nil {
			return Value{}, &LinkError{Key: k.Name, Value: s, Err: errors.New("no link resolver configured")}
		}

		target, err := l.Links.Resolve(s, k.LinkScheme)
		if err != nil {
			return Value{}, &LinkError{Key: k.Name, Value: s, Err: err}
		}

		return LinkValue(target), nil

	case schema.KindText:
		s, ok := rv.(string)
		if !ok {
			return Value{}, &TypeError{Key: k.Name, Want: k.Kind, Got: jsonType(rv)}
		}

		if k.Translate && l.Translator != nil {
			s = l.Translator.Translate(s)
		}

		return TextValue(s), nil

	case schema.KindObject:
		m, ok := rv.(map[string]any)
		if !ok {
			return Value{}, &TypeError{Key: k.Name, Want: k.Kind, Got: jsonType(rv)}
		}

		nested, err := l.LoadObject(k.Object, m)
		if err != nil {
			return Value{}, prefixViolations(k.Name, err)
		}

		return ObjectValue(nested), nil

	case schema.KindInteger:
		i, ok := toInteger(rv)
		if !ok {
			return Value{}, &TypeError{Key: k.Name, Want: k.Kind, Got: jsonType(rv)}
		}

		return IntegerValue(i), nil
	}

	return Value{}, &TypeError{Key: k.Name, Want: k.Kind, Got: jsonType(rv)}
}

// prefixViolations qualifies nested violation keys with the parent field.
func prefixViolations(parent string, err error) error {
	sv, ok := err.(*SchemaViolationError)
	if !ok {
		return err
	}

	out := &SchemaViolationError{Schema: sv.Schema, Violations: make([]schema.Violation, len(sv.Violations))}
	for i, v := range sv.Violations {
		out.Violations[i] = schema.Violation{Code: v.Code, Key: parent + "." + v.Key}
	}

	return out
}

func toInteger(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, true
		}

		f, err := t.Float64()
		if err != nil {
			return 0, false
		}

		return floatToInteger(f)
	case float64:
		return floatToInteger(t)
	case int:
		return int64(t), true
	case int64:
		return t, true
	default:
		return 0, false
	}
}

// floatToInteger accepts finite whole numbers inside the int64 range, so
// 276.0 and 1e3 are integers while 1.5 and 1e300 are not.
func floatToInteger(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}

	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
