package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() (*Schema, *Key, *Key, *Key) {
	short := TranslatedText("s", "short form")
	long := TranslatedText("l", "long form")
	url := Text("url", "web page")
	links := Object("links", "related links", New("links", Optional(url)))

	return New("acronym", Required(short), Required(long), Optional(links)), short, long, links
}

func TestValidate(t *testing.T) {
	s, _, _, _ := testSchema()

	tests := []struct {
		name string
		raw  map[string]any
		want []Violation
	}{
		{
			name: "valid",
			raw:  map[string]any{"s": "NATO", "l": "North Atlantic Treaty Organization"},
		},
		{
			name: "valid with optional object",
			raw:  map[string]any{"s": "NATO", "l": "x", "links": map[string]any{"url": "https://nato.int"}},
		},
		{
			name: "missing and empty",
			raw:  map[string]any{"s": ""},
			want: []Violation{
				{Code: ViolationEmpty, Key: "s"},
				{Code: ViolationMissing, Key: "l"},
			},
		},
		{
			name: "whitespace counts as empty",
			raw:  map[string]any{"s": "  ", "l": "x"},
			want: []Violation{{Code: ViolationEmpty, Key: "s"}},
		},
		{
			name: "unknown keys sorted",
			raw:  map[string]any{"s": "a", "l": "b", "zz": 1, "aa": true},
			want: []Violation{
				{Code: ViolationUnknown, Key: "aa"},
				{Code: ViolationUnknown, Key: "zz"},
			},
		},
		{
			name: "null mandatory",
			raw:  map[string]any{"s": nil, "l": "b"},
			want: []Violation{{Code: ViolationEmpty, Key: "s"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Validate(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Deterministic(t *testing.T) {
	s, _, _, _ := testSchema()
	raw := map[string]any{"x": 1, "y": 2, "z": 3, "s": ""}

	first := s.Validate(raw)
	for range 20 {
		assert.Equal(t, first, s.Validate(raw))
	}

	// input untouched
	assert.Len(t, raw, 4)
}

func TestNew_Panics(t *testing.T) {
	a := Text("a", "")
	a2 := Text("a", "")

	assert.Panics(t, func() { New("dup", Optional(a), Optional(a2)) })
	assert.Panics(t, func() { New("nil", Optional(nil)) })
	assert.Panics(t, func() { New("link", Optional(&Key{Name: "c", Kind: KindLink})) })
	assert.Panics(t, func() { New("obj", Optional(&Key{Name: "o", Kind: KindObject})) })
	assert.Panics(t, func() { New("kind", Optional(&Key{Name: "k"})) })
}

func TestSchema_KeyIdentity(t *testing.T) {
	s, short, _, _ := testSchema()
	other := TranslatedText("s", "same wire name, different key")

	assert.True(t, s.Has(short))
	assert.False(t, s.Has(other))
	assert.True(t, s.IsRequired(short))
	assert.False(t, s.IsRequired(other))

	f, ok := s.Lookup("s")
	require.True(t, ok)
	assert.Same(t, short, f.Key)
}

func TestSchema_Fields(t *testing.T) {
	s, short, long, links := testSchema()

	fields := s.Fields()
	require.Len(t, fields, 3)
	assert.Same(t, short, fields[0].Key)
	assert.Same(t, long, fields[1].Key)
	assert.Same(t, links, fields[2].Key)
	assert.False(t, fields[2].Required)

	fields[0] = Field{}
	assert.Same(t, short, s.Fields()[0].Key)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "link", KindLink.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
	assert.False(t, Kind(0).IsValid())
}

func TestFormatViolations(t *testing.T) {
	got := FormatViolations([]Violation{
		{Code: ViolationMissing, Key: "l"},
		{Code: ViolationUnknown, Key: "x"},
	})
	assert.Equal(t, `missing mandatory key "l"; unknown key "x"`, got)
}
