package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/schema"
)

var testKey = schema.Text("id", "id")

func testType(name string, requires ...string) *Type {
	return &Type{
		Name:      name,
		Extension: name,
		Requires:  requires,
		Builder: &entry.Builder{
			Type:   name,
			Schema: schema.New(name, schema.Required(testKey)),
			ID:     testKey,
		},
	}
}

func TestDefault_Order(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{
		Continents, Countries, Cities, Acronyms, AffiliationTypes, Affiliations, Encodings,
	}, c.Order())
	assert.Len(t, c.Names(), 7)

	pos := map[string]int{}
	for i, n := range c.Order() {
		pos[n] = i
	}

	for _, n := range c.Names() {
		typ, ok := c.Lookup(n)
		require.True(t, ok)

		for _, r := range typ.Requires {
			assert.Less(t, pos[r], pos[n], "%s must load before %s", r, n)
		}
	}
}

func TestDefault_Types(t *testing.T) {
	c := Default()

	tests := []struct {
		name      string
		ext       string
		id        string
		secondary string
	}{
		{Continents, "cont", "code", ""},
		{Countries, "ctry", "iso2", ""},
		{Cities, "city", "name", ""},
		{Acronyms, "acr", "s", ""},
		{AffiliationTypes, "afft", "short", ""},
		{Affiliations, "aff", "short", Acronyms},
		{Encodings, "enc", "name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := c.Get(tt.name)
			require.NoError(t, err)

			assert.Equal(t, tt.ext, typ.Extension)
			assert.Equal(t, tt.id, typ.Builder.ID.Name)
			assert.Equal(t, tt.secondary, typ.Secondary)
			assert.True(t, typ.Builder.Schema.Has(KeyKey))

			tmpl, ok := typ.Template(TargetText)
			assert.True(t, ok)
			assert.NotEmpty(t, tmpl)
		})
	}
}

func TestCatalog_Get_Unknown(t *testing.T) {
	_, err := Default().Get("planets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestNew_Cycle(t *testing.T) {
	_, err := New(
		testType("a"),
		testType("b", "c"),
		testType("c", "b"),
	)
	require.Error(t, err)

	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"b", "c"}, ce.Types)
	assert.True(t, errors.Is(err, errors.ErrWiring))
}

func TestNew_SelfRequirement(t *testing.T) {
	_, err := New(testType("a", "a"))

	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"a"}, ce.Types)
}

func TestNew_Rejects(t *testing.T) {
	noBuilder := testType("x")
	noBuilder.Builder = nil

	mismatch := testType("y")
	mismatch.Builder.Type = "z"

	optionalID := testType("o")
	optionalID.Builder.Schema = schema.New("o", schema.Optional(testKey))

	noID := testType("n")
	noID.Builder.ID = nil

	tests := []struct {
		name  string
		types []*Type
	}{
		{"duplicate", []*Type{testType("a"), testType("a")}},
		{"nil", []*Type{nil}},
		{"no builder", []*Type{noBuilder}},
		{"builder mismatch", []*Type{mismatch}},
		{"optional identifying field", []*Type{optionalID}},
		{"no identifying field", []*Type{noID}},
		{"no extension", []*Type{{Name: "e", Builder: &entry.Builder{Type: "e", Schema: schema.New("e")}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.types...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrWiring))
		})
	}
}

func TestNew_UnknownRequirementIsDeferred(t *testing.T) {
	c, err := New(testType("a", "missing"), testType("b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.Order())
}

func TestCatalog_Closure(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{Continents, Countries, Cities}, c.Closure(Cities))
	assert.Equal(t, []string{Encodings}, c.Closure(Encodings))
	assert.Equal(t,
		[]string{Continents, Countries, Cities, Acronyms, AffiliationTypes, Affiliations},
		c.Closure(Affiliations))
}

func TestTopoSort(t *testing.T) {
	order, err := topoSort(4, func(i int) []int {
		switch i {
		case 0:
			return []int{3}
		case 2:
			return []int{1}
		default:
			return nil
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 0}, order)

	_, err = topoSort(2, func(i int) []int { return []int{1 - i} })
	assert.ErrorIs(t, err, errCycle)
}

func TestCatalog_String(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "cities (.city.json) requires countries\n")
	assert.Contains(t, s, "encodings (.enc.json)\n")
}
