// Package catalog is the registry of entity types.
//
// A Type is a static descriptor: the file extension its records are read
// from, the types it requires to be loaded first, the targets it can be
// rendered to and the Builder that turns records into entries. A Catalog is
// built once at startup and never mutated; construction fails on duplicate
// names and on dependency cycles.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"skb-datatool/internal/common"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
)

// Type describes one entity type.
type Type struct {
	// Name is the entity type name, also the authority of links into it.
	Name string
	// Extension is the file suffix without ".json", e.g. "acr".
	Extension string
	// Requires lists entity types that must be loaded before this one.
	Requires []string
	// Targets maps a target name to the template used for it.
	Targets map[string]string
	// Secondary names a type rendered together with this one by dual-input
	// targets; empty for single-input types.
	Secondary string
	// Builder turns raw records into entries.
	Builder *entry.Builder
}

// Template returns the template name for target.
func (t *Type) Template(target string) (string, bool) {
	name, ok := t.Targets[target]
	return name, ok
}

// TargetNames returns the supported target names, sorted.
func (t *Type) TargetNames() []string {
	return common.SortedKeys(t.Targets)
}

// CycleError reports entity types whose requirements form a cycle.
type CycleError struct {
	Types []string
}

func (e *CycleError) Error() string {
	return "dependency cycle between entity types: " + strings.Join(e.Types, ", ")
}

func (e *CycleError) Unwrap() error { return errors.ErrWiring }

// Catalog is an immutable set of entity types.
type Catalog struct {
	types map[string]*Type
	names []string
	order []string
}

// New builds a catalog. Types keep their registration order for listing;
// Order returns them sorted by dependency.
func New(types ...*Type) (*Catalog, error) {
	c := &Catalog{types: make(map[string]*Type, len(types))}

	for _, t := range types {
		if err := check(t); err != nil {
			return nil, err
		}

		if _, dup := c.types[t.Name]; dup {
			return nil, errors.Wrapf(errors.ErrWiring, "entity type %q registered twice", t.Name)
		}

		c.types[t.Name] = t
		c.names = append(c.names, t.Name)
	}

	order, err := c.sortByDependency()
	if err != nil {
		return nil, err
	}

	c.order = order

	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(types ...*Type) *Catalog {
	c, err := New(types...)
	if err != nil {
		panic(err)
	}

	return c
}

func check(t *Type) error {
	switch {
	case t == nil:
		return errors.Wrap(errors.ErrWiring, "nil entity type")
	case t.Name == "":
		return errors.Wrap(errors.ErrWiring, "entity type without name")
	case t.Extension == "":
		return errors.Wrapf(errors.ErrWiring, "entity type %q has no file extension", t.Name)
	case t.Builder == nil || t.Builder.Schema == nil:
		return errors.Wrapf(errors.ErrWiring, "entity type %q has no record builder", t.Name)
	case t.Builder.Type != t.Name:
		return errors.Wrapf(errors.ErrWiring, "entity type %q uses builder of %q", t.Name, t.Builder.Type)
	case t.Builder.ID == nil || !t.Builder.Schema.IsRequired(t.Builder.ID):
		return errors.Wrapf(errors.ErrWiring, "entity type %q: identifying field must be a required schema field", t.Name)
	case slices.Contains(t.Requires, t.Name):
		return &CycleError{Types: []string{t.Name}}
	}

	return nil
}

// Lookup returns the type registered under name.
func (c *Catalog) Lookup(name string) (*Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// Get is like Lookup but returns an error for unknown names.
func (c *Catalog) Get(name string) (*Type, error) {
	t, ok := c.types[name]
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrNotFound, "entity type %q", name),
			"known types: %s", strings.Join(c.names, ", "))
	}

	return t, nil
}

// Names returns the type names in registration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Order returns the type names so that every type follows the types it
// requires. Ties are broken by registration order.
func (c *Catalog) Order() []string {
	return slices.Clone(c.order)
}

// Closure returns name and everything it transitively requires, in load order.
func (c *Catalog) Closure(name string) []string {
	need := map[string]bool{}

	var visit func(string)
	visit = func(n string) {
		if need[n] {
			return
		}

		need[n] = true

		if t, ok := c.types[n]; ok {
			for _, r := range t.Requires {
				visit(r)
			}
		}
	}

	visit(name)

	var out []string

	for _, n := range c.order {
		if need[n] {
			out = append(out, n)
		}
	}

	return out
}

// sortByDependency orders types with requirements first. Requirements that
// name unregistered types are ignored here and surface when loading.
func (c *Catalog) sortByDependency() ([]string, error) {
	index := make(map[string]int, len(c.names))
	for i, n := range c.names {
		index[n] = i
	}

	order, err := topoSort(len(c.names), func(i int) []int {
		var deps []int

		for _, r := range c.types[c.names[i]].Requires {
			if j, ok := index[r]; ok {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		var stuck []string

		placed := make(map[int]bool, len(order))
		for _, i := range order {
			placed[i] = true
		}

		for i, n := range c.names {
			if !placed[i] {
				stuck = append(stuck, n)
			}
		}

		return nil, &CycleError{Types: stuck}
	}

	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = c.names[idx]
	}

	return out, nil
}

// String lists the catalog in load order.
func (c *Catalog) String() string {
	var sb strings.Builder

	for _, n := range c.order {
		t := c.types[n]
		fmt.Fprintf(&sb, "%s (.%s.json)", t.Name, t.Extension)

		if len(t.Requires) > 0 {
			fmt.Fprintf(&sb, " requires %s", strings.Join(t.Requires, ", "))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
