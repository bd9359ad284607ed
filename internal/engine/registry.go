package engine

import (
	"slices"
	"time"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/dataset"
	"skb-datatool/internal/diagnostic"
	"skb-datatool/internal/link"
)

// Loaded is one entity type that finished loading.
type Loaded struct {
	Type        *catalog.Type
	DataSet     *dataset.DataSet
	Diagnostics *diagnostic.Diagnostics
	// Seq counts loads within one engine, starting at 1.
	Seq      int
	LoadedAt time.Time
}

// Registry records the entity types loaded during one invocation. It is the
// link source: links resolve only into types already in the registry.
type Registry struct {
	loaded map[string]*Loaded
	seq    int
}

func newRegistry() *Registry {
	return &Registry{loaded: make(map[string]*Loaded)}
}

func (r *Registry) add(l *Loaded) {
	r.seq++
	l.Seq = r.seq
	r.loaded[l.Type.Name] = l
}

// Get returns the load record of an entity type.
func (r *Registry) Get(name string) (*Loaded, bool) {
	l, ok := r.loaded[name]
	return l, ok
}

// Lookup implements link.Source.
func (r *Registry) Lookup(name string) (link.Collection, bool) {
	l, ok := r.loaded[name]
	if !ok {
		return nil, false
	}

	return l.DataSet, true
}

// Len returns the number of loaded types.
func (r *Registry) Len() int {
	return len(r.loaded)
}

// All returns every load record in load order.
func (r *Registry) All() []*Loaded {
	out := make([]*Loaded, 0, len(r.loaded))
	for _, l := range r.loaded {
		out = append(out, l)
	}

	slices.SortFunc(out, func(a, b *Loaded) int { return a.Seq - b.Seq })

	return out
}
