// Package engine loads entity types in dependency order.
//
// Every required type is loaded before the type that requires it, so links
// always resolve against fully populated data sets. Each type is loaded at
// most once per Engine; an Engine is one invocation and is never reused
// across runs.
package engine

import (
	"fmt"
	"strings"
	"time"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/dataset"
	"skb-datatool/internal/diagnostic"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/link"
	"skb-datatool/internal/logger"
)

// Types looks up entity type descriptors. *catalog.Catalog implements it.
type Types interface {
	Lookup(name string) (*catalog.Type, bool)
}

// Options configures an Engine.
type Options struct {
	// InputDir is scanned for the files of every type.
	InputDir string
	// Separator joins key segments. Empty means ":".
	Separator string
	// Exclude maps a type name to compare strings dropped while loading it.
	Exclude map[string][]string
	// Translator is applied to translated text fields.
	Translator entry.Translator
	// Schemes accepted in links. Empty means link.DefaultScheme.
	Schemes []string
	// Clock stamps loaded types. Nil means time.Now.
	Clock func() time.Time
}

// DefaultSeparator is used when Options.Separator is empty.
const DefaultSeparator = ":"

// WiringError reports a type that requires an unregistered type.
type WiringError struct {
	Type    string
	Missing string
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("entity type %q requires unknown type %q", e.Type, e.Missing)
}

func (e *WiringError) Unwrap() error { return errors.ErrWiring }

// Engine loads entity types on demand.
type Engine struct {
	types    Types
	opts     Options
	registry *Registry
	records  *entry.Loader
	loading  []string
	failed   map[string]error
}

// New returns an engine with an empty registry.
func New(types Types, opts Options) *Engine {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	reg := newRegistry()

	return &Engine{
		types:    types,
		opts:     opts,
		registry: reg,
		records: &entry.Loader{
			Links:      link.NewResolver(reg, opts.Separator, opts.Schemes...),
			Translator: opts.Translator,
		},
		failed: make(map[string]error),
	}
}

// Registry returns the types loaded so far.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Load loads name and its requirements and returns its data set.
func (e *Engine) Load(name string) (*dataset.DataSet, error) {
	if err := e.LoadType(name); err != nil {
		return nil, err
	}

	l, _ := e.registry.Get(name)

	return l.DataSet, nil
}

// LoadType loads name after everything it requires. It is idempotent: a type
// is read at most once, and a failed type keeps failing with the same error.
// Record and file problems do not fail a type; they are collected in the
// type's diagnostics.
func (e *Engine) LoadType(name string) error {
	if _, ok := e.registry.Get(name); ok {
		return nil
	}

	if err, ok := e.failed[name]; ok {
		return err
	}

	typ, ok := e.types.Lookup(name)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "entity type %q", name)
	}

	for _, n := range e.loading {
		if n == name {
			return &catalog.CycleError{Types: append(e.cycleFrom(name), name)}
		}
	}

	e.loading = append(e.loading, name)
	defer func() { e.loading = e.loading[:len(e.loading)-1] }()

	if err := e.loadRequirements(typ); err != nil {
		e.failed[name] = err
		return err
	}

	loader := &dataset.Loader{
		Builder:   typ.Builder,
		Records:   e.records,
		Extension: typ.Extension,
		Separator: e.opts.Separator,
		Exclude:   e.opts.Exclude[name],
	}

	ds, diags, err := loader.LoadDir(e.opts.InputDir)
	if err != nil {
		logger.Errorw("cannot load entity type", "type", name, "error", err)

		err = errors.Wrapf(err, "loading %s", name)
		e.failed[name] = err

		return err
	}

	e.registry.add(&Loaded{
		Type:        typ,
		DataSet:     ds,
		Diagnostics: diags,
		LoadedAt:    e.opts.Clock(),
	})

	return nil
}

func (e *Engine) loadRequirements(typ *catalog.Type) error {
	for _, req := range typ.Requires {
		if _, ok := e.types.Lookup(req); !ok {
			err := &WiringError{Type: typ.Name, Missing: req}
			logger.Errorw("dependency wiring error", "type", typ.Name, "requires", req)

			return err
		}

		if err := e.LoadType(req); err != nil {
			return errors.Wrapf(err, "%s requires %s", typ.Name, req)
		}
	}

	return nil
}

func (e *Engine) cycleFrom(name string) []string {
	for i, n := range e.loading {
		if n == name {
			out := make([]string, len(e.loading)-i)
			copy(out, e.loading[i:])

			return out
		}
	}

	return nil
}

// Diagnostics merges the diagnostics of all loaded types in load order.
func (e *Engine) Diagnostics() diagnostic.Diagnostics {
	var out diagnostic.Diagnostics
	for _, l := range e.registry.All() {
		out.Merge(*l.Diagnostics)
	}

	return out
}

// Summary is a one-line description of everything loaded, for logs.
func (e *Engine) Summary() string {
	parts := make([]string, 0, e.registry.Len())
	for _, l := range e.registry.All() {
		parts = append(parts, fmt.Sprintf("%s=%d", l.Type.Name, l.DataSet.Len()))
	}

	return strings.Join(parts, " ")
}
