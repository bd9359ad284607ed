// Package link de-references symbolic links between entity sets.
//
// A link is written as "scheme://type/path", for example
// "skb://countries/europe/de". The authority names the entity type, the path
// is converted into a data set key by replacing "/" with the key separator
// ("europe:de"). Links are resolved while the referencing record is loaded,
// against data sets that are already fully populated.
package link

import (
	"fmt"
	"strings"

	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
)

// DefaultScheme is the scheme used by all built-in entity types.
const DefaultScheme = "skb"

// Ref is a parsed link.
type Ref struct {
	Scheme    string
	Authority string
	Path      string
}

// String re-assembles the link.
func (r Ref) String() string {
	return r.Scheme + "://" + r.Authority + "/" + r.Path
}

// Base returns "scheme://authority".
func (r Ref) Base() string {
	return r.Scheme + "://" + r.Authority
}

// Parse splits a link into scheme, authority and path.
func Parse(raw string) (Ref, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return Ref{}, &SyntaxError{Link: raw, Reason: "missing scheme"}
	}

	authority, path, _ := strings.Cut(rest, "/")
	if authority == "" {
		return Ref{}, &SyntaxError{Link: raw, Reason: "missing entity type"}
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return Ref{}, &SyntaxError{Link: raw, Reason: "missing entry key"}
	}

	return Ref{Scheme: scheme, Authority: authority, Path: path}, nil
}

// Collection is the read side of a loaded data set.
type Collection interface {
	Get(key string) (*entry.Entry, bool)
}

// Source looks up the loaded data set of an entity type.
type Source interface {
	Lookup(typeName string) (Collection, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(typeName string) (Collection, bool)

// Lookup calls f.
func (f SourceFunc) Lookup(typeName string) (Collection, bool) {
	return f(typeName)
}

// Resolver resolves links against a Source.
type Resolver struct {
	source    Source
	separator string
	schemes   map[string]struct{}
}

// NewResolver returns a resolver accepting the given schemes; with none, only
// DefaultScheme is accepted.
func NewResolver(source Source, separator string, schemes ...string) *Resolver {
	if len(schemes) == 0 {
		schemes = []string{DefaultScheme}
	}

	r := &Resolver{
		source:    source,
		separator: separator,
		schemes:   make(map[string]struct{}, len(schemes)),
	}

	for _, s := range schemes {
		r.schemes[s] = struct{}{}
	}

	return r
}

// Resolve returns the entry a link points to. declared is the field's link
// scheme ("skb://countries"); values without "://" are taken relative to it
// and fully qualified links must point into the same entity type.
func (r *Resolver) Resolve(raw, declared string) (*entry.Entry, error) {
	value := raw
	if !strings.Contains(value, "://") && declared != "" {
		value = strings.TrimSuffix(declared, "/") + "/" + value
	}

	ref, err := Parse(value)
	if err != nil {
		return nil, err
	}

	if _, ok := r.schemes[ref.Scheme]; !ok {
		return nil, &UnknownSchemeError{Link: raw, Scheme: ref.Scheme}
	}

	if declared != "" && ref.Base() != strings.TrimSuffix(declared, "/") {
		return nil, &SchemeMismatchError{Link: raw, Declared: declared}
	}

	coll, ok := r.source.Lookup(ref.Authority)
	if !ok {
		return nil, &UnregisteredTypeError{Link: raw, Type: ref.Authority}
	}

	key := strings.ReplaceAll(ref.Path, "/", r.separator)

	e, ok := coll.Get(key)
	if !ok {
		return nil, &MissingTargetError{Link: raw, Type: ref.Authority, Key: key}
	}

	return e, nil
}

// SyntaxError reports a link that cannot be parsed.
type SyntaxError struct {
	Link   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed link %q: %s", e.Link, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return errors.ErrLinkResolution }

// UnknownSchemeError reports a link with an unsupported scheme.
type UnknownSchemeError struct {
	Link   string
	Scheme string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("link %q: unknown scheme %q", e.Link, e.Scheme)
}

func (e *UnknownSchemeError) Unwrap() error { return errors.ErrLinkResolution }

// SchemeMismatchError reports a link into a different entity type than the
// field declares.
type SchemeMismatchError struct {
	Link     string
	Declared string
}

func (e *SchemeMismatchError) Error() string {
	return fmt.Sprintf("link %q: field only accepts links to %s", e.Link, e.Declared)
}

func (e *SchemeMismatchError) Unwrap() error { return errors.ErrLinkResolution }

// UnregisteredTypeError reports a link into an entity type that is not loaded.
type UnregisteredTypeError struct {
	Link string
	Type string
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("link %q: entity type %q is not loaded", e.Link, e.Type)
}

func (e *UnregisteredTypeError) Unwrap() error { return errors.ErrLinkResolution }

// MissingTargetError reports a link to a key absent from the target data set.
type MissingTargetError struct {
	Link string
	Type string
	Key  string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("link %q: no %s entry with key %q", e.Link, e.Type, e.Key)
}

func (e *MissingTargetError) Unwrap() error { return errors.ErrLinkResolution }
