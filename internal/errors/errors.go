// Package errors provides error handling for skb-datatool.
//
// This package re-exports github.com/cockroachdb/errors so that every error
// created by the loader carries a stack trace and can be annotated with
// user-facing hints:
//
//	if err := load(); err != nil {
//	    return errors.Wrapf(err, "loading %s", typeName)
//	}
//
//	return errors.WithHint(err, "check the requires list of the entity type")
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// AssertionFailedf reports a programming error (wiring bug), not a data error.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors shared across packages. Domain error types wrap one of
// these so callers can classify failures with errors.Is.
var (
	// ErrSchemaViolation marks a record that does not conform to its schema.
	ErrSchemaViolation = New("schema violation")

	// ErrLinkResolution marks a link that could not be de-referenced.
	ErrLinkResolution = New("link resolution failed")

	// ErrInvalidValue marks a raw value of the wrong JSON type.
	ErrInvalidValue = New("invalid value")

	// ErrInvalidKey marks a generated key that cannot be used for addressing.
	ErrInvalidKey = New("invalid key")

	// ErrDirectoryLoad marks an input directory that could not be scanned.
	ErrDirectoryLoad = New("directory load failed")

	// ErrWiring marks a configuration bug in the entity type registry.
	ErrWiring = New("dependency wiring error")

	// ErrNotFound indicates the requested entity type or target does not exist.
	ErrNotFound = New("not found")
)

// IsRecordError reports whether err only affects a single record.
func IsRecordError(err error) bool {
	return err != nil && IsAny(err, ErrSchemaViolation, ErrLinkResolution, ErrInvalidValue, ErrInvalidKey)
}
