package diagnostic

import (
	"fmt"
	"strings"

	"skb-datatool/internal/common"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/logger"
)

// Diagnostic codes reported by the loaders.
const (
	CodeSchemaViolation = "schema_violation"
	CodeLinkUnresolved  = "link_unresolved"
	CodeInvalidValue    = "invalid_value"
	CodeInvalidKey      = "invalid_key"
	CodeDuplicateKey    = "duplicate_key"
	CodeDuplicateEntry  = "duplicate_entry"
	CodeNotAnObject     = "not_an_object"
	CodeJSONParse       = "json_parse"
	CodeReadFailed      = "read_failed"
	CodeExcluded        = "excluded"
	CodeLoadFailed      = "load_failed"
	CodeEmptyFile       = "empty_file"
)

// Diagnostics holds all diagnostic information from one load.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Location tells where the problem was found.
	Location
}

// Location identifies the origin of a diagnostic. Index is the element
// position inside the file's JSON array, or -1 for file-level problems.
type Location struct {
	Type  string
	File  string
	Index int
	Key   string
}

// At returns a file-level location.
func At(typeName, file string) Location {
	return Location{Type: typeName, File: file, Index: -1}
}

// Element returns the location of element idx in file.
func (l Location) Element(idx int) Location {
	l.Index = idx
	return l
}

// WithKey returns the location annotated with an entry key.
func (l Location) WithKey(key string) Location {
	l.Key = key
	return l
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic and logs it.
func (d *Diagnostics) AddError(code, message string, loc Location) {
	diag := Diagnostic{Severity: DiagnosticError, Code: code, Message: message, Location: loc}
	d.Errors = append(d.Errors, diag)
	logger.Errorw(message, diag.fields()...)
}

// AddWarning adds a warning diagnostic and logs it.
func (d *Diagnostics) AddWarning(code, message string, loc Location) {
	diag := Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, Location: loc}
	d.Warnings = append(d.Warnings, diag)
	logger.Warnw(message, diag.fields()...)
}

// AddInfo adds an info diagnostic and logs it at debug level.
func (d *Diagnostics) AddInfo(code, message string, loc Location) {
	diag := Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, Location: loc}
	d.Infos = append(d.Infos, diag)
	logger.Debugw(message, diag.fields()...)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// ErrorCount returns the number of error diagnostics.
func (d *Diagnostics) ErrorCount() int {
	return len(d.Errors)
}

// CountCode returns how many errors carry the given code.
func (d *Diagnostics) CountCode(code string) int {
	n := 0

	for _, e := range d.Errors {
		if e.Code == code {
			n++
		}
	}

	return n
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.File != "" {
		if d.Index >= 0 {
			prefix = append(prefix, fmt.Sprintf("%s#%d", d.File, d.Index))
		} else {
			prefix = append(prefix, d.File)
		}
	}

	if d.Key != "" {
		prefix = append(prefix, d.Key)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

func (d Diagnostic) fields() []interface{} {
	f := []interface{}{"code", d.Code}
	if d.Type != "" {
		f = append(f, "type", d.Type)
	}

	if d.File != "" {
		f = append(f, "file", d.File)
	}

	if d.Index >= 0 && d.File != "" {
		f = append(f, "index", d.Index)
	}

	if d.Key != "" {
		f = append(f, "key", d.Key)
	}

	return f
}
