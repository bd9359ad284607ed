package entry

import (
	"fmt"

	"skb-datatool/internal/errors"
	"skb-datatool/internal/schema"
)

// SchemaViolationError reports a raw record that does not conform to its schema.
type SchemaViolationError struct {
	Schema     string
	Violations []schema.Violation
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Schema, schema.FormatViolations(e.Violations))
}

func (e *SchemaViolationError) Unwrap() error {
	return errors.ErrSchemaViolation
}

// LinkError reports a link field whose value could not be resolved.
type LinkError struct {
	Key   string
	Value string
	Err   error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %q = %q: %v", e.Key, e.Value, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// Is lets LinkError match ErrLinkResolution even when the resolver returned
// an unclassified error.
func (e *LinkError) Is(target error) bool {
	return target == errors.ErrLinkResolution
}

// TypeError reports a raw value of the wrong JSON type for its key.
type TypeError struct {
	Key  string
	Want schema.Kind
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("key %q: expected %s value, got %s", e.Key, e.Want, e.Got)
}

func (e *TypeError) Unwrap() error {
	return errors.ErrInvalidValue
}

// InvalidKeyError reports a generated key that cannot be used.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("key %q: %s", e.Key, e.Reason)
}

func (e *InvalidKeyError) Unwrap() error {
	return errors.ErrInvalidKey
}
