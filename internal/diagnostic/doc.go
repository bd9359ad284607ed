// Package diagnostic collects record- and file-level problems found while
// loading a data set.
//
// Loading is best-effort: a broken record or file is reported here and
// skipped, and the caller decides from ErrorCount whether the batch as a
// whole is usable.
//
// Key capabilities:
//   - Stable codes per problem class (schema_violation, duplicate_key, ...)
//   - Location context: entity type, file, element index, entry key
//   - Logging of every diagnostic through the structured logger
package diagnostic
