package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tailscale/hujson"

	"skb-datatool/internal/common"
	"skb-datatool/internal/diagnostic"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/logger"
)

// FileSuffix is the suffix shared by all input files.
const FileSuffix = ".json"

// Loader loads the files of one entity type into a DataSet.
type Loader struct {
	// Builder describes the entity type.
	Builder *entry.Builder
	// Records loads single records.
	Records *entry.Loader
	// Extension is the type extension in "<name>.<ext>.json".
	Extension string
	// Separator joins path segments and the local key.
	Separator string
	// Exclude lists compare strings of entries to drop.
	Exclude []string
}

// DirectoryError reports an input directory that could not be scanned.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Is matches ErrDirectoryLoad.
func (e *DirectoryError) Is(target error) bool { return target == errors.ErrDirectoryLoad }

// FindFiles returns all files below dir named "*.<ext>.json", sorted.
func FindFiles(dir, ext string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}

	if !info.IsDir() {
		return nil, &DirectoryError{Dir: dir, Err: errors.New("not a directory")}
	}

	suffix := "." + ext + FileSuffix

	var files []string

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}

	sort.Strings(files)

	return files, nil
}

// LoadDir finds the type's files below dir and loads them. Only a directory
// failure is returned as error; record and file problems are diagnostics.
func (l *Loader) LoadDir(dir string) (*DataSet, *diagnostic.Diagnostics, error) {
	files, err := FindFiles(dir, l.Extension)
	if err != nil {
		return nil, nil, err
	}

	ds, diags := l.Load(files)

	return ds, diags, nil
}

// Load loads every file. Broken records and files are reported and skipped;
// the returned data set holds everything that loaded.
func (l *Loader) Load(files []string) (*DataSet, *diagnostic.Diagnostics) {
	ds := New(l.Builder.Type, l.Separator)
	diags := &diagnostic.Diagnostics{}
	excluded := common.Set(l.Exclude)

	abs := make([]string, 0, len(files))
	for _, f := range files {
		if a, err := filepath.Abs(f); err == nil {
			abs = append(abs, a)
		} else {
			abs = append(abs, f)
		}
	}

	root := common.CommonDir(abs)

	for _, file := range abs {
		prefix := KeyPrefix(root, file, l.Extension, l.Separator)
		loc := diagnostic.At(l.Builder.Type, displayPath(root, file))

		elements, err := readArray(file)
		if err != nil {
			code := diagnostic.CodeJSONParse
			if errors.Is(err, errRead) {
				code = diagnostic.CodeReadFailed
			}

			diags.AddError(code, err.Error(), loc)

			continue
		}

		ds.files++
		logger.Debugw("loading file", "type", l.Builder.Type, "file", loc.File, "elements", len(elements))

		if len(elements) == 0 {
			diags.AddWarning(diagnostic.CodeEmptyFile, "file holds no records", loc)
			continue
		}

		for i, el := range elements {
			l.loadElement(ds, diags, excluded, el, prefix, loc.Element(i))
		}
	}

	logger.Infow("loaded data set",
		"type", l.Builder.Type,
		"entries", ds.Len(),
		"files", ds.FileCount(),
		"errors", diags.ErrorCount())

	return ds, diags
}

func (l *Loader) loadElement(
	ds *DataSet,
	diags *diagnostic.Diagnostics,
	excluded map[string]struct{},
	el any,
	prefix string,
	loc diagnostic.Location,
) {
	raw, ok := el.(map[string]any)
	if !ok {
		diags.AddError(diagnostic.CodeNotAnObject, "array element is not a JSON object", loc)
		return
	}

	e, err := l.Records.Load(l.Builder, raw, prefix)
	if err != nil {
		diags.AddError(codeFor(err), err.Error(), loc)
		return
	}

	loc = loc.WithKey(e.Key())

	if _, drop := excluded[e.CompareString()]; drop {
		diags.AddInfo(diagnostic.CodeExcluded, "entry excluded for target", loc)
		return
	}

	if _, taken := ds.Get(e.Key()); taken {
		diags.AddError(diagnostic.CodeDuplicateKey, fmt.Sprintf("duplicate key %q, keeping first entry", e.Key()), loc)
		return
	}

	if l.Builder.Duplicate != nil {
		if other, dup := ds.findDuplicate(e, l.Builder.IsDuplicate); dup {
			diags.AddError(diagnostic.CodeDuplicateEntry,
				fmt.Sprintf("entry duplicates %q, keeping first entry", other.Key()), loc)

			return
		}
	}

	ds.add(e)
}

func codeFor(err error) string {
	if !errors.IsRecordError(err) {
		return diagnostic.CodeLoadFailed
	}

	switch {
	case errors.Is(err, errors.ErrSchemaViolation):
		return diagnostic.CodeSchemaViolation
	case errors.Is(err, errors.ErrLinkResolution):
		return diagnostic.CodeLinkUnresolved
	case errors.Is(err, errors.ErrInvalidKey):
		return diagnostic.CodeInvalidKey
	case errors.Is(err, errors.ErrInvalidValue):
		return diagnostic.CodeInvalidValue
	default:
		return diagnostic.CodeLoadFailed
	}
}

var errRead = errors.New("read failed")

// readArray reads a JSON-with-comments file holding an array. The file is
// closed before parsing starts.
func readArray(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(err, errRead)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()

	var elements []any
	if err := dec.Decode(&elements); err != nil {
		return nil, errors.Wrap(err, "expected a JSON array of objects")
	}

	return elements, nil
}

// KeyPrefix derives the key prefix of records in file: the path relative to
// root without ".<ext>.json", separators replaced by sep, followed by sep.
func KeyPrefix(root, file, ext, sep string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}

	rel = strings.TrimSuffix(rel, FileSuffix)
	rel = strings.TrimSuffix(rel, "."+ext)

	var segments []string

	for _, s := range strings.Split(filepath.ToSlash(rel), "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}

	if len(segments) == 0 {
		return ""
	}

	return strings.Join(segments, sep) + sep
}

func displayPath(root, file string) string {
	if rel, err := filepath.Rel(root, file); err == nil {
		return rel
	}

	return file
}
