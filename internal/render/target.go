package render

import (
	"strings"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/common"
	"skb-datatool/internal/errors"
	"skb-datatool/internal/translate"
)

// Target is a rendering destination.
type Target struct {
	// Name is the target name used on the command line.
	Name string
	// Extension is the suffix of rendered files.
	Extension string
	// Translation names the translator applied to translated fields while
	// loading. Syntax escaping that applies to every field is done by the
	// templates.
	Translation string
	// Exclude lists compare strings dropped for this target by default.
	Exclude []string
}

// Translator returns the load-time translator of the target.
func (t *Target) Translator() *translate.Translator {
	tr, err := translate.ForTarget(t.Translation)
	if err != nil {
		return translate.Text()
	}

	return tr
}

var targets = map[string]*Target{
	catalog.TargetLaTeX: {
		Name:        catalog.TargetLaTeX,
		Extension:   ".tex",
		Translation: "latex",
		// Characters LaTeX handles natively must not get a \DeclareUnicodeCharacter.
		Exclude: []string{"\\", "{", "}", "$", "&", "%", "#", "_", "^", "~"},
	},
	catalog.TargetHTML: {
		Name:        catalog.TargetHTML,
		Extension:   ".html",
		Translation: "html",
		Exclude:     []string{"<", ">", "&", `"`},
	},
	catalog.TargetSQL: {
		Name:        catalog.TargetSQL,
		Extension:   ".sql",
		Translation: "text",
	},
	catalog.TargetJava: {
		Name:        catalog.TargetJava,
		Extension:   ".java",
		Translation: "text",
	},
	catalog.TargetText: {
		Name:        catalog.TargetText,
		Extension:   ".txt",
		Translation: "text",
	},
}

// LookupTarget returns the target registered under name.
func LookupTarget(name string) (*Target, error) {
	t, ok := targets[name]
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrNotFound, "target %q", name),
			"known targets: %s", strings.Join(TargetNames(), ", "))
	}

	return t, nil
}

// TargetNames returns all target names, sorted.
func TargetNames() []string {
	return common.SortedKeys(targets)
}
