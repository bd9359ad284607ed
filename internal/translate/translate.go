// Package translate converts text for a rendering target: LaTeX commands,
// HTML entities, SQL string literals, Java string literals or plain text.
package translate

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"skb-datatool/internal/errors"
)

// Translator rewrites text for one target.
type Translator struct {
	name    string
	replace func(string) string
}

// Name returns the target the translator is built for.
func (t *Translator) Name() string {
	return t.name
}

// Translate rewrites s.
func (t *Translator) Translate(s string) string {
	if t == nil || t.replace == nil {
		return s
	}

	return t.replace(s)
}

// New returns a translator from a replacement table. Longer keys win over
// shorter ones sharing a prefix.
func New(name string, table map[string]string) *Translator {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}

		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, table[k])
	}

	r := strings.NewReplacer(pairs...)

	return &Translator{name: name, replace: r.Replace}
}

// Extend returns a copy of base with extra replacements applied first.
// Entries of extra override base for the same character.
func Extend(base *Translator, extra map[string]string) *Translator {
	if len(extra) == 0 {
		return base
	}

	first := New(base.name, extra)
	skip := make(map[rune]bool, len(extra))

	for k := range extra {
		if r, size := utf8.DecodeRuneInString(k); size == len(k) {
			skip[r] = true
		}
	}

	return &Translator{
		name: base.name,
		replace: func(s string) string {
			var sb strings.Builder

			for _, r := range s {
				if skip[r] {
					sb.WriteString(first.Translate(string(r)))
				} else {
					sb.WriteString(base.Translate(string(r)))
				}
			}

			return sb.String()
		},
	}
}

// Text returns the identity translator.
func Text() *Translator {
	return &Translator{name: "text"}
}

// LaTeX escapes LaTeX special characters and replaces accented letters by
// their LaTeX commands.
func LaTeX() *Translator {
	table := map[string]string{
		`\`: `\textbackslash{}`,
		"&": `\&`,
		"%": `\%`,
		"$": `\$`,
		"#": `\#`,
		"_": `\_`,
		"{": `\{`,
		"}": `\}`,
		"~": `\textasciitilde{}`,
		"^": `\textasciicircum{}`,
	}

	for r, cmd := range latexLetters {
		table[string(r)] = cmd
	}

	return New("latex", table)
}

// HTML escapes markup characters and replaces non-ASCII letters by named
// entities.
func HTML() *Translator {
	table := map[string]string{
		"&": "&amp;",
		"<": "&lt;",
		">": "&gt;",
		`"`: "&quot;",
		"'": "&#39;",
	}

	for r, name := range htmlEntities {
		table[string(r)] = "&" + name + ";"
	}

	return New("html", table)
}

// SQL doubles single quotes for use inside SQL string literals.
func SQL() *Translator {
	return New("sql", map[string]string{"'": "''"})
}

// Java escapes text for Java string literals; non-ASCII runes become
// \uXXXX escapes (surrogate pairs above the BMP).
func Java() *Translator {
	return &Translator{name: "java", replace: javaEscape}
}

func javaEscape(s string) string {
	var sb strings.Builder

	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || (r > 0x7e && r <= 0xffff):
			fmt.Fprintf(&sb, `\u%04x`, r)
		case r > 0xffff:
			r -= 0x10000
			fmt.Fprintf(&sb, `\u%04x\u%04x`, 0xd800+(r>>10), 0xdc00+(r&0x3ff))
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

var builtin = map[string]func() *Translator{
	"text":  Text,
	"latex": LaTeX,
	"html":  HTML,
	"sql":   SQL,
	"java":  Java,
}

// ForTarget returns the translator of a target name.
func ForTarget(name string) (*Translator, error) {
	fn, ok := builtin[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no translator for target %q", name)
	}

	return fn(), nil
}

var latexLetters = map[rune]string{
	'À': "\\`{A}", 'Á': `\'{A}`, 'Â': `\^{A}`, 'Ã': `\~{A}`, 'Ä': `\"{A}`, 'Å': `\AA{}`, 'Æ': `\AE{}`,
	'Ç': `\c{C}`, 'È': "\\`{E}", 'É': `\'{E}`, 'Ê': `\^{E}`, 'Ë': `\"{E}`, 'Ì': "\\`{I}", 'Í': `\'{I}`,
	'Î': `\^{I}`, 'Ï': `\"{I}`, 'Ñ': `\~{N}`, 'Ò': "\\`{O}", 'Ó': `\'{O}`, 'Ô': `\^{O}`, 'Õ': `\~{O}`,
	'Ö': `\"{O}`, 'Ø': `\O{}`, 'Ù': "\\`{U}", 'Ú': `\'{U}`, 'Û': `\^{U}`, 'Ü': `\"{U}`, 'Ý': `\'{Y}`,
	'ß': `\ss{}`, 'à': "\\`{a}", 'á': `\'{a}`, 'â': `\^{a}`, 'ã': `\~{a}`, 'ä': `\"{a}`, 'å': `\aa{}`,
	'æ': `\ae{}`, 'ç': `\c{c}`, 'è': "\\`{e}", 'é': `\'{e}`, 'ê': `\^{e}`, 'ë': `\"{e}`, 'ì': "\\`{i}",
	'í': `\'{i}`, 'î': `\^{i}`, 'ï': `\"{i}`, 'ñ': `\~{n}`, 'ò': "\\`{o}", 'ó': `\'{o}`, 'ô': `\^{o}`,
	'õ': `\~{o}`, 'ö': `\"{o}`, 'ø': `\o{}`, 'ù': "\\`{u}", 'ú': `\'{u}`, 'û': `\^{u}`, 'ü': `\"{u}`,
	'ý': `\'{y}`, 'ÿ': `\"{y}`, 'Ł': `\L{}`, 'ł': `\l{}`, 'Œ': `\OE{}`, 'œ': `\oe{}`, 'Š': `\v{S}`,
	'š': `\v{s}`, 'Ž': `\v{Z}`, 'ž': `\v{z}`, 'Č': `\v{C}`, 'č': `\v{c}`, 'Ř': `\v{R}`, 'ř': `\v{r}`,
	'–': `--`, '—': `---`, '„': `,,`, '“': "``", '”': `''`, '€': `\euro{}`, '£': `\pounds{}`,
	'§': `\S{}`, '©': `\copyright{}`, '°': `\textdegree{}`,
}

var htmlEntities = map[rune]string{
	'À': "Agrave", 'Á': "Aacute", 'Â': "Acirc", 'Ã': "Atilde", 'Ä': "Auml", 'Å': "Aring", 'Æ': "AElig",
	'Ç': "Ccedil", 'È': "Egrave", 'É': "Eacute", 'Ê': "Ecirc", 'Ë': "Euml", 'Ì': "Igrave", 'Í': "Iacute",
	'Î': "Icirc", 'Ï': "Iuml", 'Ñ': "Ntilde", 'Ò': "Ograve", 'Ó': "Oacute", 'Ô': "Ocirc", 'Õ': "Otilde",
	'Ö': "Ouml", 'Ø': "Oslash", 'Ù': "Ugrave", 'Ú': "Uacute", 'Û': "Ucirc", 'Ü': "Uuml", 'Ý': "Yacute",
	'ß': "szlig", 'à': "agrave", 'á': "aacute", 'â': "acirc", 'ã': "atilde", 'ä': "auml", 'å': "aring",
	'æ': "aelig", 'ç': "ccedil", 'è': "egrave", 'é': "eacute", 'ê': "ecirc", 'ë': "euml", 'ì': "igrave",
	'í': "iacute", 'î': "icirc", 'ï': "iuml", 'ñ': "ntilde", 'ò': "ograve", 'ó': "oacute", 'ô': "ocirc",
	'õ': "otilde", 'ö': "ouml", 'ø': "oslash", 'ù': "ugrave", 'ú': "uacute", 'û': "ucirc", 'ü': "uuml",
	'ý': "yacute", 'ÿ': "yuml", 'Œ': "OElig", 'œ': "oelig", 'Š': "Scaron", 'š': "scaron",
	'–': "ndash", '—': "mdash", '„': "bdquo", '“': "ldquo", '”': "rdquo", '€': "euro", '£': "pound",
	'§': "sect", '©': "copy", '°': "deg", 'α': "alpha", 'β': "beta", 'γ': "gamma", 'δ': "delta",
	'π': "pi", 'Ω': "Omega", 'μ': "mu",
}
