package render

import (
	"fmt"
	"strings"
	"text/template"

	"skb-datatool/internal/catalog"
	"skb-datatool/internal/common"
	"skb-datatool/internal/entry"
	"skb-datatool/internal/translate"
)

// latex and html escape fields that were not translated while loading;
// html replaces the text/template builtin of the same name.
var funcs = template.FuncMap{
	"latex":  translate.LaTeX().Translate,
	"html":   translate.HTML().Translate,
	"fields": fields,
	"ident":  ident,
	"sql":    sqlLiteral,
	"java":   translate.Java().Translate,
	"hex":    func(i int64) string { return fmt.Sprintf("%04X", i) },
}

func fields(e *entry.Entry) map[string]any {
	return e.Flat()
}

// ident turns a dotted field name into an SQL identifier.
func ident(s string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(s)
}

var sqlQuote = translate.SQL()

// sqlLiteral renders a value as an SQL literal.
func sqlLiteral(v any) string {
	switch t := v.(type) {
	case int64:
		return fmt.Sprint(t)
	case nil:
		return "NULL"
	default:
		return "'" + sqlQuote.Translate(fmt.Sprint(t)) + "'"
	}
}

// columns returns the sorted union of field names over entries.
func columns(es []*entry.Entry) []string {
	set := map[string]struct{}{}
	for _, e := range es {
		for k := range fields(e) {
			set[k] = struct{}{}
		}
	}

	return common.SortedKeys(set)
}

func latex(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("<<", ">>").Funcs(funcs).Parse(text))
}

func plain(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

var textTableTemplate = plain(catalog.TemplateTextTable, `{{range .Entries}}{{.Key}}
{{range $k, $v := fields .}}  {{$k}}: {{$v}}
{{end}}{{end}}`)

var sqlInsertTemplate = plain(catalog.TemplateSQLInsert, `-- {{.Type}}: {{len .Entries}} entries
{{$cols := .Columns}}{{$table := ident .Type}}{{range .Entries}}{{$f := fields .}}INSERT INTO {{$table}} (skb_key{{range $cols}}, {{ident .}}{{end}}) VALUES ({{sql .Key}}{{range $cols}}, {{sql (index $f .)}}{{end}});
{{end}}`)

var acronymsLaTeXTemplate = latex("acronyms.latex", `% acronyms: <<len .Entries>> entries
<<range .Entries>>\newacronym{<<latex .Key>>}{<<latex (.Text "s")>>}{<<.Text "l">>}
<<end>>`)

var affiliationsLaTeXTemplate = latex("affiliations.latex", `% affiliations: <<len .Entries>> entries
<<range .Entries>>\newaffiliation{<<latex .Key>>}{<<latex (.Text "short")>>}{<<.Text "long">>}{<<with .Link "acronym">><<latex .Key>><<end>>}
<<end>>
% acronyms
<<range index .Secondary "acronyms">>\newacronym{<<latex .Key>>}{<<latex (.Text "s")>>}{<<.Text "l">>}
<<end>>`)

var encodingsLaTeXTemplate = latex("encodings.latex", `% encodings: <<len .Entries>> entries
<<range .Entries>><<if and (.Has "codepoint") (.Has "latex")>>\DeclareUnicodeCharacter{<<hex (.Integer "codepoint")>>}{<<.Text "latex">>}
<<end>><<end>>`)

var acronymsHTMLTemplate = plain("acronyms.html", `<table class="acronyms">
{{range .Entries}}  <tr id="{{html .Key}}"><td><abbr title="{{.Text "l"}}">{{html (.Text "s")}}</abbr></td><td>{{.Text "l"}}</td></tr>
{{end}}</table>
`)

var affiliationsHTMLTemplate = plain("affiliations.html", `<table class="affiliations">
{{range .Entries}}  <tr id="{{html .Key}}"><td>{{html (.Text "short")}}</td><td>{{.Text "long"}}</td><td>{{with .Nested "geo"}}{{with .Link "city"}}{{.Text "name"}}{{end}}{{end}}</td></tr>
{{end}}</table>
`)

var countriesHTMLTemplate = plain("countries.html", `<table class="countries">
{{range .Entries}}  <tr id="{{html .Key}}"><td>{{html (.Text "iso2")}}</td><td>{{.Text "name"}}</td><td>{{with .Link "continent"}}{{.Text "name"}}{{end}}</td></tr>
{{end}}</table>
`)

var encodingsHTMLTemplate = plain("encodings.html", `<table class="encodings">
{{range .Entries}}  <tr id="{{html .Key}}"><td>{{.Text "html"}}</td><td>{{html (.Text "name")}}</td></tr>
{{end}}</table>
`)

var encodingsJavaTemplate = plain("encodings.java", `// Code generated by skb-datatool. DO NOT EDIT.

import java.util.Map;

public final class Encodings {
    public static final Map<String, String> HTML = Map.ofEntries({{range $i, $e := .Entries}}{{if $i}},{{end}}
        Map.entry("{{java ($e.Text "char")}}", "{{java ($e.Text "html")}}"){{end}}
    );

    private Encodings() {
    }
}
`)

var templates = map[string]*template.Template{
	catalog.TemplateTextTable: textTableTemplate,
	catalog.TemplateSQLInsert: sqlInsertTemplate,
	"acronyms.latex":          acronymsLaTeXTemplate,
	"affiliations.latex":      affiliationsLaTeXTemplate,
	"encodings.latex":         encodingsLaTeXTemplate,
	"acronyms.html":           acronymsHTMLTemplate,
	"affiliations.html":       affiliationsHTMLTemplate,
	"countries.html":          countriesHTMLTemplate,
	"encodings.html":          encodingsHTMLTemplate,
	"encodings.java":          encodingsJavaTemplate,
}
