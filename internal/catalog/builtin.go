package catalog

import (
	"skb-datatool/internal/entry"
	"skb-datatool/internal/link"
	"skb-datatool/internal/schema"
)

// Entity type names.
const (
	Continents       = "continents"
	Countries        = "countries"
	Cities           = "cities"
	Acronyms         = "acronyms"
	AffiliationTypes = "affiliation-types"
	Affiliations     = "affiliations"
	Encodings        = "encodings"
)

// Target names.
const (
	TargetLaTeX = "latex"
	TargetHTML  = "html"
	TargetSQL   = "sql"
	TargetJava  = "java"
	TargetText  = "text"
)

// Generic templates shared by types without a dedicated one.
const (
	TemplateTextTable = "generic.text"
	TemplateSQLInsert = "generic.sql"
)

// scheme returns the link scheme of an entity type, "skb://<name>".
func scheme(name string) string {
	return link.DefaultScheme + "://" + name
}

// Keys shared by several types.
var (
	KeyKey = schema.Text("key", "explicit local key, overrides the identifying field")

	KeyURL       = schema.Text("url", "web site")
	KeyWikipedia = schema.Text("wikipedia", "Wikipedia article")
	KeyLinks     = schema.Object("links", "external references",
		schema.New("links", schema.Optional(KeyURL), schema.Optional(KeyWikipedia)))

	KeyGeoCity    = schema.Link("city", "city", scheme(Cities))
	KeyGeoCountry = schema.Link("country", "country", scheme(Countries))
	KeyGeo        = schema.Object("geo", "geographic location",
		schema.New("geo", schema.Optional(KeyGeoCity), schema.Optional(KeyGeoCountry)))
)

// Continents.
var (
	KeyContinentCode = schema.Text("code", "two letter continent code")
	KeyContinentName = schema.TranslatedText("name", "continent name")

	ContinentSchema = schema.New("continent",
		schema.Optional(KeyKey),
		schema.Required(KeyContinentCode),
		schema.Required(KeyContinentName),
		schema.Optional(KeyLinks),
	)
)

// Countries.
var (
	KeyCountryISO2      = schema.Text("iso2", "ISO 3166-1 alpha-2 code")
	KeyCountryISO3      = schema.Text("iso3", "ISO 3166-1 alpha-3 code")
	KeyCountryNumeric   = schema.Integer("numeric", "ISO 3166-1 numeric code")
	KeyCountryName      = schema.TranslatedText("name", "country name")
	KeyCountryContinent = schema.Link("continent", "continent", scheme(Continents))

	CountrySchema = schema.New("country",
		schema.Optional(KeyKey),
		schema.Required(KeyCountryISO2),
		schema.Optional(KeyCountryISO3),
		schema.Optional(KeyCountryNumeric),
		schema.Required(KeyCountryName),
		schema.Optional(KeyCountryContinent),
		schema.Optional(KeyLinks),
	)
)

// Cities.
var (
	KeyCityName    = schema.TranslatedText("name", "city name")
	KeyCityCountry = schema.Link("country", "country", scheme(Countries))

	CitySchema = schema.New("city",
		schema.Optional(KeyKey),
		schema.Required(KeyCityName),
		schema.Required(KeyCityCountry),
		schema.Optional(KeyLinks),
	)
)

// Acronyms.
var (
	KeyAcronymShort       = schema.Text("s", "short form")
	KeyAcronymLong        = schema.TranslatedText("l", "long form")
	KeyAcronymDescription = schema.TranslatedText("d", "description")

	AcronymSchema = schema.New("acronym",
		schema.Optional(KeyKey),
		schema.Required(KeyAcronymShort),
		schema.Required(KeyAcronymLong),
		schema.Optional(KeyAcronymDescription),
		schema.Optional(KeyLinks),
	)
)

// Affiliation types.
var (
	KeyAffTypeShort       = schema.Text("short", "short name")
	KeyAffTypeLong        = schema.TranslatedText("long", "long name")
	KeyAffTypeDescription = schema.TranslatedText("description", "description")

	AffiliationTypeSchema = schema.New("affiliation-type",
		schema.Optional(KeyKey),
		schema.Required(KeyAffTypeShort),
		schema.Required(KeyAffTypeLong),
		schema.Optional(KeyAffTypeDescription),
	)
)

// Affiliations.
var (
	KeyAffShort   = schema.Text("short", "short name")
	KeyAffLong    = schema.TranslatedText("long", "long name")
	KeyAffAcronym = schema.Link("acronym", "acronym of the affiliation", scheme(Acronyms))
	KeyAffType    = schema.Link("type", "affiliation type", scheme(AffiliationTypes))

	AffiliationSchema = schema.New("affiliation",
		schema.Optional(KeyKey),
		schema.Required(KeyAffShort),
		schema.Required(KeyAffLong),
		schema.Optional(KeyAffAcronym),
		schema.Optional(KeyAffType),
		schema.Optional(KeyGeo),
		schema.Optional(KeyLinks),
	)
)

// Encodings.
var (
	KeyEncName      = schema.Text("name", "character name")
	KeyEncChar      = schema.Text("char", "the character")
	KeyEncCodepoint = schema.Integer("codepoint", "Unicode code point")
	KeyEncHTML      = schema.Text("html", "HTML entity")
	KeyEncLaTeX     = schema.Text("latex", "LaTeX command")
	KeyEncText      = schema.Text("text", "plain text replacement")

	EncodingSchema = schema.New("encoding",
		schema.Optional(KeyKey),
		schema.Required(KeyEncName),
		schema.Required(KeyEncChar),
		schema.Optional(KeyEncCodepoint),
		schema.Optional(KeyEncHTML),
		schema.Optional(KeyEncLaTeX),
		schema.Optional(KeyEncText),
	)
)

func textOf(k *schema.Key) func(*entry.Entry) string {
	return func(e *entry.Entry) string {
		return e.Text(k.Name)
	}
}

func sameText(keys ...*schema.Key) func(a, b *entry.Entry) bool {
	return func(a, b *entry.Entry) bool {
		for _, k := range keys {
			if a.Text(k.Name) != b.Text(k.Name) {
				return false
			}
		}

		return true
	}
}

// Builtin returns the built-in entity types in registration order.
func Builtin() []*Type {
	return []*Type{
		{
			Name:      Continents,
			Extension: "cont",
			Targets: map[string]string{
				TargetText: TemplateTextTable,
				TargetSQL:  TemplateSQLInsert,
			},
			Builder: &entry.Builder{
				Type:        Continents,
				Schema:      ContinentSchema,
				ID:          KeyContinentCode,
				KeyOverride: KeyKey,
				Compare:     textOf(KeyContinentName),
			},
		},
		{
			Name:      Countries,
			Extension: "ctry",
			Requires:  []string{Continents},
			Targets: map[string]string{
				TargetText: TemplateTextTable,
				TargetSQL:  TemplateSQLInsert,
				TargetHTML: "countries.html",
			},
			Builder: &entry.Builder{
				Type:        Countries,
				Schema:      CountrySchema,
				ID:          KeyCountryISO2,
				KeyOverride: KeyKey,
				Compare:     textOf(KeyCountryName),
			},
		},
		{
			Name:      Cities,
			Extension: "city",
			Requires:  []string{Countries},
			Targets: map[string]string{
				TargetText: TemplateTextTable,
				TargetSQL:  TemplateSQLInsert,
			},
			Builder: &entry.Builder{
				Type:        Cities,
				Schema:      CitySchema,
				ID:          KeyCityName,
				KeyOverride: KeyKey,
			},
		},
		{
			Name:      Acronyms,
			Extension: "acr",
			Targets: map[string]string{
				TargetText:  TemplateTextTable,
				TargetSQL:   TemplateSQLInsert,
				TargetLaTeX: "acronyms.latex",
				TargetHTML:  "acronyms.html",
			},
			Builder: &entry.Builder{
				Type:        Acronyms,
				Schema:      AcronymSchema,
				ID:          KeyAcronymShort,
				KeyOverride: KeyKey,
				Duplicate:   sameText(KeyAcronymShort, KeyAcronymLong),
			},
		},
		{
			Name:      AffiliationTypes,
			Extension: "afft",
			Targets: map[string]string{
				TargetText: TemplateTextTable,
				TargetSQL:  TemplateSQLInsert,
			},
			Builder: &entry.Builder{
				Type:        AffiliationTypes,
				Schema:      AffiliationTypeSchema,
				ID:          KeyAffTypeShort,
				KeyOverride: KeyKey,
				Compare:     textOf(KeyAffTypeLong),
			},
		},
		{
			Name:      Affiliations,
			Extension: "aff",
			Requires:  []string{Acronyms, AffiliationTypes, Cities, Countries},
			Targets: map[string]string{
				TargetText:  TemplateTextTable,
				TargetLaTeX: "affiliations.latex",
				TargetHTML:  "affiliations.html",
			},
			Secondary: Acronyms,
			Builder: &entry.Builder{
				Type:        Affiliations,
				Schema:      AffiliationSchema,
				ID:          KeyAffShort,
				KeyOverride: KeyKey,
				Compare:     textOf(KeyAffLong),
				Duplicate:   sameText(KeyAffLong),
			},
		},
		{
			Name:      Encodings,
			Extension: "enc",
			Targets: map[string]string{
				TargetText:  TemplateTextTable,
				TargetLaTeX: "encodings.latex",
				TargetHTML:  "encodings.html",
				TargetJava:  "encodings.java",
			},
			Builder: &entry.Builder{
				Type:        Encodings,
				Schema:      EncodingSchema,
				ID:          KeyEncName,
				KeyOverride: KeyKey,
				Compare:     textOf(KeyEncChar),
				Duplicate:   sameText(KeyEncChar),
			},
		},
	}
}

// Default returns a catalog of the built-in entity types.
func Default() *Catalog {
	return MustNew(Builtin()...)
}
