// Package schema declares the fields that records may carry and validates
// raw JSON objects against them.
//
// A Key describes one logical field: its wire name, the kind of value it
// holds, whether character translation applies and, for links, the scheme
// ("skb://countries") of the entity type it points to. Keys are shared
// between schemas and compared by identity, so two unrelated keys may use the
// same wire name as long as they never meet in one Schema.
//
// A Schema is an ordered, immutable list of keys with a required flag:
//
//	var acronym = schema.New("acronym",
//	    schema.Required(ShortKey),
//	    schema.Required(LongKey),
//	    schema.Optional(LinksKey),
//	)
//
//	if vs := acronym.Validate(raw); len(vs) > 0 {
//	    // skip this record
//	}
//
// Validation never mutates its input and always reports violations in the
// same order: schema order for missing and empty fields, then unknown wire
// names sorted alphabetically.
package schema
