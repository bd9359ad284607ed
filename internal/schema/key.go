package schema

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind is the kind of value a Key holds.
type Kind int

const (
	_ Kind = iota // zero value is invalid

	KindText    // text
	KindInteger // integer
	KindObject  // object
	KindLink    // link
)

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k >= KindText && k <= KindLink
}

// Key describes one field of a record.
type Key struct {
	// Name is the wire-format field name.
	Name string
	// Description is a short human readable explanation.
	Description string
	// Kind is the value kind stored under this key.
	Kind Kind
	// Translate marks text values that pass through the character translator.
	Translate bool
	// LinkScheme is the "scheme://type" prefix links must use (KindLink only).
	LinkScheme string
	// Object is the nested schema (KindObject only).
	Object *Schema
}

// Text declares a text key.
func Text(name, description string) *Key {
	return &Key{Name: name, Description: description, Kind: KindText}
}

// TranslatedText declares a text key whose value passes through the translator.
func TranslatedText(name, description string) *Key {
	return &Key{Name: name, Description: description, Kind: KindText, Translate: true}
}

// Integer declares an integer key.
func Integer(name, description string) *Key {
	return &Key{Name: name, Description: description, Kind: KindInteger}
}

// Link declares a key referencing an entry of another entity type.
func Link(name, description, scheme string) *Key {
	return &Key{Name: name, Description: description, Kind: KindLink, LinkScheme: scheme}
}

// Object declares a key holding a nested object loaded with s.
func Object(name, description string, s *Schema) *Key {
	return &Key{Name: name, Description: description, Kind: KindObject, Object: s}
}

// String returns the wire name.
func (k *Key) String() string {
	if k == nil {
		return "<nil>"
	}

	return k.Name
}
