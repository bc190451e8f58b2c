// Package spec holds the data-only description of validation rules and the
// compiler that turns it into a dsl validator tree.
//
// A Schema names a root TypeSchema plus every type it reaches. Types refer to
// each other only by name (TypeRef), which keeps cyclic graphs finite.
package spec

// Kind discriminates ValidatorSpec variants.
type Kind int

const (
	KindNumber Kind = iota + 1
	KindString
	KindBoolean
	KindNull
	KindOneOf
	KindRegex
	KindTypeRef
	KindArrayOf
	KindDictionaryOf
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindOneOf:
		return "one_of"
	case KindRegex:
		return "regex"
	case KindTypeRef:
		return "type_ref"
	case KindArrayOf:
		return "array_of"
	case KindDictionaryOf:
		return "dictionary_of"
	default:
		return "invalid"
	}
}

// ValidatorSpec describes how to validate one value. The set of variants is
// closed.
type ValidatorSpec interface {
	Kind() Kind
	isSpec()
}

type (
	Number  struct{}
	String  struct{}
	Boolean struct{}
	Null    struct{}

	// OneOf accepts values whose string form is one of Options.
	OneOf struct {
		Options    []string
		IgnoreCase bool
	}

	// Regex accepts values whose string form fully matches Pattern.
	Regex struct {
		Pattern string
	}

	// TypeRef names a TypeSchema of the same Schema. It never embeds the
	// referenced type.
	TypeRef struct {
		Name string
	}

	ArrayOf struct {
		Elem     ValidatorSpec
		Min, Max *int
	}

	DictionaryOf struct {
		Elem     ValidatorSpec
		Min, Max *int
	}
)

func (Number) Kind() Kind       { return KindNumber }
func (String) Kind() Kind       { return KindString }
func (Boolean) Kind() Kind      { return KindBoolean }
func (Null) Kind() Kind         { return KindNull }
func (OneOf) Kind() Kind        { return KindOneOf }
func (Regex) Kind() Kind        { return KindRegex }
func (TypeRef) Kind() Kind      { return KindTypeRef }
func (ArrayOf) Kind() Kind      { return KindArrayOf }
func (DictionaryOf) Kind() Kind { return KindDictionaryOf }

func (Number) isSpec()       {}
func (String) isSpec()       {}
func (Boolean) isSpec()      {}
func (Null) isSpec()         {}
func (OneOf) isSpec()        {}
func (Regex) isSpec()        {}
func (TypeRef) isSpec()      {}
func (ArrayOf) isSpec()      {}
func (DictionaryOf) isSpec() {}

// FieldSpec is one field of a TypeSchema.
type FieldSpec struct {
	Name     string
	Required bool
	Spec     ValidatorSpec
}

// TypeSchema is the validation blueprint of one model type.
type TypeSchema struct {
	Name             string
	AllowExtraFields bool
	Fields           []FieldSpec
}

// Field returns the field called name.
func (t TypeSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RequiredFields lists required field names in declaration order.
func (t TypeSchema) RequiredFields() []string {
	var out []string
	for _, f := range t.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// FieldNames lists all field names in declaration order.
func (t TypeSchema) FieldNames() []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.Name
	}
	return out
}

// Schema is a root type plus every type transitively referenced from it.
// AllTypes includes Root and holds each name once.
type Schema struct {
	Root     TypeSchema
	AllTypes []TypeSchema
}

// Lookup returns the type called name.
func (s Schema) Lookup(name string) (TypeSchema, bool) {
	for _, t := range s.AllTypes {
		if t.Name == name {
			return t, true
		}
	}
	return TypeSchema{}, false
}

// Ptr returns a pointer to n, for Min/Max bounds.
func Ptr(n int) *int { return &n }
