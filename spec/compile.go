package spec

import (
	"errors"
	"fmt"
	"iter"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/dsl"
	"github.com/reoring/jsonvet/i18n"
)

var (
	// ErrDuplicateType reports two TypeSchemas sharing a name.
	ErrDuplicateType = errors.New("spec: duplicate type name")
	// ErrUnresolvedType reports a TypeRef naming no type of the Schema.
	ErrUnresolvedType = errors.New("spec: unresolved type reference")
	// ErrInvalidSpec reports a malformed ValidatorSpec.
	ErrInvalidSpec = errors.New("spec: invalid validator spec")
)

// Check verifies the integrity of s: Root is among AllTypes, type and field
// names are unique, every TypeRef resolves, every regex compiles and every
// count bound is well formed.
func Check(s Schema) error {
	names := make(map[string]struct{}, len(s.AllTypes))
	for _, t := range s.AllTypes {
		if _, dup := names[t.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateType, t.Name)
		}
		names[t.Name] = struct{}{}
	}
	if _, ok := names[s.Root.Name]; !ok {
		return fmt.Errorf("%w: root %q is not among the schema types", ErrUnresolvedType, s.Root.Name)
	}
	for _, t := range s.AllTypes {
		fields := make(map[string]struct{}, len(t.Fields))
		for _, f := range t.Fields {
			if _, dup := fields[f.Name]; dup {
				return fmt.Errorf("%w: %s: field %q declared twice", ErrInvalidSpec, t.Name, f.Name)
			}
			fields[f.Name] = struct{}{}
			if err := checkSpec(f.Spec, names); err != nil {
				return fmt.Errorf("%s.%s: %w", t.Name, f.Name, err)
			}
		}
	}
	return nil
}

func checkSpec(vs ValidatorSpec, names map[string]struct{}) error {
	switch x := vs.(type) {
	case Number, String, Boolean, Null, OneOf:
		return nil
	case Regex:
		_, err := dsl.CompileFullMatch(x.Pattern)
		return err
	case TypeRef:
		if _, ok := names[x.Name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnresolvedType, x.Name)
		}
		return nil
	case ArrayOf:
		if err := checkBounds(x.Min, x.Max); err != nil {
			return err
		}
		return checkSpec(x.Elem, names)
	case DictionaryOf:
		if err := checkBounds(x.Min, x.Max); err != nil {
			return err
		}
		return checkSpec(x.Elem, names)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidSpec, vs)
	}
}

func checkBounds(min, max *int) error {
	switch {
	case min != nil && *min < 0, max != nil && *max < 0:
		return fmt.Errorf("%w: negative count bound", ErrInvalidSpec)
	case min != nil && max != nil && *min > *max:
		return fmt.Errorf("%w: min count %d exceeds max count %d", ErrInvalidSpec, *min, *max)
	}
	return nil
}

// Compile turns s into a validator for its root type. Key comparison folds
// case unless caseSensitive is set. The returned validator is immutable and
// safe for concurrent use.
func Compile(s Schema, caseSensitive bool) (jsonvet.Validator, error) {
	if err := Check(s); err != nil {
		return nil, err
	}
	c := newCompiler(caseSensitive)
	for _, t := range s.AllTypes {
		c.table[t.Name] = c.compileType(t)
	}
	return c.table[s.Root.Name], nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(s Schema, caseSensitive bool) jsonvet.Validator {
	v, err := Compile(s, caseSensitive)
	if err != nil {
		panic(err)
	}
	return v
}

// compiler owns the name table of one Compile call. Entries are added in
// AllTypes order and never changed once Compile returns.
type compiler struct {
	table   map[string]jsonvet.Validator
	keyOpts []dsl.Option
}

func newCompiler(caseSensitive bool) *compiler {
	return &compiler{
		table:   map[string]jsonvet.Validator{},
		keyOpts: []dsl.Option{dsl.IgnoreCase(!caseSensitive)},
	}
}

func (c *compiler) compileType(t TypeSchema) jsonvet.Validator {
	parts := []jsonvet.Validator{dsl.IsObject()}
	if !t.AllowExtraFields {
		parts = append(parts, dsl.ValidKeys(t.FieldNames(), c.keyOpts...))
	}
	parts = append(parts, dsl.RequiredKeys(t.RequiredFields(), c.keyOpts...))
	for _, f := range t.Fields {
		parts = append(parts, dsl.DiveInto(f.Name, c.compileSpec(f.Spec), c.keyOpts...))
	}
	return dsl.Named(t.Name, dsl.And(parts...))
}

func (c *compiler) compileSpec(vs ValidatorSpec) jsonvet.Validator {
	switch x := vs.(type) {
	case Number:
		return dsl.IsNumber()
	case String:
		return dsl.IsString()
	case Boolean:
		return dsl.IsBoolean()
	case Null:
		return dsl.IsNull()
	case OneOf:
		return dsl.OneOf(x.Options, dsl.IgnoreCase(x.IgnoreCase))
	case Regex:
		return dsl.MustRegex(x.Pattern)
	case TypeRef:
		if v, ok := c.table[x.Name]; ok {
			return v
		}
		name := x.Name
		return dsl.Delayed(func() jsonvet.Validator {
			if v, ok := c.table[name]; ok {
				return v
			}
			return unresolved{name: name}
		})
	case ArrayOf:
		return dsl.ArrayOf(c.compileSpec(x.Elem), dsl.Bounds(x.Min, x.Max)...)
	case DictionaryOf:
		return dsl.DictionaryOf(c.compileSpec(x.Elem), dsl.Bounds(x.Min, x.Max)...)
	default:
		return unresolved{name: fmt.Sprintf("%T", vs)}
	}
}

// unresolved reports a reference whose type never made it into the table.
// Check rules this out for schemas passed to Compile.
type unresolved struct{ name string }

func (u unresolved) Name() string { return u.name }

func (u unresolved) Validate(jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return jsonvet.Single(jsonvet.NewError(jsonvet.CodeUnresolvedType,
		i18n.T(i18n.UnresolvedType, map[string]string{"name": u.name}),
		map[string]any{"name": u.name}))
}
