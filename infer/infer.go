// Package infer derives a spec.Schema from a model type.
//
// Inference walks the type graph once. Each model type is expanded the first
// time it is met; later meetings, including cycles back to a type still being
// expanded, become spec.TypeRef by name.
package infer

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/reoring/jsonvet/model"
	"github.com/reoring/jsonvet/spec"
)

// ErrDuplicateType reports two distinct model types sharing a canonical name.
var ErrDuplicateType = errors.New("infer: duplicate type name")

// BuildSchema infers the schema of t. Selector errors recorded in opts are
// returned before any type is examined. AllTypes lists nested types in the
// order their expansion finished, with the root last.
func BuildSchema(t model.Type, opts Options) (spec.Schema, error) {
	if err := opts.Err(); err != nil {
		return spec.Schema{}, err
	}
	if t == nil {
		return spec.Schema{}, errors.New("infer: nil root type")
	}
	b := &builder{opts: opts, log: opts.log(), known: map[string]model.Type{}}
	if _, err := b.model(t); err != nil {
		return spec.Schema{}, err
	}
	if err := b.checkNamedOverrides(); err != nil {
		return spec.Schema{}, err
	}
	root := b.emitted[len(b.emitted)-1]
	b.log.Debug("schema inferred", slog.String("root", root.Name), slog.Int("types", len(b.emitted)))
	return spec.Schema{Root: root, AllTypes: b.emitted}, nil
}

// MustBuildSchema is like BuildSchema but panics on error.
func MustBuildSchema(t model.Type, opts Options) spec.Schema {
	s, err := BuildSchema(t, opts)
	if err != nil {
		panic(err)
	}
	return s
}

// builder is the state of one BuildSchema call.
type builder struct {
	opts     Options
	log      *slog.Logger
	visiting []string
	emitted  []spec.TypeSchema
	known    map[string]model.Type
}

func (b *builder) isEmitted(name string) bool {
	return slices.ContainsFunc(b.emitted, func(ts spec.TypeSchema) bool { return ts.Name == name })
}

// model expands t unless it is on the visiting stack or already emitted, and
// returns a reference to it either way.
func (b *builder) model(t model.Type) (spec.ValidatorSpec, error) {
	name := t.Name()
	if name == "" {
		return nil, errors.New("infer: model type without a name")
	}
	if prev, ok := b.known[name]; ok {
		if !sameType(prev, t) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateType, name)
		}
	} else {
		b.known[name] = t
	}
	if slices.Contains(b.visiting, name) || b.isEmitted(name) {
		b.log.Debug("type referenced", slog.String("type", name))
		return spec.TypeRef{Name: name}, nil
	}

	b.visiting = append(b.visiting, name)
	b.log.Debug("expanding type", slog.String("type", name), slog.Int("depth", len(b.visiting)))
	ts := spec.TypeSchema{Name: name, AllowExtraFields: b.opts.allowExtraFields}
	for _, f := range t.Fields() {
		if err := f.Type.Validate(); err != nil {
			return nil, fmt.Errorf("infer: %s.%s: %w", name, f.Name, err)
		}
		vs, err := b.spec(f.Type, name, f.Name)
		if err != nil {
			return nil, err
		}
		ts.Fields = append(ts.Fields, spec.FieldSpec{
			Name:     f.Name,
			Required: b.required(fieldKey{typ: name, field: f.Name}, f.Type),
			Spec:     vs,
		})
	}
	b.emitted = append(b.emitted, ts)
	b.visiting = b.visiting[:len(b.visiting)-1]
	b.log.Debug("type emitted", slog.String("type", name), slog.Int("fields", len(ts.Fields)))
	return spec.TypeRef{Name: name}, nil
}

// spec converts a declared field type. owner and field select count
// overrides; element types of collections get none.
func (b *builder) spec(d model.Descriptor, owner, field string) (spec.ValidatorSpec, error) {
	switch d.Kind() {
	case model.KindScalar:
		switch d.ScalarKind() {
		case model.ScalarNumber:
			return spec.Number{}, nil
		case model.ScalarString:
			return spec.String{}, nil
		default:
			return spec.Boolean{}, nil
		}
	case model.KindEnum:
		return spec.OneOf{Options: d.Members(), IgnoreCase: b.opts.enumIgnoreCase}, nil
	case model.KindMap:
		elem, err := b.spec(d.Elem(), "", "")
		if err != nil {
			return nil, err
		}
		min, max := b.opts.bounds(fieldKey{typ: owner, field: field})
		return spec.DictionaryOf{Elem: elem, Min: min, Max: max}, nil
	case model.KindArray:
		elem, err := b.spec(d.Elem(), "", "")
		if err != nil {
			return nil, err
		}
		min, max := b.opts.bounds(fieldKey{typ: owner, field: field})
		return spec.ArrayOf{Elem: elem, Min: min, Max: max}, nil
	case model.KindNullable:
		return b.spec(d.Elem(), owner, field)
	case model.KindModel:
		return b.model(d.Model())
	default:
		return nil, fmt.Errorf("infer: invalid descriptor in %s.%s", owner, field)
	}
}

// required applies the override precedence: required, then optional, then
// nullability, then required by default.
func (b *builder) required(k fieldKey, d model.Descriptor) bool {
	switch {
	case b.opts.isRequired(k):
		return true
	case b.opts.isOptional(k):
		return false
	case d.IsNullable():
		return false
	default:
		return true
	}
}

// checkNamedOverrides verifies overrides loaded by name resolve to an emitted
// type and one of its fields.
func (b *builder) checkNamedOverrides() error {
	var errs []error
	for k := range b.opts.byName {
		ts, ok := b.lookup(k.typ)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: type %q is not part of the schema", ErrUnknownField, k.typ))
			continue
		}
		if _, ok := ts.Field(k.field); !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownField, k))
		}
	}
	slices.SortFunc(errs, func(a, c error) int { return strings.Compare(a.Error(), c.Error()) })
	return errors.Join(errs...)
}

func (b *builder) lookup(name string) (spec.TypeSchema, bool) {
	for _, ts := range b.emitted {
		if ts.Name == name {
			return ts, true
		}
	}
	return spec.TypeSchema{}, false
}

// sameType reports whether a and c are the same model type value.
func sameType(a, c model.Type) bool {
	ta, tc := reflect.TypeOf(a), reflect.TypeOf(c)
	if ta != tc {
		return false
	}
	if ta.Comparable() {
		return a == c
	}
	return reflect.DeepEqual(a, c)
}
