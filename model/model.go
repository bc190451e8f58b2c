// Package model describes the structural types that drive schema inference.
//
// A model type has a canonical name and an ordered field list. Each field
// carries a Descriptor, a tagged union resolved once at construction:
// Scalar, Enum, Nullable, Array, Map or a reference to another model type.
// Types come from code (Struct), from Go structs via reflection (Reflect,
// Of) or from YAML declarations (package decl).
package model

import (
	"fmt"
	"slices"
)

// ScalarKind names the scalar shapes a field may take.
type ScalarKind int

const (
	ScalarNumber ScalarKind = iota + 1
	ScalarString
	ScalarBoolean
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNumber:
		return "number"
	case ScalarString:
		return "string"
	case ScalarBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("ScalarKind(%d)", int(k))
	}
}

// DescriptorKind discriminates Descriptor variants.
type DescriptorKind int

const (
	KindScalar DescriptorKind = iota + 1
	KindEnum
	KindNullable
	KindArray
	KindMap
	KindModel
)

// Descriptor is the declared type of a field. The zero value is invalid.
type Descriptor struct {
	kind    DescriptorKind
	scalar  ScalarKind
	members []string
	elem    *Descriptor
	model   Type
}

func Scalar(k ScalarKind) Descriptor { return Descriptor{kind: KindScalar, scalar: k} }

// Number, String and Boolean are shorthands for Scalar.
func Number() Descriptor  { return Scalar(ScalarNumber) }
func String() Descriptor  { return Scalar(ScalarString) }
func Boolean() Descriptor { return Scalar(ScalarBoolean) }

// Enum declares an enumeration by its member names.
func Enum(members ...string) Descriptor {
	return Descriptor{kind: KindEnum, members: slices.Clone(members)}
}

// Nullable marks inner as optional. Nesting Nullable is idempotent.
func Nullable(inner Descriptor) Descriptor {
	if inner.kind == KindNullable {
		return inner
	}
	return Descriptor{kind: KindNullable, elem: &inner}
}

// ArrayOf declares a homogeneous collection.
func ArrayOf(elem Descriptor) Descriptor { return Descriptor{kind: KindArray, elem: &elem} }

// MapOf declares a string-keyed map.
func MapOf(elem Descriptor) Descriptor { return Descriptor{kind: KindMap, elem: &elem} }

// Ref refers to another model type.
func Ref(t Type) Descriptor { return Descriptor{kind: KindModel, model: t} }

func (d Descriptor) Kind() DescriptorKind   { return d.kind }
func (d Descriptor) ScalarKind() ScalarKind { return d.scalar }
func (d Descriptor) Members() []string      { return slices.Clone(d.members) }

// Elem returns the wrapped descriptor of Nullable, Array and Map variants.
func (d Descriptor) Elem() Descriptor {
	if d.elem == nil {
		return Descriptor{}
	}
	return *d.elem
}

// Model returns the referenced type of a KindModel descriptor.
func (d Descriptor) Model() Type { return d.model }

// IsNullable reports whether d is a Nullable wrapper.
func (d Descriptor) IsNullable() bool { return d.kind == KindNullable }

// Validate checks that d and everything it wraps is a well-formed variant.
func (d Descriptor) Validate() error {
	switch d.kind {
	case KindScalar:
		if d.scalar < ScalarNumber || d.scalar > ScalarBoolean {
			return fmt.Errorf("model: unknown scalar kind %d", d.scalar)
		}
		return nil
	case KindEnum:
		if len(d.members) == 0 {
			return fmt.Errorf("model: enum without members")
		}
		return nil
	case KindNullable, KindArray, KindMap:
		if d.elem == nil {
			return fmt.Errorf("model: %s without element", d.kind)
		}
		return d.elem.Validate()
	case KindModel:
		if d.model == nil {
			return fmt.Errorf("model: nil model reference")
		}
		return nil
	default:
		return fmt.Errorf("model: invalid descriptor")
	}
}

func (k DescriptorKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindNullable:
		return "nullable"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindModel:
		return "model"
	default:
		return "invalid"
	}
}

func (d Descriptor) String() string {
	switch d.kind {
	case KindScalar:
		return d.scalar.String()
	case KindEnum:
		return fmt.Sprintf("enum%v", d.members)
	case KindNullable:
		return "?" + d.Elem().String()
	case KindArray:
		return "[]" + d.Elem().String()
	case KindMap:
		return "map[" + d.Elem().String() + "]"
	case KindModel:
		if d.model == nil {
			return "<nil>"
		}
		return d.model.Name()
	default:
		return "invalid"
	}
}

// Field is one declared field of a model type.
type Field struct {
	Name string
	Type Descriptor
}

// Type is a model type: a canonical name and an ordered field list.
type Type interface {
	Name() string
	Fields() []Field
}

// Struct is a mutable Type builder. Fields may reference the Struct itself
// or Structs declared later, which is how cyclic graphs are wired.
type Struct struct {
	name   string
	fields []Field
}

// NewStruct starts a model type with the given canonical name.
func NewStruct(name string) *Struct { return &Struct{name: name} }

// Field appends a field and returns s for chaining.
func (s *Struct) Field(name string, d Descriptor) *Struct {
	s.fields = append(s.fields, Field{Name: name, Type: d})
	return s
}

func (s *Struct) Name() string { return s.name }

func (s *Struct) Fields() []Field { return slices.Clone(s.fields) }

// HasField reports whether t declares a field called name.
func HasField(t Type, name string) bool {
	for _, f := range t.Fields() {
		if f.Name == name {
			return true
		}
	}
	return false
}
