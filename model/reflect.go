package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ErrUnsupportedType is returned when a Go type has no model descriptor.
var ErrUnsupportedType = errors.New("model: unsupported type")

// Enumerator marks a Go type as an enumeration. EnumMembers is called on the
// zero value.
type Enumerator interface {
	EnumMembers() []string
}

var (
	enumeratorType = reflect.TypeFor[Enumerator]()
	timeType       = reflect.TypeFor[time.Time]()
	durationType   = reflect.TypeFor[time.Duration]()
	numberType     = reflect.TypeFor[json.Number]()
)

// Of reflects the struct type T into a model Type.
func Of[T any]() (Type, error) { return Reflect(reflect.TypeFor[T]()) }

// MustOf is like Of but panics on error.
func MustOf[T any]() Type {
	t, err := Of[T]()
	if err != nil {
		panic(err)
	}
	return t
}

// Reflect adapts a Go struct type (or pointer to one) into a model Type.
// Field keys follow the jsonvet tag ("name=..."), then the json tag, then the
// Go field name; "-" skips the field. Pointers and omitempty fields are
// nullable. Self and mutually recursive structs are supported.
func Reflect(rt reflect.Type) (Type, error) {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct", ErrUnsupportedType, rt)
	}
	r := reflector{memo: map[reflect.Type]*Struct{}}
	return r.model(rt)
}

type reflector struct {
	memo map[reflect.Type]*Struct
}

func (r *reflector) model(rt reflect.Type) (*Struct, error) {
	if s, ok := r.memo[rt]; ok {
		return s, nil
	}
	s := NewStruct(CanonicalName(rt))
	r.memo[rt] = s
	if err := r.fields(s, rt, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// fields appends the fields of rt to s. Embedded structs without a key tag
// are flattened as encoding/json does.
func (r *reflector) fields(s *Struct, rt reflect.Type, seen []reflect.Type) error {
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}
		key, tagged := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		if sf.Anonymous && !tagged {
			et := sf.Type
			for et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if containsType(seen, et) {
					continue
				}
				if err := r.fields(s, et, append(seen, rt)); err != nil {
					return err
				}
				continue
			}
			if !sf.IsExported() {
				continue
			}
		}
		d, err := r.descriptor(sf.Type)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", rt.Name(), sf.Name, err)
		}
		if hasOmitEmpty(sf) {
			d = Nullable(d)
		}
		s.Field(key, d)
	}
	return nil
}

func (r *reflector) descriptor(rt reflect.Type) (Descriptor, error) {
	if rt.Kind() == reflect.Pointer {
		inner, err := r.descriptor(rt.Elem())
		if err != nil {
			return Descriptor{}, err
		}
		return Nullable(inner), nil
	}
	if rt.Implements(enumeratorType) {
		e := reflect.Zero(rt).Interface().(Enumerator)
		return Enum(e.EnumMembers()...), nil
	}
	switch rt {
	case timeType, durationType:
		return String(), nil
	case numberType:
		return Number(), nil
	}
	switch rt.Kind() {
	case reflect.Bool:
		return Boolean(), nil
	case reflect.String:
		return String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return Number(), nil
	case reflect.Slice, reflect.Array:
		if rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8 {
			// encoding/json writes []byte as base64 text
			return String(), nil
		}
		elem, err := r.descriptor(rt.Elem())
		if err != nil {
			return Descriptor{}, err
		}
		return ArrayOf(elem), nil
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return Descriptor{}, fmt.Errorf("%w: map key %v is not a string", ErrUnsupportedType, rt.Key())
		}
		elem, err := r.descriptor(rt.Elem())
		if err != nil {
			return Descriptor{}, err
		}
		return MapOf(elem), nil
	case reflect.Struct:
		s, err := r.model(rt)
		if err != nil {
			return Descriptor{}, err
		}
		return Ref(s), nil
	default:
		return Descriptor{}, fmt.Errorf("%w: %v", ErrUnsupportedType, rt)
	}
}

// CanonicalName is the package-qualified name of a Go type.
func CanonicalName(rt reflect.Type) string {
	if rt.Name() == "" {
		return rt.String()
	}
	if rt.PkgPath() == "" {
		return rt.Name()
	}
	return rt.PkgPath() + "." + rt.Name()
}

// ResolveStructKey resolves a struct field's external key.
// Priority: jsonvet:"name=..." > json tag name > field name; "-" disables the
// field. tagged reports whether a tag supplied the name.
func ResolveStructKey(sf reflect.StructField) (key string, tagged bool) {
	if gt := sf.Tag.Get("jsonvet"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if name, ok := strings.CutPrefix(p, "name="); ok && name != "" {
				return name, true
			}
		}
	}
	if jt, ok := sf.Tag.Lookup("json"); ok {
		if jt == "-" {
			return "-", true
		}
		name, _, _ := strings.Cut(jt, ",")
		if name != "" {
			return name, true
		}
	}
	return sf.Name, false
}

func hasOmitEmpty(sf reflect.StructField) bool {
	jt := sf.Tag.Get("json")
	_, opts, _ := strings.Cut(jt, ",")
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" || o == "omitzero" {
			return true
		}
	}
	return false
}

func containsType(ts []reflect.Type, t reflect.Type) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}
