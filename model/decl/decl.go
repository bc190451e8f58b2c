// Package decl builds model types from YAML declarations.
//
//	types:
//	  - name: Person
//	    fields:
//	      - {name: name, type: string}
//	      - {name: age, type: "?integer"}
//	      - {name: role, type: "enum(Admin, User)"}
//	      - {name: friends, type: "[]Person"}
//	      - {name: labels, type: "map[string]"}
//
// Type expressions: string, number, integer, boolean, date, enum(A, B),
// ?T (nullable), []T (array), map[T] (string-keyed map) and declared type
// names. Types may reference each other in any order, including cycles.
package decl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonvet/model"
)

// ErrUnknownType reports a type expression naming an undeclared type.
var ErrUnknownType = errors.New("decl: unknown type")

type document struct {
	Types []typeDecl `yaml:"types"`
}

type typeDecl struct {
	Name   string      `yaml:"name"`
	Fields []fieldDecl `yaml:"fields"`
}

type fieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Registry holds the declared model types in declaration order.
type Registry struct {
	order []string
	types map[string]*model.Struct
}

// Lookup returns the declared type called name.
func (r *Registry) Lookup(name string) (model.Type, bool) {
	s, ok := r.types[name]
	if !ok {
		return nil, false
	}
	return s, true
}

// Names lists declared type names in declaration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// ParseFile reads and parses a declaration file.
func ParseFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("decl: %w", err)
	}
	return Parse(data)
}

// Parse builds a Registry from YAML. Duplicate type or field names, empty
// names and unknown type references are errors.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decl: %w", err)
	}
	r := &Registry{types: map[string]*model.Struct{}}
	for _, td := range doc.Types {
		if td.Name == "" {
			return nil, errors.New("decl: type without name")
		}
		if _, dup := r.types[td.Name]; dup {
			return nil, fmt.Errorf("decl: type %q declared twice", td.Name)
		}
		r.types[td.Name] = model.NewStruct(td.Name)
		r.order = append(r.order, td.Name)
	}
	for _, td := range doc.Types {
		s := r.types[td.Name]
		seen := map[string]bool{}
		for _, fd := range td.Fields {
			if fd.Name == "" {
				return nil, fmt.Errorf("decl: %s: field without name", td.Name)
			}
			if seen[fd.Name] {
				return nil, fmt.Errorf("decl: %s: field %q declared twice", td.Name, fd.Name)
			}
			seen[fd.Name] = true
			d, err := r.parseExpr(strings.TrimSpace(fd.Type))
			if err != nil {
				return nil, fmt.Errorf("decl: %s.%s: %w", td.Name, fd.Name, err)
			}
			s.Field(fd.Name, d)
		}
	}
	return r, nil
}

func (r *Registry) parseExpr(expr string) (model.Descriptor, error) {
	switch {
	case expr == "":
		return model.Descriptor{}, errors.New("empty type expression")
	case strings.HasPrefix(expr, "?"):
		inner, err := r.parseExpr(strings.TrimSpace(expr[1:]))
		if err != nil {
			return model.Descriptor{}, err
		}
		return model.Nullable(inner), nil
	case strings.HasPrefix(expr, "[]"):
		inner, err := r.parseExpr(strings.TrimSpace(expr[2:]))
		if err != nil {
			return model.Descriptor{}, err
		}
		return model.ArrayOf(inner), nil
	case strings.HasPrefix(expr, "map[") && strings.HasSuffix(expr, "]"):
		inner, err := r.parseExpr(strings.TrimSpace(expr[4 : len(expr)-1]))
		if err != nil {
			return model.Descriptor{}, err
		}
		return model.MapOf(inner), nil
	case strings.HasPrefix(expr, "enum(") && strings.HasSuffix(expr, ")"):
		var members []string
		for _, m := range strings.Split(expr[5:len(expr)-1], ",") {
			if m = strings.TrimSpace(m); m != "" {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			return model.Descriptor{}, fmt.Errorf("enum without members in %q", expr)
		}
		return model.Enum(members...), nil
	}
	switch expr {
	case "string", "date":
		return model.String(), nil
	case "number", "integer":
		return model.Number(), nil
	case "boolean":
		return model.Boolean(), nil
	}
	if s, ok := r.types[expr]; ok {
		return model.Ref(s), nil
	}
	return model.Descriptor{}, fmt.Errorf("%w %q", ErrUnknownType, expr)
}
