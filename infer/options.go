package infer

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonvet/model"
)

// ErrUnknownField reports an override naming a field its type does not
// declare, or a type that is not part of the inferred schema.
var ErrUnknownField = errors.New("infer: unknown field")

type fieldKey struct{ typ, field string }

func (k fieldKey) String() string { return k.typ + "." + k.field }

// Options tunes inference. Values are immutable; every With/override method
// returns a modified copy. Use DefaultOptions as the starting point.
type Options struct {
	enumIgnoreCase   bool
	allowExtraFields bool
	required         map[fieldKey]struct{}
	optional         map[fieldKey]struct{}
	minCount         map[fieldKey]int
	maxCount         map[fieldKey]int
	// byName holds overrides keyed by type name only; BuildSchema checks them
	// against the types it emits.
	byName map[fieldKey]struct{}
	errs   []error
	logger *slog.Logger
}

// DefaultOptions folds enum case and allows extra fields.
func DefaultOptions() Options {
	return Options{enumIgnoreCase: true, allowExtraFields: true}
}

func (o Options) clone() Options {
	o.required = maps.Clone(o.required)
	o.optional = maps.Clone(o.optional)
	o.minCount = maps.Clone(o.minCount)
	o.maxCount = maps.Clone(o.maxCount)
	o.byName = maps.Clone(o.byName)
	o.errs = append([]error(nil), o.errs...)
	return o
}

// WithEnumIgnoreCase sets case folding for enum membership.
func (o Options) WithEnumIgnoreCase(on bool) Options {
	o.enumIgnoreCase = on
	return o
}

// WithAllowExtraFields sets whether objects may carry undeclared keys.
func (o Options) WithAllowExtraFields(on bool) Options {
	o.allowExtraFields = on
	return o
}

// WithLogger routes debug output of BuildSchema to l.
func (o Options) WithLogger(l *slog.Logger) Options {
	o.logger = l
	return o
}

// Required forces field of t to be required.
func (o Options) Required(t model.Type, field string) Options {
	o = o.clone()
	if k, ok := o.selector(t, field); ok {
		o.required = setAdd(o.required, k)
	}
	return o
}

// Optional forces field of t to be optional unless Required also names it.
func (o Options) Optional(t model.Type, field string) Options {
	o = o.clone()
	if k, ok := o.selector(t, field); ok {
		o.optional = setAdd(o.optional, k)
	}
	return o
}

// MinCount bounds the element count of an array or map field of t.
func (o Options) MinCount(t model.Type, field string, n int) Options {
	o = o.clone()
	if k, ok := o.boundSelector(t, field, n); ok {
		o.minCount = mapPut(o.minCount, k, n)
	}
	return o
}

// MaxCount bounds the element count of an array or map field of t.
func (o Options) MaxCount(t model.Type, field string, n int) Options {
	o = o.clone()
	if k, ok := o.boundSelector(t, field, n); ok {
		o.maxCount = mapPut(o.maxCount, k, n)
	}
	return o
}

// Err returns the selector errors recorded so far.
func (o Options) Err() error { return errors.Join(o.errs...) }

func (o *Options) selector(t model.Type, field string) (fieldKey, bool) {
	if t == nil {
		o.errs = append(o.errs, fmt.Errorf("%w: nil type for field %q", ErrUnknownField, field))
		return fieldKey{}, false
	}
	k := fieldKey{typ: t.Name(), field: field}
	if !model.HasField(t, field) {
		o.errs = append(o.errs, fmt.Errorf("%w: %s", ErrUnknownField, k))
		return fieldKey{}, false
	}
	return k, true
}

func (o *Options) boundSelector(t model.Type, field string, n int) (fieldKey, bool) {
	if n < 0 {
		o.errs = append(o.errs, fmt.Errorf("infer: negative count bound %d", n))
		return fieldKey{}, false
	}
	return o.selector(t, field)
}

func (o Options) isRequired(k fieldKey) bool {
	_, ok := o.required[k]
	return ok
}

func (o Options) isOptional(k fieldKey) bool {
	_, ok := o.optional[k]
	return ok
}

func (o Options) bounds(k fieldKey) (min, max *int) {
	if n, ok := o.minCount[k]; ok {
		min = &n
	}
	if n, ok := o.maxCount[k]; ok {
		max = &n
	}
	return min, max
}

func (o Options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

func setAdd(m map[fieldKey]struct{}, k fieldKey) map[fieldKey]struct{} {
	if m == nil {
		m = map[fieldKey]struct{}{}
	}
	m[k] = struct{}{}
	return m
}

func mapPut(m map[fieldKey]int, k fieldKey, n int) map[fieldKey]int {
	if m == nil {
		m = map[fieldKey]int{}
	}
	m[k] = n
	return m
}

// ---- YAML ----

type optionsFile struct {
	EnumIgnoreCase   *bool           `yaml:"enumIgnoreCase"`
	AllowExtraFields *bool           `yaml:"allowExtraFields"`
	Fields           []fieldOverride `yaml:"fields"`
}

type fieldOverride struct {
	Type     string `yaml:"type"`
	Field    string `yaml:"field"`
	Required bool   `yaml:"required"`
	Optional bool   `yaml:"optional"`
	Min      *int   `yaml:"min"`
	Max      *int   `yaml:"max"`
}

// LoadOptionsYAML reads options keyed by type name on top of DefaultOptions:
//
//	enumIgnoreCase: false
//	allowExtraFields: false
//	fields:
//	  - {type: Person, field: age, optional: true}
//	  - {type: Person, field: tags, min: 1, max: 5}
//
// Type and field names are checked by BuildSchema against the inferred types.
func LoadOptionsYAML(data []byte) (Options, error) {
	var f optionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Options{}, fmt.Errorf("infer: options: %w", err)
	}
	o := DefaultOptions()
	if f.EnumIgnoreCase != nil {
		o.enumIgnoreCase = *f.EnumIgnoreCase
	}
	if f.AllowExtraFields != nil {
		o.allowExtraFields = *f.AllowExtraFields
	}
	for i, fo := range f.Fields {
		if fo.Type == "" || fo.Field == "" {
			return Options{}, fmt.Errorf("infer: options: fields[%d]: type and field are required", i)
		}
		k := fieldKey{typ: fo.Type, field: fo.Field}
		o.byName = setAdd(o.byName, k)
		if fo.Required {
			o.required = setAdd(o.required, k)
		}
		if fo.Optional {
			o.optional = setAdd(o.optional, k)
		}
		if fo.Min != nil {
			if *fo.Min < 0 {
				return Options{}, fmt.Errorf("infer: options: %s: negative min %d", k, *fo.Min)
			}
			o.minCount = mapPut(o.minCount, k, *fo.Min)
		}
		if fo.Max != nil {
			if *fo.Max < 0 {
				return Options{}, fmt.Errorf("infer: options: %s: negative max %d", k, *fo.Max)
			}
			o.maxCount = mapPut(o.maxCount, k, *fo.Max)
		}
	}
	return o, nil
}
