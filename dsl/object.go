package dsl

import (
	"iter"
	"strconv"
	"strings"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/i18n"
)

type hasKey struct {
	key        string
	ignoreCase bool
}

// HasKey requires an object holding key.
func HasKey(key string, opts ...Option) jsonvet.Validator {
	return hasKey{key: key, ignoreCase: collect(opts).ignoreCase}
}

func (v hasKey) Name() string { return "has property " + v.key }

func (v hasKey) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	if jsonvet.KindOf(n) != jsonvet.KindObject {
		return jsonvet.Single(invalidType(jsonvet.KindObject))
	}
	if _, ok := jsonvet.ObjectGet(n, v.key, v.ignoreCase); ok {
		return jsonvet.Empty
	}
	return jsonvet.Single(jsonvet.NewError(jsonvet.CodeMissingKey,
		i18n.T(i18n.MissingKey, map[string]string{"key": v.key}),
		map[string]any{"key": v.key}))
}

type diveInto struct {
	key        string
	child      jsonvet.Validator
	ignoreCase bool
}

// DiveInto runs child on the value under key and prefixes its error paths with
// the key as spelled in the document. Non-objects and absent keys yield
// nothing; pair it with RequiredKeys or HasKey to enforce presence.
func DiveInto(key string, child jsonvet.Validator, opts ...Option) jsonvet.Validator {
	if child == nil {
		panic("dsl: DiveInto: nil child for key " + strconv.Quote(key))
	}
	return diveInto{key: key, child: child, ignoreCase: collect(opts).ignoreCase}
}

func (v diveInto) Name() string {
	return "value for '" + v.key + "' satisfies " + v.child.Name()
}

func (v diveInto) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		k, val, ok := jsonvet.ObjectFind(n, v.key, v.ignoreCase)
		if !ok {
			return
		}
		for e := range v.child.Validate(val) {
			if !yield(e.Wrap(k)) {
				return
			}
		}
	}
}

type requiredKeys struct {
	keys       []string
	ignoreCase bool
}

// RequiredKeys reports each key missing from an object, in declared order.
// Non-objects yield nothing.
func RequiredKeys(keys []string, opts ...Option) jsonvet.Validator {
	return requiredKeys{keys: append([]string(nil), keys...), ignoreCase: collect(opts).ignoreCase}
}

func (v requiredKeys) Name() string {
	return "object with required keys: [" + singleQuoteJoin(v.keys) + "]"
}

func (v requiredKeys) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		if jsonvet.KindOf(n) != jsonvet.KindObject {
			return
		}
		for _, k := range v.keys {
			if _, ok := jsonvet.ObjectGet(n, k, v.ignoreCase); ok {
				continue
			}
			e := jsonvet.NewError(jsonvet.CodeRequired,
				i18n.T(i18n.Required, map[string]string{"key": k}),
				map[string]any{"key": k})
			if !yield(e) {
				return
			}
		}
	}
}

type validKeys struct {
	keys       []string
	ignoreCase bool
}

// ValidKeys reports each object key outside the allowed set, in document
// order.
func ValidKeys(allowed []string, opts ...Option) jsonvet.Validator {
	return validKeys{keys: append([]string(nil), allowed...), ignoreCase: collect(opts).ignoreCase}
}

func (v validKeys) Name() string {
	return "object with valid keys: [" + singleQuoteJoin(v.keys) + "]"
}

func (v validKeys) allowed(k string) bool {
	for _, a := range v.keys {
		if a == k || (v.ignoreCase && strings.EqualFold(a, k)) {
			return true
		}
	}
	return false
}

func (v validKeys) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		keys, ok := jsonvet.ObjectKeys(n)
		if !ok {
			yield(invalidType(jsonvet.KindObject))
			return
		}
		for _, k := range keys {
			if v.allowed(k) {
				continue
			}
			e := jsonvet.NewError(jsonvet.CodeUnknownKey,
				i18n.T(i18n.UnknownKey, map[string]string{"key": k}),
				map[string]any{"key": k})
			if !yield(e) {
				return
			}
		}
	}
}

type dictionaryOf struct {
	elem     jsonvet.Validator
	min, max *int
}

// DictionaryOf validates every property value of an object with elem.
// MinCount and MaxCount bound the property count; count errors come first.
func DictionaryOf(elem jsonvet.Validator, opts ...Option) jsonvet.Validator {
	if elem == nil {
		panic("dsl: DictionaryOf: nil element validator")
	}
	o := collect(opts)
	o.checkBounds("DictionaryOf")
	return dictionaryOf{elem: elem, min: o.min, max: o.max}
}

func (v dictionaryOf) Name() string { return "dictionary of (string, " + v.elem.Name() + ")" }

func (v dictionaryOf) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		keys, ok := jsonvet.ObjectKeys(n)
		if !ok {
			yield(invalidType(jsonvet.KindObject))
			return
		}
		for _, e := range countErrors(len(keys), v.min, v.max, i18n.ObjectTooSmall, i18n.ObjectTooBig) {
			if !yield(e) {
				return
			}
		}
		for _, k := range keys {
			val, _ := jsonvet.ObjectGet(n, k, false)
			for e := range v.elem.Validate(val) {
				if !yield(e.Wrap(k)) {
					return
				}
			}
		}
	}
}

// countErrors reports a count outside [min, max] using the given message keys.
func countErrors(count int, min, max *int, smallKey, bigKey string) []jsonvet.ValidationError {
	var out []jsonvet.ValidationError
	if min != nil && count < *min {
		out = append(out, jsonvet.NewError(jsonvet.CodeTooSmall,
			i18n.T(smallKey, map[string]string{"count": strconv.Itoa(count), "min": strconv.Itoa(*min)}),
			map[string]any{"count": count, "min": *min}))
	}
	if max != nil && count > *max {
		out = append(out, jsonvet.NewError(jsonvet.CodeTooBig,
			i18n.T(bigKey, map[string]string{"count": strconv.Itoa(count), "max": strconv.Itoa(*max)}),
			map[string]any{"count": count, "max": *max}))
	}
	return out
}

func singleQuoteJoin(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = "'" + s + "'"
	}
	return strings.Join(q, ", ")
}
