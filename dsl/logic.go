package dsl

import (
	"iter"
	"strconv"
	"strings"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/i18n"
)

type and struct{ children []jsonvet.Validator }

// And runs every child in order and concatenates their errors. It never
// short-circuits.
func And(children ...jsonvet.Validator) jsonvet.Validator {
	return and{children: checkChildren("And", children)}
}

func (v and) Name() string { return "all of (" + joinNames(v.children) + ")" }

func (v and) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		for _, c := range v.children {
			for e := range c.Validate(n) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

type or struct{ children []jsonvet.Validator }

// Or succeeds as soon as one child reports no errors. Otherwise it yields a
// single summary error; the children's own errors are discarded.
func Or(children ...jsonvet.Validator) jsonvet.Validator {
	return or{children: checkChildren("Or", children)}
}

func (v or) Name() string { return "one of (" + joinNames(v.children) + ")" }

func (v or) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		for _, c := range v.children {
			if jsonvet.Valid(c, n) {
				return
			}
		}
		yield(jsonvet.NewError(jsonvet.CodeNoMatch,
			i18n.T(i18n.NoMatch, map[string]string{"name": v.Name()}),
			map[string]any{"alternatives": len(v.children)}))
	}
}

type delayed struct{ supply func() jsonvet.Validator }

// Delayed resolves its validator through supply on every Name and Validate
// call. It lets a validator refer to one that does not exist yet.
//
// Name is forwarded too, so a validator that reaches itself through Delayed
// must be wrapped in Named to give the cycle a fixed name:
//
//	var node jsonvet.Validator
//	node = Named("Node", And(IsObject(), DiveInto("next", Delayed(func() jsonvet.Validator { return node }))))
func Delayed(supply func() jsonvet.Validator) jsonvet.Validator {
	if supply == nil {
		panic("dsl: Delayed: nil supplier")
	}
	return delayed{supply: supply}
}

func (v delayed) Name() string { return v.supply().Name() }

func (v delayed) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		for e := range v.supply().Validate(n) {
			if !yield(e) {
				return
			}
		}
	}
}

type named struct {
	name  string
	inner jsonvet.Validator
}

// Named gives v a fixed name. Compiled model types use it so that naming a
// cyclic validator does not recurse.
func Named(name string, v jsonvet.Validator) jsonvet.Validator {
	if v == nil {
		panic("dsl: Named: nil validator")
	}
	return named{name: name, inner: v}
}

func (v named) Name() string { return v.name }

func (v named) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return v.inner.Validate(n)
}

func checkChildren(who string, children []jsonvet.Validator) []jsonvet.Validator {
	for i, c := range children {
		if c == nil {
			panic("dsl: " + who + ": nil child at index " + strconv.Itoa(i))
		}
	}
	return append([]jsonvet.Validator(nil), children...)
}

func joinNames(vs []jsonvet.Validator) string {
	names := make([]string, len(vs))
	for i, c := range vs {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}
