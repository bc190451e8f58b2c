package dsl

import (
	"iter"
	"strconv"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/i18n"
)

type arrayOf struct {
	elem     jsonvet.Validator
	min, max *int
}

// ArrayOf validates every element of an array with elem, prefixing error
// paths with the element index. Count errors (MinCount/MaxCount) are reported
// at the array itself before any element error.
func ArrayOf(elem jsonvet.Validator, opts ...Option) jsonvet.Validator {
	if elem == nil {
		panic("dsl: ArrayOf: nil element validator")
	}
	o := collect(opts)
	o.checkBounds("ArrayOf")
	return arrayOf{elem: elem, min: o.min, max: o.max}
}

func (v arrayOf) Name() string { return "array of " + v.elem.Name() }

func (v arrayOf) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		arr, ok := jsonvet.ArrayElems(n)
		if !ok {
			yield(invalidType(jsonvet.KindArray))
			return
		}
		for _, e := range countErrors(len(arr), v.min, v.max, i18n.ArrayTooSmall, i18n.ArrayTooBig) {
			if !yield(e) {
				return
			}
		}
		for i, x := range arr {
			seg := strconv.Itoa(i)
			for e := range v.elem.Validate(x) {
				if !yield(e.Wrap(seg)) {
					return
				}
			}
		}
	}
}
