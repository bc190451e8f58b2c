package jsonvet

import "iter"

// Validator is a rule over a document node. Validate yields every violation
// found; an empty sequence means the node is valid. Sequences are lazy and may
// be ranged over any number of times with the same result.
type Validator interface {
	Name() string
	Validate(n Node) iter.Seq[ValidationError]
}

// Collect materializes every error v reports for n.
func Collect(v Validator, n Node) Errors {
	var out Errors
	for e := range v.Validate(n) {
		out = append(out, e)
	}
	return out
}

// Check returns nil when n is valid, otherwise the collected Errors.
func Check(v Validator, n Node) error {
	if es := Collect(v, n); len(es) > 0 {
		return es
	}
	return nil
}

// Valid reports whether v accepts n. It stops at the first error.
func Valid(v Validator, n Node) bool {
	for range v.Validate(n) {
		return false
	}
	return true
}

// Empty is a sequence with no errors.
func Empty(func(ValidationError) bool) {}

// Single yields e once.
func Single(e ValidationError) iter.Seq[ValidationError] {
	return func(yield func(ValidationError) bool) { yield(e) }
}
