// Package dsl provides the validator algebra for jsonvet.
//
// Overview
//   - Type checks: IsNumber/IsString/IsBoolean/IsNull/IsObject/IsArray and TypeCheck(kinds...).
//   - Values: OneOf(options), Regex(pattern), Custom(name, pred), CEL(name, expr), IsUUID, IsRFC3339.
//   - Structure: HasKey, DiveInto, RequiredKeys, ValidKeys, ArrayOf, DictionaryOf.
//   - Logic: And (every child runs), Or (first success wins, one summary error otherwise).
//   - Cycles: Delayed(supply) resolves on each call; Named(name, v) pins a name.
//
// Every validator is immutable once built and safe for concurrent use. Shape
// violations are yielded as jsonvet.ValidationError values; only malformed
// construction (nil children, negative or inverted bounds) panics, and
// constructors that can fail on input (Regex, CEL) return an error instead.
//
// Error paths
//
// Containers prefix their children's paths with one segment each, so a path
// always reads from the document root to the failing node:
//
//	v := dsl.DiveInto("people", dsl.ArrayOf(dsl.IsNumber()))
//	// {"people": [1, "x"]} => people.1: Not a number.
//
// Example
//
//	person := dsl.And(
//	    dsl.IsObject(),
//	    dsl.RequiredKeys([]string{"name", "age"}, dsl.IgnoreCase(true)),
//	    dsl.DiveInto("name", dsl.IsString(), dsl.IgnoreCase(true)),
//	    dsl.DiveInto("age", dsl.IsNumber(), dsl.IgnoreCase(true)),
//	)
//	for e := range person.Validate(doc) {
//	    fmt.Println(e.Render())
//	}
package dsl
