package dsl

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/i18n"
)

type anything struct{}

// Anything accepts every node.
func Anything() jsonvet.Validator { return anything{} }

func (anything) Name() string                                         { return "anything" }
func (anything) Validate(jsonvet.Node) iter.Seq[jsonvet.ValidationError] { return jsonvet.Empty }

// ---- type checks ----

type typeCheck struct {
	kinds []jsonvet.Kind
}

// TypeCheck accepts nodes whose kind is one of kinds.
func TypeCheck(kinds ...jsonvet.Kind) jsonvet.Validator {
	if len(kinds) == 0 {
		panic("dsl: TypeCheck: no kinds")
	}
	return typeCheck{kinds: append([]jsonvet.Kind(nil), kinds...)}
}

var (
	isNumber  = TypeCheck(jsonvet.KindNumber)
	isString  = TypeCheck(jsonvet.KindString)
	isBoolean = TypeCheck(jsonvet.KindBoolean)
	isNull    = TypeCheck(jsonvet.KindNull)
	isObject  = TypeCheck(jsonvet.KindObject)
	isArray   = TypeCheck(jsonvet.KindArray)
)

// IsNumber, IsString, IsBoolean, IsNull, IsObject and IsArray accept exactly
// one kind of node and report invalid_type otherwise.
func IsNumber() jsonvet.Validator  { return isNumber }
func IsString() jsonvet.Validator  { return isString }
func IsBoolean() jsonvet.Validator { return isBoolean }
func IsNull() jsonvet.Validator    { return isNull }
func IsObject() jsonvet.Validator  { return isObject }
func IsArray() jsonvet.Validator   { return isArray }

func (t typeCheck) Name() string {
	names := make([]string, len(t.kinds))
	for i, k := range t.kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

func (t typeCheck) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	k := jsonvet.KindOf(n)
	for _, want := range t.kinds {
		if k == want {
			return jsonvet.Empty
		}
	}
	return jsonvet.Single(invalidType(t.kinds...))
}

// invalidType builds the "Not a number." family of errors. The first kind
// carries its article; further kinds are joined with "or".
func invalidType(kinds ...jsonvet.Kind) jsonvet.ValidationError {
	parts := make([]string, len(kinds))
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
		parts[i] = names[i]
	}
	parts[0] = withArticle(kinds[0])
	expected := strings.Join(parts, " or ")
	return jsonvet.NewError(jsonvet.CodeInvalidType,
		i18n.T(i18n.InvalidType, map[string]string{"expected": expected}),
		map[string]any{"expected": names})
}

func withArticle(k jsonvet.Kind) string {
	switch k {
	case jsonvet.KindNull:
		return "'null'"
	case jsonvet.KindObject, jsonvet.KindArray:
		return "an " + k.String()
	default:
		return "a " + k.String()
	}
}

// ---- enum membership ----

type oneOf struct {
	options    []string
	ignoreCase bool
}

// OneOf accepts nodes whose primitive string form equals one of options.
// IgnoreCase(true) compares under Unicode case folding.
func OneOf(options []string, opts ...Option) jsonvet.Validator {
	o := collect(opts)
	return oneOf{options: append([]string(nil), options...), ignoreCase: o.ignoreCase}
}

func (v oneOf) Name() string { return "one of (" + quoteJoin(v.options) + ")" }

func (v oneOf) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	if s, ok := jsonvet.Stringify(n); ok {
		for _, opt := range v.options {
			if opt == s || (v.ignoreCase && strings.EqualFold(opt, s)) {
				return jsonvet.Empty
			}
		}
	}
	return jsonvet.Single(jsonvet.NewError(jsonvet.CodeInvalidEnum,
		i18n.T(i18n.InvalidEnum, map[string]string{"options": quoteJoin(v.options)}),
		map[string]any{"options": v.options, "ignoreCase": v.ignoreCase}))
}

func quoteJoin(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = `"` + s + `"`
	}
	return strings.Join(q, ", ")
}

// ---- regex ----

type regex struct {
	pattern string
	re      *regexp.Regexp
}

// Regex accepts nodes whose primitive string form fully matches pattern.
// Nodes without a string form are matched as "".
func Regex(pattern string) (jsonvet.Validator, error) {
	re, err := CompileFullMatch(pattern)
	if err != nil {
		return nil, err
	}
	return regex{pattern: pattern, re: re}, nil
}

// MustRegex is like Regex but panics on an invalid pattern.
func MustRegex(pattern string) jsonvet.Validator {
	v, err := Regex(pattern)
	if err != nil {
		panic(err)
	}
	return v
}

// CompileFullMatch compiles pattern anchored at both ends.
func CompileFullMatch(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("dsl: invalid regex %q: %w", pattern, err)
	}
	return re, nil
}

func (v regex) Name() string { return "match for regex " + v.pattern }

func (v regex) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	s, _ := jsonvet.Stringify(n)
	if v.re.MatchString(s) {
		return jsonvet.Empty
	}
	return jsonvet.Single(jsonvet.NewError(jsonvet.CodePattern,
		i18n.T(i18n.Pattern, map[string]string{"pattern": v.pattern}),
		map[string]any{"pattern": v.pattern}))
}

// ---- custom predicate ----

type custom struct {
	name string
	pred func(jsonvet.Node) bool
}

// Custom accepts nodes for which pred reports true.
func Custom(name string, pred func(jsonvet.Node) bool) jsonvet.Validator {
	if pred == nil {
		panic("dsl: Custom: nil predicate")
	}
	return custom{name: name, pred: pred}
}

func (v custom) Name() string { return v.name }

func (v custom) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	if v.pred(n) {
		return jsonvet.Empty
	}
	return jsonvet.Single(customError(v.name))
}

func customError(name string) jsonvet.ValidationError {
	return jsonvet.NewError(jsonvet.CodeCustom,
		i18n.T(i18n.Custom, map[string]string{"name": name}),
		map[string]any{"name": name})
}
