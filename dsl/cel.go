package dsl

import (
	"fmt"
	"iter"

	"github.com/google/cel-go/cel"

	"github.com/reoring/jsonvet"
)

type celCheck struct {
	name string
	expr string
	prg  cel.Program
}

var celEnv = func() *cel.Env {
	env, err := cel.NewEnv(cel.Variable("self", cel.DynType))
	if err != nil {
		panic(fmt.Sprintf("dsl: cel environment: %v", err))
	}
	return env
}()

// CEL accepts nodes for which the boolean CEL expression expr, evaluated with
// the node bound to self, is true. Evaluation errors count as failures.
func CEL(name, expr string) (jsonvet.Validator, error) {
	ast, iss := celEnv.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("dsl: cel %q: %w", expr, iss.Err())
	}
	prg, err := celEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: cel %q: %w", expr, err)
	}
	return celCheck{name: name, expr: expr, prg: prg}, nil
}

// MustCEL is like CEL but panics on a bad expression.
func MustCEL(name, expr string) jsonvet.Validator {
	v, err := CEL(name, expr)
	if err != nil {
		panic(err)
	}
	return v
}

func (v celCheck) Name() string { return v.name }

func (v celCheck) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	return func(yield func(jsonvet.ValidationError) bool) {
		out, _, err := v.prg.Eval(map[string]any{"self": jsonvet.Plain(n)})
		if err == nil {
			if b, ok := out.Value().(bool); ok && b {
				return
			}
		}
		e := customError(v.name)
		e.Params["expr"] = v.expr
		if err != nil {
			e.Params["reason"] = err.Error()
		}
		yield(e)
	}
}
