package operator

import (
	"fmt"
	"reflect"

	"github.com/ezralim/woad"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"
)

// Check builds a transformer that filters events through a predicate
// sequence. The definition is a non-empty sequence; each entry is
// either a single-pair object {field: value}, holding when the
// document field equals the value ($reference values compare against
// the referenced field), or a string holding a CEL expression over
// the variable "event". The transformer emits an event only if every
// predicate holds, in definition order, and emits nothing otherwise.
//
// CEL expressions are compiled here, at build time; an expression
// that does not parse, check, or produce a boolean fails the build,
// not the evaluation.
func Check(def *yaml.Node, tr woad.Tracer) (woad.Transformer, error) {
	def = resolve(def)
	if def == nil || def.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("check operation expects a sequence of predicates: %w", woad.ErrTypeMismatch)
	}
	if len(def.Content) == 0 {
		return nil, fmt.Errorf("check operation requires at least one predicate: %w", woad.ErrEmptyClause)
	}

	env, err := cel.NewEnv(
		cel.Variable("event", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	preds := make([]predicate, 0, len(def.Content))
	for i := range def.Content {
		p, err := compilePredicate(env, resolve(def.Content[i]))
		if err != nil {
			return nil, fmt.Errorf("check predicate %d: %w", i, err)
		}
		preds = append(preds, p)
	}

	return func(in woad.Stream) woad.Stream {
		return func(yield func(*woad.Event) bool) {
			for e := range in {
				if !evalAll(preds, e, tr) {
					continue
				}
				if !yield(e) {
					return
				}
			}
		}
	}, nil
}

// predicate is one compiled check entry.
type predicate struct {
	desc string
	eval func(e *woad.Event) bool
}

func evalAll(preds []predicate, e *woad.Event, tr woad.Tracer) bool {
	for _, p := range preds {
		if !p.eval(e) {
			tr(fmt.Sprintf("check %s failure", p.desc))
			return false
		}
		tr(fmt.Sprintf("check %s success", p.desc))
	}
	return true
}

func compilePredicate(env *cel.Env, n *yaml.Node) (predicate, error) {
	switch {
	case n == nil:
		return predicate{}, fmt.Errorf("missing predicate: %w", woad.ErrTypeMismatch)

	case n.Kind == yaml.MappingNode:
		if len(n.Content) != 2 {
			return predicate{}, fmt.Errorf("field predicate expects a single {field: value} pair, got %d: %w",
				len(n.Content)/2, woad.ErrTypeMismatch)
		}
		return fieldPredicate(n.Content[0].Value, resolve(n.Content[1]))

	case n.Kind == yaml.ScalarNode && n.Tag == "!!str":
		return exprPredicate(env, n.Value)

	default:
		return predicate{}, fmt.Errorf("predicate must be a {field: value} object or an expression string: %w",
			woad.ErrTypeMismatch)
	}
}

// fieldPredicate holds when the document field equals the configured
// value. A $reference value compares against the referenced field; a
// reference to a missing field never holds.
func fieldPredicate(field string, val *yaml.Node) (predicate, error) {
	if field == "" {
		return predicate{}, fmt.Errorf("field predicate requires a field path: %w", woad.ErrTypeMismatch)
	}
	if val == nil {
		return predicate{}, fmt.Errorf("field predicate %q: missing value: %w", field, woad.ErrTypeMismatch)
	}

	if ref, ok := reference(val); ok {
		return predicate{
			desc: fmt.Sprintf("%q == $%s", field, ref),
			eval: func(e *woad.Event) bool {
				got, ok := e.Doc.Get(field)
				if !ok {
					return false
				}
				want, ok := e.Doc.Get(ref)
				return ok && looseEqual(got, want)
			},
		}, nil
	}

	var want any
	if err := val.Decode(&want); err != nil {
		return predicate{}, fmt.Errorf("field predicate %q: decoding value: %w", field, err)
	}
	return predicate{
		desc: fmt.Sprintf("%q == %v", field, want),
		eval: func(e *woad.Event) bool {
			got, ok := e.Doc.Get(field)
			return ok && looseEqual(got, want)
		},
	}, nil
}

// exprPredicate compiles a CEL expression over the "event" variable.
// A runtime evaluation error (for example a lookup of an absent
// field) makes the predicate fail, it does not abort the stream.
func exprPredicate(env *cel.Env, expr string) (predicate, error) {
	p, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return predicate{}, fmt.Errorf("parsing expression %q: %w", expr, iss.Err())
	}
	c, iss := env.Check(p)
	if iss != nil && iss.Err() != nil {
		return predicate{}, fmt.Errorf("checking expression %q: %w", expr, iss.Err())
	}
	out := c.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return predicate{}, fmt.Errorf("expression %q must produce a boolean, produces %s: %w",
			expr, out, woad.ErrTypeMismatch)
	}
	prg, err := env.Program(c)
	if err != nil {
		return predicate{}, fmt.Errorf("generating program for %q: %w", expr, err)
	}

	return predicate{
		desc: fmt.Sprintf("%q", expr),
		eval: func(e *woad.Event) bool {
			val, _, err := prg.Eval(map[string]any{"event": map[string]any(e.Doc)})
			if err != nil {
				return false
			}
			b, ok := val.Value().(bool)
			return ok && b
		},
	}, nil
}

// looseEqual compares two document values, treating all numeric types
// as one domain: configuration trees decode integers where events
// decoded from JSON carry float64.
func looseEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
