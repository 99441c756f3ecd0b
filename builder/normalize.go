package builder

import (
	"github.com/ezralim/woad"

	"gopkg.in/yaml.v3"
)

// Normalize compiles a normalize stage definition into a single
// transformer. The definition is a sequence of clauses; each clause
// is either an unconditional field mapping ({map: {...}}) or a
// conditional one ({check: [...], map: {...}}). The compiled stage
// applies every clause to each incoming event and emits exactly one
// event per input, carrying the document as mutated by all clauses.
//
// The definition is read, never modified. Compiling the same
// definition twice yields two independent transformers with identical
// behavior.
func (b *Builder) Normalize(def *yaml.Node, tr woad.Tracer) (woad.Transformer, error) {
	def = resolve(def)
	if err := validateStage(def); err != nil {
		return nil, err
	}

	ops := make([]woad.Transformer, 0, len(def.Content))
	for i := range def.Content {
		el := resolve(def.Content[i])

		var op woad.Transformer
		var err error
		if member(el, "check") != nil {
			op, err = b.conditionalMap(i, el, tr)
		} else {
			op, err = b.mapClause(i, member(el, "map"), tr)
		}
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	return b.assemble("normalize", ops)
}

// mapClause compiles a "map" member into one transformer. Each
// (field, value) pair becomes one "map" operation; the operations are
// chained in insertion order. Pairs are independent, so chaining only
// fixes the order of the writes, not a data dependency.
func (b *Builder) mapClause(clause int, def *yaml.Node, tr woad.Tracer) (woad.Transformer, error) {
	if err := validateMap(def); err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "map", Err: err}
	}

	build, err := b.reg.Operation(woad.OpMap)
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "map", Err: err}
	}
	chain, err := b.reg.Combinator(woad.CombinatorChain)
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "map", Err: err}
	}

	ops := make([]woad.Transformer, 0, len(def.Content)/2)
	for i := 0; i+1 < len(def.Content); i += 2 {
		key, val := def.Content[i], def.Content[i+1]

		// The map operation expects a single {field: value} object.
		pair := &yaml.Node{
			Kind:    yaml.MappingNode,
			Tag:     "!!map",
			Content: []*yaml.Node{key, val},
		}
		op, err := build(pair, tr)
		if err != nil {
			return nil, &woad.CompileError{Clause: clause, Member: "map", Field: key.Value, Err: err}
		}
		ops = append(ops, op)
	}

	combined, err := chain(ops)
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "map", Err: err}
	}
	return combined, nil
}

// checkClause compiles a "check" member into one transformer. The
// whole predicate sequence goes to a single "check" operation, which
// owns the conjunction semantics; the result is passed through a
// one-element chain so every compiled clause has the same shape.
func (b *Builder) checkClause(clause int, def *yaml.Node, tr woad.Tracer) (woad.Transformer, error) {
	if err := validateCheck(def); err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "check", Err: err}
	}

	build, err := b.reg.Operation(woad.OpCheck)
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "check", Err: err}
	}
	chain, err := b.reg.Combinator(woad.CombinatorChain)
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "check", Err: err}
	}

	op, err := build(def, tr)
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "check", Err: err}
	}

	combined, err := chain([]woad.Transformer{op})
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Member: "check", Err: err}
	}
	return combined, nil
}

// conditionalMap compiles a {check, map} clause. The two members
// compile independently, each failure naming its member, and are then
// chained check-first: an event that fails the check never reaches
// the map transformer, and the clause emits nothing for it.
func (b *Builder) conditionalMap(clause int, el *yaml.Node, tr woad.Tracer) (woad.Transformer, error) {
	check, err := b.checkClause(clause, member(el, "check"), tr)
	if err != nil {
		return nil, err
	}
	mp, err := b.mapClause(clause, member(el, "map"), tr)
	if err != nil {
		return nil, err
	}

	chain, err := b.reg.Combinator(woad.CombinatorChain)
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Err: err}
	}
	combined, err := chain([]woad.Transformer{check, mp})
	if err != nil {
		return nil, &woad.CompileError{Clause: clause, Err: err}
	}
	return combined, nil
}

// assemble combines the per-clause transformers into the stage
// transformer. The clauses disagree on output arity: an unconditional
// map emits one event per input, a conditional map emits zero or one.
// Chaining the clauses would let a clause that emits nothing starve
// the rest of their input, so instead every clause becomes a broadcast
// branch whose output is drained, and a terminal passthrough branch —
// the only one allowed to publish — emits the shared document after
// all clauses have had their chance to mutate it. Broadcast invokes
// branches in registration order, one event at a time, so the
// terminal branch always observes the fully mutated document.
func (b *Builder) assemble(stage string, ops []woad.Transformer) (woad.Transformer, error) {
	broadcast, err := b.reg.Combinator(woad.CombinatorBroadcast)
	if err != nil {
		return nil, &woad.AssemblyError{Stage: stage, Err: err}
	}

	branches := make([]woad.Transformer, 0, len(ops)+1)
	for _, op := range ops {
		branches = append(branches, drained(op))
	}
	branches = append(branches, passthrough)

	combined, err := broadcast(branches)
	if err != nil {
		return nil, &woad.AssemblyError{Stage: stage, Err: err}
	}
	return combined, nil
}

// drained runs op for its side effects and suppresses every event it
// emits.
func drained(op woad.Transformer) woad.Transformer {
	return func(in woad.Stream) woad.Stream {
		return func(yield func(*woad.Event) bool) {
			for range op(in) {
			}
		}
	}
}

// passthrough emits its input unchanged.
func passthrough(in woad.Stream) woad.Stream { return in }
