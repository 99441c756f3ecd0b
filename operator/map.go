package operator

import (
	"fmt"

	"github.com/ezralim/woad"

	"gopkg.in/yaml.v3"
)

// Map builds a transformer that assigns one field of the event
// document. The definition is a single-pair object {field: value}. A
// value of the form "$path" copies the current value of another
// field; anything else is decoded once, at build time, and assigned
// as a literal. The transformer emits every event it consumes.
func Map(def *yaml.Node, tr woad.Tracer) (woad.Transformer, error) {
	def = resolve(def)
	if def == nil || def.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("map operation expects a {field: value} object: %w", woad.ErrTypeMismatch)
	}
	if len(def.Content) != 2 {
		return nil, fmt.Errorf("map operation expects a single {field: value} pair, got %d: %w",
			len(def.Content)/2, woad.ErrTypeMismatch)
	}

	path := def.Content[0].Value
	if path == "" {
		return nil, fmt.Errorf("map operation requires a field path: %w", woad.ErrTypeMismatch)
	}
	val := resolve(def.Content[1])
	if val == nil {
		return nil, fmt.Errorf("map %q: missing value: %w", path, woad.ErrTypeMismatch)
	}

	if ref, ok := reference(val); ok {
		return mapReference(path, ref, tr), nil
	}

	var lit any
	if err := val.Decode(&lit); err != nil {
		return nil, fmt.Errorf("map %q: decoding value: %w", path, err)
	}
	return mapValue(path, lit, tr), nil
}

// mapValue assigns a literal.
func mapValue(path string, lit any, tr woad.Tracer) woad.Transformer {
	return func(in woad.Stream) woad.Stream {
		return func(yield func(*woad.Event) bool) {
			for e := range in {
				e.Doc.Set(path, lit)
				tr(fmt.Sprintf("map %q <- %v", path, lit))
				if !yield(e) {
					return
				}
			}
		}
	}
}

// mapReference copies the referenced field's current value. A missing
// source field leaves the target untouched.
func mapReference(path, ref string, tr woad.Tracer) woad.Transformer {
	return func(in woad.Stream) woad.Stream {
		return func(yield func(*woad.Event) bool) {
			for e := range in {
				if v, ok := e.Doc.Get(ref); ok {
					e.Doc.Set(path, v)
					tr(fmt.Sprintf("map %q <- $%s", path, ref))
				} else {
					tr(fmt.Sprintf("map %q skipped, $%s not present", path, ref))
				}
				if !yield(e) {
					return
				}
			}
		}
	}
}
