// Package builder compiles declarative stage definitions into
// executable transformers. A stage definition is a YAML tree; the
// builder validates its shape, compiles each clause through the
// operations and combinators resolved from a registry, and assembles
// the per-clause transformers into a single stage transformer.
//
// All failures are compile-time. A definition either compiles
// completely or the builder returns a structured error naming the
// clause and member that caused it; nothing in a compiled stage fails
// during per-event execution.
package builder

import (
	"github.com/ezralim/woad"

	"gopkg.in/yaml.v3"
)

// Builder compiles stage definitions, resolving operation and
// combinator builders through the registry it was constructed with.
// A Builder is stateless beyond the registry reference and is safe
// for concurrent use.
type Builder struct {
	reg *woad.Registry
}

// New returns a builder that resolves through reg.
func New(reg *woad.Registry) *Builder {
	return &Builder{reg: reg}
}

// resolve follows document and alias nodes down to the node that
// carries the actual value.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// member returns the value node for the given key of a mapping node,
// or nil if the key is absent.
func member(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}
