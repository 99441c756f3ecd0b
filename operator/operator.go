// Package operator implements the field-mapping and predicate
// operations that stage compilers resolve through the registry. The
// map operation assigns one field of the event document, from a
// literal or from another field ($reference). The check operation
// filters events through a predicate sequence; predicates are field
// equalities or CEL expressions over the event document.
package operator

import (
	"github.com/ezralim/woad"

	"gopkg.in/yaml.v3"
)

// Register installs the map and check operations into the registry.
func Register(reg *woad.Registry) error {
	if err := reg.RegisterOperation(woad.OpMap, Map); err != nil {
		return err
	}
	return reg.RegisterOperation(woad.OpCheck, Check)
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

// reference reports whether the scalar is a $field reference and
// returns the referenced path.
func reference(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" {
		return "", false
	}
	if len(n.Value) < 2 || n.Value[0] != '$' {
		return "", false
	}
	return n.Value[1:], true
}
