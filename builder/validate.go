package builder

import (
	"fmt"

	"github.com/ezralim/woad"

	"gopkg.in/yaml.v3"
)

// Structural validation of stage definitions. Validation is pure:
// nothing here touches the registry or builds a transformer.

// validateStage checks the shape of every clause of a normalize stage
// before any clause is compiled: the stage is a non-empty sequence,
// every element is an object carrying a "map" member, and an element
// that also carries "check" carries exactly those two members.
func validateStage(def *yaml.Node) error {
	if def == nil || def.Kind != yaml.SequenceNode {
		return fmt.Errorf("normalize stage must be a sequence of clauses: %w", woad.ErrTypeMismatch)
	}
	if len(def.Content) == 0 {
		return fmt.Errorf("normalize stage has no clauses: %w", woad.ErrEmptyClause)
	}
	for i := range def.Content {
		el := resolve(def.Content[i])
		if el == nil || el.Kind != yaml.MappingNode {
			return fmt.Errorf("clause %d must be an object: %w", i, woad.ErrTypeMismatch)
		}
		if member(el, "map") == nil {
			return fmt.Errorf("clause %d is a conditional map object with no %q element: %w",
				i, "map", woad.ErrEmptyClause)
		}
		if member(el, "check") != nil && len(el.Content) != 4 {
			return fmt.Errorf("clause %d: expected the two elements %q and %q, got %d: %w",
				i, "check", "map", len(el.Content)/2, woad.ErrTypeMismatch)
		}
	}
	return nil
}

// validateMap checks that a "map" member is a non-empty object.
func validateMap(n *yaml.Node) error {
	if n == nil || n.Kind != yaml.MappingNode {
		return fmt.Errorf("%q element must be an object: %w", "map", woad.ErrTypeMismatch)
	}
	if len(n.Content) == 0 {
		return fmt.Errorf("%q element cannot be empty: %w", "map", woad.ErrEmptyClause)
	}
	return nil
}

// validateCheck checks that a "check" member is a non-empty sequence.
func validateCheck(n *yaml.Node) error {
	if n == nil || n.Kind != yaml.SequenceNode {
		return fmt.Errorf("%q element must be a sequence: %w", "check", woad.ErrTypeMismatch)
	}
	if len(n.Content) == 0 {
		return fmt.Errorf("%q element cannot be empty: %w", "check", woad.ErrEmptyClause)
	}
	return nil
}
