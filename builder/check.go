package builder

import (
	"github.com/ezralim/woad"

	"gopkg.in/yaml.v3"
)

// Check compiles a check stage definition — a non-empty sequence of
// predicates — into a filtering transformer. An event passes the
// stage only if every predicate holds; an event that fails produces
// no output.
func (b *Builder) Check(def *yaml.Node, tr woad.Tracer) (woad.Transformer, error) {
	return b.checkClause(0, resolve(def), tr)
}
