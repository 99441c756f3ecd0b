// Package combinator implements the transformer composition
// primitives resolved through the registry: chain (sequential
// composition) and broadcast (fan-out over branches with merged
// output).
package combinator

import (
	"fmt"

	"github.com/ezralim/woad"
)

// Register installs the chain and broadcast combinators into the
// registry.
func Register(reg *woad.Registry) error {
	if err := reg.RegisterCombinator(woad.CombinatorChain, Chain); err != nil {
		return err
	}
	return reg.RegisterCombinator(woad.CombinatorBroadcast, Broadcast)
}

// Chain composes transformers sequentially: the first registered
// transformer consumes the input stream and each subsequent one
// consumes its predecessor's output. An event dropped by one
// transformer never reaches the rest of the chain.
func Chain(ops []woad.Transformer) (woad.Transformer, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("chain combinator requires at least one transformer")
	}
	return func(in woad.Stream) woad.Stream {
		out := in
		for _, op := range ops {
			out = op(out)
		}
		return out
	}, nil
}

// Broadcast delivers each input event to every branch, invoking the
// branches in registration order, and merges the branch outputs into
// one stream in that same order. Branch invocation is synchronous: a
// branch runs to completion on an event before the next branch sees
// it, so branches may safely mutate the shared document without
// locking.
func Broadcast(ops []woad.Transformer) (woad.Transformer, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("broadcast combinator requires at least one transformer")
	}
	return func(in woad.Stream) woad.Stream {
		return func(yield func(*woad.Event) bool) {
			for e := range in {
				for _, op := range ops {
					for out := range op(woad.Once(e)) {
						if !yield(out) {
							return
						}
					}
				}
			}
		}
	}, nil
}
