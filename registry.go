package woad

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Builder names consumed by the stage compilers.
const (
	OpMap               = "map"
	OpCheck             = "check"
	CombinatorChain     = "combinator.chain"
	CombinatorBroadcast = "combinator.broadcast"
)

// OperationBuilder constructs a transformer from an operation
// definition. The definition is the raw YAML node for the operation;
// the tracer is threaded into the transformer so that evaluation can
// record provenance.
type OperationBuilder func(def *yaml.Node, tr Tracer) (Transformer, error)

// CombinatorBuilder constructs a transformer that composes an ordered
// list of transformers.
type CombinatorBuilder func(ops []Transformer) (Transformer, error)

// Registry resolves builder names for the stage compilers. Operations
// and combinators live in separate namespaces, so a lookup cannot
// confuse the two categories. Registration happens at program start
// and duplicate names are rejected there; lookups are safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	ops         map[string]OperationBuilder
	combinators map[string]CombinatorBuilder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops:         make(map[string]OperationBuilder),
		combinators: make(map[string]CombinatorBuilder),
	}
}

// RegisterOperation adds an operation builder under the given name.
func (r *Registry) RegisterOperation(name string, b OperationBuilder) error {
	if name == "" {
		return fmt.Errorf("operation builder requires a name")
	}
	if b == nil {
		return fmt.Errorf("operation builder %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ops[name]; ok {
		return fmt.Errorf("operation builder %q already registered", name)
	}
	r.ops[name] = b
	return nil
}

// RegisterCombinator adds a combinator builder under the given name.
func (r *Registry) RegisterCombinator(name string, b CombinatorBuilder) error {
	if name == "" {
		return fmt.Errorf("combinator builder requires a name")
	}
	if b == nil {
		return fmt.Errorf("combinator builder %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.combinators[name]; ok {
		return fmt.Errorf("combinator builder %q already registered", name)
	}
	r.combinators[name] = b
	return nil
}

// Operation returns the operation builder registered under name.
func (r *Registry) Operation(name string) (OperationBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("operation %q: %w", name, ErrUnknownBuilder)
	}
	return b, nil
}

// Combinator returns the combinator builder registered under name.
func (r *Registry) Combinator(name string) (CombinatorBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.combinators[name]
	if !ok {
		return nil, fmt.Errorf("combinator %q: %w", name, ErrUnknownBuilder)
	}
	return b, nil
}
