// Package woad provides the core abstractions of a small event
// normalization engine: mutable event documents, synchronous event
// streams, the Transformer function type that stages are built from,
// and the registry through which stage compilers resolve the
// operations and combinators they compose.
//
// Woad itself does not define what a stage looks like. Stage
// compilers (see the builder package) read a declarative definition
// and assemble transformers resolved from a Registry; operation and
// combinator implementations (see the operator and combinator
// packages) are registered by the calling application.
//
// Typical use is as follows:
//
//  1. Create a Registry and register the operations and combinators
//     your stages need
//  2. Parse a stage definition (a YAML tree)
//  3. Compile it with a stage compiler from the builder package
//  4. Feed events through the resulting Transformer
//
// # Event Ownership
//
// A transformer may mutate the document of every event it sees, in
// place. The engine serializes work per event: within one stage
// invocation the document is owned exclusively by the calling stream,
// and composed transformers run strictly in order. If the hosting
// application processes different events concurrently, each event
// must carry its own document; documents must never be shared across
// events.
package woad
