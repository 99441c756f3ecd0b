package woad

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch reports a definition node with the wrong shape:
	// an object where a sequence was expected, a wrong member count,
	// and so on.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrEmptyClause reports a clause, map or check definition with no
	// members.
	ErrEmptyClause = errors.New("empty clause")

	// ErrUnknownBuilder reports a registry lookup for a name that was
	// never registered.
	ErrUnknownBuilder = errors.New("unknown builder")
)

// CompileError reports the failure of one clause of a stage
// definition. It names the clause and, when known, the member
// ("check" or "map") and field that failed, wrapping the underlying
// cause.
type CompileError struct {
	Clause int    // index of the clause in the stage definition
	Member string // "check" or "map", empty if the clause failed as a whole
	Field  string // field path within a map member, if any
	Err    error
}

func (e *CompileError) Error() string {
	switch {
	case e.Member != "" && e.Field != "":
		return fmt.Sprintf("clause %d, %q element, field %q: %v", e.Clause, e.Member, e.Field, e.Err)
	case e.Member != "":
		return fmt.Sprintf("clause %d, %q element: %v", e.Clause, e.Member, e.Err)
	default:
		return fmt.Sprintf("clause %d: %v", e.Clause, e.Err)
	}
}

func (e *CompileError) Unwrap() error { return e.Err }

// AssemblyError reports a failure while combining compiled clause
// transformers into the final stage transformer.
type AssemblyError struct {
	Stage string
	Err   error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembling %s stage: %v", e.Stage, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }
