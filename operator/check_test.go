package operator_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ezralim/woad"
	"github.com/ezralim/woad/operator"

	"github.com/matryer/is"
)

func TestCheckFieldEquality(t *testing.T) {
	is := is.New(t)

	op, err := operator.Check(parse(t, `
- kind: alert
`), woad.NopTracer)
	is.NoErr(err)

	out := runOne(t, op, woad.Document{"kind": "alert"})
	is.Equal(len(out), 1)

	out = runOne(t, op, woad.Document{"kind": "metric"})
	is.Equal(len(out), 0)

	out = runOne(t, op, woad.Document{})
	is.Equal(len(out), 0)
}

func TestCheckNumericEquality(t *testing.T) {
	is := is.New(t)

	op, err := operator.Check(parse(t, `
- severity: 3
`), woad.NopTracer)
	is.NoErr(err)

	// Events decoded from JSON carry float64 where the definition
	// carries int; the comparison must still hold.
	out := runOne(t, op, woad.Document{"severity": float64(3)})
	is.Equal(len(out), 1)

	out = runOne(t, op, woad.Document{"severity": 3})
	is.Equal(len(out), 1)

	out = runOne(t, op, woad.Document{"severity": 4})
	is.Equal(len(out), 0)
}

func TestCheckReferenceEquality(t *testing.T) {
	is := is.New(t)

	op, err := operator.Check(parse(t, `
- observed: $expected
`), woad.NopTracer)
	is.NoErr(err)

	out := runOne(t, op, woad.Document{"observed": "x", "expected": "x"})
	is.Equal(len(out), 1)

	out = runOne(t, op, woad.Document{"observed": "x", "expected": "y"})
	is.Equal(len(out), 0)

	// A reference to a missing field never holds.
	out = runOne(t, op, woad.Document{"observed": "x"})
	is.Equal(len(out), 0)
}

func TestCheckConjunction(t *testing.T) {
	is := is.New(t)

	op, err := operator.Check(parse(t, `
- kind: alert
- severity: 3
`), woad.NopTracer)
	is.NoErr(err)

	out := runOne(t, op, woad.Document{"kind": "alert", "severity": 3})
	is.Equal(len(out), 1)

	out = runOne(t, op, woad.Document{"kind": "alert", "severity": 1})
	is.Equal(len(out), 0)
}

func TestCheckCELExpression(t *testing.T) {
	is := is.New(t)

	op, err := operator.Check(parse(t, `
- event.severity >= 3 && event.kind == "alert"
`), woad.NopTracer)
	is.NoErr(err)

	out := runOne(t, op, woad.Document{"kind": "alert", "severity": 5})
	is.Equal(len(out), 1)

	out = runOne(t, op, woad.Document{"kind": "alert", "severity": 1})
	is.Equal(len(out), 0)
}

func TestCheckCELRuntimeErrorFails(t *testing.T) {
	is := is.New(t)

	op, err := operator.Check(parse(t, `
- event.absent == "x"
`), woad.NopTracer)
	is.NoErr(err)

	// Looking up an absent field is an evaluation error; the
	// predicate fails instead of aborting the stream.
	out := runOne(t, op, woad.Document{})
	is.Equal(len(out), 0)
}

func TestCheckCELParseError(t *testing.T) {
	_, err := operator.Check(parse(t, `
- 'event.kind =='
`), woad.NopTracer)
	if err == nil {
		t.Fatal("expected an error for a malformed expression")
	}
	if !strings.Contains(err.Error(), "predicate 0") {
		t.Fatalf("error does not name the predicate: %v", err)
	}
}

func TestCheckCELNonBoolean(t *testing.T) {
	_, err := operator.Check(parse(t, `
- '1 + 1'
`), woad.NopTracer)
	if !errors.Is(err, woad.ErrTypeMismatch) {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestCheckBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		def  string
		want error
	}{
		{"not a sequence", "kind: alert", woad.ErrTypeMismatch},
		{"empty", "[]", woad.ErrEmptyClause},
		{"two pair predicate", "- a: 1\n  b: 2", woad.ErrTypeMismatch},
		{"numeric predicate", "- 42", woad.ErrTypeMismatch},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := operator.Check(parse(t, c.def), woad.NopTracer)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestCheckTracesOutcome(t *testing.T) {
	is := is.New(t)

	var buf woad.TraceBuffer
	op, err := operator.Check(parse(t, `
- kind: alert
`), buf.Trace)
	is.NoErr(err)

	runOne(t, op, woad.Document{"kind": "alert"})
	runOne(t, op, woad.Document{"kind": "metric"})

	joined := strings.Join(buf.Records(), "\n")
	is.True(strings.Contains(joined, "success"))
	is.True(strings.Contains(joined, "failure"))
}
