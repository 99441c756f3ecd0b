package operator_test

import (
	"errors"
	"testing"

	"github.com/ezralim/woad"
	"github.com/ezralim/woad/operator"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"
)

func parse(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(src), &n); err != nil {
		t.Fatalf("parsing definition: %v", err)
	}
	return &n
}

func runOne(t *testing.T, op woad.Transformer, doc woad.Document) []*woad.Event {
	t.Helper()
	return woad.Collect(op(woad.Once(&woad.Event{Doc: doc})))
}

func TestMapLiteral(t *testing.T) {
	is := is.New(t)

	op, err := operator.Map(parse(t, `srcip: 1.2.3.4`), woad.NopTracer)
	is.NoErr(err)

	doc := woad.Document{}
	out := runOne(t, op, doc)
	is.Equal(len(out), 1)

	v, ok := doc.Get("srcip")
	is.True(ok)
	is.Equal(v, "1.2.3.4")
}

func TestMapNestedPath(t *testing.T) {
	is := is.New(t)

	op, err := operator.Map(parse(t, `source.address: 10.0.0.1`), woad.NopTracer)
	is.NoErr(err)

	doc := woad.Document{}
	runOne(t, op, doc)

	v, ok := doc.Get("source.address")
	is.True(ok)
	is.Equal(v, "10.0.0.1")
}

func TestMapTypedLiterals(t *testing.T) {
	cases := []struct {
		def  string
		path string
		want any
	}{
		{`n: 7`, "n", 7},
		{`f: 1.5`, "f", 1.5},
		{`b: true`, "b", true},
		{`s: hello`, "s", "hello"},
	}

	for _, c := range cases {
		t.Run(c.def, func(t *testing.T) {
			op, err := operator.Map(parse(t, c.def), woad.NopTracer)
			if err != nil {
				t.Fatal(err)
			}
			doc := woad.Document{}
			runOne(t, op, doc)
			got, _ := doc.Get(c.path)
			if got != c.want {
				t.Fatalf("got %v (%T), want %v (%T)", got, got, c.want, c.want)
			}
		})
	}
}

func TestMapReference(t *testing.T) {
	is := is.New(t)

	op, err := operator.Map(parse(t, `dst: $src`), woad.NopTracer)
	is.NoErr(err)

	doc := woad.Document{"src": 42}
	runOne(t, op, doc)

	v, ok := doc.Get("dst")
	is.True(ok)
	is.Equal(v, 42)
}

func TestMapReferenceMissing(t *testing.T) {
	is := is.New(t)

	op, err := operator.Map(parse(t, `dst: $absent`), woad.NopTracer)
	is.NoErr(err)

	doc := woad.Document{}
	out := runOne(t, op, doc)

	// The event still flows; the target field stays unset.
	is.Equal(len(out), 1)
	_, ok := doc.Get("dst")
	is.True(!ok)
}

func TestMapBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		def  string
	}{
		{"two pairs", "a: 1\nb: 2"},
		{"not an object", "- 1"},
		{"scalar", "just a string"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := operator.Map(parse(t, c.def), woad.NopTracer)
			if !errors.Is(err, woad.ErrTypeMismatch) {
				t.Fatalf("err = %v, want ErrTypeMismatch", err)
			}
		})
	}
}

func TestMapEmitsEveryEvent(t *testing.T) {
	is := is.New(t)

	op, err := operator.Map(parse(t, `seen: true`), woad.NopTracer)
	is.NoErr(err)

	events := []*woad.Event{woad.NewEvent(), woad.NewEvent(), woad.NewEvent()}
	in := func(yield func(*woad.Event) bool) {
		for _, e := range events {
			if !yield(e) {
				return
			}
		}
	}

	out := woad.Collect(op(in))
	is.Equal(len(out), 3)
	for _, e := range out {
		v, _ := e.Doc.Get("seen")
		is.Equal(v, true)
	}
}
