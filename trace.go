package woad

import (
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Tracer records evaluation provenance. A tracer is supplied when a
// stage is compiled and is invoked by the resulting transformers as
// they process events. The engine treats it as an opaque sink.
type Tracer func(trace string)

// NopTracer discards every trace record.
func NopTracer(string) {}

// TraceBuffer accumulates trace records in the order they were
// emitted. It is safe for concurrent use, so a single buffer can be
// shared by stages processing different events.
type TraceBuffer struct {
	mu      sync.Mutex
	records []string
}

// Trace satisfies the Tracer contract; pass b.Trace when compiling a
// stage.
func (b *TraceBuffer) Trace(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, msg)
}

// Records returns a copy of the accumulated trace records.
func (b *TraceBuffer) Records() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.records))
	copy(out, b.records)
	return out
}

// Len is the number of records accumulated so far.
func (b *TraceBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Reset discards all accumulated records.
func (b *TraceBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
}

// String renders the accumulated records as a table, one row per
// record, in emission order.
func (b *TraceBuffer) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nWOAD TRACE\n")
	tw.AppendHeader(table.Row{"#", "Trace"})
	for i, r := range b.Records() {
		tw.AppendRow(table.Row{i + 1, r})
	}
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
