package woad

import "iter"

// Stream is a synchronous, ordered sequence of events. A consumer
// pulls events one at a time; a producer runs only while being
// consumed. Because streams are pull-driven, a transformer composed
// from several others processes one event to completion before the
// next is produced, which is what stage compilers rely on for their
// ordering guarantees.
type Stream = iter.Seq[*Event]

// Transformer maps an event stream to an event stream. Transformers
// are constructed once, by an OperationBuilder or a CombinatorBuilder,
// and are then immutable: they carry no per-event state and may be
// applied to any number of streams, concurrently, as long as the
// events themselves are not shared.
//
// A transformer may emit fewer events than it consumes (a filter), but
// never blocks and never reorders.
type Transformer func(Stream) Stream

// Once returns a stream carrying the single event e.
func Once(e *Event) Stream {
	return func(yield func(*Event) bool) {
		yield(e)
	}
}

// Collect drains a stream into a slice.
func Collect(s Stream) []*Event {
	var out []*Event
	for e := range s {
		out = append(out, e)
	}
	return out
}
