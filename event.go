package woad

import "strings"

// Document is the mutable payload of an event. Fields are addressed
// with dotted paths ("source.ip"); intermediate objects are created
// on demand when a path is set.
type Document map[string]any

// Event is a single record moving through a stage. The document is
// mutated in place by the transformers that process the event.
type Event struct {
	Doc Document
}

// NewEvent returns an event with an empty document.
func NewEvent() *Event {
	return &Event{Doc: Document{}}
}

// Get returns the value at the dotted path, and whether it is present.
func (d Document) Get(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores the value at the dotted path, creating intermediate
// objects as needed. An intermediate value that is not an object is
// replaced by one; the last writer wins.
func (d Document) Set(path string, v any) {
	parts := strings.Split(path, ".")
	m := map[string]any(d)
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}
