// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// reader and writer for the quorum relay. The reader parses events from an
// upstream LLM provider's byte stream; the writer emits the relay's
// normalized downstream framing.
//
// This package intentionally does NOT provide full SSE server capabilities
// (retry, last-event-id replay, etc.).
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE spec, multiple data fields are joined
	// with a single newline).
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}
