package sse

import (
	"encoding/json"
	"fmt"
	"io"
)

// ContentEvent is the normalized downstream payload emitted by every relay
// endpoint: one JSON object per text delta, independent of which upstream
// dialect produced it.
type ContentEvent struct {
	Content string `json:"content"`
}

// WriteContent frames one text delta as a normalized SSE event:
//
//	data: {"content":"<delta>"}\n\n
//
// Writes are unbuffered; when w backs an io.Pipe connected to the client
// response, each call blocks until the delta reaches the client.
func WriteContent(w io.Writer, delta string) error {
	payload, err := json.Marshal(ContentEvent{Content: delta})
	if err != nil {
		return fmt.Errorf("encoding content event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("writing content event: %w", err)
	}

	return nil
}
