package llm

import "errors"

// ErrStreamDone signals that an upstream stream has ended cleanly (e.g. the
// OpenAI "[DONE]" sentinel or Anthropic's "message_stop" event). It is not a
// failure; callers should stop reading and close the downstream stream.
var ErrStreamDone = errors.New("stream done")
