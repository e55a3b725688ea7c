package llm

// Message roles. Only user and assistant messages travel over the relay
// wire; system instructions are carried separately in ChatRequest and
// attached per the upstream's own convention by each provider adapter.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation. Content is plain
// text. Messages are immutable once appended, except the trailing assistant
// message of an in-flight stream, which grows by appended deltas until the
// stream ends.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
