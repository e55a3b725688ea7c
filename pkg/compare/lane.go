package compare

import (
	"strings"
	"sync"
)

// Lane states.
const (
	StatePending   = "pending"
	StateStreaming = "streaming"
	StateDone      = "done"
	StateFailed    = "failed"
)

// FailurePlaceholder is recorded as a failed lane's response text so the
// transcript stays aligned across models.
const FailurePlaceholder = "Sorry, there was an error processing your request."

// Lane tracks one model's response within a fan-out turn. A lane moves
// pending -> streaming on the first delta, then settles as done or failed.
// Methods are safe for concurrent use.
type Lane struct {
	mu sync.Mutex

	model    string
	provider string
	state    string
	buf      strings.Builder
	err      error
}

// NewLane returns a pending lane for the model.
func NewLane(model, provider string) *Lane {
	return &Lane{
		model:    model,
		provider: provider,
		state:    StatePending,
	}
}

// Model returns the lane's model id.
func (l *Lane) Model() string {
	return l.model
}

// Provider returns the provider family serving the lane's model.
func (l *Lane) Provider() string {
	return l.provider
}

// ApplyDelta appends a text delta. The first delta moves the lane to
// streaming; deltas arriving after the lane settled are dropped.
func (l *Lane) ApplyDelta(delta string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StatePending:
		l.state = StateStreaming
	case StateDone, StateFailed:
		return
	}

	l.buf.WriteString(delta)
}

// Complete settles the lane as done.
func (l *Lane) Complete() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateFailed {
		return
	}
	l.state = StateDone
}

// Fail settles the lane as failed. Accumulated partial text is discarded in
// favor of the failure placeholder.
func (l *Lane) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateDone {
		return
	}
	l.state = StateFailed
	l.err = err
}

// State returns the lane's current state.
func (l *Lane) State() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the failure cause, or nil.
func (l *Lane) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Text returns the lane's response text: the accumulated stream for done
// lanes, the failure placeholder for failed ones.
func (l *Lane) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateFailed {
		return FailurePlaceholder
	}
	return l.buf.String()
}
