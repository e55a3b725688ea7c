// Package session defines the persisted chat session model and the storage
// driver interface. Sessions come in two shapes: single-model conversations
// and multi-model comparisons where each turn fans out to several models.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/utils"
)

// Session types.
const (
	TypeSingle  = "single"
	TypeCompare = "compare"
)

// Placeholder titles assigned at creation, replaced by the first user
// prompt on the first completed turn.
const (
	PlaceholderTitleSingle  = "New Chat"
	PlaceholderTitleCompare = "New Comparison"
)

// titleMaxLen bounds titles derived from the first user prompt.
const titleMaxLen = 50

// CompareTurn is one turn of a comparison session. A user turn carries the
// prompt keyed under every compared model; an assistant turn carries each
// model's full response keyed by model id.
type CompareTurn struct {
	Role           string            `json:"role"`
	ContentByModel map[string]string `json:"contentByModel"`
}

// Session is a persisted conversation. Model and Messages are populated for
// single sessions; CompareTurns and Models for comparison sessions.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Model    string        `json:"model,omitempty"`
	Messages []llm.Message `json:"messages,omitempty"`

	Models       []string      `json:"models,omitempty"`
	CompareTurns []CompareTurn `json:"compareTurns,omitempty"`
}

// New returns a fresh session of the given type with a placeholder title.
func New(sessionType string) *Session {
	title := PlaceholderTitleSingle
	if sessionType == TypeCompare {
		title = PlaceholderTitleCompare
	}

	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Title:     title,
		Type:      sessionType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RetitleFromPrompt replaces a placeholder title with a prefix of the first
// user prompt. Established titles are left alone.
func (s *Session) RetitleFromPrompt(prompt string) {
	if s.Title != PlaceholderTitleSingle && s.Title != PlaceholderTitleCompare {
		return
	}
	if prompt == "" {
		return
	}
	s.Title = utils.TruncateClean(prompt, titleMaxLen)
}

// HasPlaceholderTitle reports whether the session still carries its
// creation-time title.
func (s *Session) HasPlaceholderTitle() bool {
	return s.Title == PlaceholderTitleSingle || s.Title == PlaceholderTitleCompare
}

// Clone returns a deep copy, so drivers can hand out sessions without
// aliasing their internal state.
func (s *Session) Clone() *Session {
	out := *s

	if s.Messages != nil {
		out.Messages = make([]llm.Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}

	if s.Models != nil {
		out.Models = make([]string, len(s.Models))
		copy(out.Models, s.Models)
	}

	if s.CompareTurns != nil {
		out.CompareTurns = make([]CompareTurn, len(s.CompareTurns))
		for i, turn := range s.CompareTurns {
			cloned := CompareTurn{Role: turn.Role}
			if turn.ContentByModel != nil {
				cloned.ContentByModel = make(map[string]string, len(turn.ContentByModel))
				for k, v := range turn.ContentByModel {
					cloned.ContentByModel[k] = v
				}
			}
			out.CompareTurns[i] = cloned
		}
	}

	return &out
}

// NextUpdate returns the timestamp a driver should stamp on a saved session.
// Wall clocks can stand still or step backwards between saves; the returned
// value always advances past prev so ordering by UpdatedAt is stable.
func NextUpdate(prev, now time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}
