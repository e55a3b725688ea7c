package session

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a session id does not exist in the store.
var ErrNotFound = errors.New("session not found")

// Summary is a session listing entry, enough to render a picker without
// loading full transcripts.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the session persistence driver interface. Implementations must
// be safe for concurrent use. Save is an upsert stamping a monotonically
// advancing UpdatedAt; last writer wins on concurrent saves of the same id.
type Store interface {
	// Load returns a copy of the session, or ErrNotFound.
	Load(id string) (*Session, error)

	// Save upserts the session and stamps UpdatedAt.
	Save(s *Session) error

	// Delete removes exactly the named session, or returns ErrNotFound.
	Delete(id string) error

	// ListSummaries returns all sessions newest-first by UpdatedAt.
	ListSummaries() ([]Summary, error)
}
