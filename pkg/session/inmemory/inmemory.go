// Package inmemory implements the session store in process memory. Used by
// tests and by the memory sessions driver; contents do not survive restarts.
package inmemory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/quorumchat/quorum/pkg/session"
)

// Driver stores sessions in a map guarded by a mutex.
type Driver struct {
	mu       sync.Mutex
	sessions map[string]*session.Session

	now func() time.Time
}

// New returns an empty in-memory session store.
func New() *Driver {
	return &Driver{
		sessions: make(map[string]*session.Session),
		now:      time.Now,
	}
}

// WithClock replaces the driver's clock. Used by tests.
func (d *Driver) WithClock(now func() time.Time) *Driver {
	d.now = now
	return d
}

// Load returns a copy of the session, or session.ErrNotFound.
func (d *Driver) Load(id string) (*session.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}

	return s.Clone(), nil
}

// Save upserts the session and stamps a monotonically advancing UpdatedAt.
func (d *Driver) Save(s *session.Session) error {
	if s == nil {
		return errors.New("cannot save nil session")
	}
	if s.ID == "" {
		return errors.New("cannot save session without id")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	stored := s.Clone()

	if existing, ok := d.sessions[s.ID]; ok {
		stored.UpdatedAt = session.NextUpdate(existing.UpdatedAt, d.now().UTC())
	} else {
		stored.UpdatedAt = session.NextUpdate(stored.UpdatedAt, d.now().UTC())
	}

	d.sessions[s.ID] = stored
	s.UpdatedAt = stored.UpdatedAt

	return nil
}

// Delete removes exactly the named session, or returns session.ErrNotFound.
func (d *Driver) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.sessions[id]; !ok {
		return session.ErrNotFound
	}

	delete(d.sessions, id)

	return nil
}

// ListSummaries returns all sessions newest-first by UpdatedAt.
func (d *Driver) ListSummaries() ([]session.Summary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	summaries := make([]session.Summary, 0, len(d.sessions))
	for _, s := range d.sessions {
		summaries = append(summaries, session.Summary{
			ID:        s.ID,
			Title:     s.Title,
			Type:      s.Type,
			UpdatedAt: s.UpdatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})

	return summaries, nil
}
