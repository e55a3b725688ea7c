// Package jsonfile implements the session store as a single JSON document
// on disk. Every operation is a whole-file read-modify-write under a
// process-level mutex; last writer wins across processes.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/quorumchat/quorum/pkg/session"
)

const currentVersion = 0

// document is the on-disk layout of the sessions file.
type document struct {
	Version  int                `json:"version"`
	Sessions []*session.Session `json:"sessions"`
}

// Driver stores sessions in one JSON file.
type Driver struct {
	mu   sync.Mutex
	path string

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// New returns a file-backed session store rooted at path. The parent
// directory must already exist; the file is created on first save.
func New(path string) (*Driver, error) {
	if path == "" {
		return nil, errors.New("sessions file path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving sessions path: %w", err)
	}

	return &Driver{path: abs, now: time.Now}, nil
}

// WithClock replaces the driver's clock. Used by tests.
func (d *Driver) WithClock(now func() time.Time) *Driver {
	d.now = now
	return d
}

// Path returns the resolved sessions file location.
func (d *Driver) Path() string {
	return d.path
}

func (d *Driver) load() (*document, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &document{Version: currentVersion}, nil
		}
		return nil, fmt.Errorf("reading sessions: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing sessions: %w", err)
	}

	return doc, nil
}

func (d *Driver) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}

	if err := os.WriteFile(d.path, data, 0o600); err != nil {
		return fmt.Errorf("writing sessions: %w", err)
	}

	return nil
}

// Load returns a copy of the session, or session.ErrNotFound.
func (d *Driver) Load(id string) (*session.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.load()
	if err != nil {
		return nil, err
	}

	for _, s := range doc.Sessions {
		if s.ID == id {
			return s.Clone(), nil
		}
	}

	return nil, session.ErrNotFound
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

	doc, err := d.load()
	if err != nil {
		return err
	}

	stored := s.Clone()

	replaced := false
	for i, existing := range doc.Sessions {
		if existing.ID == s.ID {
			stored.UpdatedAt = session.NextUpdate(existing.UpdatedAt, d.now().UTC())
			doc.Sessions[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		stored.UpdatedAt = session.NextUpdate(stored.UpdatedAt, d.now().UTC())
		doc.Sessions = append(doc.Sessions, stored)
	}

	if err := d.save(doc); err != nil {
		return err
	}

	// Reflect the stamped timestamp back to the caller's copy.
	s.UpdatedAt = stored.UpdatedAt

	return nil
}

// Delete removes exactly the named session, or returns session.ErrNotFound.
func (d *Driver) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.load()
	if err != nil {
		return err
	}

	for i, s := range doc.Sessions {
		if s.ID == id {
			doc.Sessions = append(doc.Sessions[:i], doc.Sessions[i+1:]...)
			return d.save(doc)
		}
	}

	return session.ErrNotFound
}

// ListSummaries returns all sessions newest-first by UpdatedAt.
func (d *Driver) ListSummaries() ([]session.Summary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.load()
	if err != nil {
		return nil, err
	}

	summaries := make([]session.Summary, 0, len(doc.Sessions))
	for _, s := range doc.Sessions {
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
