// Package localstore keeps the client's persisted records in one JSON file:
// the signed-in session, the post snapshot of the offline variant and the
// manual theme preference.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/domain"
)

type state struct {
	Session *frontend_domain.Session `json:"session,omitempty"`
	Posts   []domain.Post            `json:"posts,omitempty"`
	Theme   frontend_domain.Theme    `json:"theme,omitempty"`
}

type Store struct {
	path  string
	mu    sync.Mutex
	state state
}

// Open reads path if it exists. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Session() (frontend_domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Session == nil {
		return frontend_domain.Session{}, false
	}
	return *s.state.Session, true
}

func (s *Store) SaveSession(session frontend_domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session = &session
	return s.flush()
}

func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Session == nil {
		return nil
	}
	s.state.Session = nil
	return s.flush()
}

func (s *Store) Posts() []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Posts)
}

// ListPosts lets the offline variant use the file as its post source.
func (s *Store) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.Posts(), nil
}

func (s *Store) SavePosts(posts []domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Posts = slices.Clone(posts)
	return s.flush()
}

// Theme returns the saved light/dark preference, light when none was saved.
func (s *Store) Theme() frontend_domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Theme == "" {
		return frontend_domain.ThemeLight
	}
	return s.state.Theme
}

func (s *Store) SaveTheme(theme frontend_domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	return s.flush()
}

// flush writes through a temp file so a crash never leaves half a record.
// Callers hold mu.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
