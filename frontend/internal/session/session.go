// Package session tracks which author, if any, is signed in on this client.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/logger"
)

// Authenticator is the backing credential check: the REST API, the
// identity provider or the local allow-list.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error)
	Validate(ctx context.Context, s frontend_domain.Session) error
}

// Registrar is an Authenticator that can also create accounts.
type Registrar interface {
	SignUp(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error)
}

// ErrSignUpUnavailable is returned by SignUp when accounts are fixed by
// configuration.
var ErrSignUpUnavailable = errors.BadRequest("Sign-up is not available for this blog.")

// Persister is the client-local record the session survives restarts in.
type Persister interface {
	Session() (frontend_domain.Session, bool)
	SaveSession(s frontend_domain.Session) error
	ClearSession() error
}

type Listener func(status frontend_domain.SessionStatus, s *frontend_domain.Session)

// State is either anonymous or holds a session that passed its last check.
// It starts in SessionRestoring until Restore has run.
type State struct {
	auth  Authenticator
	store Persister
	names func(identity string) string
	now   func() time.Time

	mu        sync.Mutex
	status    frontend_domain.SessionStatus
	current   *frontend_domain.Session
	listeners map[int]Listener
	nextId    int
}

func New(auth Authenticator, store Persister, names func(identity string) string) *State {
	if names == nil {
		names = func(identity string) string { return identity }
	}
	return &State{
		auth:      auth,
		store:     store,
		names:     names,
		now:       time.Now,
		status:    frontend_domain.SessionRestoring,
		listeners: map[int]Listener{},
	}
}

// Login checks the credentials and, on success, persists and installs the
// session. Unknown users and wrong passwords are both ErrInvalidCredentials.
func (s *State) Login(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return frontend_domain.Session{}, errors.ErrInvalidCredentials
	}
	session, err := s.auth.Login(ctx, creds)
	if err != nil {
		return frontend_domain.Session{}, err
	}
	return s.signedIn(session), nil
}

// SignUp creates an account through the authenticator, when it supports
// that, and signs it in.
func (s *State) SignUp(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error) {
	reg, ok := s.auth.(Registrar)
	if !ok {
		return frontend_domain.Session{}, ErrSignUpUnavailable
	}
	if creds.Username == "" || creds.Password == "" {
		return frontend_domain.Session{}, errors.BadRequest("Please enter an email and a password.")
	}
	session, err := reg.SignUp(ctx, creds)
	if err != nil {
		return frontend_domain.Session{}, err
	}
	logger.Log.Info("account created", "identity", session.Identity)
	return s.signedIn(session), nil
}

func (s *State) signedIn(session frontend_domain.Session) frontend_domain.Session {
	session.DisplayName = s.names(session.Identity)
	if err := s.store.SaveSession(session); err != nil {
		logger.Log.Error("failed to persist session", "error", err)
	}
	s.install(frontend_domain.SessionAuthenticated, &session)
	logger.Log.Info("signed in", "identity", session.Identity)
	return session
}

// Restore reads the persisted session and checks it before trusting it. A
// token past its expiry or rejected by the authenticator is discarded. When
// the authenticator cannot be reached the session is kept and the error is
// returned, so the next protected call decides.
func (s *State) Restore(ctx context.Context) (*frontend_domain.Session, error) {
	saved, ok := s.store.Session()
	if !ok || saved.Token == "" {
		s.install(frontend_domain.SessionAnonymous, nil)
		return nil, nil
	}
	if saved.Expired(s.now()) {
		logger.Log.Info("stored session expired", "identity", saved.Identity)
		s.discard()
		return nil, nil
	}

	err := s.auth.Validate(ctx, saved)
	switch {
	case err == nil:
	case errors.IsAuth(err):
		logger.Log.Info("stored session rejected", "identity", saved.Identity, "error", err)
		s.discard()
		return nil, nil
	default:
		logger.Log.Warn("could not validate stored session", "identity", saved.Identity, "error", err)
		saved.DisplayName = s.names(saved.Identity)
		s.install(frontend_domain.SessionAuthenticated, &saved)
		return &saved, fmt.Errorf("validate session: %w", err)
	}

	saved.DisplayName = s.names(saved.Identity)
	s.install(frontend_domain.SessionAuthenticated, &saved)
	return &saved, nil
}

func (s *State) Logout() error {
	s.mu.Lock()
	wasSignedIn := s.current != nil
	s.mu.Unlock()

	err := s.discard()
	if wasSignedIn {
		logger.Log.Info("signed out")
	}
	return err
}

// HandleError clears the session when a protected call was refused for
// credentials. It reports whether it did.
func (s *State) HandleError(err error) bool {
	if err == nil || !errors.IsAuth(err) {
		return false
	}
	s.mu.Lock()
	signedIn := s.current != nil
	s.mu.Unlock()
	if !signedIn {
		return false
	}
	logger.Log.Info("session dropped after refused call", "error", err)
	s.discard()
	return true
}

func (s *State) Current() (frontend_domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return frontend_domain.Session{}, false
	}
	return *s.current, true
}

// Session returns a copy of the current session for store calls, nil when
// anonymous.
func (s *State) Session() *frontend_domain.Session {
	cur, ok := s.Current()
	if !ok {
		return nil
	}
	return &cur
}

func (s *State) Status() frontend_domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *State) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Observe registers fn for every status change and returns its remover.
func (s *State) Observe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextId
	s.nextId++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *State) discard() error {
	err := s.store.ClearSession()
	if err != nil {
		logger.Log.Error("failed to clear stored session", "error", err)
	}
	s.install(frontend_domain.SessionAnonymous, nil)
	return err
}

// install swaps the state and notifies listeners outside the lock.
func (s *State) install(status frontend_domain.SessionStatus, session *frontend_domain.Session) {
	s.mu.Lock()
	s.status = status
	s.current = session
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		var snapshot *frontend_domain.Session
		if session != nil {
			cp := *session
			snapshot = &cp
		}
		l(status, snapshot)
	}
}
