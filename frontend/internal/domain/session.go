package frontend_domain

import "time"

// Session is a signed-in author as the client remembers it.
type Session struct {
	Identity    string    `json:"identity"`
	DisplayName string    `json:"displayName"`
	Token       string    `json:"token"`
	Expires     time.Time `json:"expires,omitzero"`
}

// Expired reports whether the credential is known to be stale. A zero
// expiry means the backend did not say.
func (s Session) Expired(now time.Time) bool {
	return !s.Expires.IsZero() && !now.Before(s.Expires)
}

func (s Session) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Identity
}

type SessionStatus int

const (
	// SessionRestoring means a persisted session is still being validated.
	SessionRestoring SessionStatus = iota
	SessionAnonymous
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case SessionRestoring:
		return "restoring"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}
