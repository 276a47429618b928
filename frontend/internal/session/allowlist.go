package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/utils"
)

const allowListTTL = 24 * time.Hour

// AllowList authenticates against a fixed set of authors for the offline
// variant. Tokens are random and only prove a login happened on this client.
type AllowList struct {
	users map[string]string // username -> bcrypt hash
	now   func() time.Time
}

func NewAllowList(users []config.AllowedUser) *AllowList {
	a := &AllowList{users: make(map[string]string, len(users)), now: time.Now}
	for _, u := range users {
		a.users[strings.ToLower(u.Username)] = u.PasswordHash
	}
	return a
}

func (a *AllowList) Login(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error) {
	username := strings.ToLower(strings.TrimSpace(creds.Username))
	hash, ok := a.users[username]
	if !ok || !utils.CheckPassword(hash, creds.Password) {
		return frontend_domain.Session{}, errors.ErrInvalidCredentials
	}
	return frontend_domain.Session{
		Identity: username,
		Token:    uuid.NewString(),
		Expires:  a.now().Add(allowListTTL),
	}, nil
}

func (a *AllowList) Validate(ctx context.Context, s frontend_domain.Session) error {
	if _, ok := a.users[s.Identity]; !ok {
		return errors.Unauthorized("Unknown author")
	}
	if s.Token == "" || s.Expired(a.now()) {
		return errors.Unauthorized("Session expired")
	}
	return nil
}
