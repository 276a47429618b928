package apiclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/api"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/jwt"
	"github.com/bacilogs/bacilogs/shared/logger"
)

// Login exchanges credentials for a bearer token. Unknown users and wrong
// passwords both come back as ErrInvalidCredentials.
func (c *APIClient) Login(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error) {
	body := api.LoginRequest{Username: creds.Username, Password: creds.Password}
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body)
	if err != nil {
		return frontend_domain.Session{}, fmt.Errorf("%w: %v", errors.ErrAuthService, err)
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusOK); err != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusBadRequest:
			return frontend_domain.Session{}, errors.ErrInvalidCredentials
		case http.StatusTooManyRequests:
			return frontend_domain.Session{}, err
		}
		return frontend_domain.Session{}, fmt.Errorf("%w: %v", errors.ErrAuthService, err)
	}

	var out api.LoginResponse
	if err := decode(resp, &out); err != nil {
		return frontend_domain.Session{}, fmt.Errorf("%w: %v", errors.ErrAuthService, err)
	}

	session := frontend_domain.Session{Identity: out.User.Username, Token: out.Token}
	if exp, err := jwt.ExpiresAt(out.Token); err == nil {
		session.Expires = exp
	} else {
		logger.Log.Debug("token carries no readable expiry", "error", err)
	}
	return session, nil
}

// Validate asks the server whether the session's token is still accepted.
func (c *APIClient) Validate(ctx context.Context, s frontend_domain.Session) error {
	if s.Token == "" {
		return errors.Unauthorized("Please sign-in")
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/me", s.Token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusOK); err != nil {
		return err
	}
	var me api.UserResponse
	if err := decode(resp, &me); err != nil {
		return err
	}
	if me.Username != s.Identity {
		return stderrors.Join(errors.ErrAuth, fmt.Errorf("token belongs to %q", me.Username))
	}
	return nil
}
