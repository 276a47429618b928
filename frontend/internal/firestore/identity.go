package firestore

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
)

// Identity signs authors in with Firebase email/password accounts.
type Identity struct {
	svc *identitytoolkit.Service
	now func() time.Time
}

// NewIdentity builds the client. Extra options override the endpoint in
// tests.
func NewIdentity(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Identity, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}
	return &Identity{svc: svc, now: time.Now}, nil
}

func (i *Identity) Login(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error) {
	resp, err := i.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             strings.TrimSpace(creds.Username),
		Password:          creds.Password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		if isCredentialError(err) {
			return frontend_domain.Session{}, errors.ErrInvalidCredentials
		}
		return frontend_domain.Session{}, fmt.Errorf("%w: %v", errors.ErrAuthService, err)
	}
	return i.session(resp.Email, resp.DisplayName, resp.IdToken, resp.ExpiresIn), nil
}

// SignUp creates an email/password account and returns it signed in.
func (i *Identity) SignUp(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error) {
	resp, err := i.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    strings.TrimSpace(creds.Username),
		Password: creds.Password,
	}).Context(ctx).Do()
	if err != nil {
		if reason := signUpRefusal(err); reason != "" {
			return frontend_domain.Session{}, errors.BadRequest(reason)
		}
		return frontend_domain.Session{}, fmt.Errorf("%w: %v", errors.ErrAuthService, err)
	}
	return i.session(resp.Email, resp.DisplayName, resp.IdToken, resp.ExpiresIn), nil
}

func (i *Identity) session(email, displayName, token string, expiresIn int64) frontend_domain.Session {
	s := frontend_domain.Session{
		Identity:    email,
		DisplayName: displayName,
		Token:       token,
	}
	if expiresIn > 0 {
		s.Expires = i.now().Add(time.Duration(expiresIn) * time.Second)
	}
	return s
}

func (i *Identity) Validate(ctx context.Context, s frontend_domain.Session) error {
	resp, err := i.svc.Relyingparty.GetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		IdToken: s.Token,
	}).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if stderrors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
			return errors.Unauthorized("Session expired")
		}
		return fmt.Errorf("%w: %v", errors.ErrNetwork, err)
	}
	for _, u := range resp.Users {
		if strings.EqualFold(u.Email, s.Identity) && !u.Disabled {
			return nil
		}
	}
	return errors.Unauthorized("Unknown author")
}

// isCredentialError reports whether the service refused the email/password
// pair, as opposed to failing.
func isCredentialError(err error) bool {
	msg, ok := badRequestMessage(err)
	if !ok {
		return false
	}
	for _, code := range []string{"INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED", "MISSING_PASSWORD"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

var signUpRefusals = []struct{ code, reason string }{
	{"EMAIL_EXISTS", "An account with that email already exists."},
	{"WEAK_PASSWORD", "Password should be at least 6 characters."},
	{"INVALID_EMAIL", "That email address is not valid."},
	{"MISSING_EMAIL", "Please enter an email address."},
	{"MISSING_PASSWORD", "Please enter a password."},
	{"OPERATION_NOT_ALLOWED", "Sign-up is disabled for this blog."},
}

// signUpRefusal returns the reader-facing reason the service rejected a new
// account, or "" when the request failed for another reason.
func signUpRefusal(err error) string {
	msg, ok := badRequestMessage(err)
	if !ok {
		return ""
	}
	for _, r := range signUpRefusals {
		if strings.Contains(msg, r.code) {
			return r.reason
		}
	}
	return ""
}

func badRequestMessage(err error) (string, bool) {
	var gerr *googleapi.Error
	if !stderrors.As(err, &gerr) || gerr.Code != http.StatusBadRequest {
		return "", false
	}
	msg := gerr.Message
	for _, e := range gerr.Errors {
		msg += " " + e.Message
	}
	return msg, true
}
