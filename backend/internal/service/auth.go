package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/logger"
	"github.com/bacilogs/bacilogs/shared/utils"
)

type AuthService interface {
	Login(creds domain.Credentials) (string, domain.User, error)
	SeedUsers(creds []domain.Credentials) error
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	User(username string) (domain.User, error)
	SaveUser(user domain.User) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

var errInvalidCredentials = &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

// Login checks the password and issues a token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (a *Auth) Login(creds domain.Credentials) (string, domain.User, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return "", domain.User{}, errInvalidCredentials
	}

	user, err := a.storage.User(username)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", domain.User{}, errInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if !utils.CheckPassword(user.PassHash, creds.Password) {
		logger.Log.Info("password verification failed", "username", username)
		return "", domain.User{}, errInvalidCredentials
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// SeedUsers creates the author accounts, replacing the password of any that
// already exist.
func (a *Auth) SeedUsers(creds []domain.Credentials) error {
	for _, c := range creds {
		username := strings.TrimSpace(c.Username)
		if username == "" || c.Password == "" {
			return errors.BadRequest("Username and password are required")
		}
		hash, err := utils.HashPassword(c.Password)
		if err != nil {
			return err
		}
		if _, err := a.storage.SaveUser(domain.User{Username: username, PassHash: hash}); err != nil {
			return fmt.Errorf("seed user %s: %w", username, err)
		}
		logger.Log.Info("seeded user", "username", username)
	}
	return nil
}
