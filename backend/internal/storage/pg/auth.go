package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bacilogs/bacilogs/shared/domain"
	internal_errors "github.com/bacilogs/bacilogs/shared/errors"
)

// SaveUser inserts the user or replaces the password of an existing one with
// the same username.
func (s *Storage) SaveUser(user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var saved domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveUser(tx, user)
		return err
	})
	return saved, err
}

func (s *Storage) User(username string) (domain.User, error) {
	return s.user(s.db, username)
}

func (s *Storage) saveUser(q Querier, user domain.User) (domain.User, error) {
	err := q.QueryRow(`
		INSERT INTO users (username, password_hash) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id::text, username, password_hash, created_at`,
		user.Username, user.PassHash,
	).Scan(&user.Id, &user.Username, &user.PassHash, &user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

func (s *Storage) user(q Querier, username string) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id::text, username, password_hash, created_at FROM users WHERE username = $1", username).
		Scan(&user.Id, &user.Username, &user.PassHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}
