package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bacilogs/bacilogs/shared/domain"
	internal_errors "github.com/bacilogs/bacilogs/shared/errors"
)

const postColumns = "id::text, title, content, title_image, blog_type, author, created_at"

var errPostNotFound = internal_errors.NotFound("Post not found")

func (s *Storage) ListPosts() ([]domain.Post, error) {
	return s.listPosts(s.db)
}

// ids that are not uuids cannot exist, so they are not found rather than a
// query error
func (s *Storage) GetPost(id domain.PostId) (domain.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Post{}, errPostNotFound
	}
	return s.getPost(s.db, id)
}

func (s *Storage) CreatePost(draft domain.PostDraft) (domain.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var post domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		post, err = s.createPost(tx, draft)
		return err
	})
	return post, err
}

func (s *Storage) UpdatePost(id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Post{}, errPostNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var post domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		post, err = s.updatePost(tx, id, patch)
		return err
	})
	return post, err
}

func (s *Storage) DeletePost(id domain.PostId) error {
	if _, err := uuid.Parse(id); err != nil {
		return errPostNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deletePost(tx, id)
	})
}

func (s *Storage) listPosts(q Querier) ([]domain.Post, error) {
	rows, err := q.Query("SELECT " + postColumns + " FROM posts ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (s *Storage) getPost(q Querier, id domain.PostId) (domain.Post, error) {
	post, err := scanPost(q.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Post{}, errPostNotFound
	}
	return post, err
}

func (s *Storage) createPost(q Querier, draft domain.PostDraft) (domain.Post, error) {
	post, err := scanPost(q.QueryRow(
		"INSERT INTO posts (title, content, title_image, blog_type, author) VALUES ($1, $2, $3, $4, $5) RETURNING "+postColumns,
		draft.Title, draft.Content, draft.TitleImage, string(draft.Category), draft.Author,
	))
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *Storage) updatePost(q Querier, id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	post, err := scanPost(q.QueryRow(`
		UPDATE posts SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			title_image = COALESCE($4, title_image)
		WHERE id = $1
		RETURNING `+postColumns,
		id, nullString(patch.Title), nullString(patch.Content), nullString(patch.TitleImage),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Post{}, errPostNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *Storage) deletePost(q Querier, id domain.PostId) error {
	result, err := q.Exec("DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for post delete: %w", err)
	}
	if rowsAffected == 0 {
		return errPostNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (domain.Post, error) {
	var post domain.Post
	var category string
	err := row.Scan(&post.Id, &post.Title, &post.Content, &post.TitleImage, &category, &post.Author, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, err
		}
		return domain.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}
	post.Category = domain.Category(category)
	return post, nil
}
