// Package memory is a process-local storage for development and tests. It
// satisfies the same service interfaces as the postgres storage.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bacilogs/bacilogs/shared/domain"
	internal_errors "github.com/bacilogs/bacilogs/shared/errors"
)

var errPostNotFound = internal_errors.NotFound("Post not found")

type Storage struct {
	mu          sync.RWMutex
	posts       map[domain.PostId]domain.Post
	users       map[string]domain.User
	lastCreated time.Time
	now         func() time.Time
}

func New() *Storage {
	return &Storage{
		posts: make(map[domain.PostId]domain.Post),
		users: make(map[string]domain.User),
		now:   time.Now,
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) Cleanup() error {
	return nil
}

func (s *Storage) ListPosts() ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	slices.SortFunc(posts, func(a, b domain.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
	return posts, nil
}

func (s *Storage) GetPost(id domain.PostId) (domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return domain.Post{}, errPostNotFound
	}
	return post, nil
}

func (s *Storage) CreatePost(draft domain.PostDraft) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// strictly increasing so newest-first order matches creation order
	createdAt := s.now().UTC().Truncate(time.Microsecond)
	if !createdAt.After(s.lastCreated) {
		createdAt = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = createdAt

	post := domain.Post{
		Id:         uuid.NewString(),
		Title:      draft.Title,
		Content:    draft.Content,
		TitleImage: draft.TitleImage,
		Category:   draft.Category,
		Author:     draft.Author,
		CreatedAt:  createdAt,
	}
	s.posts[post.Id] = post
	return post, nil
}

func (s *Storage) UpdatePost(id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return domain.Post{}, errPostNotFound
	}
	post = patch.Apply(post)
	s.posts[id] = post
	return post, nil
}

func (s *Storage) DeletePost(id domain.PostId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return errPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *Storage) User(username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return domain.User{}, internal_errors.NotFound("User not found")
	}
	return user, nil
}

func (s *Storage) SaveUser(user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.Username]; ok {
		existing.PassHash = user.PassHash
		s.users[user.Username] = existing
		return existing, nil
	}
	user.Id = uuid.NewString()
	user.CreatedAt = s.now().UTC()
	s.users[user.Username] = user
	return user, nil
}
