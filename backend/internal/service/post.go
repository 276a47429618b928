package service

import (
	"strings"
	"sync"

	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/logger"
)

type PostService interface {
	List() ([]domain.Post, error)
	Get(id domain.PostId) (domain.Post, error)
	Create(author domain.User, draft domain.PostDraft) (domain.Post, error)
	Update(author domain.User, id domain.PostId, patch domain.PostPatch) (domain.Post, error)
	Delete(author domain.User, id domain.PostId) error
}

type PostStorage interface {
	ListPosts() ([]domain.Post, error)
	GetPost(id domain.PostId) (domain.Post, error)
	CreatePost(draft domain.PostDraft) (domain.Post, error)
	UpdatePost(id domain.PostId, patch domain.PostPatch) (domain.Post, error)
	DeletePost(id domain.PostId) error
}

// Publisher receives the full collection after every successful mutation.
type Publisher interface {
	Publish(posts []domain.Post)
}

type Sanitizer func(string) string

type Post struct {
	storage   PostStorage
	publisher Publisher
	sanitize  Sanitizer

	// serialises mutate+publish so subscribers see snapshots in commit order
	mu sync.Mutex
}

func NewPost(storage PostStorage, publisher Publisher, sanitize Sanitizer) *Post {
	return &Post{storage: storage, publisher: publisher, sanitize: sanitize}
}

func (p *Post) List() ([]domain.Post, error) {
	return p.storage.ListPosts()
}

func (p *Post) Get(id domain.PostId) (domain.Post, error) {
	return p.storage.GetPost(id)
}

func (p *Post) Create(author domain.User, draft domain.PostDraft) (domain.Post, error) {
	if !draft.Category.Valid() {
		return domain.Post{}, errors.BadRequest("Unknown blog")
	}
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return domain.Post{}, errors.BadRequest("Title is required")
	}
	content, err := p.content(draft.Content)
	if err != nil {
		return domain.Post{}, err
	}
	draft.Content = content
	draft.Author = author.Username

	p.mu.Lock()
	defer p.mu.Unlock()

	post, err := p.storage.CreatePost(draft)
	if err != nil {
		return domain.Post{}, err
	}
	p.publish()
	return post, nil
}

func (p *Post) Update(author domain.User, id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	if patch.Empty() {
		return domain.Post{}, errors.BadRequest("Nothing to update")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return domain.Post{}, errors.BadRequest("Title is required")
		}
		patch.Title = &title
	}
	if patch.Content != nil {
		content, err := p.content(*patch.Content)
		if err != nil {
			return domain.Post{}, err
		}
		patch.Content = &content
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkAuthor(author, id); err != nil {
		return domain.Post{}, err
	}
	post, err := p.storage.UpdatePost(id, patch)
	if err != nil {
		return domain.Post{}, err
	}
	p.publish()
	return post, nil
}

func (p *Post) Delete(author domain.User, id domain.PostId) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkAuthor(author, id); err != nil {
		return err
	}
	if err := p.storage.DeletePost(id); err != nil {
		return err
	}
	p.publish()
	return nil
}

func (p *Post) content(raw string) (string, error) {
	content := raw
	if p.sanitize != nil {
		content = p.sanitize(raw)
	}
	if strings.TrimSpace(content) == "" {
		return "", errors.BadRequest("Content is required")
	}
	return content, nil
}

func (p *Post) checkAuthor(author domain.User, id domain.PostId) error {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return err
	}
	if post.Author != author.Username {
		return errors.Forbidden("Only the author can change this post")
	}
	return nil
}

// publish must be called with p.mu held.
func (p *Post) publish() {
	if p.publisher == nil {
		return
	}
	posts, err := p.storage.ListPosts()
	if err != nil {
		logger.Log.Error("failed to load posts for push", "error", err)
		return
	}
	p.publisher.Publish(posts)
}
