package apiclient

import (
	"context"
	"net/http"
	"net/url"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/api"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
)

func (c *APIClient) ListPosts(ctx context.Context) ([]domain.Post, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/posts", "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var ws []wirePost
	if err := decode(resp, &ws); err != nil {
		return nil, err
	}
	return normalizeAll(ws), nil
}

func (c *APIClient) GetPost(ctx context.Context, id domain.PostId) (domain.Post, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), "", nil)
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusOK); err != nil {
		return domain.Post{}, err
	}
	var w wirePost
	if err := decode(resp, &w); err != nil {
		return domain.Post{}, err
	}
	return w.normalize(), nil
}

func (c *APIClient) CreatePost(ctx context.Context, s *frontend_domain.Session, draft domain.PostDraft) (domain.Post, error) {
	body := api.CreatePostRequest{
		Title:      draft.Title,
		Content:    draft.Content,
		TitleImage: draft.TitleImage,
		BlogType:   string(draft.Category),
	}
	tok, err := token(s)
	if err != nil {
		return domain.Post{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/posts", tok, body)
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusCreated); err != nil {
		return domain.Post{}, err
	}
	var w wirePost
	if err := decode(resp, &w); err != nil {
		return domain.Post{}, err
	}
	return w.normalize(), nil
}

func (c *APIClient) UpdatePost(ctx context.Context, s *frontend_domain.Session, id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	body := api.UpdatePostRequest{Title: patch.Title, Content: patch.Content, TitleImage: patch.TitleImage}
	tok, err := token(s)
	if err != nil {
		return domain.Post{}, err
	}
	resp, err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), tok, body)
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusOK); err != nil {
		return domain.Post{}, err
	}
	var w wirePost
	if err := decode(resp, &w); err != nil {
		return domain.Post{}, err
	}
	return w.normalize(), nil
}

func (c *APIClient) DeletePost(ctx context.Context, s *frontend_domain.Session, id domain.PostId) error {
	tok, err := token(s)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), tok, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expect(resp, http.StatusOK)
}

// token refuses anonymous mutations before they reach the network.
func token(s *frontend_domain.Session) (string, error) {
	if s == nil || s.Token == "" {
		return "", errors.Unauthorized("Please sign-in")
	}
	return s.Token, nil
}
