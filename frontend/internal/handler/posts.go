package handler

import (
	"context"
	"strings"

	"github.com/google/uuid"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/frontend/internal/router"
	"github.com/bacilogs/bacilogs/frontend/internal/titleimage"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/logger"
	"github.com/bacilogs/bacilogs/shared/utils"
)

// CreatePage prepares the empty form for a new post in category.
func (h *Handler) CreatePage(category domain.Category) (frontend_domain.PostFormPageData, frontend_domain.Result) {
	blog, ok := frontend_domain.BlogFor(category)
	if !ok {
		return frontend_domain.PostFormPageData{}, frontend_domain.Result{Redirect: "/"}
	}
	if h.Session.Session() == nil {
		return frontend_domain.PostFormPageData{}, frontend_domain.Result{Redirect: router.LoginRedirect(createPath(category))}
	}
	return frontend_domain.PostFormPageData{
		Heading:  "Create New Post for \"" + blog.Name + "\"",
		Category: category,
	}, frontend_domain.Result{}
}

func (h *Handler) CreatePost(ctx context.Context, category domain.Category, form frontend_domain.PostForm) frontend_domain.Result {
	returnTo := createPath(category)
	if !category.Valid() {
		return frontend_domain.Result{Redirect: "/"}
	}
	s := h.Session.Session()
	if s == nil {
		return frontend_domain.Result{Redirect: router.LoginRedirect(returnTo)}
	}

	title, content, err := h.prepare(form, true)
	if err != nil {
		return h.fail(err, returnTo)
	}
	image, err := titleimage.Load(form.TitleImage)
	if err != nil {
		return h.fail(err, returnTo)
	}
	draft := domain.PostDraft{Title: title, Content: content, TitleImage: image, Category: category, Author: s.Identity}

	var post domain.Post
	if h.Store == nil {
		post = domain.Post{
			Id:         uuid.NewString(),
			Title:      draft.Title,
			Content:    draft.Content,
			TitleImage: draft.TitleImage,
			Category:   draft.Category,
			Author:     draft.Author,
			CreatedAt:  h.now().UTC(),
		}
		h.Posts.AddLocal(post)
	} else {
		post, err = h.Store.CreatePost(ctx, s, draft)
		if err != nil {
			return h.fail(err, returnTo)
		}
		h.Posts.AddLocal(post)
		h.confirm(ctx)
	}

	logger.Log.Info("post created", "id", post.Id, "category", post.Category)
	return frontend_domain.Result{Redirect: blogPath(category), Post: &post}
}

// EditPage prefills the form. An unknown post sends the author home.
func (h *Handler) EditPage(id domain.PostId) (frontend_domain.PostFormPageData, frontend_domain.Result) {
	if h.Session.Session() == nil {
		return frontend_domain.PostFormPageData{}, frontend_domain.Result{Redirect: router.LoginRedirect(editPath(id))}
	}
	post, ok := h.Posts.Find(id)
	if !ok {
		return frontend_domain.PostFormPageData{}, frontend_domain.Result{Redirect: "/"}
	}
	return frontend_domain.PostFormPageData{
		Heading:  "Edit Post",
		Category: post.Category,
		Title:    post.Title,
		Content:  post.Content,
		Image:    post.TitleImage,
	}, frontend_domain.Result{}
}

// UpdatePost applies the fields the form carries. Empty fields are left as
// they are.
func (h *Handler) UpdatePost(ctx context.Context, id domain.PostId, form frontend_domain.PostForm) frontend_domain.Result {
	returnTo := editPath(id)
	s := h.Session.Session()
	if s == nil {
		return frontend_domain.Result{Redirect: router.LoginRedirect(returnTo)}
	}

	title, content, err := h.prepare(form, false)
	if err != nil {
		return h.fail(err, returnTo)
	}
	var patch domain.PostPatch
	if title != "" {
		patch.Title = &title
	}
	if content != "" {
		patch.Content = &content
	}
	if strings.TrimSpace(form.TitleImage) != "" {
		image, err := titleimage.Load(form.TitleImage)
		if err != nil {
			return h.fail(err, returnTo)
		}
		patch.TitleImage = &image
	}

	var post domain.Post
	if h.Store == nil {
		current, ok := h.Posts.Find(id)
		if !ok {
			return h.fail(errors.NotFound("Post not found"), returnTo)
		}
		if current.Author != s.Identity {
			return h.fail(errors.Forbidden("Only the author can edit this post"), returnTo)
		}
		post = patch.Apply(current)
		h.Posts.ReplaceLocal(post)
	} else {
		post, err = h.Store.UpdatePost(ctx, s, id, patch)
		if err != nil {
			return h.fail(err, returnTo)
		}
		h.Posts.ReplaceLocal(post)
		h.confirm(ctx)
	}

	logger.Log.Info("post updated", "id", id)
	return frontend_domain.Result{Redirect: postPath(id), Post: &post}
}

// DeletePost removes the post for good. Callers confirm with the author
// first.
func (h *Handler) DeletePost(ctx context.Context, id domain.PostId) frontend_domain.Result {
	returnTo := postPath(id)
	s := h.Session.Session()
	if s == nil {
		return frontend_domain.Result{Redirect: router.LoginRedirect(returnTo)}
	}

	redirect := "/"
	current, known := h.Posts.Find(id)
	if known {
		redirect = blogPath(current.Category)
	}

	if h.Store == nil {
		if !known {
			return h.fail(errors.NotFound("Post not found"), returnTo)
		}
		if current.Author != s.Identity {
			return h.fail(errors.Forbidden("Only the author can delete this post"), returnTo)
		}
		h.Posts.RemoveLocal(id)
	} else {
		if err := h.Store.DeletePost(ctx, s, id); err != nil {
			return h.fail(err, returnTo)
		}
		h.Posts.RemoveLocal(id)
		h.confirm(ctx)
	}

	logger.Log.Info("post deleted", "id", id)
	return frontend_domain.Result{Redirect: redirect}
}

// prepare validates the form and renders Markdown. For a new post both title
// and content are required.
func (h *Handler) prepare(form frontend_domain.PostForm, required bool) (string, string, error) {
	title := strings.TrimSpace(form.Title)
	content := form.Content
	if form.Markdown && strings.TrimSpace(content) != "" {
		rendered, err := h.Markdown.Render(content)
		if err != nil {
			return "", "", err
		}
		content = rendered
	}
	if strings.TrimSpace(utils.StripTags(content)) == "" && !strings.Contains(content, "<img") {
		content = ""
	}
	if required && (title == "" || content == "") {
		return "", "", errors.BadRequest("Please fill out both the title and the blog content.")
	}
	return title, content, nil
}

// confirm reloads after a mutation so the server's copy replaces the local
// guess. A failure keeps the local edit.
func (h *Handler) confirm(ctx context.Context) {
	if err := h.Posts.Refresh(ctx); err != nil {
		logger.Log.Warn("refresh after change failed", "error", err)
	}
}
