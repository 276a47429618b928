package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/frontend/internal/posts"
	"github.com/bacilogs/bacilogs/frontend/internal/router"
	"github.com/bacilogs/bacilogs/frontend/internal/session"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/errors"
)

type MockRegistrar struct {
	MockAuthenticator
}

func (MockRegistrar) SignUp(ctx context.Context, creds domain.Credentials) (frontend_domain.Session, error) {
	if creds.Username == "arul@example.com" {
		return frontend_domain.Session{}, errors.BadRequest("An account with that email already exists.")
	}
	return frontend_domain.Session{Identity: creds.Username, Token: "tok"}, nil
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("bad password", func(t *testing.T) {
		h := newTestHandler(t, &MockStore{})
		res := h.Login(ctx, domain.Credentials{Username: "arul", Password: "nope"}, "/dashboard")
		assert.Equal(t, "Invalid username or password. Please try again.", res.Error)
		assert.Empty(t, res.Redirect)
	})

	t.Run("returns to the gated page", func(t *testing.T) {
		h := newTestHandler(t, &MockStore{})
		_, decision, _ := h.Visit("/create-post/wishes")
		require.Equal(t, router.Redirect, decision.Action)

		res := h.Login(ctx, domain.Credentials{Username: "gizemeh", Password: "pw"}, router.NextFromLogin(decision.Target))
		require.Empty(t, res.Error)
		assert.Equal(t, "/create-post/wishes", res.Redirect)

		_, decision, _ = h.Visit(res.Redirect)
		assert.Equal(t, router.Render, decision.Action)
	})

	t.Run("foreign destination goes home", func(t *testing.T) {
		h := newTestHandler(t, &MockStore{})
		res := h.Login(ctx, domain.Credentials{Username: "arul", Password: "pw"}, "https://evil.example")
		assert.Equal(t, "/", res.Redirect)
	})
}

func TestLoginCreateLogout(t *testing.T) {
	ctx := context.Background()
	store := &MockStore{}
	h := newTestHandler(t, store)

	login(t, h, "arul")
	res := h.CreatePost(ctx, domain.Willow, frontend_domain.PostForm{Title: "A", Content: "B"})
	require.Empty(t, res.Error)

	listed, err := store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "A", listed[0].Title)
	assert.Equal(t, domain.Willow, listed[0].Category)

	res = h.Logout()
	assert.Equal(t, "/login", res.Redirect)

	res = h.CreatePost(ctx, domain.Willow, frontend_domain.PostForm{Title: "A2", Content: "B2"})
	assert.Equal(t, "/login?next=%2Fcreate-post%2Fwillow", res.Redirect)
	listed, _ = store.ListPosts(ctx)
	assert.Len(t, listed, 1)
}

func TestToggleTheme(t *testing.T) {
	h := newTestHandler(t, &MockStore{})

	theme, err := h.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, frontend_domain.ThemeDark, theme)
	assert.Equal(t, frontend_domain.ThemeDark, h.Prefs.Theme())

	h.Visit("/blog/willow")
	theme, err = h.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, frontend_domain.ThemeWillow, theme)
	assert.Equal(t, frontend_domain.ThemeLight, h.Prefs.Theme())
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	newSignupHandler := func(t *testing.T) *Handler {
		prefs := &memoryPrefs{}
		state := session.New(MockRegistrar{}, prefs, names)
		h := New(nil, posts.New(fixedSource(nil), nil), state, prefs, names)
		require.NoError(t, h.Load(ctx))
		return h
	}

	t.Run("opens the dashboard", func(t *testing.T) {
		h := newSignupHandler(t)
		res := h.Signup(ctx, domain.Credentials{Username: " new@example.com ", Password: "secret1"})
		require.Empty(t, res.Error)
		assert.Equal(t, "/dashboard", res.Redirect)

		data, res := h.Dashboard()
		assert.Empty(t, res.Redirect)
		assert.Equal(t, "Welcome, new@example.com!", data.Welcome)
	})

	t.Run("taken email", func(t *testing.T) {
		h := newSignupHandler(t)
		res := h.Signup(ctx, domain.Credentials{Username: "arul@example.com", Password: "secret1"})
		assert.Equal(t, "Failed to create an account. An account with that email already exists.", res.Error)
		assert.Empty(t, res.Redirect)
		assert.Nil(t, h.Session.Session())
	})

	t.Run("fixed accounts", func(t *testing.T) {
		h := newTestHandler(t, nil)
		res := h.Signup(ctx, domain.Credentials{Username: "new@example.com", Password: "secret1"})
		assert.Equal(t, "Failed to create an account. Sign-up is not available for this blog.", res.Error)
	})
}
