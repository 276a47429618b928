// Package handler holds the page controllers: each turns a user action into
// calls on the session, the post collection and the remote store, and returns
// what the front end should show or where it should go next.
package handler

import (
	"context"
	stderrors "errors"
	"time"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/frontend/internal/markdown"
	"github.com/bacilogs/bacilogs/frontend/internal/posts"
	"github.com/bacilogs/bacilogs/frontend/internal/remote"
	"github.com/bacilogs/bacilogs/frontend/internal/router"
	"github.com/bacilogs/bacilogs/frontend/internal/session"
	"github.com/bacilogs/bacilogs/shared/errors"
	"github.com/bacilogs/bacilogs/shared/logger"
)

const excerptLength = 150

// Preferences is where the manual light/dark choice is kept.
type Preferences interface {
	Theme() frontend_domain.Theme
	SaveTheme(theme frontend_domain.Theme) error
}

type Handler struct {
	Store    remote.Store // nil in the offline variant
	Posts    *posts.Collection
	Session  *session.State
	Prefs    Preferences
	Tracker  *router.ThemeTracker
	Markdown *markdown.Renderer
	Names    func(identity string) string

	now func() time.Time
}

func New(store remote.Store, collection *posts.Collection, state *session.State, prefs Preferences, names func(string) string) *Handler {
	if names == nil {
		names = func(identity string) string { return identity }
	}
	h := &Handler{
		Store:    store,
		Posts:    collection,
		Session:  state,
		Prefs:    prefs,
		Markdown: markdown.New(),
		Names:    names,
		now:      time.Now,
	}
	h.Tracker = router.NewThemeTracker(prefs.Theme(), nil)
	collection.Observe(h.Tracker.PostsChanged)
	return h
}

// Visit resolves path, applies the route guard and moves the theme tracker.
func (h *Handler) Visit(path string) (router.Route, router.Decision, frontend_domain.Theme) {
	route := router.Resolve(path)
	decision := router.Guard(route, h.Session.Status())
	theme := h.Tracker.Navigate(route.Path)
	return route, decision, theme
}

// Load restores the session and fetches the first snapshot. A failed fetch
// is returned but leaves the client usable.
func (h *Handler) Load(ctx context.Context) error {
	if _, err := h.Session.Restore(ctx); err != nil {
		logger.Log.Warn("session restore incomplete", "error", err)
	}
	return h.Posts.Refresh(ctx)
}

// fail turns err into an inline message. A refused credential also ends the
// session and sends the author to log in again, back to returnTo.
func (h *Handler) fail(err error, returnTo string) frontend_domain.Result {
	logger.Log.Debug("action failed", "error", err)
	if h.Session.HandleError(err) || (errors.IsAuth(err) && h.Session.Session() == nil) {
		return frontend_domain.Result{Redirect: router.LoginRedirect(returnTo), Error: message(err)}
	}
	return frontend_domain.Result{Error: message(err)}
}

func message(err error) string {
	var withStatus *errors.ErrorWithStatusCode
	switch {
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		return "Invalid username or password. Please try again."
	case stderrors.Is(err, errors.ErrAuthService):
		return "The login service is unavailable. Please try again later."
	case errors.IsNetwork(err):
		return "Could not reach the blog server. Please try again."
	case errors.IsNotFound(err):
		return "Post not found!"
	case errors.IsAuth(err):
		return "You need to be logged in as the post's author to do that."
	case errors.IsValidation(err) && stderrors.As(err, &withStatus):
		return withStatus.Message
	case errors.IsValidation(err):
		return "Please check the form and try again."
	}
	return "Something went wrong. Please try again."
}
