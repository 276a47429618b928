package handler

import (
	"context"
	"strings"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/frontend/internal/router"
	"github.com/bacilogs/bacilogs/shared/domain"
)

// Login signs in and sends the author to next when it is a local path.
func (h *Handler) Login(ctx context.Context, creds domain.Credentials, next string) frontend_domain.Result {
	creds.Username = strings.TrimSpace(creds.Username)
	if _, err := h.Session.Login(ctx, creds); err != nil {
		return frontend_domain.Result{Error: message(err)}
	}
	return frontend_domain.Result{Redirect: router.LoginTarget(next)}
}

// Signup creates an account and opens the dashboard.
func (h *Handler) Signup(ctx context.Context, creds domain.Credentials) frontend_domain.Result {
	creds.Username = strings.TrimSpace(creds.Username)
	if _, err := h.Session.SignUp(ctx, creds); err != nil {
		return frontend_domain.Result{Error: "Failed to create an account. " + message(err)}
	}
	return frontend_domain.Result{Redirect: router.DashboardPath}
}

func (h *Handler) Logout() frontend_domain.Result {
	if err := h.Session.Logout(); err != nil {
		return frontend_domain.Result{Redirect: router.LoginPath, Error: "Logged out, but the saved session could not be removed."}
	}
	return frontend_domain.Result{Redirect: router.LoginPath}
}
