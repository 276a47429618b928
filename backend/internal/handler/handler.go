package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/bacilogs/bacilogs/backend/internal/push"
	"github.com/bacilogs/bacilogs/backend/internal/service"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/utils"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth     service.AuthService
	post     service.PostService
	hub      *push.Hub
	health   HealthChecker
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func New(auth service.AuthService, post service.PostService, hub *push.Hub, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		auth:     auth,
		post:     post,
		hub:      hub,
		health:   health,
		cfg:      cfg,
		upgrader: newUpgrader(cfg.Public.CorsAllowedOrigins),
	}
}

// Root answers with a plain-text banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Bacılogs API is running"))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	utils.WriteJSON(w, http.StatusOK, v)
}
