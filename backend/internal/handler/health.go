package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bacilogs/bacilogs/shared/logger"
	"github.com/bacilogs/bacilogs/shared/utils"
)

const readyTimeout = 2 * time.Second

type probeStatus struct {
	Status   string `json:"status"`
	Storage  string `json:"storage,omitempty"`
	Sequence uint64 `json:"sequence"`
	Posts    int    `json:"posts"`
}

// Health answers as long as the process serves requests.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, probeStatus{Status: "up"})
}

// Ready pings the post storage and reports the last pushed snapshot.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := probeStatus{Status: "ready", Storage: h.cfg.Public.Storage}
	if err := h.health.Ping(ctx); err != nil {
		logger.Log.Warn("post storage not reachable", "storage", status.Storage, "error", err)
		status.Status = "post storage unreachable"
		utils.WriteJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	if h.hub != nil {
		current := h.hub.Current()
		status.Sequence = current.Sequence
		status.Posts = len(current.Posts)
	}
	utils.WriteJSON(w, http.StatusOK, status)
}
