package handler

import (
	"net/http"

	"github.com/bacilogs/bacilogs/shared/api"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/middleware"
	"github.com/bacilogs/bacilogs/shared/utils"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, user, err := h.auth.Login(domain.Credentials{Username: body.Username, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, api.LoginResponse{
		Token: token,
		User:  api.UserResponse{Id: user.Id, Username: user.Username},
	})
}

// Me lets clients check that a stored token is still accepted.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, api.UserResponse{Id: user.Id, Username: user.Username})
}
