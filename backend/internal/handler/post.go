package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bacilogs/bacilogs/shared/api"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/middleware"
	"github.com/bacilogs/bacilogs/shared/utils"
)

const maxPostBody = 12 << 20 // title images travel inline as data URIs

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.post.List()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if category, ok := domain.ParseCategory(r.URL.Query().Get("blogType")); ok {
		posts = domain.FilterByCategory(posts, category)
	}
	writeJSON(w, posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.post.Get(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, post)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var body api.CreatePostRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxPostBody)
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Create(*user, domain.PostDraft{
		Title:      body.Title,
		Content:    body.Content,
		TitleImage: body.TitleImage,
		Category:   domain.Category(body.BlogType),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, post)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var body api.UpdatePostRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxPostBody)
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Update(*user, chi.URLParam(r, "id"), body.Patch())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	if err := h.post.Delete(*user, chi.URLParam(r, "id")); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.MessageResponse{Message: "Post deleted"})
}
