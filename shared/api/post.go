package api

import "github.com/bacilogs/bacilogs/shared/domain"

// Request DTOs shared by the API server and its clients

type CreatePostRequest struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	TitleImage string `json:"titleImage,omitempty"`
	BlogType   string `json:"blogType" validate:"required,oneof=willow wishes"`
}

type UpdatePostRequest struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	TitleImage *string `json:"titleImage,omitempty"`
}

func (r UpdatePostRequest) Patch() domain.PostPatch {
	return domain.PostPatch{Title: r.Title, Content: r.Content, TitleImage: r.TitleImage}
}

type MessageResponse struct {
	Message string `json:"message"`
}

// SnapshotEvent is one message on the post stream: the full, newest-first
// collection after a change. Sequence grows by one per published snapshot and
// restarts with the backend process.
type SnapshotEvent struct {
	Sequence uint64        `json:"sequence"`
	Posts    []domain.Post `json:"posts"`
}
