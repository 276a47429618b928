package apiclient

import (
	"time"

	"github.com/bacilogs/bacilogs/shared/domain"
)

// wirePost accepts the field names older deployments used (_id,
// titlePicture, category) next to the current ones.
type wirePost struct {
	Id           string    `json:"id"`
	LegacyId     string    `json:"_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	TitleImage   string    `json:"titleImage"`
	TitlePicture string    `json:"titlePicture"`
	BlogType     string    `json:"blogType"`
	Category     string    `json:"category"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (w wirePost) normalize() domain.Post {
	post := domain.Post{
		Id:         w.Id,
		Title:      w.Title,
		Content:    w.Content,
		TitleImage: w.TitleImage,
		Category:   domain.Category(w.BlogType),
		Author:     w.Author,
		CreatedAt:  w.CreatedAt,
	}
	if post.Id == "" {
		post.Id = w.LegacyId
	}
	if post.TitleImage == "" {
		post.TitleImage = w.TitlePicture
	}
	if post.Category == "" {
		post.Category = domain.Category(w.Category)
	}
	return post
}

func normalizeAll(ws []wirePost) []domain.Post {
	posts := make([]domain.Post, 0, len(ws))
	for _, w := range ws {
		posts = append(posts, w.normalize())
	}
	return posts
}
