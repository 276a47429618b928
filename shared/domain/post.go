package domain

import (
	"strings"
	"time"
)

// Category partitions posts between the two blogs.
type Category string

const (
	Willow Category = "willow"
	Wishes Category = "wishes"
)

var Categories = []Category{Willow, Wishes}

func (c Category) Valid() bool {
	return c == Willow || c == Wishes
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

type PostId = string

// Post is the canonical post record. Backends with a different native shape
// are normalised into it by their adapter.
type Post struct {
	Id         PostId    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"` // HTML, rendered unescaped
	TitleImage string    `json:"titleImage,omitempty"`
	Category   Category  `json:"blogType"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PostDraft is everything a new post is created from. Id and CreatedAt are
// assigned by the store.
type PostDraft struct {
	Title      string
	Content    string
	TitleImage string
	Category   Category
	Author     string
}

// PostPatch is a partial update. Only title, content and title image are
// mutable; nil fields are left untouched.
type PostPatch struct {
	Title      *string
	Content    *string
	TitleImage *string
}

func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.TitleImage == nil
}

func (p PostPatch) Apply(post Post) Post {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.TitleImage != nil {
		post.TitleImage = *p.TitleImage
	}
	return post
}

// FilterByCategory keeps the relative order of posts.
func FilterByCategory(posts []Post, category Category) []Post {
	filtered := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
