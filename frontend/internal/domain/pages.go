package frontend_domain

import (
	"time"

	"github.com/bacilogs/bacilogs/shared/domain"
)

type HomePageData struct {
	Blogs []BlogCard
}

type BlogCard struct {
	Blog      Blog
	PostCount int
	Path      string
}

type BlogPageData struct {
	Blog       Blog
	Posts      []PostPreview
	CanCreate  bool
	CreatePath string
}

type PostPreview struct {
	Id      domain.PostId
	Title   string
	Author  string
	Date    time.Time
	Excerpt string
	Path    string
}

type PostPageData struct {
	Found      bool
	Post       domain.Post
	AuthorName string
	CanEdit    bool
	EditPath   string
	BackPath   string
	BackLabel  string
}

// PostForm is what an author submits for a new or edited post.
type PostForm struct {
	Title      string
	Content    string
	Markdown   bool   // Content is Markdown and must be rendered first
	TitleImage string // file path or URL; empty keeps the current image
}

type PostFormPageData struct {
	Heading  string
	Category domain.Category
	Title    string
	Content  string
	Image    string
}

type DashboardPageData struct {
	Welcome string
}

// Result tells the caller where to go next or what to show inline after an
// action.
type Result struct {
	Redirect string
	Error    string
	Post     *domain.Post
}
