package handler

import (
	"fmt"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/frontend/internal/router"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/utils"
)

func blogPath(c domain.Category) string   { return "/blog/" + string(c) }
func postPath(id domain.PostId) string    { return "/post/" + id }
func editPath(id domain.PostId) string    { return "/edit-post/" + id }
func createPath(c domain.Category) string { return "/create-post/" + string(c) }

func (h *Handler) Home() frontend_domain.HomePageData {
	var data frontend_domain.HomePageData
	for _, b := range frontend_domain.Blogs {
		data.Blogs = append(data.Blogs, frontend_domain.BlogCard{
			Blog:      b,
			PostCount: h.Posts.Count(b.Category),
			Path:      blogPath(b.Category),
		})
	}
	return data
}

func (h *Handler) Blog(category domain.Category) (frontend_domain.BlogPageData, bool) {
	blog, ok := frontend_domain.BlogFor(category)
	if !ok {
		return frontend_domain.BlogPageData{}, false
	}
	data := frontend_domain.BlogPageData{
		Blog:       blog,
		CanCreate:  h.Session.Session() != nil,
		CreatePath: createPath(category),
	}
	for _, p := range h.Posts.ByCategory(category) {
		data.Posts = append(data.Posts, frontend_domain.PostPreview{
			Id:      p.Id,
			Title:   p.Title,
			Author:  h.Names(p.Author),
			Date:    p.CreatedAt,
			Excerpt: utils.Excerpt(p.Content, excerptLength),
			Path:    postPath(p.Id),
		})
	}
	return data, true
}

// PostDetail looks the post up in the current snapshot. Found is false while
// the post is unknown, which may only mean it has not loaded yet.
func (h *Handler) PostDetail(id domain.PostId) frontend_domain.PostPageData {
	post, ok := h.Posts.Find(id)
	if !ok {
		return frontend_domain.PostPageData{BackPath: "/", BackLabel: "Back to home"}
	}
	data := frontend_domain.PostPageData{
		Found:      true,
		Post:       post,
		AuthorName: h.Names(post.Author),
		CanEdit:    h.Session.Session() != nil,
		EditPath:   editPath(post.Id),
		BackPath:   blogPath(post.Category),
		BackLabel:  "Back to home",
	}
	if blog, ok := frontend_domain.BlogFor(post.Category); ok {
		data.BackLabel = "Back to " + blog.Name
	}
	return data
}

func (h *Handler) Dashboard() (frontend_domain.DashboardPageData, frontend_domain.Result) {
	s, ok := h.Session.Current()
	if !ok {
		return frontend_domain.DashboardPageData{}, frontend_domain.Result{Redirect: router.LoginRedirect("/dashboard")}
	}
	return frontend_domain.DashboardPageData{Welcome: fmt.Sprintf("Welcome, %s!", s.Name())}, frontend_domain.Result{}
}
