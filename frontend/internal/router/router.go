// Package router maps client paths to pages, decides whether a page may be
// shown to the current session and derives the page theme.
package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/domain"
)

type Page string

const (
	PageHome       Page = "home"
	PageAbout      Page = "about"
	PageNews       Page = "news"
	PageContact    Page = "contact"
	PageLogin      Page = "login"
	PageSignup     Page = "signup"
	PageBlog       Page = "blog"
	PageCreatePost Page = "create-post"
	PagePost       Page = "post"
	PageEditPost   Page = "edit-post"
	PageDashboard  Page = "dashboard"
	PageNotFound   Page = "not-found"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type Route struct {
	Page     Page
	Path     string
	Category domain.Category // blog and create-post pages
	PostId   domain.PostId   // post and edit-post pages
	Gated    bool
}

const categoryParam = "{category:willow|wishes}"

var (
	table = chi.NewRouter()
	pages = map[string]Page{}
	gated = map[Page]bool{
		PageCreatePost: true,
		PageEditPost:   true,
		PageDashboard:  true,
	}
)

func init() {
	for pattern, page := range map[string]Page{
		"/":                              PageHome,
		"/about":                         PageAbout,
		"/news":                          PageNews,
		"/contact":                       PageContact,
		"/login":                         PageLogin,
		"/signup":                       PageSignup,
		"/blog/" + categoryParam:         PageBlog,
		"/create-post/" + categoryParam:  PageCreatePost,
		"/post/{id}":                     PagePost,
		"/edit-post/{id}":                PageEditPost,
		"/dashboard":                     PageDashboard,
	} {
		table.Get(pattern, http.NotFound)
		pages[pattern] = page
	}
}

// Resolve matches path against the route table. Query strings and a trailing
// slash are ignored; anything unknown is PageNotFound.
func Resolve(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	rctx := chi.NewRouteContext()
	if !table.Match(rctx, http.MethodGet, path) {
		return Route{Page: PageNotFound, Path: path}
	}
	page := pages[rctx.RoutePattern()]
	route := Route{Page: page, Path: path, Gated: gated[page]}
	if c := rctx.URLParam("category"); c != "" {
		route.Category = domain.Category(c)
	}
	if id := rctx.URLParam("id"); id != "" {
		if unescaped, err := url.PathUnescape(id); err == nil {
			id = unescaped
		}
		route.PostId = id
	}
	return route
}

type Action int

const (
	Render Action = iota
	// Placeholder is shown while a stored session is still being checked.
	Placeholder
	Redirect
)

type Decision struct {
	Action Action
	Target string // Redirect only
}

// Guard decides what a gated page shows for the given session status.
func Guard(route Route, status frontend_domain.SessionStatus) Decision {
	if !route.Gated {
		return Decision{Action: Render}
	}
	switch status {
	case frontend_domain.SessionAuthenticated:
		return Decision{Action: Render}
	case frontend_domain.SessionRestoring:
		return Decision{Action: Placeholder}
	default:
		return Decision{Action: Redirect, Target: LoginRedirect(route.Path)}
	}
}

// LoginRedirect is the login page remembering where to go afterwards.
func LoginRedirect(next string) string {
	if next == "" || next == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// LoginTarget returns where to land after signing in. Only local paths are
// honoured; anything else goes home.
func LoginTarget(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	if Resolve(next).Page == PageLogin {
		return "/"
	}
	return next
}

// NextFromLogin reads the preserved destination from a login URL.
func NextFromLogin(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return "/"
	}
	return LoginTarget(u.Query().Get("next"))
}
