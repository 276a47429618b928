package router

import (
	"strings"
	"sync"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/domain"
)

// Theme picks the page theme. A blog root and anything below it use the
// blog's category. Post pages use the category of the post if the snapshot
// already holds it. Everything else falls back to the reader's light/dark
// preference.
func Theme(path string, snapshot []domain.Post, pref frontend_domain.Theme) frontend_domain.Theme {
	if c, ok := blogPrefix(path); ok {
		return categoryTheme(c)
	}
	route := Resolve(path)
	switch route.Page {
	case PageBlog:
		return categoryTheme(route.Category)
	case PagePost, PageEditPost:
		for _, p := range snapshot {
			if p.Id == route.PostId && p.Category.Valid() {
				return categoryTheme(p.Category)
			}
		}
	}
	if pref == frontend_domain.ThemeDark {
		return frontend_domain.ThemeDark
	}
	return frontend_domain.ThemeLight
}

func blogPrefix(path string) (domain.Category, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, c := range domain.Categories {
		root := "/blog/" + string(c)
		if path == root || strings.HasPrefix(path, root+"/") {
			return c, true
		}
	}
	return "", false
}

func categoryTheme(c domain.Category) frontend_domain.Theme {
	if c == domain.Wishes {
		return frontend_domain.ThemeWishes
	}
	return frontend_domain.ThemeWillow
}

// ThemeTracker keeps the theme current as the path, the post snapshot or the
// preference change, and reports each change to onChange.
type ThemeTracker struct {
	mu       sync.Mutex
	path     string
	snapshot []domain.Post
	pref     frontend_domain.Theme
	current  frontend_domain.Theme
	onChange func(frontend_domain.Theme)
}

func NewThemeTracker(pref frontend_domain.Theme, onChange func(frontend_domain.Theme)) *ThemeTracker {
	t := &ThemeTracker{path: "/", pref: pref, onChange: onChange}
	t.current = Theme(t.path, nil, pref)
	return t
}

func (t *ThemeTracker) Navigate(path string) frontend_domain.Theme {
	return t.update(func() { t.path = path })
}

// PostsChanged is meant to be registered as a post collection observer.
func (t *ThemeTracker) PostsChanged(posts []domain.Post) {
	t.update(func() { t.snapshot = posts })
}

func (t *ThemeTracker) SetPreference(pref frontend_domain.Theme) frontend_domain.Theme {
	return t.update(func() { t.pref = pref })
}

func (t *ThemeTracker) Current() frontend_domain.Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *ThemeTracker) update(change func()) frontend_domain.Theme {
	t.mu.Lock()
	change()
	next := Theme(t.path, t.snapshot, t.pref)
	changed := next != t.current
	t.current = next
	t.mu.Unlock()

	if changed && t.onChange != nil {
		t.onChange(next)
	}
	return next
}
