package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/shared/domain"
)

var snapshot = []domain.Post{
	{Id: "w", Category: domain.Willow},
	{Id: "s", Category: domain.Wishes},
}

func TestTheme(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		snapshot []domain.Post
		pref     frontend_domain.Theme
		want     frontend_domain.Theme
	}{
		{"willow blog ignores collection", "/blog/willow", nil, frontend_domain.ThemeDark, frontend_domain.ThemeWillow},
		{"wishes blog", "/blog/wishes", snapshot, frontend_domain.ThemeLight, frontend_domain.ThemeWishes},
		{"below a blog root", "/blog/willow/archive/2024", nil, frontend_domain.ThemeDark, frontend_domain.ThemeWillow},
		{"blog root with trailing slash", "/blog/wishes/", nil, frontend_domain.ThemeLight, frontend_domain.ThemeWishes},
		{"blog root with query", "/blog/wishes?page=2", nil, frontend_domain.ThemeLight, frontend_domain.ThemeWishes},
		{"lookalike blog path", "/blog/willowy", nil, frontend_domain.ThemeDark, frontend_domain.ThemeDark},
		{"post in snapshot", "/post/s", snapshot, frontend_domain.ThemeDark, frontend_domain.ThemeWishes},
		{"post being edited", "/edit-post/w", snapshot, frontend_domain.ThemeDark, frontend_domain.ThemeWillow},
		{"post not loaded yet", "/post/s", nil, frontend_domain.ThemeDark, frontend_domain.ThemeDark},
		{"unknown post", "/post/zzz", snapshot, frontend_domain.ThemeLight, frontend_domain.ThemeLight},
		{"home", "/", snapshot, frontend_domain.ThemeDark, frontend_domain.ThemeDark},
		{"create page keeps preference", "/create-post/willow", snapshot, frontend_domain.ThemeLight, frontend_domain.ThemeLight},
		{"empty preference", "/about", nil, "", frontend_domain.ThemeLight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Theme(tt.path, tt.snapshot, tt.pref))
		})
	}
}

func TestThemeTrackerFollowsLateSnapshot(t *testing.T) {
	var changes []frontend_domain.Theme
	tracker := NewThemeTracker(frontend_domain.ThemeDark, func(th frontend_domain.Theme) { changes = append(changes, th) })
	assert.Equal(t, frontend_domain.ThemeDark, tracker.Current())

	assert.Equal(t, frontend_domain.ThemeDark, tracker.Navigate("/post/s"))
	tracker.PostsChanged(snapshot)
	assert.Equal(t, frontend_domain.ThemeWishes, tracker.Current())

	tracker.Navigate("/about")
	tracker.SetPreference(frontend_domain.ThemeLight)

	assert.Equal(t, []frontend_domain.Theme{
		frontend_domain.ThemeWishes,
		frontend_domain.ThemeDark,
		frontend_domain.ThemeLight,
	}, changes)
}
