package frontend_domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bacilogs/bacilogs/shared/domain"
)

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{Expires: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{Expires: now}.Expired(now))
	assert.True(t, Session{Expires: now.Add(-time.Minute)}.Expired(now))
}

func TestSessionName(t *testing.T) {
	assert.Equal(t, "Arül", Session{Identity: "arul", DisplayName: "Arül"}.Name())
	assert.Equal(t, "arul", Session{Identity: "arul"}.Name())
}

func TestThemePreference(t *testing.T) {
	assert.Equal(t, ThemeDark, ParsePreference("dark"))
	assert.Equal(t, ThemeLight, ParsePreference("willow"))
	assert.Equal(t, ThemeLight, ParsePreference(""))
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}

func TestBlogFor(t *testing.T) {
	b, ok := BlogFor(domain.Wishes)
	assert.True(t, ok)
	assert.Equal(t, "Gizemeh", b.Author)

	_, ok = BlogFor("news")
	assert.False(t, ok)
}
