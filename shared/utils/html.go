package utils

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = newContentPolicy()
	stripPolicy   = bluemonday.StrictPolicy()
)

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	p.AllowAttrs("class").OnElements("p", "span", "div", "pre", "code")
	return p
}

// SanitizeContent keeps the formatting a rich-text editor produces and drops
// scripts, handlers and other active content.
func SanitizeContent(content string) string {
	return contentPolicy.Sanitize(content)
}

// StripTags returns the visible text of an HTML fragment with whitespace
// collapsed.
func StripTags(content string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(content))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt strips tags and cuts the text to at most n runes, appending an
// ellipsis when something was cut.
func Excerpt(content string, n int) string {
	text := StripTags(content)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "..."
}
