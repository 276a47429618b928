package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis and paragraphs",
			input:    "A *soft* **wind**\n\nsecond",
			contains: []string{"<em>soft</em>", "<strong>wind</strong>", "<p>second</p>"},
		},
		{
			name:     "strikethrough",
			input:    "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "hard wraps",
			input:    "line one\nline two",
			contains: []string{"<br"},
		},
		{
			name:     "script is stripped",
			input:    "hi <script>alert(1)</script>",
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "link kept",
			input:    "[home](https://example.com)",
			contains: []string{`href="https://example.com"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.input)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
