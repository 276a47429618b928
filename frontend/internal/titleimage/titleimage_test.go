package titleimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacilogs/bacilogs/shared/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got, err := Load("  ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("url passes through", func(t *testing.T) {
		got, err := Load("https://example.com/willow.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/willow.jpg", got)
	})

	t.Run("data uri passes through", func(t *testing.T) {
		got, err := Load("data:image/png;base64,AAAA")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,AAAA", got)
	})

	t.Run("png file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "title.png")
		require.NoError(t, os.WriteFile(path, pngBytes(t, 4, 3), 0o600))

		got, err := Load(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
		assert.Error(t, err)
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("just words"), 0o600))

		_, err := Load(path)
		assert.ErrorIs(t, err, errors.ErrValidation)
	})
}

func TestEncodeRejectsHugeDimensions(t *testing.T) {
	_, err := Encode(pngBytes(t, MaxDimension+1, 1))
	assert.ErrorIs(t, err, errors.ErrValidation)
}
