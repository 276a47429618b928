// Package titleimage prepares the optional picture shown above a post.
// Remote images stay URLs; local files are embedded as data URIs.
package titleimage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/bacilogs/bacilogs/shared/errors"
)

const (
	MaxBytes     = 8 << 20
	MaxDimension = 8000
)

var mimeByFormat = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

// Load turns ref into a title image value. An http(s) or data URL passes
// through; anything else is read as a file path. Empty ref is no image.
func Load(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if isURL(ref) {
		return ref, nil
	}

	info, err := os.Stat(ref)
	if err != nil {
		return "", fmt.Errorf("title image: %w", err)
	}
	if info.Size() > MaxBytes {
		return "", errors.BadRequest(fmt.Sprintf("Title image is larger than %d MB", MaxBytes>>20))
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("title image: %w", err)
	}
	return Encode(data)
}

// Encode checks that data is a supported image and returns it as a data URI.
func Encode(data []byte) (string, error) {
	if len(data) > MaxBytes {
		return "", errors.BadRequest(fmt.Sprintf("Title image is larger than %d MB", MaxBytes>>20))
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errors.BadRequest("Title image is not a supported image")
	}
	mimeType, ok := mimeByFormat[format]
	if !ok {
		return "", errors.BadRequest(fmt.Sprintf("Title image format %s is not supported", format))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return "", errors.BadRequest(fmt.Sprintf("Title image must be at most %dx%d pixels", MaxDimension, MaxDimension))
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func isURL(ref string) bool {
	if strings.HasPrefix(ref, "data:image/") {
		return true
	}
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
