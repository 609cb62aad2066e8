package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cafebackend/apperr"

	"github.com/google/uuid"
)

const DefaultMaxUploadBytes int64 = 5 << 20

var allowedImageTypes = regexp.MustCompile(`^(jpeg|jpg|png|gif|webp)$`)

// Upload is one image file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// ImageStore persists an upload and returns the value to keep in image_ref.
// Remove undoes a Save whose menu row never got written.
type ImageStore interface {
	Save(ctx context.Context, u Upload) (string, error)
	Remove(ctx context.Context, ref string) error
}

// ValidateUpload checks the extension, declared MIME type and size of u and
// returns the normalized extension (with dot).
func ValidateUpload(u Upload, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if !allowedImageTypes.MatchString(strings.TrimPrefix(ext, ".")) {
		return "", fmt.Errorf("%w: extension %q, only jpeg, jpg, png, gif and webp images are allowed",
			apperr.ErrUnsupportedMediaType, ext)
	}

	mediaType, _, err := mime.ParseMediaType(u.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") ||
		!allowedImageTypes.MatchString(strings.TrimPrefix(mediaType, "image/")) {
		return "", fmt.Errorf("%w: content type %q", apperr.ErrUnsupportedMediaType, u.ContentType)
	}

	if u.Size > maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", apperr.ErrPayloadTooLarge, u.Size, maxBytes)
	}
	return ext, nil
}

// uniqueName builds menu-<unix millis>-<random><ext>.
func uniqueName(now time.Time, ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("menu-%d-%s%s", now.UnixMilli(), id, ext)
}
