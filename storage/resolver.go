package storage

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	UploadsURLPrefix = "/uploads/"
	DefaultAssetURL  = "/assets/default-menu.png"
)

// Resolver turns a stored image_ref into a URL the frontend can load.
type Resolver struct {
	uploadsDir string
	fallback   string
}

func NewResolver(uploadsDir string) *Resolver {
	return &Resolver{uploadsDir: uploadsDir, fallback: DefaultAssetURL}
}

func (r *Resolver) Default() string {
	return r.fallback
}

// Resolve applies, in order: empty or null-like -> default asset; absolute
// http(s)/data URL -> unchanged; /uploads/ path or bare filename -> upload
// URL if the file exists on disk, default otherwise; anything else -> default.
func (r *Resolver) Resolve(ref *string) string {
	if ref == nil {
		return r.fallback
	}
	v := strings.TrimSpace(*ref)
	if IsNullRef(v) {
		return r.fallback
	}
	if IsAbsoluteURL(v) {
		return v
	}
	if strings.HasPrefix(v, UploadsURLPrefix) {
		name := strings.TrimPrefix(v, UploadsURLPrefix)
		if name == "" || strings.ContainsAny(name, `/\`) {
			return r.fallback
		}
		return r.uploadURL(name)
	}
	if !strings.ContainsAny(v, `/\`) {
		return r.uploadURL(v)
	}
	return r.fallback
}

func (r *Resolver) ResolveString(ref string) string {
	return r.Resolve(&ref)
}

// Exists reports whether name is a regular file in the uploads dir.
func (r *Resolver) Exists(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	info, err := os.Stat(filepath.Join(r.uploadsDir, name))
	return err == nil && info.Mode().IsRegular()
}

func (r *Resolver) uploadURL(name string) string {
	if !r.Exists(name) {
		return r.fallback
	}
	return path.Join(UploadsURLPrefix, name)
}

func IsNullRef(v string) bool {
	return v == "" || strings.EqualFold(v, "null") || strings.EqualFold(v, "undefined")
}

func IsAbsoluteURL(v string) bool {
	return strings.HasPrefix(v, "http://") ||
		strings.HasPrefix(v, "https://") ||
		strings.HasPrefix(v, "data:")
}
