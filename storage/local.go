package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cafebackend/apperr"
)

// LocalStore writes uploads into a directory served under /uploads. The
// stored image_ref is the bare filename.
type LocalStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, u Upload) (string, error) {
	ext, err := ValidateUpload(u, s.maxBytes)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// The declared size can lie; never write more than the limit.
	n, err := io.Copy(tmp, io.LimitReader(u.Body, s.limit()+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > s.limit() {
		return "", fmt.Errorf("%w: more than %d bytes", apperr.ErrPayloadTooLarge, s.limit())
	}

	name := uniqueName(s.now(), ext)
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return name, nil
}

// Remove deletes a previously stored upload. Missing files are ignored.
func (s *LocalStore) Remove(_ context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) limit() int64 {
	if s.maxBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return s.maxBytes
}
