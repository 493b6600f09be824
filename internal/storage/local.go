package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MediaPrefix is the URL path the local store's files are served under.
const MediaPrefix = "/media/"

// Local writes objects below a directory served by the API itself.
type Local struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewLocal stores files under dir. baseURL is prepended to MediaPrefix in
// returned URLs and may be empty for host-relative URLs.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(dir, "covers"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}, nil
}

func (s *Local) Dir() string { return s.dir }

func (s *Local) prefix() string {
	return s.baseURL + MediaPrefix
}

func (s *Local) Owns(url string) bool {
	return strings.HasPrefix(url, s.prefix())
}

func (s *Local) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	path := objectPath(extension(name, ""), s.now())
	full := filepath.Join(s.dir, filepath.FromSlash(path))

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return s.prefix() + path, nil
}

func (s *Local) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return ErrForeignURL
	}
	rel := filepath.FromSlash(strings.TrimPrefix(url, s.prefix()))
	full := filepath.Join(s.dir, rel)
	if !strings.HasPrefix(full, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return ErrForeignURL
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
