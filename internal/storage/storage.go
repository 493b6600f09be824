// Package storage keeps uploaded cover images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotConfigured = errors.New("blob storage not configured")
	ErrForeignURL    = errors.New("url does not belong to this store")
)

// Store saves blobs and hands out public URLs for them.
type Store interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

// objectPath names a new cover object: covers/<random>_<unixmillis>.<ext>.
func objectPath(ext string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("covers/%s_%d.%s", random, now.UnixMilli(), ext)
}

// extension picks the file extension for an upload, preferring the client
// supplied name.
func extension(name, fallback string) string {
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		ext := strings.ToLower(name[i+1:])
		if !strings.ContainsAny(ext, `/\`) {
			return ext
		}
	}
	return strings.TrimPrefix(fallback, ".")
}

// None rejects every upload.
type None struct{}

func (None) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func (None) Delete(context.Context, string) error { return ErrNotConfigured }

func (None) Owns(string) bool { return false }
