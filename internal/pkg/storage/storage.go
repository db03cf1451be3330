package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

// FileStorage stores generated artifacts such as exported workbooks.
type FileStorage interface {
	// Upload writes the file and returns its storage key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Download(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	// GetURL returns a URL a client can fetch the file from
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)

	// List returns the stored objects under prefix, newest first
	List(ctx context.Context, prefix string) ([]Object, error)
}

type Object struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
}
