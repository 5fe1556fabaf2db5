package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

type FileStorage interface {
	// Upload stores a file and returns its relative path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Open retrieves a file
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of a stored path
	URL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}
