package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
)

// LocalStore keeps uploads in a directory on local disk.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if it does not exist.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes r to a new file. An existing name is never overwritten.
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if !validName(name) {
		return "", os.ErrInvalid
	}
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	logger.Log.Infow("storage",
		"backend", "local",
		"path", path,
		"size", n,
		"contentType", contentType,
		"error", err,
	)

	if err != nil {
		os.Remove(path)
		return "", err
	}
	return PublicPath(name), nil
}

// Open returns the stored upload. A missing file yields ErrNotFound.
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
