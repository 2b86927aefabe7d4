package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Filesystem stores blobs as flat files under a single directory.
type Filesystem struct {
	dir string
	mu  sync.RWMutex
}

// NewFilesystem creates the directory if needed and returns a store rooted there.
func NewFilesystem(dir string) (*Filesystem, error) {
	if dir == "" {
		return nil, errors.New("blob directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &Filesystem{dir: dir}, nil
}

// Name identifies the backend in health output.
func (f *Filesystem) Name() string { return "filesystem" }

// Put writes the blob atomically via a temp file and rename.
func (f *Filesystem) Put(_ context.Context, key, _ string, data []byte) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	if len(data) == 0 {
		return errors.New("blob data cannot be empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store blob: %w", err)
	}
	return nil
}

// Get reads a blob and sniffs its content type.
func (f *Filesystem) Get(_ context.Context, key string) (*Object, error) {
	if !ValidKey(key) {
		return nil, ErrNotFound
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return &Object{Key: key, ContentType: DetectContentType(data), Data: data}, nil
}

// Delete removes the blob file.
func (f *Filesystem) Delete(_ context.Context, key string) error {
	if !ValidKey(key) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Exists reports whether the blob file is present.
func (f *Filesystem) Exists(_ context.Context, key string) (bool, error) {
	if !ValidKey(key) {
		return false, nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	_, err := os.Stat(f.path(key))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat blob: %w", err)
	}
}

// Ping checks the directory is still there and writable.
func (f *Filesystem) Ping(_ context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("blob directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob directory %s is not a directory", f.dir)
	}
	return nil
}

func (f *Filesystem) path(key string) string {
	return filepath.Join(f.dir, key)
}
