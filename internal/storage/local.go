package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type LocalStore struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create storage dir %q: %w", basePath, err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (l *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.OpenInRoot(l.basePath, filepath.Clean(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object %q: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// Exists takes a key and returns true if the file exists and can be opened
func (l *LocalStore) Exists(_ context.Context, key string) bool {
	key = filepath.Clean(key)

	f, err := os.OpenInRoot(l.basePath, key)
	if err != nil {
		return false
	}

	defer f.Close() // overkill to consider errors if only checking existence
	return true
}

func (l *LocalStore) Save(_ context.Context, key string, body io.Reader) error {
	key = filepath.Clean(key)

	root, err := os.OpenRoot(l.basePath)
	if err != nil {
		return fmt.Errorf("cannot open storage root: %w", err)
	}
	defer root.Close()

	if dir := filepath.Dir(key); dir != "." {
		if err := root.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create dir for %q: %w", key, err)
		}
	}

	// write to a temp name and rename so a failed write never leaves a
	// half-written object under the final key
	tmp := key + ".part"
	f, err := root.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", key, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		root.Remove(tmp)
		return fmt.Errorf("cannot write %q: %w", key, err)
	}

	if err := f.Close(); err != nil {
		root.Remove(tmp)
		return fmt.Errorf("cannot close %q: %w", key, err)
	}

	if err := root.Rename(tmp, key); err != nil {
		root.Remove(tmp)
		return fmt.Errorf("cannot finalise %q: %w", key, err)
	}

	return nil
}

func (l *LocalStore) Delete(_ context.Context, key string) error {
	root, err := os.OpenRoot(l.basePath)
	if err != nil {
		return fmt.Errorf("cannot open storage root: %w", err)
	}
	defer root.Close()

	return root.Remove(filepath.Clean(key))
}
