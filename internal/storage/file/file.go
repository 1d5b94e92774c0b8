package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/easytobuy/storefront/internal/storage"
)

// Store keeps one file per key under dir
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a file-backed store, creating dir if needed
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir failed: %w", err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s failed: %w", key, err)
	}
	return data, nil
}

// Set writes to a temp file of its own and renames it over the target
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	tmp, err := afero.TempFile(s.fs, s.dir, url.PathEscape(key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s failed: %w", key, err)
	}
	name := tmp.Name()

	_, err = tmp.Write(value)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return fmt.Errorf("write %s failed: %w", key, err)
	}
	if err := s.fs.Rename(name, s.path(key)); err != nil {
		_ = s.fs.Remove(name)
		return fmt.Errorf("rename %s failed: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := s.fs.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s failed: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
