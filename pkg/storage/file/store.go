// Package file stores form value slots as JSON files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-signupform/pkg/storage"
)

// Store writes each key to <BasePath>/<key>.json.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath, defaulting to ".signupform".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = ".signupform"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("file: key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("file: invalid key %q", key)
	}
	return filepath.Join(s.BasePath, key+".json"), nil
}

// Get reads the blob for key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("file: read %s: %w", key, err)
	}
	return data, nil
}

// Set writes data atomically: a temp file in the same directory is synced
// and renamed over the destination.
func (s *Store) Set(_ context.Context, key string, data []byte) error {
	dest, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("file: ensure directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-"+key+"-*.json")
	if err != nil {
		return fmt.Errorf("file: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("file: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("file: fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("file: replace %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key. Missing files are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file: delete %s: %w", key, err)
	}
	return nil
}
