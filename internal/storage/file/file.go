// Package file provides a Store persisted as a YAML document on the local
// filesystem.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dinnerroulette/internal/storage"
)

// document is the on-disk layout.
type document struct {
	Values map[string]string `yaml:"values"`
}

// Store keeps all keys in a single YAML file. Every Set rewrites the file
// atomically through a temporary file in the same directory.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a Store backed by path. The file and its parent directory are
// created on first write.
//
// Precondition: path must be non-empty.
// Postcondition: Returns a Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	return &Store{path: filepath.Clean(path)}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func (s *Store) load() (document, error) {
	doc := document{Values: map[string]string{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("reading %s: %w: %w", s.path, storage.ErrUnavailable, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parsing %s: %w: %w", s.path, storage.ErrUnavailable, err)
	}
	if doc.Values == nil {
		doc.Values = map[string]string{}
	}
	return doc, nil
}

// Get returns the value for key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// Set overwrites the value for key and rewrites the file.
//
// Postcondition: On nil error the file on disk holds value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Values[key] = value

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w: %w", dir, storage.ErrUnavailable, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w: %w", storage.ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w: %w", tmpName, storage.ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w: %w", tmpName, storage.ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w: %w", s.path, storage.ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between operations.
func (s *Store) Close() error { return nil }
