package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Storage is the key/value persistence the store writes the session through.
// Implementations must treat a missing key as (value="", ok=false), not an error.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// FileStorage keeps one file per key under a private directory, the same way
// the CLI keeps its other local state.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("empty storage dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStorage) Get(key string) (string, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func (s *FileStorage) Set(key, value string) error {
	return os.WriteFile(s.path(key), []byte(value), 0o600)
}

func (s *FileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemStorage is an in-memory Storage for tests.
type MemStorage struct {
	m map[string]string

	getErr error
	setErr error
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: map[string]string{}}
}

func (s *MemStorage) Get(key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStorage) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.m[key] = value
	return nil
}

func (s *MemStorage) Remove(key string) error {
	delete(s.m, key)
	return nil
}
