package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Storage backed by a single JSON file so sessions
// survive restarts. Writes go through a temp file and rename so a crash
// mid-write never leaves a truncated state file.
type FileStore struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// NewFileStore loads the state file at path, creating an empty store when
// the file does not exist. A corrupt state file is discarded with a warning
// rather than failing startup.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &s.items); err != nil {
		log.Printf("[store] discarding corrupt state file %s: %v", path, err)
		s.items = make(map[string]string)
	}
	return s, nil
}

// Get looks up a stored value.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.items[key]
	return value, ok
}

// Set stores a value under key and flushes to disk.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return s.flushLocked()
}

// Remove deletes a key and flushes to disk.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
