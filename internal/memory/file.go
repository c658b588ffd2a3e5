package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prathamesh/auto-apply/internal/types"
)

// FileStore persists the question/answer mapping to a single JSON file
// (the original qa_memory.json layout: a flat string-to-string object).
// Every write flushes to disk through a temp-file rename so an interrupted
// process can never leave a half-written store behind. Safe for concurrent
// use: the control server exports and imports memory from request goroutines
// while a fill pass is writing.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

// OpenFileStore loads the store at path, creating an empty one if the file
// does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memory file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to parse memory file %s: %w", path, err)
	}
	return s, nil
}

// Get returns the answer for a question key, if present.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[types.NormalizeKey(key)]
	return v, ok, nil
}

// Set records an answer and flushes the store to disk.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	nk := types.NormalizeKey(key)
	if nk == "" {
		return fmt.Errorf("memory key is empty after normalization")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[nk] = value
	return s.flush()
}

// SetMany writes the same value under every key and flushes once, so the
// fan-out lands on disk as a single batch.
func (s *FileStore) SetMany(_ context.Context, keys []string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if nk := types.NormalizeKey(key); nk != "" {
			s.entries[nk] = value
		}
	}
	return s.flush()
}

// Export returns a copy of the whole mapping.
func (s *FileStore) Export(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

// Import shallow-merges entries into the store; imported keys win.
func (s *FileStore) Import(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range normalizeEntries(entries) {
		s.entries[k] = v
	}
	return s.flush()
}

// Len returns the number of stored entries.
func (s *FileStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close is a no-op for the file backend; every write is already flushed.
func (s *FileStore) Close() error { return nil }

// flush writes the mapping to a temp file in the same directory and renames
// it over the store path. Callers hold mu.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".qa_memory-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp memory file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close memory file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace memory file: %w", err)
	}
	return nil
}
