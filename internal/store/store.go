package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// KV is the minimal key-value contract the repository is built on. Tests can
// substitute an in-memory implementation.
type KV interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value any) error
	Update(key string, fn func(cur json.RawMessage) (any, error)) error
}

// FileStore keeps the whole database as one JSON object in a single file.
// The file is read once at Open; every Set rewrites it in full, so the
// in-memory map and the file agree as soon as Set returns. Each write is
// O(total stored data) — fine for a single small chat room, a scaling limit
// beyond that.
//
// Reminder timers run on their own goroutines, so all access goes through a
// mutex; read-modify-write sequences must use Update, which holds the lock
// for the whole cycle.
type FileStore struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	data map[string]json.RawMessage
}

// Open loads an existing store file. A missing or unparsable file is an
// error: the process cannot run without its state.
func Open(fs afero.Fs, path string) (*FileStore, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	data := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode store file %s: %w", path, err)
	}
	return &FileStore{fs: fs, path: path, data: data}, nil
}

// Create writes an empty store file, making any parent directories, and
// returns the opened store. Used for first-run provisioning.
func Create(fs afero.Fs, path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	s := &FileStore{fs: fs, path: path, data: make(map[string]json.RawMessage)}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flush(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value for key, or false when the key is absent.
func (s *FileStore) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set inserts or overwrites a key and immediately rewrites the backing file.
func (s *FileStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flush()
}

// Update applies fn to the current value of key (nil when absent) and
// persists fn's result. The lock is held across the whole read-modify-write,
// so concurrent mutations of the same key cannot lose updates. An error from
// fn leaves the key untouched.
func (s *FileStore) Update(key string, fn func(cur json.RawMessage) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.data[key])
	if err != nil {
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	s.data[key] = raw
	return s.flush()
}

// flush serializes the whole map to the backing file. Callers hold s.mu.
func (s *FileStore) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}
