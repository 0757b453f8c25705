// Package clientstate provides the durable key-value storage backing
// client session state: the cart and the per-view filter state.
package clientstate

import (
	"os"
	"path/filepath"
	"sync"
)

// Storage is a small key-value store with web-storage semantics: Load
// reports absence instead of erroring, Save overwrites.
type Storage interface {
	Load(key string) ([]byte, bool)
	Save(key string, value []byte)
	Remove(key string)
}

// MemStorage keeps state for the lifetime of the process.
type MemStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{items: make(map[string][]byte)}
}

func (s *MemStorage) Load(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *MemStorage) Save(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
}

func (s *MemStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// FileStorage persists each key as a file under dir, surviving
// restarts the way browser local storage survives navigation.
type FileStorage struct {
	mu  sync.Mutex
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStorage) Load(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *FileStorage) Save(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.WriteFile(s.path(key), value, 0o644)
}

func (s *FileStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.path(key))
}
