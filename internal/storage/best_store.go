package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

// FileBestStore persists per-mode best scores as a small JSON map,
// the server-side stand-in for the browser's local storage keys.
type FileBestStore struct {
	mu    sync.Mutex
	path  string
	cache map[string]int
}

func NewFileBestStore(path string) (*FileBestStore, error) {
	s := &FileBestStore{path: path, cache: make(map[string]int)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.cache); err != nil {
		// A corrupt file loses history but never blocks play.
		s.cache = make(map[string]int)
	}
	return s, nil
}

func (s *FileBestStore) Best(mode game.Mode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[string(mode)]
}

func (s *FileBestStore) SetBest(mode game.Mode, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[string(mode)] = score
	return s.flushLocked()
}

func (s *FileBestStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// MemoryBestStore is the in-process fake used by tests and sessions
// that do not want persistence.
type MemoryBestStore struct {
	mu    sync.Mutex
	cache map[string]int
}

func NewMemoryBestStore() *MemoryBestStore {
	return &MemoryBestStore{cache: make(map[string]int)}
}

func (s *MemoryBestStore) Best(mode game.Mode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[string(mode)]
}

func (s *MemoryBestStore) SetBest(mode game.Mode, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[string(mode)] = score
	return nil
}
