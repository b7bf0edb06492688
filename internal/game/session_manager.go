package game

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"sync"
)

type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create starts a session over the given sampler. Returns
// ErrDatasetUnavailable when the pool cannot produce a real pair.
func (sm *SessionManager) Create(mode Mode, sampler *Sampler, best BestStore) (*Session, error) {
	if !sampler.Ready() {
		return nil, ErrDatasetUnavailable
	}

	code := sm.generateCode(6)
	s := NewSession(code, mode, sampler, best)

	sm.mu.Lock()
	sm.sessions[code] = s
	sm.mu.Unlock()

	return s, nil
}

func (sm *SessionManager) Get(code string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[strings.ToUpper(code)]
	return s, ok
}

func (sm *SessionManager) Remove(code string) {
	sm.mu.Lock()
	delete(sm.sessions, strings.ToUpper(code))
	sm.mu.Unlock()
}

func (sm *SessionManager) generateCode(n int) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)

	s := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)
	s = strings.NewReplacer("O", "A", "I", "B", "0", "C", "1", "D").Replace(s)

	return strings.ToUpper(s[:n])
}
