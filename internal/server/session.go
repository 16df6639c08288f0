package server

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/nmurali/pixvault/internal/auth"
)

// SessionStore maps opaque cookie tokens to gate session records so that
// sessions can live in memory (default) or be swapped for another backing
// store. Records are confined to one user's interaction context; the store
// itself must tolerate concurrent requests.
type SessionStore interface {
	// Get retrieves the session for token. ok is false when the token
	// is unknown.
	Get(token string) (auth.Session, bool)
	// Put creates or replaces the session for token.
	Put(token string, s auth.Session)
	// Delete removes the session for token.
	Delete(token string)
}

// memoryStore is the default in-memory SessionStore.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]auth.Session)}
}

func (m *memoryStore) Get(token string) (auth.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	return s, ok
}

func (m *memoryStore) Put(token string, s auth.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = s
}

func (m *memoryStore) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// newToken returns a random 128-bit hex token.
func newToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
