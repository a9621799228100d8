package session

import (
	cryptorand "crypto/rand"
	"math/big"
	mathrand "math/rand"
	"sync"
	"time"

	"tower-climb/internal/ledger"
	"tower-climb/pkg"
)

// Manager holds the active sessions by code. Sessions are created explicitly
// and stopped when removed.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	tokens   ledger.TokenStore
	log      pkg.Logger
}

func NewManager(tokens ledger.TokenStore, log pkg.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		tokens:   tokens,
		log:      log,
	}
}

// Create builds a session under a fresh unique code and starts its ticker.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.sessions[code]; exists {
			continue
		}
		rng := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
		s := New(code, rng, m.tokens, m.log)
		m.sessions[code] = s
		s.Start()
		return s
	}
}

func (m *Manager) Get(code string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[code]
	return s, ok
}

// Remove stops the session's scheduler and drops it.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[code]; ok {
		s.Stop()
		delete(m.sessions, code)
	}
}

// StopAll tears down every session, for process shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, s := range m.sessions {
		s.Stop()
		delete(m.sessions, code)
	}
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := cryptorand.Int(cryptorand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
