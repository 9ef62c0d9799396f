package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/dallenport/jobpilot/internal/orchestrator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPrefixLen is the number of leading token characters used as the lookup
// key. Only the bcrypt hash of the full token is retained.
const TokenPrefixLen = 8

const tokenBytes = 24

// Factory builds the orchestrator for a newly created session.
type Factory func(sessionID uuid.UUID) *orchestrator.Orchestrator

// Manager is the in-memory session table.
type Manager struct {
	factory Factory
	maxIdle time.Duration

	mu       sync.RWMutex
	byPrefix map[string][]*Session
}

// NewManager creates a session manager. Sessions idle longer than maxIdle are
// dropped by SweepIdle.
func NewManager(factory Factory, maxIdle time.Duration) *Manager {
	return &Manager{
		factory:  factory,
		maxIdle:  maxIdle,
		byPrefix: make(map[string][]*Session),
	}
}

// Create mints a new session and returns its bearer token. The token is shown
// once; only its hash is kept.
func (m *Manager) Create() (string, *Session, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("generating token: %w", err)
	}
	token := "jp_" + hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hashing token: %w", err)
	}

	id := uuid.New()
	s := &Session{
		ID:           id,
		Orchestrator: m.factory(id),
		tokenHash:    hash,
	}
	s.Touch()

	prefix := token[:TokenPrefixLen]
	m.mu.Lock()
	m.byPrefix[prefix] = append(m.byPrefix[prefix], s)
	m.mu.Unlock()

	return token, s, nil
}

// Authenticate resolves a bearer token to its session, comparing against the
// stored hash. Returns false for unknown or expired tokens.
func (m *Manager) Authenticate(token string) (*Session, bool) {
	if len(token) < TokenPrefixLen {
		return nil, false
	}

	m.mu.RLock()
	candidates := append([]*Session(nil), m.byPrefix[token[:TokenPrefixLen]]...)
	m.mu.RUnlock()

	for _, s := range candidates {
		if bcrypt.CompareHashAndPassword(s.tokenHash, []byte(token)) == nil {
			s.Touch()
			return s, true
		}
	}
	return nil, false
}

// Remove drops a session, ending it.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for prefix, sessions := range m.byPrefix {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(m.byPrefix, prefix)
		} else {
			m.byPrefix[prefix] = kept
		}
	}
}

// SweepIdle drops sessions idle longer than the configured maximum and
// returns how many were removed. A busy session is never swept.
func (m *Manager) SweepIdle() int {
	cutoff := time.Now().Add(-m.maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for prefix, sessions := range m.byPrefix {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.seen().Before(cutoff) && !s.busy.Load() {
				removed++
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			delete(m.byPrefix, prefix)
		} else {
			m.byPrefix[prefix] = kept
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, sessions := range m.byPrefix {
		n += len(sessions)
	}
	return n
}
