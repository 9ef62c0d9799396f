// Package session manages authenticated user sessions. Each session owns one
// orchestrator, and with it all Working Set state, in memory for the session's
// lifetime. Nothing is rehydrated from storage.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dallenport/jobpilot/internal/orchestrator"
	"github.com/google/uuid"
)

// Session is one authenticated user's workflow state.
type Session struct {
	ID           uuid.UUID
	Orchestrator *orchestrator.Orchestrator

	tokenHash []byte
	busy      atomic.Bool

	mu       sync.Mutex
	lastSeen time.Time
}

// TryAcquire claims the session for a mutating operation. There is one logical
// thread of control per session: callers that fail to acquire must reject the
// operation rather than queue it.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

// Release ends the current operation.
func (s *Session) Release() {
	s.busy.Store(false)
}

// Touch records activity for idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
