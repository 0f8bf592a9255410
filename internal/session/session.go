// Package session holds per-conversation state: the turn history and the
// single-flight busy flag. History lives in memory only and dies with the
// process.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn roles, matching the wire format of the chat endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrBusy is returned when a submission arrives while another one for the
// same session is still in flight.
var ErrBusy = errors.New("session: submission already in flight")

// Turn is one message in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is one conversation. History is append-only and unbounded; callers
// cap what they forward upstream via Recent. All methods are safe for
// concurrent use, though the busy flag means at most one submission is
// actually processed at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	history []Turn
	busy    bool
}

// New creates an empty session with a fresh ID.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// TryAcquire claims the session for one submission. It returns ErrBusy when
// a submission is already in flight; the caller must Release on success.
func (s *Session) TryAcquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// Release clears the busy flag.
func (s *Session) Release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Append adds turns to the history.
func (s *Session) Append(turns ...Turn) {
	s.mu.Lock()
	s.history = append(s.history, turns...)
	s.mu.Unlock()
}

// Replace swaps the whole history. Used when the client sends its own copy
// of the conversation, which is authoritative for that request.
func (s *Session) Replace(turns []Turn) {
	s.mu.Lock()
	s.history = append(s.history[:0:0], turns...)
	s.mu.Unlock()
}

// History returns a copy of the full history.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.history...)
}

// Recent returns a copy of the most recent n turns.
func (s *Session) Recent(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.history) <= n {
		return append([]Turn(nil), s.history...)
	}
	return append([]Turn(nil), s.history[len(s.history)-n:]...)
}

// Len returns the number of turns recorded so far.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
