package session

import "sync"

// Store is an in-memory registry of live sessions keyed by ID. Sessions are
// never persisted; a restart starts everyone over.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session with the given ID, or nil.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// GetOrCreate returns the session with the given ID, minting a new one when
// the ID is empty or unknown.
func (st *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if s := st.Get(id); s != nil {
			return s
		}
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	// Re-check under the write lock: another request may have created it.
	if id != "" {
		if s := st.sessions[id]; s != nil {
			return s
		}
	}
	s := New()
	st.sessions[s.ID] = s
	return s
}

// Remove drops a session from the store.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
