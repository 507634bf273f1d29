// internal/game/session_store.go
package game

import "sync"

// SessionStore tracks the one live session per chat. It is the unit of
// cross-chat isolation: its own mutex only guards the map, never session
// internals.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// AddIfAbsent installs s only when the chat has no session, making the
// open-check and the insert one critical section. Terminal sessions leave
// the store via OnEnd before their lock is released, so presence alone
// means the chat is occupied.
func (st *SessionStore) AddIfAbsent(s *Session) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.ChatID]; ok {
		return false
	}
	st.sessions[s.ChatID] = s
	return true
}

func (st *SessionStore) Get(chatID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[chatID]
	return s, ok
}

func (st *SessionStore) Delete(chatID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, chatID)
}

func (st *SessionStore) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
