package srs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// sessionStore keeps the in-memory session state. Sessions are ephemeral:
// a restart loses them, and the engine never expires them on its own.
// The host calls Expire with its own idle policy.
//
// The store owns the canonical session structs. mu guards the map only;
// reading or writing a stored session's mutable fields requires the user's
// lock, which is why the public API hands out clones instead of the
// originals.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.StudySession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*domain.StudySession)}
}

func (st *sessionStore) put(s *domain.StudySession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// get returns the stored session when it exists and belongs to the user.
// The caller must hold the user's lock before touching mutable fields.
func (st *sessionStore) get(userID, sessionID uuid.UUID) (*domain.StudySession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, false
	}
	return s, true
}

func (st *sessionStore) delete(sessionID uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionID)
}

// Expire removes sessions started before the cutoff and returns how many
// were dropped. Completion state is irrelevant: an idle InProgress session
// is exactly what this is for.
func (st *sessionStore) Expire(cutoff time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for id, s := range st.sessions {
		if s.StartedAt.Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}
