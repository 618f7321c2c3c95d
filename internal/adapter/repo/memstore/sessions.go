// Package memstore keeps active interview sessions in process memory,
// the default when no Redis address is configured.
package memstore

import (
	"fmt"
	"sync"

	"github.com/smarthire/ai-interviewer/internal/domain"
)

// SessionRepo implements domain.SessionRepository with a mutex-guarded
// map. Get and Save deep-copy the message log and score history so no
// caller ever holds a reference into the stored session.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// New constructs an empty SessionRepo.
func New() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]domain.Session)}
}

// Get loads a session by id.
func (r *SessionRepo) Get(_ domain.Context, id string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
	}
	return clone(s), nil
}

// Save stores a copy of the session.
func (r *SessionRepo) Save(_ domain.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = clone(s)
	return nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (r *SessionRepo) Delete(_ domain.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func clone(s domain.Session) domain.Session {
	cp := s
	cp.Messages = append([]domain.Message(nil), s.Messages...)
	cp.Scores = append([]int(nil), s.Scores...)
	return cp
}
