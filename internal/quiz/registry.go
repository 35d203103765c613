package quiz

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizdeck/quizdeck/internal/model"
)

// Registry tracks live sessions by ID. Session state is single-attempt
// and memory-only; completed sessions stay readable until purged so the
// interface can still fetch the final report.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create builds a session over the question list and registers it under a
// fresh ID.
func (r *Registry) Create(questions []model.Question) (*Session, error) {
	s, err := NewSession(uuid.NewString(), questions)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
	return s, nil
}

// Get returns the session with the given ID, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Remove drops a session from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.Playback().Stop()
		delete(r.sessions, id)
	}
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Purge removes sessions created more than maxAge ago and returns how
// many were dropped. Abandoned attempts are reclaimed here rather than
// persisted anywhere.
func (r *Registry) Purge(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for id, s := range r.sessions {
		if s.CreatedAt().Before(cutoff) {
			s.Playback().Stop()
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// PurgeLoop purges on every interval tick until ctx is canceled.
func (r *Registry) PurgeLoop(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Purge(maxAge); n > 0 {
				slog.Info("Purged stale quiz sessions", "count", n)
			}
		}
	}
}
