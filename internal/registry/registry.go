// Package registry keeps the live interview sessions in memory, keyed by
// opaque ids.
package registry

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/interviewd/config"
	"github.com/mohammad-safakhou/interviewd/internal/interview"
	"github.com/mohammad-safakhou/interviewd/internal/provider"
	"github.com/mohammad-safakhou/interviewd/internal/rag"
)

// ErrNotFound reports an unknown session id; the HTTP layer maps it to 404.
var ErrNotFound = errors.New("session not found")

// Registry creates sessions over freshly built indexes and looks them up by
// id. All methods are safe for concurrent use.
type Registry struct {
	embedder  provider.Embedder
	generator provider.Generator
	cfg       config.InterviewConfig

	mu       sync.RWMutex
	sessions map[string]*interview.Session
}

func New(emb provider.Embedder, gen provider.Generator, cfg config.InterviewConfig) *Registry {
	return &Registry{
		embedder:  emb,
		generator: gen,
		cfg:       cfg,
		sessions:  make(map[string]*interview.Session),
	}
}

// Create registers a new session over idx under a fresh id and returns it.
func (r *Registry) Create(idx *rag.Index) *interview.Session {
	sess := interview.NewSession(uuid.NewString(), idx, r.embedder, r.generator, r.cfg)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
	return sess
}

// Get looks a session up by id.
func (r *Registry) Get(id string) (*interview.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session and reports whether it existed. Deleting an
// unknown id is a no-op.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// List snapshots every live session, oldest first. The pointers are copied
// out before taking each status: Status holds the session's own lock and an
// in-flight turn can keep that lock across a model call.
func (r *Registry) List() []interview.Status {
	r.mu.RLock()
	sessions := make([]*interview.Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.mu.RUnlock()

	out := make([]interview.Status, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Status())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
