package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"vacciprofile/internal/catalog"
	"vacciprofile/internal/observability"
	"vacciprofile/internal/session"
)

const (
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 1024
)

// entry serialises every action on one browsing session.
type entry struct {
	mu      sync.Mutex
	session *session.Session
}

// Registry owns the live browsing sessions. Idle sessions expire after the
// TTL; the least recently used one is evicted once the registry is full.
type Registry struct {
	sessions *expirable.LRU[string, *entry]
	logger   *zap.Logger
	recorder observability.Recorder
}

// NewRegistry constructs a registry. Non-positive limits fall back to the
// defaults.
func NewRegistry(maxSessions int, ttl time.Duration, logger *zap.Logger, recorder observability.Recorder) *Registry {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = observability.NopRecorder{}
	}
	r := &Registry{logger: logger, recorder: recorder}
	r.sessions = expirable.NewLRU(maxSessions, func(id string, _ *entry) {
		r.logger.Debug("session evicted", zap.String("session", id))
	}, ttl)
	return r
}

// Create starts a session over c and returns its id.
func (r *Registry) Create(c *catalog.Catalog) string {
	id := uuid.NewString()
	s := session.New(c,
		session.WithLogger(r.logger.With(zap.String("session", id))),
		session.WithRecorder(r.recorder),
	)
	r.sessions.Add(id, &entry{session: s})
	return id
}

// Do runs fn with exclusive access to the session. It reports false when the
// id is unknown or expired. A successful lookup restarts the idle timer.
func (r *Registry) Do(id string, fn func(*session.Session)) bool {
	e, ok := r.sessions.Get(id)
	if !ok {
		return false
	}
	r.sessions.Add(id, e)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
	return true
}

// Delete ends a session.
func (r *Registry) Delete(id string) bool {
	return r.sessions.Remove(id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}
