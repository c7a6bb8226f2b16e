package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"vacciprofile/internal/session"
	"vacciprofile/testutil"
)

func TestRegistryExpiresIdleSessions(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewRegistry(4, 30*time.Millisecond, zap.New(core), nil)
	id := r.Create(testutil.Catalog())
	require.True(t, r.Do(id, func(*session.Session) {}))

	assert.Eventually(t, func() bool {
		return !r.Do(id, func(*session.Session) {})
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("session evicted").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	r := NewRegistry(2, time.Minute, nil, nil)
	first := r.Create(testutil.Catalog())
	second := r.Create(testutil.Catalog())
	require.True(t, r.Do(first, func(*session.Session) {}))

	third := r.Create(testutil.Catalog())
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Do(first, func(*session.Session) {}))
	assert.False(t, r.Do(second, func(*session.Session) {}))
	assert.True(t, r.Do(third, func(*session.Session) {}))
}

func TestRegistrySessionsAreIndependent(t *testing.T) {
	r := NewRegistry(0, 0, nil, nil)
	a := r.Create(testutil.Catalog())
	b := r.Create(testutil.Catalog())
	require.NotEqual(t, a, b)

	r.Do(a, func(s *session.Session) { s.Search("pfizer") })
	r.Do(b, func(s *session.Session) {
		assert.Empty(t, s.Filter().Keyword)
		assert.Len(t, s.Visible(), 5)
	})
	assert.True(t, r.Delete(a))
	assert.False(t, r.Delete(a))
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "/api/v1/sessions/{id}/search", route("/api/v1/sessions/abc/search"))
	assert.Equal(t, "/api/v1/sessions", route("/api/v1/sessions"))
	assert.Equal(t, "/healthz", route("/healthz"))
}

func TestSegmentsUnescape(t *testing.T) {
	assert.Equal(t, []string{"WHO/PQ", "vaccines"}, segments("WHO%2FPQ/vaccines"))
}
