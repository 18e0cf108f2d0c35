package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kailas-cloud/ementa/internal/domain"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
)

// Memory keeps sessions in process memory with sliding expiry.
type Memory struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemory creates an in-memory session repository.
// Expired sessions are swept every cleanupInterval.
func NewMemory(ttl, cleanupInterval time.Duration) *Memory {
	return &Memory{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get loads a session by ID and extends its expiry.
func (m *Memory) Get(_ context.Context, id string) (domsession.State, error) {
	val, found := m.cache.Get(id)
	if !found {
		return domsession.State{}, domain.ErrSessionNotFound
	}
	s := val.(domsession.State)
	m.cache.Set(id, s, m.ttl)
	return s, nil
}

// Save stores a session and resets its expiry.
func (m *Memory) Save(_ context.Context, s domsession.State) error {
	m.cache.Set(s.ID(), s, m.ttl)
	return nil
}

// Delete removes a session.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	return m.cache.ItemCount()
}

// Clear drops every session.
func (m *Memory) Clear() {
	m.cache.Flush()
}
