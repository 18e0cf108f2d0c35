// Package session persists session state in memory or in a shared key-value store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/ementa/internal/db"
	"github.com/kailas-cloud/ementa/internal/domain"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
)

var keyPrefix = domain.KeyPrefix + "session:"

// kvStore is the consumer interface for the shared store (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo stores sessions as JSON documents in a key-value store.
// Reads slide the expiry so active sessions stay alive.
type Repo struct {
	store kvStore
	ttl   time.Duration
}

// NewRepo creates a KV-backed session repository.
func NewRepo(s kvStore, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Get loads a session by ID.
func (r *Repo) Get(ctx context.Context, id string) (domsession.State, error) {
	data, err := r.store.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsession.State{}, domain.ErrSessionNotFound
		}
		return domsession.State{}, fmt.Errorf("get session: %w", err)
	}

	s, err := unmarshalState(data)
	if err != nil {
		return domsession.State{}, err
	}

	if err := r.store.Expire(ctx, keyPrefix+id, r.ttl); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsession.State{}, domain.ErrSessionNotFound
		}
		return domsession.State{}, fmt.Errorf("refresh session ttl: %w", err)
	}
	return s, nil
}

// Save writes a session and resets its expiry.
func (r *Repo) Save(ctx context.Context, s domsession.State) error {
	data, err := marshalState(s)
	if err != nil {
		return err
	}
	if err := r.store.SetWithTTL(ctx, keyPrefix+s.ID(), data, r.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session. Missing sessions are not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
