// Package budget persists summarizer token counters in the key-value store.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/ementa/internal/db"
)

// store is the consumer interface for budget operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Store implements narrative.Store on top of the KV facade (INCRBY + GET with TTL).
type Store struct {
	store    store
	dailyTTL time.Duration
	monthTTL time.Duration
}

// Recommended counter lifetimes: a daily key outlives its day, a monthly key its month.
const (
	DefaultDailyTTL = 48 * time.Hour
	DefaultMonthTTL = 62 * 24 * time.Hour
)

// New creates a budget store.
func New(s store, dailyTTL, monthTTL time.Duration) *Store {
	return &Store{
		store:    s,
		dailyTTL: dailyTTL,
		monthTTL: monthTTL,
	}
}

// IncrBy atomically increments a counter. The TTL is set when the increment created the key.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) (int64, error) {
	n, err := s.store.IncrBy(ctx, key, val)
	if err != nil {
		return 0, fmt.Errorf("budget INCRBY %s: %w", key, err)
	}

	if n == val {
		if err := s.store.Expire(ctx, key, s.ttlForKey(key)); err != nil {
			return n, fmt.Errorf("budget EXPIRE %s: %w", key, err)
		}
	}
	return n, nil
}

// Get returns the current counter. A missing key reads as 0.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("budget GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("budget GET %s parse: %w", key, err)
	}
	return val, nil
}

// ttlForKey picks the TTL from the key layout ementa:budget:summarizer:{day|month}:...
func (s *Store) ttlForKey(key string) time.Duration {
	if strings.Contains(key, ":day:") {
		return s.dailyTTL
	}
	return s.monthTTL
}
