// Package narrative guards the report narrative provider with a token budget.
package narrative

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/domain"
	"github.com/kailas-cloud/ementa/internal/domain/usage"
)

// Action defines behavior when the token budget is spent.
type Action string

const (
	// ActionWarn logs a warning but lets the request through.
	ActionWarn Action = "warn"
	// ActionReject blocks the request; the report is built without a narrative.
	ActionReject Action = "reject"
)

const persistTimeout = 2 * time.Second

// Store persists budget counters. IncrBy must be atomic.
type Store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}

// window is the token account of one period.
type window struct {
	period   usage.Period
	limit    int64
	used     int64
	requests int64
	start    time.Time
}

func (w *window) roll(now time.Time) {
	start, _ := w.period.Bounds(now)
	if start.After(w.start) {
		w.used = 0
		w.requests = 0
		w.start = start
	}
}

func (w *window) exceeded() bool { return w.limit > 0 && w.used >= w.limit }

func (w *window) remaining() int64 {
	if w.limit <= 0 {
		return -1
	}
	return max(w.limit-w.used, 0)
}

func (w *window) key() string {
	layout := "2006-01-02"
	if w.period == usage.PeriodMonth {
		layout = "2006-01"
	}
	return fmt.Sprintf("%sbudget:summarizer:%s:%s", domain.KeyPrefix, w.period, w.start.Format(layout))
}

// Tracker counts summarizer tokens per day and per month.
// Check runs in memory; Record writes through to the store when one is attached.
type Tracker struct {
	mu     sync.Mutex
	day    window
	month  window
	action Action
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// NewTracker creates a tracker. A zero limit disables that window.
func NewTracker(dailyLimit, monthlyLimit int64, action Action, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		day:    window{period: usage.PeriodDay, limit: dailyLimit},
		month:  window{period: usage.PeriodMonth, limit: monthlyLimit},
		action: action,
		now:    time.Now,
		logger: logger,
	}
	now := t.now()
	t.day.roll(now)
	t.month.roll(now)
	return t
}

// WithStore attaches a persistence store and loads the current counters.
func (t *Tracker) WithStore(ctx context.Context, store Store) *Tracker {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store = store
	t.rollLocked()
	for _, w := range []*window{&t.day, &t.month} {
		used, err := store.Get(ctx, w.key())
		if err != nil {
			t.logger.Warn("Failed to load summarizer budget",
				zap.String("period", string(w.period)),
				zap.Error(err),
			)
			continue
		}
		w.used = used
	}

	t.logger.Info("Summarizer budget loaded",
		zap.Int64("daily_used", t.day.used),
		zap.Int64("monthly_used", t.month.used),
	)
	return t
}

// Check reports whether a new request fits the budget.
func (t *Tracker) Check(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollLocked()
	if !t.day.exceeded() && !t.month.exceeded() {
		return nil
	}
	if t.action == ActionReject {
		return domain.ErrSummarizerBudgetExceeded
	}

	t.logger.Warn("Summarizer token budget exceeded",
		zap.Int64("daily_used", t.day.used),
		zap.Int64("daily_limit", t.day.limit),
		zap.Int64("monthly_used", t.month.used),
		zap.Int64("monthly_limit", t.month.limit),
	)
	return nil
}

// Record registers one completed request and its tokens.
func (t *Tracker) Record(ctx context.Context, tokens int64) {
	t.mu.Lock()
	t.rollLocked()
	for _, w := range []*window{&t.day, &t.month} {
		w.used += tokens
		w.requests++
	}
	store := t.store
	keys := []string{t.day.key(), t.month.key()}
	t.mu.Unlock()

	if store == nil || tokens <= 0 {
		return
	}

	// Persisting outlives a cancelled request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	for _, key := range keys {
		if _, err := store.IncrBy(ctx, key, tokens); err != nil {
			t.logger.Warn("Failed to persist summarizer budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Limit returns the token cap of a period (0 = unlimited).
func (t *Tracker) Limit(p usage.Period) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window(p).limit
}

// Used returns tokens consumed in the current period.
func (t *Tracker) Used(p usage.Period) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollLocked()
	return t.window(p).used
}

// Remaining returns tokens left in the current period (-1 = unlimited).
func (t *Tracker) Remaining(p usage.Period) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollLocked()
	return t.window(p).remaining()
}

// Requests returns completion requests recorded by this process in the current period.
func (t *Tracker) Requests(p usage.Period) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollLocked()
	return t.window(p).requests
}

func (t *Tracker) window(p usage.Period) *window {
	if p == usage.PeriodMonth {
		return &t.month
	}
	return &t.day
}

func (t *Tracker) rollLocked() {
	now := t.now()
	t.day.roll(now)
	t.month.roll(now)
}
