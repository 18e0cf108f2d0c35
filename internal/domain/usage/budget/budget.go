// Package budget holds the token budget state of one accounting window.
package budget

import "time"

// Budget is a snapshot of a token budget. A zero limit means unlimited.
type Budget struct {
	limit     int64
	used      int64
	remaining int64
	exhausted bool
	resetsAt  time.Time
}

// New creates a Budget snapshot. Remaining is -1 for an unlimited budget
// and never drops below zero otherwise.
func New(limit, used int64, resetsAt time.Time) Budget {
	remaining := int64(-1)
	if limit > 0 {
		remaining = max(limit-used, 0)
	}
	return Budget{
		limit:     limit,
		used:      used,
		remaining: remaining,
		exhausted: limit > 0 && used >= limit,
		resetsAt:  resetsAt,
	}
}

// Limit returns the token cap (0 = unlimited).
func (b Budget) Limit() int64 { return b.limit }

// Used returns the tokens consumed in the window.
func (b Budget) Used() int64 { return b.used }

// Remaining returns tokens left (-1 = unlimited).
func (b Budget) Remaining() int64 { return b.remaining }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.exhausted }

// ResetsAt returns when the window rolls over.
func (b Budget) ResetsAt() time.Time { return b.resetsAt }

// Unlimited reports whether no cap is configured.
func (b Budget) Unlimited() bool { return b.limit <= 0 }
