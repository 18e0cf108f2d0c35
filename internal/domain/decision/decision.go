package decision

import (
	"fmt"
	"strings"
	"time"
)

// Decision is a single judicial decision (immutable value object).
type Decision struct {
	id      int64
	court   string
	summary string
	outcome string
	date    time.Time
	hasDate bool
	link    string
}

// New validates and creates a Decision.
// ID must be non-negative. Court and outcome are trimmed; summary is kept verbatim.
func New(id int64, court, summary, outcome string) (Decision, error) {
	if id < 0 {
		return Decision{}, fmt.Errorf("decision ID must be non-negative, got %d", id)
	}
	return Decision{
		id:      id,
		court:   strings.TrimSpace(court),
		summary: summary,
		outcome: strings.TrimSpace(outcome),
	}, nil
}

// Reconstruct creates a Decision without validation (storage hydration).
// A zero date means "no date".
func Reconstruct(id int64, court, summary, outcome string, date time.Time, link string) Decision {
	return Decision{
		id: id, court: court, summary: summary, outcome: outcome,
		date: date, hasDate: !date.IsZero(), link: link,
	}
}

// ID returns the decision identifier.
func (d Decision) ID() int64 { return d.id }

// Court returns the issuing court label.
func (d Decision) Court() string { return d.court }

// Summary returns the abstract text. Never null, possibly empty.
func (d Decision) Summary() string { return d.summary }

// Outcome returns the decision result label.
func (d Decision) Outcome() string { return d.outcome }

// Date returns the decision date and whether it is known.
func (d Decision) Date() (time.Time, bool) { return d.date, d.hasDate }

// Year returns the calendar year of the decision date.
func (d Decision) Year() (int, bool) {
	if !d.hasDate {
		return 0, false
	}
	return d.date.Year(), true
}

// Link returns the display-only URL.
func (d Decision) Link() string { return d.link }

// WithDate returns a copy with the given date set.
func (d Decision) WithDate(t time.Time) Decision {
	d.date = t
	d.hasDate = !t.IsZero()
	return d
}

// WithLink returns a copy with the given link set.
func (d Decision) WithLink(link string) Decision {
	d.link = strings.TrimSpace(link)
	return d
}
