// Package usage describes summarizer token consumption per accounting period.
package usage

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/usage/budget"
)

// Period is the accounting window.
type Period string

// Accounting period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty selects PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day or month)", s)
	}
}

// Bounds returns the UTC start and end of the period containing t.
func (p Period) Bounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	if p == PeriodMonth {
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Report is the summarizer usage of one period.
type Report struct {
	period   Period
	start    time.Time
	end      time.Time
	requests int64
	budget   budget.Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end time.Time, requests int64, b budget.Budget) Report {
	return Report{
		period:   period,
		start:    start,
		end:      end,
		requests: requests,
		budget:   b,
	}
}

// Period returns the accounting window.
func (r Report) Period() Period { return r.period }

// Start returns the period start.
func (r Report) Start() time.Time { return r.start }

// End returns the period end.
func (r Report) End() time.Time { return r.end }

// Requests returns the number of completion requests in the period.
func (r Report) Requests() int64 { return r.requests }

// Budget returns the budget status.
func (r Report) Budget() budget.Budget { return r.budget }
