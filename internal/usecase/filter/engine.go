// Package filter narrows a dataset down to the records matching a set of criteria.
package filter

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
)

// Apply returns the records of ds that satisfy every predicate of c.
// The dataset is never mutated. When the dataset has a date column the result is
// ordered by date descending with undated records last; otherwise load order is kept.
func Apply(ds decision.Dataset, c criteria.Criteria) []decision.Decision {
	query := strings.ToLower(c.Query())
	outcomes := toSet(c.Outcomes())
	years := make(map[int]struct{}, len(c.Years()))
	for _, y := range c.Years() {
		years[y] = struct{}{}
	}
	// The year filter only applies when the source carries dates at all.
	yearActive := len(years) > 0 && ds.HasDate()

	out := make([]decision.Decision, 0, ds.Len())
	for _, r := range ds.Records() {
		if !c.AnyCourt() && !strings.EqualFold(r.Court(), c.Court()) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Summary()), query) {
			continue
		}
		if len(outcomes) > 0 {
			if _, ok := outcomes[r.Outcome()]; !ok {
				continue
			}
		}
		if yearActive {
			y, ok := r.Year()
			if !ok {
				continue
			}
			if _, ok := years[y]; !ok {
				continue
			}
		}
		out = append(out, r)
	}

	if ds.HasDate() {
		sortByDateDesc(out)
	}
	return out
}

// sortByDateDesc orders records newest first, undated last. Stable: ties keep load order.
func sortByDateDesc(records []decision.Decision) {
	sort.SliceStable(records, func(i, j int) bool {
		di, iok := records[i].Date()
		dj, jok := records[j].Date()
		switch {
		case iok && jok:
			return di.After(dj)
		case iok:
			return true
		default:
			return false
		}
	})
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
