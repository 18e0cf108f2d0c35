package decision

import (
	"fmt"
	"slices"
	"sort"

	"github.com/kailas-cloud/ementa/internal/domain"
)

// Dataset is the loaded record store of one session. Immutable once built.
type Dataset struct {
	records []Decision
	index   map[int64]int
	hasDate bool
	hasLink bool
}

// NewDataset builds a Dataset and enforces ID uniqueness.
// hasDate/hasLink describe the source schema, not individual records.
func NewDataset(records []Decision, hasDate, hasLink bool) (Dataset, error) {
	index := make(map[int64]int, len(records))
	for i, r := range records {
		if prev, ok := index[r.ID()]; ok {
			return Dataset{}, fmt.Errorf("%w: duplicate ID %d at rows %d and %d",
				domain.ErrInvalidDataset, r.ID(), prev+1, i+1)
		}
		index[r.ID()] = i
	}
	return Dataset{
		records: slices.Clone(records),
		index:   index,
		hasDate: hasDate,
		hasLink: hasLink,
	}, nil
}

// Records returns a copy of the records in load order.
func (d Dataset) Records() []Decision { return slices.Clone(d.records) }

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// HasDate reports whether the source schema carried a date column.
func (d Dataset) HasDate() bool { return d.hasDate }

// HasLink reports whether the source schema carried a link column.
func (d Dataset) HasLink() bool { return d.hasLink }

// Find returns the decision with the given ID.
func (d Dataset) Find(id int64) (Decision, bool) {
	i, ok := d.index[id]
	if !ok {
		return Decision{}, false
	}
	return d.records[i], true
}

// Outcomes returns the distinct non-empty outcomes, sorted.
func (d Dataset) Outcomes() []string {
	return d.distinct(Decision.Outcome)
}

// Courts returns the distinct non-empty courts, sorted.
func (d Dataset) Courts() []string {
	return d.distinct(Decision.Court)
}

// Years returns the distinct years of dated records, ascending.
func (d Dataset) Years() []int {
	seen := make(map[int]struct{})
	for _, r := range d.records {
		if y, ok := r.Year(); ok {
			seen[y] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (d Dataset) distinct(key func(Decision) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range d.records {
		v := key(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
