package analysis

import (
	"sort"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

// TermCount is one row of the term frequency table: how many records contain Term.
type TermCount struct {
	Term  string
	Count int
}

// WordCount is one entry of the word ranking.
type WordCount struct {
	Word  string
	Count int
}

// Bucket is one label of an aggregate (e.g. an outcome) with its record count.
type Bucket struct {
	Label string
	Count int
}

// Result is the outcome of one analysis run over a filtered view.
type Result struct {
	Terms       []string
	Stopwords   []string
	Frequencies []TermCount
	MatchedIDs  []int64
	Ranking     []WordCount
	Cloud       []WordCount // longer ranking feeding the word cloud image
	ByOutcome   []Bucket
	ByCourt     []Bucket

	// FilteredCount is the size of the view the analysis ran on.
	FilteredCount int
	RanAt         time.Time
}

// IsMatched reports whether id is part of the matched set.
func (r *Result) IsMatched(id int64) bool {
	for _, m := range r.MatchedIDs {
		if m == id {
			return true
		}
	}
	return false
}

// CountBy tallies records by key, ordered by count descending, ties by first appearance.
// Empty labels are skipped.
func CountBy(records []decision.Decision, key func(decision.Decision) string) []Bucket {
	pos := make(map[string]int)
	buckets := make([]Bucket, 0)
	for _, r := range records {
		label := key(r)
		if label == "" {
			continue
		}
		if i, ok := pos[label]; ok {
			buckets[i].Count++
			continue
		}
		pos[label] = len(buckets)
		buckets = append(buckets, Bucket{Label: label, Count: 1})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}
