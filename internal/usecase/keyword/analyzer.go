// Package keyword counts user-supplied terms and ranks frequent words over decision summaries.
package keyword

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

// DefaultTopN is the size of the word ranking.
const DefaultTopN = 20

// minWordLen is the exclusive lower bound on ranked word length, in runes.
const minWordLen = 3

// ParseTerms splits a comma-separated term list. Terms are trimmed and lower-cased,
// empty entries dropped, duplicates kept in input order.
func ParseTerms(raw string) []string {
	return NormalizeTerms(strings.Split(raw, ","))
}

// NormalizeTerms trims and lower-cases terms, dropping empty ones.
func NormalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseStopwords reads one stopword per line.
func ParseStopwords(raw string) []string {
	return NormalizeTerms(strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n"))
}

// CountTerms counts, for each term, the records whose summary contains it
// (case-insensitive substring). A record counts at most once per term.
// The returned IDs are the records matching any term, in record order.
func CountTerms(records []decision.Decision, terms []string) ([]analysis.TermCount, []int64) {
	terms = NormalizeTerms(terms)
	table := make([]analysis.TermCount, len(terms))
	for i, t := range terms {
		table[i] = analysis.TermCount{Term: t}
	}
	matched := make([]int64, 0)
	if len(terms) == 0 {
		return table, matched
	}

	for _, r := range records {
		low := strings.ToLower(r.Summary())
		hit := false
		for i := range table {
			if strings.Contains(low, table[i].Term) {
				table[i].Count++
				hit = true
			}
		}
		if hit {
			matched = append(matched, r.ID())
		}
	}
	return table, matched
}

// RankWords returns the topN most frequent words across all summaries.
// Tokens are whitespace-separated and kept only when made entirely of letters;
// tokens of 3 runes or fewer and stopwords are dropped. Ties keep first-occurrence order.
func RankWords(records []decision.Decision, stopwords []string, topN int) []analysis.WordCount {
	if topN <= 0 {
		topN = DefaultTopN
	}
	stop := make(map[string]struct{}, len(stopwords))
	for _, s := range NormalizeTerms(stopwords) {
		stop[s] = struct{}{}
	}

	pos := make(map[string]int)
	counts := make([]analysis.WordCount, 0)
	for _, r := range records {
		for _, tok := range Tokenize(r.Summary()) {
			if _, skip := stop[tok]; skip {
				continue
			}
			if i, ok := pos[tok]; ok {
				counts[i].Count++
				continue
			}
			pos[tok] = len(counts)
			counts = append(counts, analysis.WordCount{Word: tok, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}

// Tokenize lower-cases text and returns its rankable words in order.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= minWordLen || !isAlpha(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
