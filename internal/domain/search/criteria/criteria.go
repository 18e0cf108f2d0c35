package criteria

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/ementa/internal/domain"
)

// Page size limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	// MaxQueryLength is the maximum allowed free-text query length.
	MaxQueryLength = 1024
)

// AnyCourt is the UI label that disables the court filter.
const AnyCourt = "Ambos"

// Criteria is a normalized set of search predicates. Rebuilt on every interaction.
type Criteria struct {
	court    string
	query    string
	outcomes []string
	years    []int
	pageSize int
}

// New validates and normalizes filter criteria.
// Court "", "any" and "Ambos" (any case) disable the court filter.
// Empty outcomes/years disable their filters. pageSize 0 selects the default,
// values above MaxPageSize are clamped.
func New(court, query string, outcomes []string, years []int, pageSize int) (Criteria, error) {
	query = strings.TrimSpace(query)
	if len(query) > MaxQueryLength {
		return Criteria{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidCriteria, MaxQueryLength)
	}
	if pageSize < 0 {
		return Criteria{}, fmt.Errorf("%w: page size must be positive, got %d", domain.ErrInvalidCriteria, pageSize)
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	for _, y := range years {
		if y <= 0 {
			return Criteria{}, fmt.Errorf("%w: invalid year %d", domain.ErrInvalidCriteria, y)
		}
	}

	return Criteria{
		court:    normalizeCourt(court),
		query:    query,
		outcomes: dedupStrings(outcomes),
		years:    dedupInts(years),
		pageSize: pageSize,
	}, nil
}

// Any returns criteria that match every record.
func Any() Criteria {
	return Criteria{pageSize: DefaultPageSize}
}

// Court returns the court to match, or "" for any court.
func (c Criteria) Court() string { return c.court }

// AnyCourt reports whether the court filter is disabled.
func (c Criteria) AnyCourt() bool { return c.court == "" }

// Query returns the trimmed free-text query.
func (c Criteria) Query() string { return c.query }

// Outcomes returns the selected outcomes (empty = all).
func (c Criteria) Outcomes() []string { return c.outcomes }

// Years returns the selected years ascending (empty = all).
func (c Criteria) Years() []int { return c.years }

// PageSize returns the number of records per page.
func (c Criteria) PageSize() int {
	if c.pageSize <= 0 {
		return DefaultPageSize
	}
	return c.pageSize
}

func normalizeCourt(court string) string {
	court = strings.TrimSpace(court)
	if court == "" || strings.EqualFold(court, "any") || strings.EqualFold(court, AnyCourt) {
		return ""
	}
	return court
}

func dedupStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dedupInts(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
