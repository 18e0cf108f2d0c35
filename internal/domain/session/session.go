// Package session holds the per-user working state: the loaded dataset,
// the last browse position and the last analysis.
package session

import (
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
)

// Source tells how the dataset entered the session.
type Source string

const (
	// SourceUpload is a user-supplied file.
	SourceUpload Source = "upload"
	// SourceSample is a generated example dataset.
	SourceSample Source = "sample"
)

// State is one session (immutable value object; updates return copies).
type State struct {
	id           string
	dataset      decision.Dataset
	source       Source
	criteria     criteria.Criteria
	page         int
	lastAnalysis *analysis.Result
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates a fresh session positioned on the first page of the unfiltered dataset.
func New(id string, ds decision.Dataset, source Source, now time.Time) State {
	return State{
		id:        id,
		dataset:   ds,
		source:    source,
		criteria:  criteria.Any(),
		page:      1,
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstruct creates a State from stored data.
func Reconstruct(
	id string, ds decision.Dataset, source Source, c criteria.Criteria, page int,
	last *analysis.Result, createdAt, updatedAt time.Time,
) State {
	return State{
		id:           id,
		dataset:      ds,
		source:       source,
		criteria:     c,
		page:         page,
		lastAnalysis: last,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the session identifier.
func (s State) ID() string { return s.id }

// Dataset returns the loaded decisions.
func (s State) Dataset() decision.Dataset { return s.dataset }

// Source returns how the dataset was obtained.
func (s State) Source() Source { return s.source }

// Criteria returns the last browse criteria.
func (s State) Criteria() criteria.Criteria { return s.criteria }

// Page returns the last browsed page (1-based).
func (s State) Page() int { return s.page }

// CreatedAt returns when the session was opened.
func (s State) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the time of the last interaction.
func (s State) UpdatedAt() time.Time { return s.updatedAt }

// LastAnalysis returns the most recent analysis, if any ran.
func (s State) LastAnalysis() (analysis.Result, bool) {
	if s.lastAnalysis == nil {
		return analysis.Result{}, false
	}
	return *s.lastAnalysis, true
}

// WithBrowse records the current criteria and page.
func (s State) WithBrowse(c criteria.Criteria, page int, now time.Time) State {
	s.criteria = c
	s.page = page
	s.updatedAt = now
	return s
}

// WithAnalysis records the latest analysis result.
func (s State) WithAnalysis(res analysis.Result, now time.Time) State {
	s.lastAnalysis = &res
	s.updatedAt = now
	return s
}
