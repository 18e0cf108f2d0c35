package session

import (
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
)

func TestNew(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ds, err := decision.NewDataset(nil, false, false)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}

	s := New("abc", ds, SourceSample, now)
	if s.ID() != "abc" || s.Source() != SourceSample {
		t.Errorf("unexpected identity %q/%q", s.ID(), s.Source())
	}
	if s.Page() != 1 {
		t.Errorf("expected page 1, got %d", s.Page())
	}
	if !s.Criteria().AnyCourt() || s.Criteria().Query() != "" {
		t.Error("expected unfiltered criteria")
	}
	if _, ok := s.LastAnalysis(); ok {
		t.Error("fresh session must have no analysis")
	}
}

func TestWithUpdatesReturnCopies(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	later := start.Add(time.Minute)
	s := New("abc", decision.Dataset{}, SourceUpload, start)

	c, err := criteria.New("STF", "dano", nil, nil, 0)
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	browsed := s.WithBrowse(c, 3, later)
	if browsed.Page() != 3 || browsed.Criteria().Court() != "STF" {
		t.Errorf("browse not recorded: page=%d court=%q", browsed.Page(), browsed.Criteria().Court())
	}
	if s.Page() != 1 {
		t.Error("original state changed")
	}
	if !browsed.UpdatedAt().Equal(later) || !browsed.CreatedAt().Equal(start) {
		t.Error("unexpected timestamps")
	}

	analyzed := browsed.WithAnalysis(analysis.Result{FilteredCount: 7}, later)
	res, ok := analyzed.LastAnalysis()
	if !ok || res.FilteredCount != 7 {
		t.Errorf("analysis not recorded: %v %+v", ok, res)
	}
	if _, ok := browsed.LastAnalysis(); ok {
		t.Error("original state gained an analysis")
	}
}
