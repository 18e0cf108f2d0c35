package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
)

func TestOutcomeBar(t *testing.T) {
	r := NewRenderer()
	out, err := r.OutcomeBar([]analysis.Bucket{
		{Label: "Procedente", Count: 3},
		{Label: "Improcedente", Count: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if cfg.Width != defaultWidth || cfg.Height != defaultHeight {
		t.Errorf("expected %dx%d, got %dx%d", defaultWidth, defaultHeight, cfg.Width, cfg.Height)
	}
}

func TestOutcomeBar_SingleBucket(t *testing.T) {
	r := &Renderer{}
	if _, err := r.OutcomeBar([]analysis.Bucket{{Label: "Procedente", Count: 1}}); err != nil {
		t.Fatalf("single bar should render: %v", err)
	}
}

func TestOutcomeBar_Empty(t *testing.T) {
	r := NewRenderer()
	_, err := r.OutcomeBar(nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestCourtPie(t *testing.T) {
	r := NewRenderer()
	out, err := r.CourtPie([]analysis.Bucket{
		{Label: "STF", Count: 2},
		{Label: "STJ", Count: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(out)); err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
}

func TestCourtPie_NoPositiveValues(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		name    string
		buckets []analysis.Bucket
	}{
		{"nil", nil},
		{"zero counts", []analysis.Bucket{{Label: "STF", Count: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.CourtPie(tt.buckets); !errors.Is(err, ErrNoData) {
				t.Errorf("expected ErrNoData, got %v", err)
			}
		})
	}
}
