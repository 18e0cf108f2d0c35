package analysis

import (
	"context"

	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/usecase/report"
)

// ChartRenderer draws the aggregate charts.
type ChartRenderer interface {
	OutcomeBar(buckets []domanalysis.Bucket) ([]byte, error)
	CourtPie(buckets []domanalysis.Bucket) ([]byte, error)
}

// CloudRenderer draws the word cloud.
type CloudRenderer interface {
	Render(words []domanalysis.WordCount) ([]byte, error)
}

// ReportBuilder lays out the PDF.
type ReportBuilder interface {
	Build(in report.Input) ([]byte, error)
	SampleRows() int
}

// Summarizer writes a short narrative from an analysis digest.
type Summarizer interface {
	Summarize(ctx context.Context, digest string) (string, error)
}
