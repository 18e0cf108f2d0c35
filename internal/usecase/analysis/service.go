// Package analysis runs the filter, keyword and aggregate pipeline and renders its report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	"github.com/kailas-cloud/ementa/internal/logger"
	"github.com/kailas-cloud/ementa/internal/metrics"
	"github.com/kailas-cloud/ementa/internal/render/chart"
	"github.com/kailas-cloud/ementa/internal/usecase/filter"
	"github.com/kailas-cloud/ementa/internal/usecase/keyword"
	"github.com/kailas-cloud/ementa/internal/usecase/report"
)

// DefaultCloudWords is how many ranked words feed the word cloud.
const DefaultCloudWords = 60

// Default analysis inputs, as first shown to the user.
const (
	DefaultTerms     = "dano moral, inconstitucionalidade, repercussão geral"
	DefaultStopwords = "de\na\no\nem\npara\ncom\npor\nque"
)

// Report asset names.
const (
	AssetOutcomes  = "outcomes"
	AssetCourts    = "courts"
	AssetWordCloud = "wordcloud"
	AssetNarrative = "narrative"
)

// Captions printed above each report image.
const (
	captionOutcomes  = "Distribuição de Resultados"
	captionCourts    = "Distribuição por Tribunal"
	captionWordCloud = "Nuvem de Palavras"
)

// Request is one analysis run: the view criteria plus the keyword inputs.
type Request struct {
	Criteria  criteria.Criteria
	Terms     []string
	Stopwords []string
	TopN      int
}

// Service runs analyses and renders their reports.
type Service struct {
	charts     ChartRenderer
	cloud      CloudRenderer
	reports    ReportBuilder
	summarizer Summarizer
	cloudWords int
	logger     *zap.Logger
	now        func() time.Time
}

// New creates an analysis service. summarizer can be nil.
func New(
	charts ChartRenderer, cloud CloudRenderer, reports ReportBuilder,
	summarizer Summarizer, cloudWords int, logger *zap.Logger,
) *Service {
	if cloudWords <= 0 {
		cloudWords = DefaultCloudWords
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		charts:     charts,
		cloud:      cloud,
		reports:    reports,
		summarizer: summarizer,
		cloudWords: cloudWords,
		logger:     logger,
		now:        time.Now,
	}
}

// Run filters the dataset and computes the term table, word ranking and aggregates.
// It never mutates ds and is safe for concurrent use.
func (s *Service) Run(ds decision.Dataset, req Request) domanalysis.Result {
	start := time.Now()

	view := filter.Apply(ds, req.Criteria)
	terms := keyword.NormalizeTerms(req.Terms)
	stopwords := keyword.NormalizeTerms(req.Stopwords)
	freqs, matched := keyword.CountTerms(view, terms)

	res := domanalysis.Result{
		Terms:         terms,
		Stopwords:     stopwords,
		Frequencies:   freqs,
		MatchedIDs:    matched,
		Ranking:       keyword.RankWords(view, stopwords, req.TopN),
		Cloud:         keyword.RankWords(view, stopwords, s.cloudWords),
		ByOutcome:     domanalysis.CountBy(view, decision.Decision.Outcome),
		ByCourt:       domanalysis.CountBy(view, decision.Decision.Court),
		FilteredCount: len(view),
		RanAt:         s.now().UTC(),
	}

	metrics.AnalysisRunsTotal.Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	return res
}

// Matched resolves the matched IDs of res against ds, keeping result order.
func Matched(ds decision.Dataset, res domanalysis.Result) []decision.Decision {
	out := make([]decision.Decision, 0, len(res.MatchedIDs))
	for _, id := range res.MatchedIDs {
		if d, ok := ds.Find(id); ok {
			out = append(out, d)
		}
	}
	return out
}

// Report renders charts, the word cloud and the optional narrative, then builds the PDF.
// Asset failures are logged and the asset left out.
func (s *Service) Report(ctx context.Context, ds decision.Dataset, res domanalysis.Result) ([]byte, error) {
	log := logger.FromContext(ctx, s.logger)

	in := report.Input{
		Frequencies: res.Frequencies,
		Matched:     Matched(ds, res),
		GeneratedAt: res.RanAt,
	}

	type asset struct {
		name, caption string
		render        func() ([]byte, error)
	}
	assets := []asset{
		{AssetOutcomes, captionOutcomes, func() ([]byte, error) { return s.charts.OutcomeBar(res.ByOutcome) }},
		{AssetCourts, captionCourts, func() ([]byte, error) { return s.charts.CourtPie(res.ByCourt) }},
		{AssetWordCloud, captionWordCloud, func() ([]byte, error) { return s.cloud.Render(res.Cloud) }},
	}
	for _, a := range assets {
		png, err := a.render()
		if err != nil {
			log.Warn("Report asset not rendered",
				zap.String("asset", a.name),
				zap.Error(err),
			)
			if !isNoData(err) {
				metrics.ReportAssetsSkippedTotal.WithLabelValues(a.name).Inc()
			}
			continue
		}
		in.Images = append(in.Images, report.Image{Name: a.name, Caption: a.caption, PNG: png})
	}

	if s.summarizer != nil {
		narrative, err := s.summarizer.Summarize(ctx, Digest(res))
		if err != nil {
			log.Warn("Narrative omitted", zap.Error(err))
			metrics.ReportAssetsSkippedTotal.WithLabelValues(AssetNarrative).Inc()
		} else {
			in.Narrative = narrative
		}
	}

	pdf, err := s.reports.Build(in)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return pdf, nil
}

// Digest is the plain-text view of a result handed to the summarizer.
func Digest(res domanalysis.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Decisões analisadas: %d\n", res.FilteredCount)
	fmt.Fprintf(&b, "Decisões com os termos: %d\n", len(res.MatchedIDs))
	b.WriteString("Frequência de termos:\n")
	for _, f := range res.Frequencies {
		fmt.Fprintf(&b, "- %s: %d\n", f.Term, f.Count)
	}
	writeBuckets(&b, "Resultados", res.ByOutcome)
	writeBuckets(&b, "Tribunais", res.ByCourt)
	if len(res.Ranking) > 0 {
		words := make([]string, 0, len(res.Ranking))
		for _, w := range res.Ranking {
			words = append(words, fmt.Sprintf("%s (%d)", w.Word, w.Count))
		}
		fmt.Fprintf(&b, "Palavras frequentes: %s\n", strings.Join(words, ", "))
	}
	return b.String()
}

func writeBuckets(b *strings.Builder, title string, buckets []domanalysis.Bucket) {
	if len(buckets) == 0 {
		return
	}
	parts := make([]string, 0, len(buckets))
	for _, bk := range buckets {
		parts = append(parts, fmt.Sprintf("%s %d", bk.Label, bk.Count))
	}
	fmt.Fprintf(b, "%s: %s\n", title, strings.Join(parts, ", "))
}

// isNoData reports an empty aggregate; those charts are left out without counting as failures.
func isNoData(err error) bool {
	return errors.Is(err, chart.ErrNoData)
}
