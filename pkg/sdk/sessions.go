package ementa

import (
	"context"
	"fmt"
	"io"
	"time"

	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
	analysisuc "github.com/kailas-cloud/ementa/internal/usecase/analysis"
	"github.com/kailas-cloud/ementa/internal/usecase/filter"
	"github.com/kailas-cloud/ementa/internal/usecase/keyword"
)

// SessionService loads, browses and analyzes decision datasets.
type SessionService struct {
	svc sessionUseCase
	obs *observer
}

// Open loads a decision file (CSV, comma or semicolon separated, UTF-8 or Latin-1)
// into a new session.
func (s *SessionService) Open(ctx context.Context, r io.Reader) (_ Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.open", start, err) }()

	st, err := s.svc.Open(ctx, r)
	if err != nil {
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	return fromInternalSession(st), nil
}

// OpenSample creates a session over n generated decisions.
func (s *SessionService) OpenSample(ctx context.Context, n int) (_ Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.open_sample", start, err) }()

	st, err := s.svc.OpenSample(ctx, n)
	if err != nil {
		return Session{}, fmt.Errorf("open sample session: %w", err)
	}
	return fromInternalSession(st), nil
}

// Get returns a session by ID.
func (s *SessionService) Get(ctx context.Context, id string) (_ Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.get", start, err) }()

	st, err := s.svc.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return fromInternalSession(st), nil
}

// Close discards a session.
func (s *SessionService) Close(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.close", start, err) }()

	if err = s.svc.Close(ctx, id); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// Browse returns one page of the filtered dataset. Out-of-range pages are clamped.
func (s *SessionService) Browse(ctx context.Context, id string, f Filter, page int) (_ Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.browse", start, err) }()

	c, err := toInternalCriteria(f)
	if err != nil {
		return Page{}, fmt.Errorf("browse: %w", err)
	}
	p, err := s.svc.Browse(ctx, id, c, page)
	if err != nil {
		return Page{}, fmt.Errorf("browse: %w", err)
	}
	return fromInternalPage(p), nil
}

// Decision returns one full decision of the session dataset.
func (s *SessionService) Decision(ctx context.Context, id string, decisionID int64) (_ Decision, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.decision", start, err) }()

	d, err := s.svc.Decision(ctx, id, decisionID)
	if err != nil {
		return Decision{}, fmt.Errorf("get decision: %w", err)
	}
	return fromInternalDecision(d), nil
}

// Facets lists the outcome, court and year options of the session dataset.
func (s *SessionService) Facets(ctx context.Context, id string) (_ Facets, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.facets", start, err) }()

	f, err := s.svc.Facets(ctx, id)
	if err != nil {
		return Facets{}, fmt.Errorf("get facets: %w", err)
	}
	return Facets{Outcomes: f.Outcomes, Courts: f.Courts, Years: f.Years, HasDate: f.HasDate}, nil
}

// Analyze runs an analysis over the filtered dataset and keeps it as the session's last one.
func (s *SessionService) Analyze(ctx context.Context, id string, req AnalysisRequest) (_ Analysis, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.analyze", start, err) }()

	c, err := toInternalCriteria(req.Filter)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	terms := req.Terms
	if terms == nil {
		terms = keyword.ParseTerms(analysisuc.DefaultTerms)
	}
	stopwords := req.Stopwords
	if stopwords == nil {
		stopwords = keyword.ParseStopwords(analysisuc.DefaultStopwords)
	}

	res, err := s.svc.Analyze(ctx, id, analysisuc.Request{
		Criteria:  c,
		Terms:     terms,
		Stopwords: stopwords,
		TopN:      req.TopN,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	return fromInternalResult(res), nil
}

// MatchedCSV exports the decisions matched by the last analysis.
func (s *SessionService) MatchedCSV(ctx context.Context, id string) (_ []byte, err error) {
	start := time.Now()
	defer func() { s.obs.observe("export.matched", start, err) }()

	data, err := s.svc.MatchedCSV(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("export matched: %w", err)
	}
	return data, nil
}

// FrequencyCSV exports the term frequency table of the last analysis.
func (s *SessionService) FrequencyCSV(ctx context.Context, id string) (_ []byte, err error) {
	start := time.Now()
	defer func() { s.obs.observe("export.frequency", start, err) }()

	data, err := s.svc.FrequencyCSV(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("export frequencies: %w", err)
	}
	return data, nil
}

// Report renders the PDF report of the last analysis.
func (s *SessionService) Report(ctx context.Context, id string) (_ []byte, err error) {
	start := time.Now()
	defer func() { s.obs.observe("export.report", start, err) }()

	data, err := s.svc.Report(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}
	return data, nil
}

func toInternalCriteria(f Filter) (criteria.Criteria, error) {
	c, err := criteria.New(f.Court, f.Query, f.Outcomes, f.Years, f.PageSize)
	if err != nil {
		return criteria.Criteria{}, fmt.Errorf("filter: %w", err)
	}
	return c, nil
}

func fromInternalSession(st domsession.State) Session {
	ds := st.Dataset()
	c := st.Criteria()
	s := Session{
		ID:      st.ID(),
		Source:  Source(st.Source()),
		Records: ds.Len(),
		HasDate: ds.HasDate(),
		HasLink: ds.HasLink(),
		Filter: Filter{
			Court:    c.Court(),
			Query:    c.Query(),
			Outcomes: c.Outcomes(),
			Years:    c.Years(),
			PageSize: c.PageSize(),
		},
		Page:      st.Page(),
		CreatedAt: st.CreatedAt(),
		UpdatedAt: st.UpdatedAt(),
	}
	if res, ok := st.LastAnalysis(); ok {
		s.LastAnalysis = &AnalysisSummary{
			Terms:         res.Terms,
			FilteredCount: res.FilteredCount,
			MatchedCount:  len(res.MatchedIDs),
			RanAt:         res.RanAt,
		}
	}
	return s
}

func fromInternalDecision(d decision.Decision) Decision {
	date, ok := d.Date()
	return Decision{
		ID:      d.ID(),
		Court:   d.Court(),
		Summary: d.Summary(),
		Outcome: d.Outcome(),
		Date:    date,
		HasDate: ok,
		Link:    d.Link(),
	}
}

func fromInternalPage(p filter.Page) Page {
	items := make([]Decision, len(p.Items))
	for i, d := range p.Items {
		items[i] = fromInternalDecision(d)
	}
	return Page{
		Decisions:  items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	}
}

func fromInternalResult(res domanalysis.Result) Analysis {
	freqs := make([]TermCount, len(res.Frequencies))
	for i, f := range res.Frequencies {
		freqs[i] = TermCount{Term: f.Term, Count: f.Count}
	}
	ranking := make([]WordCount, len(res.Ranking))
	for i, w := range res.Ranking {
		ranking[i] = WordCount{Word: w.Word, Count: w.Count}
	}
	return Analysis{
		Terms:         res.Terms,
		Stopwords:     res.Stopwords,
		Frequencies:   freqs,
		MatchedIDs:    res.MatchedIDs,
		Ranking:       ranking,
		ByOutcome:     fromInternalBuckets(res.ByOutcome),
		ByCourt:       fromInternalBuckets(res.ByCourt),
		FilteredCount: res.FilteredCount,
		RanAt:         res.RanAt,
	}
}

func fromInternalBuckets(buckets []domanalysis.Bucket) []Bucket {
	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		out[i] = Bucket{Label: b.Label, Count: b.Count}
	}
	return out
}
