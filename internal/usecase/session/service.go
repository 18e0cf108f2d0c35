// Package session implements the per-user workflows: load a dataset, browse it,
// run analyses and export their results.
package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/dataset"
	"github.com/kailas-cloud/ementa/internal/domain"
	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
	"github.com/kailas-cloud/ementa/internal/logger"
	"github.com/kailas-cloud/ementa/internal/metrics"
	"github.com/kailas-cloud/ementa/internal/usecase/analysis"
	"github.com/kailas-cloud/ementa/internal/usecase/filter"
)

// Facets are the filter options offered for a dataset.
type Facets struct {
	Outcomes []string
	Courts   []string
	Years    []int
	HasDate  bool
}

// Service handles session workflows.
type Service struct {
	repo      Repository
	analyzer  Analyzer
	maxUpload int64
	logger    *zap.Logger
	newID     func() string
	now       func() time.Time
	seed      func() uint64
}

// New creates a session service. maxUpload bounds uploads in bytes; 0 disables the limit.
func New(repo Repository, analyzer Analyzer, maxUpload int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		analyzer:  analyzer,
		maxUpload: maxUpload,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
		seed:      func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// Open loads an uploaded file into a new session.
func (s *Service) Open(ctx context.Context, r io.Reader) (domsession.State, error) {
	raw, err := s.readUpload(r)
	if err != nil {
		return domsession.State{}, err
	}
	ds, err := dataset.Load(bytes.NewReader(raw))
	if err != nil {
		return domsession.State{}, fmt.Errorf("load dataset: %w", err)
	}
	return s.open(ctx, ds, domsession.SourceUpload)
}

// OpenSample starts a session over a generated example dataset of n rows (0 = default).
func (s *Service) OpenSample(ctx context.Context, n int) (domsession.State, error) {
	ds, err := dataset.Sample(n, s.seed())
	if err != nil {
		return domsession.State{}, fmt.Errorf("generate sample: %w", err)
	}
	return s.open(ctx, ds, domsession.SourceSample)
}

func (s *Service) open(ctx context.Context, ds decision.Dataset, source domsession.Source) (domsession.State, error) {
	st := domsession.New(s.newID(), ds, source, s.now().UTC())
	if err := s.repo.Save(ctx, st); err != nil {
		return domsession.State{}, fmt.Errorf("save session: %w", err)
	}

	metrics.DatasetsLoadedTotal.WithLabelValues(string(source)).Inc()
	metrics.DatasetRecords.Observe(float64(ds.Len()))
	logger.FromContext(ctx, s.logger).Info("Session opened",
		zap.String("session", st.ID()),
		zap.String("source", string(source)),
		zap.Int("records", ds.Len()),
		zap.Bool("has_date", ds.HasDate()),
	)
	return st, nil
}

func (s *Service) readUpload(r io.Reader) ([]byte, error) {
	if s.maxUpload <= 0 {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
		}
		return raw, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
	}
	if int64(len(raw)) > s.maxUpload {
		return nil, fmt.Errorf("%w: limit is %d bytes", domain.ErrPayloadTooLarge, s.maxUpload)
	}
	return raw, nil
}

// Get returns a session.
func (s *Service) Get(ctx context.Context, id string) (domsession.State, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsession.State{}, fmt.Errorf("get session: %w", err)
	}
	return st, nil
}

// Close discards a session.
func (s *Service) Close(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Browse filters the session dataset, returns the requested page and remembers the position.
func (s *Service) Browse(ctx context.Context, id string, c criteria.Criteria, page int) (filter.Page, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return filter.Page{}, err
	}

	p := filter.Paginate(filter.Apply(st.Dataset(), c), page, c.PageSize())

	if err := s.repo.Save(ctx, st.WithBrowse(c, p.Page, s.now().UTC())); err != nil {
		return filter.Page{}, fmt.Errorf("save session: %w", err)
	}
	return p, nil
}

// Decision returns one full record of the session dataset.
func (s *Service) Decision(ctx context.Context, id string, decisionID int64) (decision.Decision, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return decision.Decision{}, err
	}
	d, ok := st.Dataset().Find(decisionID)
	if !ok {
		return decision.Decision{}, fmt.Errorf("decision %d: %w", decisionID, domain.ErrDecisionNotFound)
	}
	return d, nil
}

// Facets lists the outcome, court and year options of the session dataset.
func (s *Service) Facets(ctx context.Context, id string) (Facets, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return Facets{}, err
	}
	ds := st.Dataset()
	return Facets{
		Outcomes: ds.Outcomes(),
		Courts:   ds.Courts(),
		Years:    ds.Years(),
		HasDate:  ds.HasDate(),
	}, nil
}

// Analyze runs the analysis pipeline and keeps the result as the session's last analysis.
func (s *Service) Analyze(ctx context.Context, id string, req analysis.Request) (domanalysis.Result, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return domanalysis.Result{}, err
	}

	res := s.analyzer.Run(st.Dataset(), req)

	if err := s.repo.Save(ctx, st.WithAnalysis(res, s.now().UTC())); err != nil {
		return domanalysis.Result{}, fmt.Errorf("save session: %w", err)
	}
	logger.FromContext(ctx, s.logger).Info("Analysis completed",
		zap.String("session", id),
		zap.Int("filtered", res.FilteredCount),
		zap.Int("matched", len(res.MatchedIDs)),
		zap.Int("terms", len(res.Terms)),
	)
	return res, nil
}

// MatchedCSV exports the decisions matched by the last analysis.
func (s *Service) MatchedCSV(ctx context.Context, id string) ([]byte, error) {
	st, res, err := s.lastAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dataset.WriteMatched(&buf, analysis.Matched(st.Dataset(), res), st.Dataset().HasDate()); err != nil {
		return nil, fmt.Errorf("export matched: %w", err)
	}
	return buf.Bytes(), nil
}

// FrequencyCSV exports the term frequency table of the last analysis.
func (s *Service) FrequencyCSV(ctx context.Context, id string) ([]byte, error) {
	_, res, err := s.lastAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dataset.WriteFrequencies(&buf, res.Frequencies); err != nil {
		return nil, fmt.Errorf("export frequencies: %w", err)
	}
	return buf.Bytes(), nil
}

// Report renders the PDF report of the last analysis.
func (s *Service) Report(ctx context.Context, id string) ([]byte, error) {
	st, res, err := s.lastAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.analyzer.Report(ctx, st.Dataset(), res)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return pdf, nil
}

func (s *Service) lastAnalysis(ctx context.Context, id string) (domsession.State, domanalysis.Result, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return domsession.State{}, domanalysis.Result{}, err
	}
	res, ok := st.LastAnalysis()
	if !ok {
		return domsession.State{}, domanalysis.Result{}, domain.ErrNoAnalysis
	}
	return st, res, nil
}
