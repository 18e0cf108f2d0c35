package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain"
	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
	"github.com/kailas-cloud/ementa/internal/usecase/analysis"
)

// --- Mocks ---

type mockRepo struct {
	states  map[string]domsession.State
	saves   int
	saveErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{states: map[string]domsession.State{}}
}

func (m *mockRepo) Get(_ context.Context, id string) (domsession.State, error) {
	s, ok := m.states[id]
	if !ok {
		return domsession.State{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockRepo) Save(_ context.Context, s domsession.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.states[s.ID()] = s
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	delete(m.states, id)
	return nil
}

type mockAnalyzer struct {
	result    domanalysis.Result
	req       analysis.Request
	reportErr error
	reported  domanalysis.Result
}

func (m *mockAnalyzer) Run(_ decision.Dataset, req analysis.Request) domanalysis.Result {
	m.req = req
	return m.result
}

func (m *mockAnalyzer) Report(_ context.Context, _ decision.Dataset, res domanalysis.Result) ([]byte, error) {
	m.reported = res
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	return []byte("%PDF-"), nil
}

const csvFile = "ID_Decisao,Tribunal,Ementa,Resultado,Data\n" +
	"1,STF,Dano moral em contrato,Procedente,2019-05-01\n" +
	"2,STJ,Habeas corpus,Improcedente,2021-02-03\n" +
	"3,STF,Repercussão geral,Procedente,2020-07-09\n"

func newTestService(repo *mockRepo, an *mockAnalyzer) *Service {
	svc := New(repo, an, 1<<20, nil)
	svc.newID = func() string { return "sess-1" }
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	svc.seed = func() uint64 { return 42 }
	return svc
}

func openTestSession(t *testing.T, svc *Service) domsession.State {
	t.Helper()
	st, err := svc.Open(context.Background(), strings.NewReader(csvFile))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return st
}

// --- Tests ---

func TestOpen_Success(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockAnalyzer{})

	st := openTestSession(t, svc)
	if st.ID() != "sess-1" || st.Source() != domsession.SourceUpload {
		t.Errorf("unexpected session %q/%q", st.ID(), st.Source())
	}
	if st.Dataset().Len() != 3 || !st.Dataset().HasDate() {
		t.Errorf("unexpected dataset: len=%d hasDate=%v", st.Dataset().Len(), st.Dataset().HasDate())
	}
	if _, ok := repo.states["sess-1"]; !ok {
		t.Error("session not saved")
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		max     int64
		wantErr error
	}{
		{"missing columns", "ID_Decisao,Tribunal\n1,STF\n", 0, domain.ErrInvalidSchema},
		{"bad id", "ID_Decisao,Tribunal,Ementa,Resultado\nabc,STF,x,Procedente\n", 0, domain.ErrInvalidDataset},
		{"too large", csvFile, 10, domain.ErrPayloadTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := newTestService(repo, &mockAnalyzer{})
			svc.maxUpload = tt.max

			_, err := svc.Open(context.Background(), strings.NewReader(tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(repo.states) != 0 {
				t.Error("failed load must not create a session")
			}
		})
	}
}

func TestOpen_SaveError(t *testing.T) {
	repo := newMockRepo()
	repo.saveErr = errors.New("store down")
	svc := newTestService(repo, &mockAnalyzer{})

	if _, err := svc.Open(context.Background(), strings.NewReader(csvFile)); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenSample(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAnalyzer{})

	st, err := svc.OpenSample(context.Background(), 0)
	if err != nil {
		t.Fatalf("OpenSample: %v", err)
	}
	if st.Dataset().Len() != 60 || st.Source() != domsession.SourceSample {
		t.Errorf("unexpected sample session: len=%d source=%q", st.Dataset().Len(), st.Source())
	}

	if _, err := svc.OpenSample(context.Background(), 1_000_000); !errors.Is(err, domain.ErrInvalidDataset) {
		t.Errorf("expected ErrInvalidDataset for oversized sample, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAnalyzer{})
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestBrowse_RemembersPosition(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockAnalyzer{})
	openTestSession(t, svc)

	c, err := criteria.New("STF", "", nil, nil, 1)
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	p, err := svc.Browse(context.Background(), "sess-1", c, 9)
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if p.Total != 2 || p.TotalPages != 2 || p.Page != 2 {
		t.Errorf("unexpected page %+v", p)
	}
	// Sorted by date descending: 3 (2020) before 1 (2019).
	if len(p.Items) != 1 || p.Items[0].ID() != 1 {
		t.Errorf("unexpected items %v", p.Items)
	}

	st := repo.states["sess-1"]
	if st.Page() != 2 || st.Criteria().Court() != "STF" {
		t.Errorf("position not saved: page=%d court=%q", st.Page(), st.Criteria().Court())
	}
}

func TestDecision(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAnalyzer{})
	openTestSession(t, svc)

	d, err := svc.Decision(context.Background(), "sess-1", 2)
	if err != nil {
		t.Fatalf("Decision: %v", err)
	}
	if d.Court() != "STJ" {
		t.Errorf("expected STJ, got %q", d.Court())
	}
	if _, err := svc.Decision(context.Background(), "sess-1", 99); !errors.Is(err, domain.ErrDecisionNotFound) {
		t.Errorf("expected ErrDecisionNotFound, got %v", err)
	}
}

func TestFacets(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAnalyzer{})
	openTestSession(t, svc)

	f, err := svc.Facets(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	if strings.Join(f.Courts, ",") != "STF,STJ" {
		t.Errorf("courts = %v", f.Courts)
	}
	if strings.Join(f.Outcomes, ",") != "Improcedente,Procedente" {
		t.Errorf("outcomes = %v", f.Outcomes)
	}
	if len(f.Years) != 3 || f.Years[0] != 2019 || !f.HasDate {
		t.Errorf("years = %v hasDate = %v", f.Years, f.HasDate)
	}
}

func TestExports_RequireAnalysis(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAnalyzer{})
	openTestSession(t, svc)
	ctx := context.Background()

	exports := map[string]func(context.Context, string) ([]byte, error){
		"matched":   svc.MatchedCSV,
		"frequency": svc.FrequencyCSV,
		"report":    svc.Report,
	}
	for name, fn := range exports {
		t.Run(name, func(t *testing.T) {
			if _, err := fn(ctx, "sess-1"); !errors.Is(err, domain.ErrNoAnalysis) {
				t.Errorf("expected ErrNoAnalysis, got %v", err)
			}
		})
	}
}

func TestAnalyzeAndExport(t *testing.T) {
	repo := newMockRepo()
	an := &mockAnalyzer{result: domanalysis.Result{
		Terms:       []string{"dano moral"},
		Frequencies: []domanalysis.TermCount{{Term: "dano moral", Count: 1}},
		MatchedIDs:  []int64{1},
	}}
	svc := newTestService(repo, an)
	openTestSession(t, svc)
	ctx := context.Background()

	res, err := svc.Analyze(ctx, "sess-1", analysis.Request{Criteria: criteria.Any(), Terms: []string{"dano moral"}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.MatchedIDs) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(an.req.Terms) != 1 {
		t.Error("request not forwarded to the analyzer")
	}
	if _, ok := repo.states["sess-1"].LastAnalysis(); !ok {
		t.Fatal("analysis not stored in session")
	}

	matched, err := svc.MatchedCSV(ctx, "sess-1")
	if err != nil {
		t.Fatalf("MatchedCSV: %v", err)
	}
	want := "ID_Decisao,Tribunal,Resultado,Ementa,Data\n1,STF,Procedente,Dano moral em contrato,2019-05-01\n"
	if string(matched) != want {
		t.Errorf("matched csv = %q, want %q", matched, want)
	}

	freq, err := svc.FrequencyCSV(ctx, "sess-1")
	if err != nil {
		t.Fatalf("FrequencyCSV: %v", err)
	}
	if string(freq) != "Termo,Contagem\ndano moral,1\n" {
		t.Errorf("frequency csv = %q", freq)
	}

	pdf, err := svc.Report(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if string(pdf) != "%PDF-" || len(an.reported.MatchedIDs) != 1 {
		t.Error("report not rendered from the last analysis")
	}
}

func TestReport_Error(t *testing.T) {
	an := &mockAnalyzer{reportErr: errors.New("layout")}
	svc := newTestService(newMockRepo(), an)
	openTestSession(t, svc)
	if _, err := svc.Analyze(context.Background(), "sess-1", analysis.Request{Criteria: criteria.Any()}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := svc.Report(context.Background(), "sess-1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestClose(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockAnalyzer{})
	openTestSession(t, svc)

	if err := svc.Close(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := svc.Close(context.Background(), "sess-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second close, got %v", err)
	}
}
