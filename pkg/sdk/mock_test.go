package ementa

import (
	"context"
	"io"

	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
	analysisuc "github.com/kailas-cloud/ementa/internal/usecase/analysis"
	"github.com/kailas-cloud/ementa/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/ementa/internal/usecase/health"
	sessionuc "github.com/kailas-cloud/ementa/internal/usecase/session"
)

// --- sessionUseCase mock ---

type mockSessionUC struct {
	openFn       func(ctx context.Context, r io.Reader) (domsession.State, error)
	openSampleFn func(ctx context.Context, n int) (domsession.State, error)
	getFn        func(ctx context.Context, id string) (domsession.State, error)
	closeFn      func(ctx context.Context, id string) error
	browseFn     func(ctx context.Context, id string, c criteria.Criteria, page int) (filter.Page, error)
	decisionFn   func(ctx context.Context, id string, decisionID int64) (decision.Decision, error)
	facetsFn     func(ctx context.Context, id string) (sessionuc.Facets, error)
	analyzeFn    func(ctx context.Context, id string, req analysisuc.Request) (domanalysis.Result, error)
	exportFn     func(ctx context.Context, kind, id string) ([]byte, error)
}

func (m *mockSessionUC) Open(ctx context.Context, r io.Reader) (domsession.State, error) {
	return m.openFn(ctx, r)
}

func (m *mockSessionUC) OpenSample(ctx context.Context, n int) (domsession.State, error) {
	return m.openSampleFn(ctx, n)
}

func (m *mockSessionUC) Get(ctx context.Context, id string) (domsession.State, error) {
	return m.getFn(ctx, id)
}

func (m *mockSessionUC) Close(ctx context.Context, id string) error {
	return m.closeFn(ctx, id)
}

func (m *mockSessionUC) Browse(
	ctx context.Context, id string, c criteria.Criteria, page int,
) (filter.Page, error) {
	return m.browseFn(ctx, id, c, page)
}

func (m *mockSessionUC) Decision(ctx context.Context, id string, decisionID int64) (decision.Decision, error) {
	return m.decisionFn(ctx, id, decisionID)
}

func (m *mockSessionUC) Facets(ctx context.Context, id string) (sessionuc.Facets, error) {
	return m.facetsFn(ctx, id)
}

func (m *mockSessionUC) Analyze(
	ctx context.Context, id string, req analysisuc.Request,
) (domanalysis.Result, error) {
	return m.analyzeFn(ctx, id, req)
}

func (m *mockSessionUC) MatchedCSV(ctx context.Context, id string) ([]byte, error) {
	return m.exportFn(ctx, "matched", id)
}

func (m *mockSessionUC) FrequencyCSV(ctx context.Context, id string) ([]byte, error) {
	return m.exportFn(ctx, "frequency", id)
}

func (m *mockSessionUC) Report(ctx context.Context, id string) ([]byte, error) {
	return m.exportFn(ctx, "report", id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(sessions sessionUseCase, health healthUseCase) *Client {
	return &Client{
		sessions:  sessions,
		healthSvc: health,
	}
}
