package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/ementa/internal/domain/usage"
	"github.com/kailas-cloud/ementa/internal/domain/usage/budget"
)

// Service handles summarizer usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil when the summarizer is disabled.
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds the usage report of the current period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	start, end := period.Bounds(s.now())

	var limit, used, requests int64
	if s.br != nil {
		limit = s.br.Limit(period)
		used = s.br.Used(period)
		requests = s.br.Requests(period)
	}
	return domusage.NewReport(period, start, end, requests, budget.New(limit, used, end))
}
