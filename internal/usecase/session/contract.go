package session

import (
	"context"

	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
	"github.com/kailas-cloud/ementa/internal/usecase/analysis"
)

// Repository defines the storage contract for sessions.
type Repository interface {
	Get(ctx context.Context, id string) (domsession.State, error)
	Save(ctx context.Context, s domsession.State) error
	Delete(ctx context.Context, id string) error
}

// Analyzer runs analyses and renders reports.
type Analyzer interface {
	Run(ds decision.Dataset, req analysis.Request) domanalysis.Result
	Report(ctx context.Context, ds decision.Dataset, res domanalysis.Result) ([]byte, error)
}
