package usage

import domusage "github.com/kailas-cloud/ementa/internal/domain/usage"

// BudgetReader provides read-only access to summarizer token budget state.
type BudgetReader interface {
	Limit(p domusage.Period) int64
	Used(p domusage.Period) int64
	Requests(p domusage.Period) int64
}
