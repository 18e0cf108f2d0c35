package metrics

import "github.com/prometheus/client_golang/prometheus"

// Summarizer Prometheus metrics.
var (
	SummarizerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ementa",
			Name:      "summarizer_requests_total",
			Help:      "Total number of narrative completion requests",
		},
		[]string{"model", "status"},
	)

	SummarizerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ementa",
			Name:      "summarizer_request_duration_seconds",
			Help:      "Narrative completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	SummarizerTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ementa",
			Name:      "summarizer_tokens_total",
			Help:      "Total completion tokens consumed",
		},
		[]string{"model", "type"}, // "prompt" / "completion"
	)

	SummarizerBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ementa",
			Name:      "summarizer_budget_tokens_remaining",
			Help:      "Remaining summarizer token budget (-1 = unlimited)",
		},
		[]string{"period"},
	)
)

var summarizerMetricsRegistered bool

// RegisterSummarizerMetrics registers summarizer metrics. Must be called once from main.
func RegisterSummarizerMetrics() {
	if summarizerMetricsRegistered {
		return
	}
	prometheus.MustRegister(SummarizerRequestsTotal)
	prometheus.MustRegister(SummarizerRequestDuration)
	prometheus.MustRegister(SummarizerTokensTotal)
	prometheus.MustRegister(SummarizerBudgetTokensRemaining)
	summarizerMetricsRegistered = true
}
