package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dataset and analysis Prometheus metrics.
var (
	DatasetsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ementa",
			Name:      "datasets_loaded_total",
			Help:      "Total number of datasets loaded into sessions",
		},
		[]string{"source"}, // "upload" / "sample"
	)

	DatasetRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ementa",
			Name:      "dataset_records",
			Help:      "Number of records per loaded dataset",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	AnalysisRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ementa",
			Name:      "analysis_runs_total",
			Help:      "Total number of analysis runs",
		},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ementa",
			Name:      "analysis_duration_seconds",
			Help:      "Analysis pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	ReportBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ementa",
			Name:      "report_bytes",
			Help:      "Size of generated PDF reports in bytes",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 8),
		},
	)

	ReportAssetsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ementa",
			Name:      "report_assets_skipped_total",
			Help:      "Report images or narratives left out because they failed to render",
		},
		[]string{"asset"},
	)
)

var analysisMetricsRegistered bool

// RegisterAnalysisMetrics registers dataset and analysis metrics. Must be called once from main.
func RegisterAnalysisMetrics() {
	if analysisMetricsRegistered {
		return
	}
	prometheus.MustRegister(DatasetsLoadedTotal)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(AnalysisRunsTotal)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(ReportBytes)
	prometheus.MustRegister(ReportAssetsSkippedTotal)
	analysisMetricsRegistered = true
}
