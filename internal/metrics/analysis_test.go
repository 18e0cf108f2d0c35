package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterAnalysisMetrics_Idempotent(t *testing.T) {
	RegisterAnalysisMetrics()
	RegisterAnalysisMetrics()

	before := testutil.ToFloat64(DatasetsLoadedTotal.WithLabelValues("sample"))
	DatasetsLoadedTotal.WithLabelValues("sample").Inc()
	if got := testutil.ToFloat64(DatasetsLoadedTotal.WithLabelValues("sample")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}

func TestReportAssetsSkipped(t *testing.T) {
	before := testutil.ToFloat64(ReportAssetsSkippedTotal.WithLabelValues("wordcloud"))
	ReportAssetsSkippedTotal.WithLabelValues("wordcloud").Inc()
	if got := testutil.ToFloat64(ReportAssetsSkippedTotal.WithLabelValues("wordcloud")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}
