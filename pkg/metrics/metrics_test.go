package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestChartRendersByStatus(t *testing.T) {
	ok := ChartRenders.WithLabelValues("metrics-test", "ok")
	before := testutil.ToFloat64(ok)
	ok.Inc()
	ok.Inc()
	if got := testutil.ToFloat64(ok) - before; got != 2 {
		t.Errorf("ok renders delta = %v; want 2", got)
	}
	if got := testutil.ToFloat64(ChartRenders.WithLabelValues("metrics-test", "error")); got != 0 {
		t.Errorf("error renders = %v; want 0", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	ContentDocuments.Set(2)
	CurvePoints.Observe(21)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{
		"econ_notes_content_documents 2",
		"econ_notes_curve_points_bucket",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}
