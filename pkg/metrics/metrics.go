package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Content metrics
	ContentDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "econ_notes_content_documents",
			Help: "Documents loaded into the page",
		})
	ContentLoadErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "econ_notes_content_load_errors_total",
			Help: "Content files that failed to decode or validate",
		})

	// Curve metrics
	CurvePoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "econ_notes_curve_points",
			Help:    "Points produced per generated curve series",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		})

	// Chart metrics
	ChartRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "econ_notes_chart_renders_total",
			Help: "Chart renders by chart id and outcome",
		},
		[]string{"chart", "status"},
	)
	ChartRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "econ_notes_chart_render_duration_seconds",
			Help:    "Time to render one chart to SVG",
			Buckets: prometheus.DefBuckets,
		})

	// Page metrics
	PageRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "econ_notes_page_render_duration_seconds",
			Help:    "Time to render the full page",
			Buckets: prometheus.DefBuckets,
		})
	PageBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "econ_notes_page_bytes",
			Help: "Size of the last rendered page",
		})

	// API metrics
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	APIRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
)

func init() {
	// MustRegister panics if registration fails (e.g. duplicate)
	prometheus.MustRegister(
		ContentDocuments, ContentLoadErrors,
		CurvePoints,
		ChartRenders, ChartRenderDuration,
		PageRenderDuration, PageBytes,
		APIRequestDuration, APIRequestTotal,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
