package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "msp_imports_total",
		Help: "Total file imports by detected format and outcome",
	}, []string{"format", "outcome"})
	ImportedShapesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "msp_imported_shapes_total",
		Help: "Total shapes accepted through the import pipeline",
	})
	ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "msp_exports_total",
		Help: "Total project exports by format",
	}, []string{"format"})
	ReportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "msp_reports_total",
		Help: "Total generated reports",
	})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "msp_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
)

func init() {
	prometheus.MustRegister(ImportsTotal)
	prometheus.MustRegister(ImportedShapesTotal)
	prometheus.MustRegister(ExportsTotal)
	prometheus.MustRegister(ReportsTotal)
	prometheus.MustRegister(RequestDurationMs)
}

// Handler exposes the registered metrics for Prometheus scraping;
// mounted at /metrics by the router.
func Handler() http.Handler { return promhttp.Handler() }
