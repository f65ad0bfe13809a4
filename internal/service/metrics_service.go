package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// card pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	importedRecords prometheus.Counter
	exportedCards   prometheus.Counter
	exportFailures  prometheus.Counter
	renderDuration  prometheus.Histogram
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	importedRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "membership_records_imported_total",
		Help: "Total membership records accepted from workbook imports",
	})

	exportedCards := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "membership_cards_exported_total",
		Help: "Total membership card PDFs written",
	})

	exportFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "membership_card_export_failures_total",
		Help: "Total card export runs halted by a failure",
	})

	renderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "membership_card_render_seconds",
		Help:    "Duration of a single card render and PDF assembly",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, importedRecords, exportedCards, exportFailures, renderDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		importedRecords: importedRecords,
		exportedCards:   exportedCards,
		exportFailures:  exportFailures,
		renderDuration:  renderDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// AddImportedRecords counts records accepted from a workbook import.
func (m *MetricsService) AddImportedRecords(n int) {
	if m == nil {
		return
	}
	m.importedRecords.Add(float64(n))
}

// CountCardExported counts one finished card PDF.
func (m *MetricsService) CountCardExported() {
	if m == nil {
		return
	}
	m.exportedCards.Inc()
}

// CountExportFailure counts one halted export run.
func (m *MetricsService) CountExportFailure() {
	if m == nil {
		return
	}
	m.exportFailures.Inc()
}

// ObserveRender records the duration of one render and PDF assembly.
func (m *MetricsService) ObserveRender(duration time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(duration.Seconds())
}
