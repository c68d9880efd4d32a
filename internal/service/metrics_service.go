package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the
// reminder pipeline and HTTP surface.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	remindersSent      *prometheus.CounterVec
	dispatchFailures   prometheus.Counter
	remindersSkipped   *prometheus.CounterVec
	runDuration        prometheus.Histogram
	studentsProcessed  prometheus.Counter
	trackingWriteFails prometheus.Counter
}

// NewMetricsService registers the core collectors.
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

	remindersSent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Reminders dispatched successfully, by category",
	}, []string{"category"})

	dispatchFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_dispatch_failures_total",
		Help: "Reminder dispatch attempts that failed",
	})

	remindersSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_skipped_total",
		Help: "Obligations excluded from dispatch, by reason",
	}, []string{"reason"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reminder_run_duration_seconds",
		Help:    "Wall-clock duration of full reminder runs",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	studentsProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_students_processed_total",
		Help: "Students evaluated by reminder runs",
	})

	trackingWriteFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_tracking_write_failures_total",
		Help: "Tracking upserts that failed after a successful dispatch",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, remindersSent, dispatchFailures,
		remindersSkipped, runDuration, studentsProcessed, trackingWriteFails, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		remindersSent:      remindersSent,
		dispatchFailures:   dispatchFailures,
		remindersSkipped:   remindersSkipped,
		runDuration:        runDuration,
		studentsProcessed:  studentsProcessed,
		trackingWriteFails: trackingWriteFails,
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

// RecordReminderSent counts a successful dispatch.
func (m *MetricsService) RecordReminderSent(category models.ReminderCategory) {
	if m == nil {
		return
	}
	m.remindersSent.WithLabelValues(string(category)).Inc()
}

// RecordDispatchFailure counts a failed dispatch attempt.
func (m *MetricsService) RecordDispatchFailure() {
	if m == nil {
		return
	}
	m.dispatchFailures.Inc()
}

// RecordSkip counts an obligation excluded from dispatch.
func (m *MetricsService) RecordSkip(reason string) {
	if m == nil {
		return
	}
	m.remindersSkipped.WithLabelValues(reason).Inc()
}

// RecordTrackingWriteFailure counts a tracking upsert failure.
func (m *MetricsService) RecordTrackingWriteFailure() {
	if m == nil {
		return
	}
	m.trackingWriteFails.Inc()
}

// ObserveRun records a completed run.
func (m *MetricsService) ObserveRun(duration time.Duration, students int) {
	if m == nil {
		return
	}
	m.runDuration.Observe(duration.Seconds())
	m.studentsProcessed.Add(float64(students))
}
