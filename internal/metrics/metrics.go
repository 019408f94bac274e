package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SetupPrometheus creates a private registry with the runtime collectors attached.
func SetupPrometheus() *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return promRegistry
}

type Manager struct {
	CounterRequests          *prometheus.CounterVec
	CounterUploads           *prometheus.CounterVec
	CounterSectionFailures   *prometheus.CounterVec
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("hardcase", "test", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "route", "status"}),
		CounterUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "uploads_total",
			Help:      "Uploaded objects by folder and result",
		}, []string{"folder", "result"}),
		CounterSectionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "overview_section_failures_total",
			Help:      "Overview sections that failed to load",
		}, []string{"section"}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// UploadResult records one uploaded object (nil-safe).
func (m *Manager) UploadResult(folder string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CounterUploads.WithLabelValues(folder, result).Inc()
}

// SectionFailed records a failed overview section (nil-safe).
func (m *Manager) SectionFailed(section string) {
	if m == nil {
		return
	}
	m.CounterSectionFailures.WithLabelValues(section).Inc()
}
