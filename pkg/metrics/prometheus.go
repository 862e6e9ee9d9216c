// Package metrics provides Prometheus metrics for the Acumen engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Event pipeline
	eventsApplied   prometheus.Counter
	eventsDuplicate prometheus.Counter
	eventsRejected  *prometheus.CounterVec
	eventsCapped    prometheus.Counter
	xpRequested     prometheus.Counter
	xpGranted       prometheus.Counter
	applyLatency    prometheus.Histogram

	// Recovery and calibration
	recoveryActivities prometheus.Counter
	calibrations       prometheus.Counter

	// State
	profileCount prometheus.Gauge

	// Journal pipeline
	journalQueueDepth prometheus.Gauge
	journalAppends    prometheus.Counter
	journalDropped    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a custom registry so default Go collectors stay out.
var globalManager *Manager                    //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "acumen",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_applied_total",
		Help:      "Training events applied to a skill vector",
	})
	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Duplicate event ids absorbed by the idempotency gate",
	})
	m.eventsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_rejected_total",
		Help:      "Events rejected before state mutation",
	}, []string{"reason"})
	m.eventsCapped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_capped_total",
		Help:      "Events whose granted XP fell short of the requested XP",
	})
	m.xpRequested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "xp_requested_total",
		Help:      "XP requested by routed events before cap enforcement",
	})
	m.xpGranted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "xp_granted_total",
		Help:      "XP granted after cap enforcement",
	})
	m.applyLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "apply_latency_milliseconds",
		Help:      "Latency of the atomic per-event state update",
		Buckets:   m.histogramBuckets,
	})

	m.recoveryActivities = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recovery_activities_total",
		Help:      "Recovery activities (detox/walk) recorded",
	})
	m.calibrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calibrations_total",
		Help:      "Baseline snapshots written",
	})

	m.profileCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profiles",
		Help:      "User profiles tracked in the store",
	})

	m.journalQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "journal_queue_depth",
		Help:      "Events waiting in the analytics journal queue",
	})
	m.journalAppends = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "journal_appends_total",
		Help:      "Events appended to the analytics journal",
	})
	m.journalDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "journal_dropped_total",
		Help:      "Journal entries dropped on queue saturation",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration by endpoint, method and status",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

func RecordEventApplied() {
	if globalManager.enabled {
		globalManager.eventsApplied.Inc()
	}
}

func RecordEventDuplicate() {
	if globalManager.enabled {
		globalManager.eventsDuplicate.Inc()
	}
}

func RecordEventRejected(reason string) {
	if globalManager.enabled {
		globalManager.eventsRejected.WithLabelValues(reason).Inc()
	}
}

func RecordEventCapped() {
	if globalManager.enabled {
		globalManager.eventsCapped.Inc()
	}
}

func RecordXP(requested, granted float64) {
	if globalManager.enabled {
		globalManager.xpRequested.Add(requested)
		globalManager.xpGranted.Add(granted)
	}
}

func RecordApplyLatency(ms float64) {
	if globalManager.enabled {
		globalManager.applyLatency.Observe(ms)
	}
}

func RecordRecoveryActivity() {
	if globalManager.enabled {
		globalManager.recoveryActivities.Inc()
	}
}

func RecordCalibration() {
	if globalManager.enabled {
		globalManager.calibrations.Inc()
	}
}

func UpdateProfileCount(n int) {
	if globalManager.enabled {
		globalManager.profileCount.Set(float64(n))
	}
}

func UpdateJournalQueueDepth(n int) {
	if globalManager.enabled {
		globalManager.journalQueueDepth.Set(float64(n))
	}
}

func RecordJournalAppend() {
	if globalManager.enabled {
		globalManager.journalAppends.Inc()
	}
}

func RecordJournalDropped() {
	if globalManager.enabled {
		globalManager.journalDropped.Inc()
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}
