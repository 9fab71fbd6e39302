// Package metrics provides Prometheus metrics for the runway contest engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus collectors for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Contest lifecycle
	trendsAnnounced   prometheus.Counter
	trendsEnded       prometheus.Counter
	competitionsOpen  prometheus.Counter
	competitionsEnded prometheus.Counter
	activeTrend       prometheus.Gauge
	activeCompetition prometheus.Gauge

	// Participation
	submissionsTotal prometheus.Counter
	entriesTotal     prometheus.Counter
	ratingsTotal     prometheus.Counter
	votesTotal       prometheus.Counter
	votesRejected    *prometheus.CounterVec
	pointsAwarded    prometheus.Counter
	trackedUsers     prometheus.Gauge

	// Collaborators and persistence
	advisorLatency prometheus.Histogram
	storeSaves     *prometheus.CounterVec
	storeSaveError prometheus.Counter
	saveLatency    prometheus.Histogram

	// Operator HTTP surface
	httpRequests *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "runway",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
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

	m.trendsAnnounced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trends_announced_total",
		Help:      "Total number of trend challenges announced",
	})

	m.trendsEnded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trends_ended_total",
		Help:      "Total number of trend challenges archived",
	})

	m.competitionsOpen = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "competitions_started_total",
		Help:      "Total number of competitions started",
	})

	m.competitionsEnded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "competitions_ended_total",
		Help:      "Total number of competitions archived",
	})

	m.activeTrend = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_trend",
		Help:      "1 when a trend challenge is active, 0 otherwise",
	})

	m.activeCompetition = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_competition",
		Help:      "1 when a competition is active, 0 otherwise",
	})

	m.submissionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trend_submissions_total",
		Help:      "Total number of outfit submissions to trend challenges",
	})

	m.entriesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "competition_entries_total",
		Help:      "Total number of competition entries",
	})

	m.ratingsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ratings_total",
		Help:      "Total number of submission ratings applied",
	})

	m.votesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_total",
		Help:      "Total number of accepted competition votes",
	})

	m.votesRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "votes_rejected_total",
			Help:      "Total number of rejected votes by reason",
		},
		[]string{"reason"},
	)

	m.pointsAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points_awarded_total",
		Help:      "Total points credited across all award paths",
	})

	m.trackedUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_users",
		Help:      "Number of user accounts in the points ledger",
	})

	m.advisorLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "advisor_latency_milliseconds",
		Help:      "Histogram of advisor (AI collaborator) call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeSaves = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_saves_total",
			Help:      "Total number of aggregate snapshot saves by aggregate",
		},
		[]string{"aggregate"},
	)

	m.storeSaveError = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_errors_total",
		Help:      "Total number of failed aggregate snapshot saves",
	})

	m.saveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_latency_milliseconds",
		Help:      "Aggregate snapshot save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of operator HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "status_code"},
	)
}

// RecordTrendAnnounced increments the announced-trends counter.
func RecordTrendAnnounced() {
	globalManager.trendsAnnounced.Inc()
}

// RecordTrendEnded increments the archived-trends counter.
func RecordTrendEnded() {
	globalManager.trendsEnded.Inc()
}

// RecordCompetitionStarted increments the started-competitions counter.
func RecordCompetitionStarted() {
	globalManager.competitionsOpen.Inc()
}

// RecordCompetitionEnded increments the archived-competitions counter.
func RecordCompetitionEnded() {
	globalManager.competitionsEnded.Inc()
}

// UpdateActiveTrend sets the active-trend gauge.
func UpdateActiveTrend(active bool) {
	if active {
		globalManager.activeTrend.Set(1)
		return
	}
	globalManager.activeTrend.Set(0)
}

// UpdateActiveCompetition sets the active-competition gauge.
func UpdateActiveCompetition(active bool) {
	if active {
		globalManager.activeCompetition.Set(1)
		return
	}
	globalManager.activeCompetition.Set(0)
}

// RecordSubmission increments the trend submission counter.
func RecordSubmission() {
	globalManager.submissionsTotal.Inc()
}

// RecordEntry increments the competition entry counter.
func RecordEntry() {
	globalManager.entriesTotal.Inc()
}

// RecordRating increments the ratings counter.
func RecordRating() {
	globalManager.ratingsTotal.Inc()
}

// RecordVote increments the accepted-votes counter.
func RecordVote() {
	globalManager.votesTotal.Inc()
}

// RecordVoteRejected increments the rejected-votes counter for a reason.
func RecordVoteRejected(reason string) {
	globalManager.votesRejected.WithLabelValues(reason).Inc()
}

// RecordPointsAwarded adds credited points to the running total.
func RecordPointsAwarded(points int) {
	globalManager.pointsAwarded.Add(float64(points))
}

// UpdateTrackedUsers sets the ledger account gauge.
func UpdateTrackedUsers(count int) {
	globalManager.trackedUsers.Set(float64(count))
}

// RecordAdvisorLatency records advisor call latency in milliseconds.
func RecordAdvisorLatency(latencyMs float64) {
	globalManager.advisorLatency.Observe(latencyMs)
}

// RecordStoreSave increments the save counter for an aggregate.
func RecordStoreSave(aggregate string) {
	globalManager.storeSaves.WithLabelValues(aggregate).Inc()
}

// RecordStoreSaveError increments the failed-save counter.
func RecordStoreSaveError() {
	globalManager.storeSaveError.Inc()
}

// RecordStoreSaveLatency records snapshot save latency in milliseconds.
func RecordStoreSaveLatency(latencyMs float64) {
	globalManager.saveLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an operator HTTP request.
func RecordHTTPRequest(endpoint, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, statusCode).Inc()
}

// GetRegistry returns the custom Prometheus registry used by the engine.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
