// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alphaweb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alphaweb_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alphaweb_db_query_duration_seconds",
			Help:    "Duration of repository queries in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_db_query_errors_total",
			Help: "Total number of failed repository queries",
		},
		[]string{"operation", "table"},
	)

	// Authentication and authorization
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_auth_attempts_total",
			Help: "Login attempts by principal kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_authz_decisions_total",
			Help: "Permission checks by permission and result",
		},
		[]string{"permission", "result"},
	)

	OTPIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_otp_issued_total",
			Help: "One-time codes issued by purpose",
		},
		[]string{"purpose"},
	)

	OTPVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_otp_verifications_total",
			Help: "One-time code verifications by purpose and result",
		},
		[]string{"purpose", "result"},
	)

	MailSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_mail_sent_total",
			Help: "Outbound emails by template and result",
		},
		[]string{"template", "result"},
	)

	// TransactPay
	TransactPayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_transactpay_requests_total",
			Help: "TransactPay API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	TransactPayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alphaweb_transactpay_request_duration_seconds",
			Help:    "TransactPay API latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "alphaweb_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_events_published_total",
			Help: "Domain events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_events_handled_total",
			Help: "Domain events handled by handler and result",
		},
		[]string{"handler", "result"},
	)

	EventWALEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_event_wal_entries_total",
			Help: "Event write-ahead log entries by outcome (written, confirmed, retried, expired, dropped)",
		},
		[]string{"outcome"},
	)

	// Audit
	AuditEventsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alphaweb_audit_events_written_total",
			Help: "Admin log entries persisted",
		},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alphaweb_audit_events_dropped_total",
			Help: "Admin log entries dropped because the buffer was full",
		},
	)

	// Scheduler
	SchedulerJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_scheduler_job_runs_total",
			Help: "Background job runs by job and result",
		},
		[]string{"job", "result"},
	)

	SchedulerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alphaweb_scheduler_job_duration_seconds",
			Help:    "Background job duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	// Backups
	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_backups_total",
			Help: "Database backups by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	BackupSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alphaweb_backup_last_size_bytes",
			Help: "Size of the most recent completed backup archive",
		},
	)

	// Stats cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alphaweb_stats_cache_lookups_total",
			Help: "Dashboard stats cache lookups by result",
		},
		[]string{"result"},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alphaweb_websocket_clients",
			Help: "Connected admin activity feed clients",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alphaweb_websocket_messages_sent_total",
			Help: "Messages broadcast to websocket clients",
		},
	)
)

// RecordDBQuery records a repository query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records a completed HTTP request. route is the chi route
// pattern, never the raw path.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAuthAttempt records a login outcome: success, invalid, locked or error.
func RecordAuthAttempt(kind, outcome string) {
	AuthAttempts.WithLabelValues(kind, outcome).Inc()
}

// Recorder adapts package functions to interfaces declared by consumers.
type Recorder struct{}

// RecordAuthzDecision implements authz.DecisionRecorder.
func (Recorder) RecordAuthzDecision(permission string, allowed bool) {
	AuthzDecisions.WithLabelValues(permission, result(allowed)).Inc()
}

func RecordOTPIssued(purpose string) {
	OTPIssued.WithLabelValues(purpose).Inc()
}

func RecordOTPVerification(purpose string, ok bool) {
	r := "invalid"
	if ok {
		r = "valid"
	}
	OTPVerified.WithLabelValues(purpose, r).Inc()
}

func RecordMail(template string, err error) {
	MailSent.WithLabelValues(template, errResult(err)).Inc()
}

// RecordTransactPay records one provider call.
func RecordTransactPay(operation string, duration time.Duration, err error) {
	TransactPayRequests.WithLabelValues(operation, errResult(err)).Inc()
	TransactPayDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCircuitBreakerTransition updates the state gauge and counts the transition.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, errResult(err)).Inc()
}

func RecordEventHandled(handler string, err error) {
	EventsHandled.WithLabelValues(handler, errResult(err)).Inc()
}

// RecordJobRun records a scheduler job execution. Skipped overlapping runs
// use result "skipped".
func RecordJobRun(job string, duration time.Duration, err error) {
	SchedulerJobRuns.WithLabelValues(job, errResult(err)).Inc()
	SchedulerJobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func RecordWALEntry(outcome string) {
	EventWALEntries.WithLabelValues(outcome).Inc()
}

// RecordBackup records a backup attempt; size is only kept for successes.
func RecordBackup(trigger string, size int64, err error) {
	BackupsTotal.WithLabelValues(trigger, errResult(err)).Inc()
	if err == nil {
		BackupSizeBytes.Set(float64(size))
	}
}

func RecordJobSkipped(job string) {
	SchedulerJobRuns.WithLabelValues(job, "skipped").Inc()
}

func result(ok bool) string {
	if ok {
		return "allowed"
	}
	return "denied"
}

func errResult(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
